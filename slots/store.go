// Package slots holds the ten clipboard slots and keeps them on disk.
package slots

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"markestedt/clipslots/postprocess"
)

// NumSlots is the number of clipboard slots, addressed 1..NumSlots
const NumSlots = 10

var (
	// ErrInvalidSlot is returned for an index outside 1..NumSlots
	ErrInvalidSlot = errors.New("invalid slot index")
	// ErrEmptySlot is returned when pasting from a slot with no value
	ErrEmptySlot = errors.New("no value stored")
)

// Bridge is the operating-system clipboard capability the store drives
type Bridge interface {
	InjectCopy() error
	InjectPaste() error
	ReadClipboard() (string, error)
	WriteClipboard(text string) error
}

// Slot is one entry of a snapshot
type Slot struct {
	Index   int    `json:"index"`
	Content string `json:"content"`
}

// Empty reports whether the slot holds no value
func (s Slot) Empty() bool {
	return s.Content == ""
}

// Label returns the display name of the slot. Slot 10 sits on the 0 key.
func Label(index int) string {
	return fmt.Sprintf("CB%d", index%10)
}

// ChangeKind describes what happened to a slot
type ChangeKind int

const (
	Copied ChangeKind = iota
	Pasted
	PasteEmpty
	Reset
)

func (k ChangeKind) String() string {
	switch k {
	case Copied:
		return "copy"
	case Pasted:
		return "paste"
	case PasteEmpty:
		return "paste_empty"
	case Reset:
		return "reset"
	default:
		return "unknown"
	}
}

// Change is sent to subscribers after every completed slot action
type Change struct {
	Kind    ChangeKind
	Slot    int
	Content string
	Time    time.Time
}

// Options configures a Store
type Options struct {
	// Path of the slot file
	Path string
	// Bridge is required for Copy and Paste only
	Bridge Bridge
	// Pipeline is applied to captured text before it is stored
	Pipeline *postprocess.Pipeline
	// SettleDelay is how long to wait between injecting Ctrl+C and reading
	// the clipboard
	SettleDelay time.Duration
}

// Store is the mutex-guarded slot table. All content changes and file
// writes happen under the lock, and a mutating call returns only after the
// file has been written.
type Store struct {
	mu    sync.Mutex
	table [NumSlots + 1]string // index 0 unused

	path     string
	bridge   Bridge
	pipeline *postprocess.Pipeline
	settle   time.Duration

	subsMu sync.RWMutex
	subs   []func(Change)
}

// NewStore creates an empty store. Call Load to read the slot file.
func NewStore(opts Options) *Store {
	return &Store{
		path:     opts.Path,
		bridge:   opts.Bridge,
		pipeline: opts.Pipeline,
		settle:   opts.SettleDelay,
	}
}

// Open creates a store and loads its slot file
func Open(opts Options) (*Store, error) {
	s := NewStore(opts)
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the slot file path
func (s *Store) Path() string {
	return s.path
}

// Subscribe registers fn to be called after every completed action. fn runs
// on the goroutine that performed the action and must not call back into
// the store's mutating methods.
func (s *Store) Subscribe(fn func(Change)) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) notify(kind ChangeKind, index int, content string) {
	ch := Change{Kind: kind, Slot: index, Content: content, Time: time.Now()}

	s.subsMu.RLock()
	subs := s.subs
	s.subsMu.RUnlock()

	for _, fn := range subs {
		fn(ch)
	}
}

func validIndex(index int) error {
	if index < 1 || index > NumSlots {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, index)
	}
	return nil
}

// Load replaces the table with the slot file contents. A missing file
// leaves every slot empty.
func (s *Store) Load() error {
	entries, err := readFile(s.path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.table {
		s.table[i] = ""
	}
	for idx, content := range entries {
		s.table[idx] = content
	}

	slog.Debug("Slots loaded", "path", s.path, "occupied", len(entries))
	return nil
}

// Save writes every non-empty slot to the slot file
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	return writeFile(s.path, s.table[:])
}

// Get returns the content of one slot
func (s *Store) Get(index int) (string, error) {
	if err := validIndex(index); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table[index], nil
}

// Snapshot returns a copy of all slots in index order
func (s *Store) Snapshot() []Slot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Slot, NumSlots)
	for i := 1; i <= NumSlots; i++ {
		out[i-1] = Slot{Index: i, Content: s.table[i]}
	}
	return out
}

// Copy injects the copy shortcut, captures the clipboard and stores the
// processed text in slot index. The system clipboard is cleared afterwards.
// An empty capture changes nothing and reports false.
func (s *Store) Copy(ctx context.Context, index int) (bool, error) {
	if err := validIndex(index); err != nil {
		return false, err
	}
	if s.bridge == nil {
		return false, errors.New("no clipboard bridge configured")
	}

	if err := s.bridge.InjectCopy(); err != nil {
		return false, fmt.Errorf("failed to inject copy: %w", err)
	}

	if s.settle > 0 {
		select {
		case <-time.After(s.settle):
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}

	text, err := s.bridge.ReadClipboard()
	if err != nil {
		return false, fmt.Errorf("failed to read clipboard: %w", err)
	}
	if text == "" {
		slog.Info("Clipboard empty after copy, slot unchanged", "slot", index)
		return false, nil
	}

	text, err = s.pipeline.Process(ctx, text)
	if err != nil {
		return false, fmt.Errorf("failed to process copied text: %w", err)
	}
	if text == "" {
		slog.Info("Copied text is empty after processing, slot unchanged", "slot", index)
		return false, nil
	}

	s.mu.Lock()
	s.table[index] = text
	err = s.saveLocked()
	s.mu.Unlock()
	if err != nil {
		return true, fmt.Errorf("failed to persist slot %d: %w", index, err)
	}

	if err := s.bridge.WriteClipboard(""); err != nil {
		slog.Warn("Failed to clear clipboard", "error", err)
	}

	s.notify(Copied, index, text)
	return true, nil
}

// Paste puts the content of slot index on the system clipboard and injects
// the paste shortcut. An empty slot returns ErrEmptySlot without touching
// the clipboard.
func (s *Store) Paste(index int) error {
	content, err := s.Get(index)
	if err != nil {
		return err
	}
	if content == "" {
		s.notify(PasteEmpty, index, "")
		return fmt.Errorf("%w at %s", ErrEmptySlot, Label(index))
	}
	if s.bridge == nil {
		return errors.New("no clipboard bridge configured")
	}

	if err := s.bridge.WriteClipboard(content); err != nil {
		return fmt.Errorf("failed to set clipboard: %w", err)
	}
	if err := s.bridge.InjectPaste(); err != nil {
		return fmt.Errorf("failed to inject paste: %w", err)
	}

	s.notify(Pasted, index, content)
	return nil
}

// Reset clears slot index. Clearing an empty slot does nothing and reports
// false.
func (s *Store) Reset(index int) (bool, error) {
	if err := validIndex(index); err != nil {
		return false, err
	}

	s.mu.Lock()
	if s.table[index] == "" {
		s.mu.Unlock()
		return false, nil
	}
	s.table[index] = ""
	err := s.saveLocked()
	s.mu.Unlock()
	if err != nil {
		return true, fmt.Errorf("failed to persist slot %d: %w", index, err)
	}

	s.notify(Reset, index, "")
	return true, nil
}
