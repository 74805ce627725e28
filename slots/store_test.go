package slots

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markestedt/clipslots/postprocess"
)

// fakeBridge simulates the OS clipboard. InjectCopy moves the text the
// "focused application" has selected onto the clipboard.
type fakeBridge struct {
	mu        sync.Mutex
	selection string
	clipboard string
	copies    int
	pastes    int
	writes    []string
	copyErr   error
}

func (b *fakeBridge) InjectCopy() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.copyErr != nil {
		return b.copyErr
	}
	b.copies++
	b.clipboard = b.selection
	return nil
}

func (b *fakeBridge) InjectPaste() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pastes++
	return nil
}

func (b *fakeBridge) ReadClipboard() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.clipboard, nil
}

func (b *fakeBridge) WriteClipboard(text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clipboard = text
	b.writes = append(b.writes, text)
	return nil
}

func newTestStore(t *testing.T, bridge Bridge) *Store {
	t.Helper()
	s, err := Open(Options{
		Path:     filepath.Join(t.TempDir(), DefaultFileName),
		Bridge:   bridge,
		Pipeline: postprocess.DefaultPipeline(),
	})
	require.NoError(t, err)
	return s
}

func TestCopyStoresAndPersists(t *testing.T) {
	bridge := &fakeBridge{selection: "hello world"}
	s := newTestStore(t, bridge)

	stored, err := s.Copy(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, stored)

	got, err := s.Get(3)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "", bridge.clipboard, "clipboard is cleared after copy")

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "CB3\nhello world\n", string(data))
}

func TestCopyEmptyClipboardChangesNothing(t *testing.T) {
	bridge := &fakeBridge{selection: "first"}
	s := newTestStore(t, bridge)

	_, err := s.Copy(context.Background(), 1)
	require.NoError(t, err)
	require.NoError(t, os.Remove(s.Path()))

	bridge.selection = ""
	stored, err := s.Copy(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, stored)

	got, _ := s.Get(1)
	assert.Equal(t, "first", got)
	_, err = os.Stat(s.Path())
	assert.True(t, errors.Is(err, os.ErrNotExist), "no persistence write")
}

func TestCopyStoresWhitespaceOnly(t *testing.T) {
	bridge := &fakeBridge{selection: "   "}
	s := newTestStore(t, bridge)

	stored, err := s.Copy(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, stored)

	got, err := s.Get(5)
	require.NoError(t, err)
	assert.Equal(t, "   ", got)
	assert.Equal(t, "", bridge.clipboard, "clipboard is cleared after copy")

	reloaded, err := Open(Options{Path: s.Path()})
	require.NoError(t, err)
	got, err = reloaded.Get(5)
	require.NoError(t, err)
	assert.Equal(t, "   ", got)
}

func TestCopyLeadingNewlineChangesNothing(t *testing.T) {
	bridge := &fakeBridge{selection: "\nsecond line"}
	s := newTestStore(t, bridge)

	stored, err := s.Copy(context.Background(), 6)
	require.NoError(t, err)
	assert.False(t, stored)

	got, _ := s.Get(6)
	assert.Empty(t, got)
}

func TestCopyRewritesInvite(t *testing.T) {
	bridge := &fakeBridge{selection: "Join\nMeeting ID: 123 456 7890\nPasscode: 998877\n"}
	s := newTestStore(t, bridge)

	_, err := s.Copy(context.Background(), 2)
	require.NoError(t, err)

	got, _ := s.Get(2)
	assert.Equal(t, "Meeting ID: 1234567890 Password: 998877", got)
}

func TestCopyKeepsFirstLine(t *testing.T) {
	bridge := &fakeBridge{selection: "line one\nline two"}
	s := newTestStore(t, bridge)

	_, err := s.Copy(context.Background(), 4)
	require.NoError(t, err)

	got, _ := s.Get(4)
	assert.Equal(t, "line one", got)
}

func TestCopyBridgeFailure(t *testing.T) {
	bridge := &fakeBridge{copyErr: errors.New("boom")}
	s := newTestStore(t, bridge)

	stored, err := s.Copy(context.Background(), 1)
	assert.Error(t, err)
	assert.False(t, stored)
}

func TestPaste(t *testing.T) {
	bridge := &fakeBridge{selection: "payload"}
	s := newTestStore(t, bridge)
	_, err := s.Copy(context.Background(), 5)
	require.NoError(t, err)

	require.NoError(t, s.Paste(5))
	assert.Equal(t, "payload", bridge.clipboard)
	assert.Equal(t, 1, bridge.pastes)
}

func TestPasteEmptySlot(t *testing.T) {
	bridge := &fakeBridge{clipboard: "untouched"}
	s := newTestStore(t, bridge)

	var changes []Change
	s.Subscribe(func(c Change) { changes = append(changes, c) })

	err := s.Paste(7)
	assert.ErrorIs(t, err, ErrEmptySlot)
	assert.Equal(t, "untouched", bridge.clipboard)
	assert.Equal(t, 0, bridge.pastes)
	assert.Empty(t, bridge.writes)

	require.Len(t, changes, 1)
	assert.Equal(t, PasteEmpty, changes[0].Kind)
}

func TestInvalidIndex(t *testing.T) {
	s := newTestStore(t, &fakeBridge{selection: "x"})

	for _, idx := range []int{0, 11, -1} {
		_, err := s.Copy(context.Background(), idx)
		assert.ErrorIs(t, err, ErrInvalidSlot)
		assert.ErrorIs(t, s.Paste(idx), ErrInvalidSlot)
		_, err = s.Reset(idx)
		assert.ErrorIs(t, err, ErrInvalidSlot)
	}
}

func TestResetIdempotent(t *testing.T) {
	bridge := &fakeBridge{selection: "value"}
	s := newTestStore(t, bridge)
	_, err := s.Copy(context.Background(), 6)
	require.NoError(t, err)

	cleared, err := s.Reset(6)
	require.NoError(t, err)
	assert.True(t, cleared)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Empty(t, data)

	require.NoError(t, os.Remove(s.Path()))
	cleared, err = s.Reset(6)
	require.NoError(t, err)
	assert.False(t, cleared)
	_, err = os.Stat(s.Path())
	assert.True(t, errors.Is(err, os.ErrNotExist), "second reset must not write")
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)

	s := NewStore(Options{Path: path})
	values := map[int]string{
		1:  "alpha",
		4:  "  padded  ",
		7:  "CB3",
		10: "last slot",
	}
	s.mu.Lock()
	for i, v := range values {
		s.table[i] = v
	}
	s.mu.Unlock()
	require.NoError(t, s.Save())

	fresh, err := Open(Options{Path: path})
	require.NoError(t, err)
	for _, slot := range fresh.Snapshot() {
		assert.Equal(t, values[slot.Index], slot.Content, "slot %d", slot.Index)
	}
}

func TestLoadMissingFile(t *testing.T) {
	s, err := Open(Options{Path: filepath.Join(t.TempDir(), "nope", DefaultFileName)})
	require.NoError(t, err)
	for _, slot := range s.Snapshot() {
		assert.True(t, slot.Empty())
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected map[int]string
	}{
		{
			name:     "empty",
			input:    "",
			expected: map[int]string{},
		},
		{
			name:     "two slots",
			input:    "CB1\none\nCB10\nten\n",
			expected: map[int]string{1: "one", 10: "ten"},
		},
		{
			name:     "crlf line endings",
			input:    "CB2\r\ntwo\r\n",
			expected: map[int]string{2: "two"},
		},
		{
			name:     "out of range index skipped",
			input:    "CB11\neleven\nCB3\nthree\n",
			expected: map[int]string{3: "three"},
		},
		{
			name:     "zero index skipped",
			input:    "CB0\nzero\nCB4\nfour\n",
			expected: map[int]string{4: "four"},
		},
		{
			name:     "garbage line skipped",
			input:    "garbage\nCB5\nfive\n",
			expected: map[int]string{5: "five"},
		},
		{
			name:     "non numeric key skipped",
			input:    "CBx\nCB6\nsix\n",
			expected: map[int]string{6: "six"},
		},
		{
			name:     "key without content at end",
			input:    "CB1\none\nCB2",
			expected: map[int]string{1: "one"},
		},
		{
			name:     "no trailing newline",
			input:    "CB8\neight",
			expected: map[int]string{8: "eight"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestEncodeSkipsEmpty(t *testing.T) {
	table := make([]string, NumSlots+1)
	table[2] = "two"
	table[9] = "nine"

	var sb strings.Builder
	require.NoError(t, Encode(&sb, table))
	assert.Equal(t, "CB2\ntwo\nCB9\nnine\n", sb.String())
}

func TestSubscribersSeeChanges(t *testing.T) {
	bridge := &fakeBridge{selection: "abc"}
	s := newTestStore(t, bridge)

	var kinds []ChangeKind
	s.Subscribe(func(c Change) { kinds = append(kinds, c.Kind) })

	_, err := s.Copy(context.Background(), 1)
	require.NoError(t, err)
	require.NoError(t, s.Paste(1))
	_, err = s.Reset(1)
	require.NoError(t, err)

	assert.Equal(t, []ChangeKind{Copied, Pasted, Reset}, kinds)
}

func TestConcurrentSnapshotAndReset(t *testing.T) {
	bridge := &fakeBridge{selection: "concurrent"}
	s := newTestStore(t, bridge)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			idx := i%NumSlots + 1
			_, _ = s.Copy(context.Background(), idx)
			_, _ = s.Reset(idx)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			for _, slot := range s.Snapshot() {
				if !slot.Empty() {
					assert.Equal(t, "concurrent", slot.Content)
				}
			}
		}
	}()
	wg.Wait()
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "CB1", Label(1))
	assert.Equal(t, "CB0", Label(10))
}
