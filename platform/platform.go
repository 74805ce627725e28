// Package platform holds the operating-system side of the clipboard bridge:
// the global keyboard listener, clipboard access and keystroke injection.
package platform

import (
	"context"
	"errors"

	"markestedt/clipslots/keys"
)

// ErrUnsupported is returned by capabilities this platform does not provide
var ErrUnsupported = errors.New("not supported on this platform")

// EventType represents the type of key event
type EventType int

const (
	Pressed EventType = iota
	Released
)

// KeyEvent is one raw key event from the global keyboard listener
type KeyEvent struct {
	Type EventType
	Key  keys.RawKey
}

// KeyListener delivers every key press and release on the machine. Events
// are delivered serially on the returned channel until ctx is cancelled.
type KeyListener interface {
	Listen(ctx context.Context) (<-chan KeyEvent, error)
}

// Clipboard provides clipboard access
type Clipboard interface {
	Get() (string, error)
	Set(text string) error
}

// Keystroker injects the system copy and paste shortcuts
type Keystroker interface {
	Copy() error
	Paste() error
}
