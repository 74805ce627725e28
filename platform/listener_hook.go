//go:build !windows && cgo

package platform

import (
	"context"
	"log/slog"

	hook "github.com/robotn/gohook"
)

// HookListener implements KeyListener on macOS and Linux through
// libuiohook. Only one can listen per process.
type HookListener struct{}

// NewKeyListener creates a libuiohook keyboard listener
func NewKeyListener() KeyListener {
	return &HookListener{}
}

// Listen starts the hook and delivers key events until ctx is cancelled
func (l *HookListener) Listen(ctx context.Context) (<-chan KeyEvent, error) {
	raw := hook.Start()
	events := make(chan KeyEvent, 256)

	go func() {
		defer close(events)
		defer hook.End()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-raw:
				if !ok {
					return
				}

				// KeyHold is libuiohook's press; KeyDown is the typed character
				var pressed bool
				switch ev.Kind {
				case hook.KeyHold:
					pressed = true
				case hook.KeyUp:
				default:
					continue
				}

				evt, ok := uiohookEvent(ev.Keycode, pressed)
				if !ok {
					continue
				}
				select {
				case events <- evt:
				default:
					slog.Warn("Key event dropped, listener backlog full", "keycode", ev.Keycode)
				}
			}
		}
	}()

	return events, nil
}
