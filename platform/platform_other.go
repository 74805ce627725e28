//go:build !windows

package platform

import (
	"fmt"
	"runtime"

	"github.com/atotto/clipboard"
)

// NewKeystroker returns a keystroke injector that always fails
func NewKeystroker() Keystroker {
	return unsupportedKeystroker{}
}

type unsupportedKeystroker struct{}

func (unsupportedKeystroker) Copy() error {
	return fmt.Errorf("keystroke injection on %s: %w", runtime.GOOS, ErrUnsupported)
}

func (unsupportedKeystroker) Paste() error {
	return fmt.Errorf("keystroke injection on %s: %w", runtime.GOOS, ErrUnsupported)
}

// SystemClipboard uses xclip/xsel/wl-clipboard or pbcopy/pbpaste through
// atotto/clipboard
type SystemClipboard struct{}

// NewClipboard creates a clipboard accessor for this platform
func NewClipboard() Clipboard {
	return &SystemClipboard{}
}

// Get retrieves text from the clipboard
func (c *SystemClipboard) Get() (string, error) {
	if clipboard.Unsupported {
		return "", fmt.Errorf("clipboard on %s: %w", runtime.GOOS, ErrUnsupported)
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	return text, nil
}

// Set sets text to the clipboard
func (c *SystemClipboard) Set(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard on %s: %w", runtime.GOOS, ErrUnsupported)
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}
