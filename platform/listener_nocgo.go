//go:build !windows && !cgo

package platform

import (
	"context"
	"fmt"
	"runtime"
)

// NewKeyListener returns a listener that fails to start. Off Windows the
// keyboard hook needs cgo.
func NewKeyListener() KeyListener {
	return unsupportedListener{}
}

type unsupportedListener struct{}

func (unsupportedListener) Listen(ctx context.Context) (<-chan KeyEvent, error) {
	return nil, fmt.Errorf("global keyboard hook on %s without cgo: %w", runtime.GOOS, ErrUnsupported)
}
