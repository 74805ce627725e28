//go:build windows

package platform

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"

	"markestedt/clipslots/keys"
)

var (
	setWindowsHookEx    = user32.NewProc("SetWindowsHookExW")
	callNextHookEx      = user32.NewProc("CallNextHookEx")
	unhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	getMessage          = user32.NewProc("GetMessageW")
	postThreadMessage   = user32.NewProc("PostThreadMessageW")
)

const (
	whKeyboardLL = 13
	wmQuit       = 0x0012
	wmKeydown    = 0x0100
	wmKeyup      = 0x0101
	wmSyskeydown = 0x0104
	wmSyskeyup   = 0x0105

	llkhfInjected = 0x10
)

type kbdllhookstruct struct {
	vkCode      uint32
	scanCode    uint32
	flags       uint32
	time        uint32
	dwExtraInfo uintptr
}

type msg struct {
	hwnd    uintptr
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      struct{ x, y int32 }
}

// WindowsListener implements KeyListener with a low-level keyboard hook
type WindowsListener struct {
	mu       sync.Mutex
	events   chan KeyEvent
	hook     uintptr
	threadID uint32
}

// NewKeyListener creates a new Windows keyboard listener
func NewKeyListener() KeyListener {
	return &WindowsListener{}
}

// Listen installs the hook and starts delivering key events
func (l *WindowsListener) Listen(ctx context.Context) (<-chan KeyEvent, error) {
	l.mu.Lock()
	l.events = make(chan KeyEvent, 256)
	l.mu.Unlock()

	// Start hook in a goroutine
	errCh := make(chan error, 1)
	go l.runHook(errCh)

	// Wait for hook to be installed or error
	select {
	case err := <-errCh:
		if err != nil {
			return nil, err
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	// Stop the message loop when the context ends
	go func() {
		<-ctx.Done()
		l.mu.Lock()
		tid := l.threadID
		l.mu.Unlock()
		postThreadMessage.Call(uintptr(tid), wmQuit, 0, 0)
	}()

	return l.events, nil
}

func (l *WindowsListener) runHook(errCh chan<- error) {
	// The hook is bound to the installing thread's message loop
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	hookProc := func(nCode int32, wParam uintptr, lParam uintptr) uintptr {
		if nCode >= 0 {
			kbInfo := (*kbdllhookstruct)(unsafe.Pointer(lParam))
			l.handleKeyEvent(wParam, kbInfo)
		}
		r, _, _ := callNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
		return r
	}

	hook, _, err := setWindowsHookEx.Call(
		whKeyboardLL,
		windows.NewCallback(hookProc),
		0,
		0,
	)

	if hook == 0 {
		errCh <- fmt.Errorf("SetWindowsHookEx failed: %w", err)
		return
	}

	l.mu.Lock()
	l.hook = hook
	l.threadID = windows.GetCurrentThreadId()
	l.mu.Unlock()

	errCh <- nil

	// Message loop; GetMessage returns 0 on WM_QUIT
	var m msg
	for {
		r, _, _ := getMessage.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if int32(r) <= 0 {
			break
		}
	}

	unhookWindowsHookEx.Call(hook)
	close(l.events)
}

func (l *WindowsListener) handleKeyEvent(wParam uintptr, kbInfo *kbdllhookstruct) {
	// Skip our own SendInput keystrokes
	if kbInfo.flags&llkhfInjected != 0 {
		return
	}

	var evt KeyEvent
	switch wParam {
	case wmKeydown, wmSyskeydown:
		evt.Type = Pressed
	case wmKeyup, wmSyskeyup:
		evt.Type = Released
	default:
		return
	}
	evt.Key = keys.VKey(kbInfo.vkCode)

	// The hook must return quickly, so never block on a slow consumer
	select {
	case l.events <- evt:
	default:
		slog.Warn("Key event dropped, listener backlog full", "vk", kbInfo.vkCode)
	}
}
