package platform

// Bridge combines clipboard access and keystroke injection into the
// capability the slot store drives
type Bridge struct {
	clipboard Clipboard
	keys      Keystroker
}

// NewBridge creates a bridge over the given clipboard and keystroke injector
func NewBridge(clipboard Clipboard, keys Keystroker) *Bridge {
	return &Bridge{clipboard: clipboard, keys: keys}
}

// NewSystemBridge creates a bridge over this platform's clipboard and
// keystroke injector
func NewSystemBridge() *Bridge {
	return NewBridge(NewClipboard(), NewKeystroker())
}

func (b *Bridge) InjectCopy() error                { return b.keys.Copy() }
func (b *Bridge) InjectPaste() error               { return b.keys.Paste() }
func (b *Bridge) ReadClipboard() (string, error)   { return b.clipboard.Get() }
func (b *Bridge) WriteClipboard(text string) error { return b.clipboard.Set(text) }
