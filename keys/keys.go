package keys

import "fmt"

// Kind tells which family a canonical key belongs to
type Kind int

const (
	Unclassified Kind = iota
	Modifier
	Digit
)

// Mod identifies one of the three modifiers the chords are built from
type Mod int

const (
	Ctrl Mod = iota
	Shift
	Alt
)

func (m Mod) String() string {
	switch m {
	case Ctrl:
		return "ctrl"
	case Shift:
		return "shift"
	case Alt:
		return "alt"
	default:
		return fmt.Sprintf("mod(%d)", int(m))
	}
}

// Key is the normalized form of a raw key event
type Key struct {
	Kind  Kind
	Mod   Mod // valid when Kind == Modifier
	Digit int // valid when Kind == Digit, 0..9
}

// ModifierKey returns the canonical key for modifier m
func ModifierKey(m Mod) Key {
	return Key{Kind: Modifier, Mod: m}
}

// DigitKey returns the canonical key for digit d
func DigitKey(d int) Key {
	return Key{Kind: Digit, Digit: d}
}

func (k Key) String() string {
	switch k.Kind {
	case Modifier:
		return k.Mod.String()
	case Digit:
		return fmt.Sprintf("digit(%d)", k.Digit)
	default:
		return "unclassified"
	}
}

// RawKey is a key as delivered by the platform hook. VK is the virtual key
// code (0 if unknown). Char is the character the event produced, if the
// source reports one.
type RawKey struct {
	VK      uint32
	Char    rune
	HasChar bool
}

// VKey builds a RawKey from a virtual key code only
func VKey(vk uint32) RawKey {
	return RawKey{VK: vk}
}

// CharKey builds a RawKey from a character only
func CharKey(r rune) RawKey {
	return RawKey{Char: r, HasChar: true}
}

func (r RawKey) String() string {
	if r.HasChar {
		return fmt.Sprintf("%q", r.Char)
	}
	return fmt.Sprintf("<%d>", r.VK)
}
