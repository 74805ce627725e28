package keys

// Virtual key codes for the keys the chords use
const (
	vkShift    = 0x10
	vkControl  = 0x11
	vkMenu     = 0x12
	vkLShift   = 0xA0
	vkLControl = 0xA2
	vkLMenu    = 0xA4
)

// vkTable maps virtual key codes to canonical keys.
//
// Only the left-hand modifiers are mapped. AltGr is delivered as
// LCtrl+RAlt, so mapping the right Alt would turn AltGr+digit into a paste.
// The generic codes are mapped for sources that do not report sidedness.
var vkTable = map[uint32]Key{
	vkControl:  ModifierKey(Ctrl),
	vkLControl: ModifierKey(Ctrl),
	vkShift:    ModifierKey(Shift),
	vkLShift:   ModifierKey(Shift),
	vkMenu:     ModifierKey(Alt),
	vkLMenu:    ModifierKey(Alt),

	// number row, "<48>".."<57>"
	0x30: DigitKey(0),
	0x31: DigitKey(1),
	0x32: DigitKey(2),
	0x33: DigitKey(3),
	0x34: DigitKey(4),
	0x35: DigitKey(5),
	0x36: DigitKey(6),
	0x37: DigitKey(7),
	0x38: DigitKey(8),
	0x39: DigitKey(9),
}

// charTable maps characters to digits.
//
// Two entries are platform quirks: with Ctrl+Shift held, some input contexts
// report the 2 key as NUL and the 6 key as RS (the C0 controls those chords
// produce on a US layout) instead of a virtual key code. They duplicate the
// 0x32 and 0x36 entries above and are kept because events have been observed
// to arrive in that form.
var charTable = map[rune]int{
	'0': 0,
	'1': 1,
	'2': 2,
	'3': 3,
	'4': 4,
	'5': 5,
	'6': 6,
	'7': 7,
	'8': 8,
	'9': 9,

	0x00: 2,
	0x1E: 6,
}

// Classify maps a raw key event to its canonical key. The virtual key code
// takes precedence over the character when both are present.
func Classify(raw RawKey) Key {
	if raw.VK != 0 {
		if k, ok := vkTable[raw.VK]; ok {
			return k
		}
	}
	if raw.HasChar {
		if d, ok := charTable[raw.Char]; ok {
			return DigitKey(d)
		}
	}
	return Key{Kind: Unclassified}
}
