package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		raw      RawKey
		expected Key
	}{
		{name: "left ctrl", raw: VKey(0xA2), expected: ModifierKey(Ctrl)},
		{name: "generic ctrl", raw: VKey(0x11), expected: ModifierKey(Ctrl)},
		{name: "left shift", raw: VKey(0xA0), expected: ModifierKey(Shift)},
		{name: "left alt", raw: VKey(0xA4), expected: ModifierKey(Alt)},
		{name: "right ctrl ignored", raw: VKey(0xA3), expected: Key{}},
		{name: "right alt ignored", raw: VKey(0xA5), expected: Key{}},
		{name: "vk 1", raw: VKey(0x31), expected: DigitKey(1)},
		{name: "vk 0", raw: VKey(0x30), expected: DigitKey(0)},
		{name: "vk 9", raw: VKey(0x39), expected: DigitKey(9)},
		{name: "printable 7", raw: CharKey('7'), expected: DigitKey(7)},
		{name: "NUL quirk is 2", raw: CharKey(0x00), expected: DigitKey(2)},
		{name: "RS quirk is 6", raw: CharKey(0x1E), expected: DigitKey(6)},
		{name: "letter c", raw: VKey(0x43), expected: Key{}},
		{name: "printable letter", raw: CharKey('a'), expected: Key{}},
		{name: "empty raw", raw: RawKey{}, expected: Key{}},
		{name: "vk wins over char", raw: RawKey{VK: 0x33, Char: '5', HasChar: true}, expected: DigitKey(3)},
		{name: "unknown vk falls back to char", raw: RawKey{VK: 0xFF, Char: '4', HasChar: true}, expected: DigitKey(4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.raw))
		})
	}
}

func TestClassifyDuplicateRepresentationsAgree(t *testing.T) {
	for d := 0; d <= 9; d++ {
		byVK := Classify(VKey(uint32(0x30 + d)))
		byChar := Classify(CharKey(rune('0' + d)))
		assert.Equal(t, byVK, byChar, "digit %d", d)
	}
	assert.Equal(t, Classify(VKey(0x32)), Classify(CharKey(0x00)))
	assert.Equal(t, Classify(VKey(0x36)), Classify(CharKey(0x1E)))
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "ctrl", ModifierKey(Ctrl).String())
	assert.Equal(t, "digit(4)", DigitKey(4).String())
	assert.Equal(t, "unclassified", Key{}.String())
	assert.Equal(t, "<49>", VKey(49).String())
}
