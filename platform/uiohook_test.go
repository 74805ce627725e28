package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"markestedt/clipslots/keys"
)

func TestUiohookEvent(t *testing.T) {
	tests := []struct {
		name    string
		keycode uint16
		pressed bool
		want    keys.Key
		evtType EventType
	}{
		{name: "left ctrl press", keycode: 0x001D, pressed: true, want: keys.ModifierKey(keys.Ctrl), evtType: Pressed},
		{name: "left shift release", keycode: 0x002A, want: keys.ModifierKey(keys.Shift), evtType: Released},
		{name: "left alt", keycode: 0x0038, pressed: true, want: keys.ModifierKey(keys.Alt), evtType: Pressed},
		{name: "digit 1", keycode: 0x0002, pressed: true, want: keys.DigitKey(1), evtType: Pressed},
		{name: "digit 9", keycode: 0x000A, pressed: true, want: keys.DigitKey(9), evtType: Pressed},
		{name: "digit 0", keycode: 0x000B, want: keys.DigitKey(0), evtType: Released},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt, ok := uiohookEvent(tt.keycode, tt.pressed)
			assert.True(t, ok)
			assert.Equal(t, tt.evtType, evt.Type)
			assert.Equal(t, tt.want, keys.Classify(evt.Key))
		})
	}
}

func TestUiohookEventIgnoresOtherKeys(t *testing.T) {
	for _, keycode := range []uint16{
		0x001E, // VC_A
		0x0036, // VC_SHIFT_R
		0x0E1D, // VC_CONTROL_R
		0x0E38, // VC_ALT_R
	} {
		_, ok := uiohookEvent(keycode, true)
		assert.False(t, ok, "keycode %#x", keycode)
	}
}
