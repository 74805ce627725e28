package platform

import "markestedt/clipslots/keys"

// libuiohook virtual key codes (scan code set 1) for the keys the chord
// engine uses, translated to the Windows VK codes the classifier knows
var uiohookVK = map[uint16]uint32{
	0x002A: 0xA0, // VC_SHIFT_L
	0x001D: 0xA2, // VC_CONTROL_L
	0x0038: 0xA4, // VC_ALT_L
	0x000B: 0x30, // VC_0
	0x0002: 0x31,
	0x0003: 0x32,
	0x0004: 0x33,
	0x0005: 0x34,
	0x0006: 0x35,
	0x0007: 0x36,
	0x0008: 0x37,
	0x0009: 0x38,
	0x000A: 0x39, // VC_9
}

// uiohookEvent converts a libuiohook key code into a KeyEvent. Keys the
// chord engine never looks at are dropped.
func uiohookEvent(keycode uint16, pressed bool) (KeyEvent, bool) {
	vk, ok := uiohookVK[keycode]
	if !ok {
		return KeyEvent{}, false
	}
	evt := KeyEvent{Type: Released, Key: keys.VKey(vk)}
	if pressed {
		evt.Type = Pressed
	}
	return evt, true
}
