package keyboard

import (
	"fmt"
	"strings"
)

// KeyName maps HID usage codes to the names accepted by ParseKey.
var KeyName = map[Keycode]string{
	KeyA: "A", KeyB: "B", KeyC: "C", KeyD: "D", KeyE: "E", KeyF: "F", KeyG: "G",
	KeyH: "H", KeyI: "I", KeyJ: "J", KeyK: "K", KeyL: "L", KeyM: "M", KeyN: "N",
	KeyO: "O", KeyP: "P", KeyQ: "Q", KeyR: "R", KeyS: "S", KeyT: "T", KeyU: "U",
	KeyV: "V", KeyW: "W", KeyX: "X", KeyY: "Y", KeyZ: "Z",

	Key1: "1", Key2: "2", Key3: "3", Key4: "4", Key5: "5",
	Key6: "6", Key7: "7", Key8: "8", Key9: "9", Key0: "0",

	KeyEnter:     "Enter",
	KeyEscape:    "Escape",
	KeyBackspace: "Backspace",
	KeyTab:       "Tab",
	KeySpace:     "Space",
	KeyMinus:     "Minus",
	KeyEqual:     "Equal",
	KeyComma:     "Comma",
	KeyPeriod:    "Period",
	KeySlash:     "Slash",

	KeyF1: "F1", KeyF2: "F2", KeyF3: "F3", KeyF4: "F4", KeyF5: "F5", KeyF6: "F6",
	KeyF7: "F7", KeyF8: "F8", KeyF9: "F9", KeyF10: "F10", KeyF11: "F11", KeyF12: "F12",

	KeyInsert:   "Insert",
	KeyHome:     "Home",
	KeyPageUp:   "PageUp",
	KeyDelete:   "Delete",
	KeyEnd:      "End",
	KeyPageDown: "PageDown",

	KeyRight: "Right",
	KeyLeft:  "Left",
	KeyDown:  "Down",
	KeyUp:    "Up",

	KeyNumLock:    "NumLock",
	KeyKpSlash:    "Kp/",
	KeyKpAsterisk: "Kp*",
	KeyKpMinus:    "Kp-",
	KeyKpPlus:     "Kp+",
	KeyKpEnter:    "KpEnter",
	KeyKp1:        "Kp1",
	KeyKp2:        "Kp2",
	KeyKp3:        "Kp3",
	KeyKp4:        "Kp4",
	KeyKp5:        "Kp5",
	KeyKp6:        "Kp6",
	KeyKp7:        "Kp7",
	KeyKp8:        "Kp8",
	KeyKp9:        "Kp9",
	KeyKp0:        "Kp0",
	KeyKpDot:      "Kp.",

	KeyApplication: "Application",
	KeyMenu:        "Menu",
	KeyMute:        "Mute",
	KeyVolumeUp:    "VolumeUp",
	KeyVolumeDown:  "VolumeDown",
}

var keyByName = func() map[string]Keycode {
	m := make(map[string]Keycode, len(KeyName))
	for code, name := range KeyName {
		m[strings.ToLower(name)] = code
	}
	return m
}()

// String returns the key name, or the hex usage code for unnamed keys.
func (k Keycode) String() string {
	if name, ok := KeyName[k]; ok {
		return name
	}
	return fmt.Sprintf("0x%02x", uint8(k))
}

// ParseKey resolves a key name (case-insensitive) or a hex usage code such as "0x2c".
func ParseKey(s string) (Keycode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if code, ok := keyByName[name]; ok {
		return code, nil
	}
	var v uint8
	if _, err := fmt.Sscanf(name, "0x%x", &v); err == nil && v != 0 {
		return Keycode(v), nil
	}
	return KeyNone, fmt.Errorf("unknown key %q", s)
}

// UnmarshalText lets Keycode be used directly as a config/flag value.
func (k *Keycode) UnmarshalText(b []byte) error {
	code, err := ParseKey(string(b))
	if err != nil {
		return err
	}
	*k = code
	return nil
}

// MarshalText renders the key by name.
func (k Keycode) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// CharToKey maps the unshifted ASCII characters a status readout may contain.
var CharToKey = map[byte]Keycode{
	'a': KeyA, 'b': KeyB, 'c': KeyC, 'd': KeyD, 'e': KeyE, 'f': KeyF, 'g': KeyG,
	'h': KeyH, 'i': KeyI, 'j': KeyJ, 'k': KeyK, 'l': KeyL, 'm': KeyM, 'n': KeyN,
	'o': KeyO, 'p': KeyP, 'q': KeyQ, 'r': KeyR, 's': KeyS, 't': KeyT, 'u': KeyU,
	'v': KeyV, 'w': KeyW, 'x': KeyX, 'y': KeyY, 'z': KeyZ,

	'1': Key1, '2': Key2, '3': Key3, '4': Key4, '5': Key5,
	'6': Key6, '7': Key7, '8': Key8, '9': Key9, '0': Key0,

	'-': KeyMinus,
	'=': KeyEqual,
	',': KeyComma,
	'.': KeyPeriod,
	'/': KeySlash,

	' ':  KeySpace,
	'\n': KeyEnter,
	'\t': KeyTab,
}

// CharToHID converts an ASCII character to its HID usage code.
// Returns KeyNone if the character cannot be typed without modifiers.
func CharToHID(c byte) Keycode {
	if code, ok := CharToKey[c]; ok {
		return code
	}
	return KeyNone
}
