package keyboard

// Keycode is a HID usage code on the Keyboard/Keypad usage page.
type Keycode uint8

// Modifier key bitmasks
const (
	ModLeftCtrl   = 0x01
	ModLeftShift  = 0x02
	ModLeftAlt    = 0x04
	ModLeftGUI    = 0x08
	ModRightCtrl  = 0x10
	ModRightShift = 0x20
	ModRightAlt   = 0x40
	ModRightGUI   = 0x80
)

// HID usage codes (USB HID Keyboard/Keypad usage page)
const (
	KeyNone Keycode = 0x00

	// Letters A-Z
	KeyA Keycode = 0x04
	KeyB Keycode = 0x05
	KeyC Keycode = 0x06
	KeyD Keycode = 0x07
	KeyE Keycode = 0x08
	KeyF Keycode = 0x09
	KeyG Keycode = 0x0A
	KeyH Keycode = 0x0B
	KeyI Keycode = 0x0C
	KeyJ Keycode = 0x0D
	KeyK Keycode = 0x0E
	KeyL Keycode = 0x0F
	KeyM Keycode = 0x10
	KeyN Keycode = 0x11
	KeyO Keycode = 0x12
	KeyP Keycode = 0x13
	KeyQ Keycode = 0x14
	KeyR Keycode = 0x15
	KeyS Keycode = 0x16
	KeyT Keycode = 0x17
	KeyU Keycode = 0x18
	KeyV Keycode = 0x19
	KeyW Keycode = 0x1A
	KeyX Keycode = 0x1B
	KeyY Keycode = 0x1C
	KeyZ Keycode = 0x1D

	// Numbers 1-0 (top row)
	Key1 Keycode = 0x1E
	Key2 Keycode = 0x1F
	Key3 Keycode = 0x20
	Key4 Keycode = 0x21
	Key5 Keycode = 0x22
	Key6 Keycode = 0x23
	Key7 Keycode = 0x24
	Key8 Keycode = 0x25
	Key9 Keycode = 0x26
	Key0 Keycode = 0x27

	KeyEnter     Keycode = 0x28
	KeyEscape    Keycode = 0x29
	KeyBackspace Keycode = 0x2A
	KeyTab       Keycode = 0x2B
	KeySpace     Keycode = 0x2C
	KeyMinus     Keycode = 0x2D
	KeyEqual     Keycode = 0x2E
	KeyComma     Keycode = 0x36
	KeyPeriod    Keycode = 0x37
	KeySlash     Keycode = 0x38

	// Function keys
	KeyF1  Keycode = 0x3A
	KeyF2  Keycode = 0x3B
	KeyF3  Keycode = 0x3C
	KeyF4  Keycode = 0x3D
	KeyF5  Keycode = 0x3E
	KeyF6  Keycode = 0x3F
	KeyF7  Keycode = 0x40
	KeyF8  Keycode = 0x41
	KeyF9  Keycode = 0x42
	KeyF10 Keycode = 0x43
	KeyF11 Keycode = 0x44
	KeyF12 Keycode = 0x45

	KeyInsert   Keycode = 0x49
	KeyHome     Keycode = 0x4A
	KeyPageUp   Keycode = 0x4B
	KeyDelete   Keycode = 0x4C
	KeyEnd      Keycode = 0x4D
	KeyPageDown Keycode = 0x4E

	// Arrow keys
	KeyRight Keycode = 0x4F
	KeyLeft  Keycode = 0x50
	KeyDown  Keycode = 0x51
	KeyUp    Keycode = 0x52

	// Keypad
	KeyNumLock    Keycode = 0x53
	KeyKpSlash    Keycode = 0x54
	KeyKpAsterisk Keycode = 0x55
	KeyKpMinus    Keycode = 0x56
	KeyKpPlus     Keycode = 0x57
	KeyKpEnter    Keycode = 0x58
	KeyKp1        Keycode = 0x59
	KeyKp2        Keycode = 0x5A
	KeyKp3        Keycode = 0x5B
	KeyKp4        Keycode = 0x5C
	KeyKp5        Keycode = 0x5D
	KeyKp6        Keycode = 0x5E
	KeyKp7        Keycode = 0x5F
	KeyKp8        Keycode = 0x60
	KeyKp9        Keycode = 0x61
	KeyKp0        Keycode = 0x62
	KeyKpDot      Keycode = 0x63

	KeyApplication Keycode = 0x65 // Windows Menu key
	KeyMenu        Keycode = 0x76
	KeyMute        Keycode = 0x7F
	KeyVolumeUp    Keycode = 0x80
	KeyVolumeDown  Keycode = 0x81
)
