// Package keyboard models a HID keyboard with full N-key rollover: usage codes,
// the held-key bitmap report and a sink that flushes it to a report writer.
package keyboard

import (
	"io"
)

// ReportSize is the length of a report produced by BuildReport.
const ReportSize = 34

// Report is the set of held keys plus modifiers.
// Internally uses a 256-bit bitmap for N-key rollover support.
type Report struct {
	Modifiers uint8     // bit 0-7: LCtrl, LShift, LAlt, LGui, RCtrl, RShift, RAlt, RGui
	KeyBitmap [32]uint8 // 256 bits for HID usage codes 0x00-0xFF
}

// Add marks k as held. It reports whether the set changed.
func (r *Report) Add(k Keycode) bool {
	if k == KeyNone || r.Has(k) {
		return false
	}
	r.KeyBitmap[k/8] |= 1 << (k % 8)
	return true
}

// Remove marks k as released. It reports whether the set changed.
func (r *Report) Remove(k Keycode) bool {
	if !r.Has(k) {
		return false
	}
	r.KeyBitmap[k/8] &^= 1 << (k % 8)
	return true
}

// Has reports whether k is held.
func (r *Report) Has(k Keycode) bool {
	return r.KeyBitmap[k/8]&(1<<(k%8)) != 0
}

// Clear releases every key and modifier.
func (r *Report) Clear() {
	*r = Report{}
}

// Keys returns the held keys in ascending usage order.
func (r *Report) Keys() []Keycode {
	var keys []Keycode
	for i := 0; i < 256; i++ {
		if r.KeyBitmap[i/8]&(1<<uint(i%8)) != 0 {
			keys = append(keys, Keycode(i))
		}
	}
	return keys
}

// Len returns the number of held keys.
func (r *Report) Len() int {
	n := 0
	for _, b := range r.KeyBitmap {
		for ; b != 0; b &= b - 1 {
			n++
		}
	}
	return n
}

// BuildReport encodes the report into the 34-byte HID keyboard input report.
//
// Report layout (34 bytes):
//
//	Byte 0: Modifiers (8 bits)
//	Byte 1: Reserved (0x00)
//	Bytes 2-33: Key bitmap (256 bits, 32 bytes)
func (r Report) BuildReport() []byte {
	b := make([]byte, ReportSize)
	b[0] = r.Modifiers
	copy(b[2:], r.KeyBitmap[:])
	return b
}

// MarshalBinary encodes the report to the variable-length stream format.
//
// Wire format:
//
//	Byte 0: Modifiers
//	Byte 1: Key count
//	Bytes 2+: Key codes (HID usage codes of held keys)
func (r *Report) MarshalBinary() ([]byte, error) {
	keys := r.Keys()
	b := make([]byte, 2+len(keys))
	b[0] = r.Modifiers
	b[1] = uint8(len(keys))
	for i, k := range keys {
		b[2+i] = uint8(k)
	}
	return b, nil
}

// UnmarshalBinary decodes the variable-length stream format.
func (r *Report) UnmarshalBinary(data []byte) error {
	if len(data) < 2 {
		return io.ErrUnexpectedEOF
	}
	count := int(data[1])
	if len(data) < 2+count {
		return io.ErrUnexpectedEOF
	}
	r.Clear()
	r.Modifiers = data[0]
	for _, k := range data[2 : 2+count] {
		r.Add(Keycode(k))
	}
	return nil
}
