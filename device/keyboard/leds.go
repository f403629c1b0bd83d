package keyboard

import (
	"io"
	"strings"
)

// LED bits of the host's output report.
const (
	LEDNumLock    = 0x01
	LEDCapsLock   = 0x02
	LEDScrollLock = 0x04
	LEDCompose    = 0x08
	LEDKana       = 0x10
)

// LEDState is the lock-light state the host reports back.
type LEDState struct {
	NumLock    bool
	CapsLock   bool
	ScrollLock bool
	Compose    bool
	Kana       bool
}

// UnmarshalBinary decodes the 1-byte LED bitmask.
func (st *LEDState) UnmarshalBinary(data []byte) error {
	if len(data) < 1 {
		return io.ErrUnexpectedEOF
	}
	b := data[0]
	*st = LEDState{
		NumLock:    b&LEDNumLock != 0,
		CapsLock:   b&LEDCapsLock != 0,
		ScrollLock: b&LEDScrollLock != 0,
		Compose:    b&LEDCompose != 0,
		Kana:       b&LEDKana != 0,
	}
	return nil
}

func (st LEDState) String() string {
	var on []string
	for _, l := range []struct {
		set  bool
		name string
	}{
		{st.NumLock, "num"},
		{st.CapsLock, "caps"},
		{st.ScrollLock, "scroll"},
		{st.Compose, "compose"},
		{st.Kana, "kana"},
	} {
		if l.set {
			on = append(on, l.name)
		}
	}
	if len(on) == 0 {
		return "none"
	}
	return strings.Join(on, ",")
}
