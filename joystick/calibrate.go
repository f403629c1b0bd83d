package joystick

import (
	"fmt"
	"time"
)

// Profile holds the rest position of each axis. It is measured once at
// startup and never recalculated.
type Profile struct {
	XCenter int `json:"xCenter" yaml:"xCenter"`
	YCenter int `json:"yCenter" yaml:"yCenter"`
}

func (p Profile) String() string {
	return fmt.Sprintf("x=%d y=%d", p.XCenter, p.YCenter)
}

// Calibrator measures a Profile. The stick must be left alone while
// Calibrate runs; nothing checks that it was.
type Calibrator struct {
	Reader     AxisReader
	Clock      Clock
	Settle     time.Duration // pause before the first sample
	Samples    int           // readings averaged per axis
	Oversample int           // raw sub-samples averaged per reading
}

// Calibrate waits for the settle delay and returns the mean of Samples
// readings per axis.
func (c *Calibrator) Calibrate() Profile {
	clock := c.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	clock.Sleep(c.Settle)

	n := max(c.Samples, 1)
	var sumX, sumY int
	for i := 0; i < n; i++ {
		x, y := ReadAveraged(c.Reader, c.Oversample)
		sumX += x
		sumY += y
	}
	return Profile{XCenter: sumX / n, YCenter: sumY / n}
}

// ReadAveraged returns the mean of n back-to-back axis readings.
func ReadAveraged(r AxisReader, n int) (x, y int) {
	n = max(n, 1)
	var sumX, sumY int
	for i := 0; i < n; i++ {
		sx, sy := r.ReadAxes()
		sumX += sx
		sumY += sy
	}
	return sumX / n, sumY / n
}
