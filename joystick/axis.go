package joystick

// Thresholds are the distances from the calibrated center at which a
// direction engages and releases. Release must not exceed Engage; equal
// values give a plain single-threshold comparator.
type Thresholds struct {
	Engage  int
	Release int
}

// UpdateAxis evaluates the positive direction of one axis.
//
// A direction that is not engaged engages once raw passes center+Engage. An
// engaged direction stays engaged until raw falls back to center+Release or
// below.
func UpdateAxis(raw, center int, engaged bool, t Thresholds) bool {
	if engaged {
		return raw > center+t.Release
	}
	return raw > center+t.Engage
}

// Axes turns raw axis samples into direction booleans.
type Axes struct {
	Thresholds Thresholds
	InvertX    bool // right is toward lower raw values
	InvertY    bool // up is toward higher raw values
}

// Update recomputes the four directions of prev from the raw samples. Fire
// and Autofire are carried over untouched.
func (a Axes) Update(prev State, x, y int, p Profile) State {
	next := prev
	next.Right, next.Left = a.pair(x, p.XCenter, prev.Right, prev.Left, a.InvertX)
	next.Down, next.Up = a.pair(y, p.YCenter, prev.Down, prev.Up, a.InvertY)
	return next
}

// pair evaluates both directions of an axis. The negative direction is the
// positive one mirrored around the center.
func (a Axes) pair(raw, center int, posPrev, negPrev, invert bool) (pos, neg bool) {
	mirrored := 2*center - raw
	if invert {
		raw, mirrored = mirrored, raw
	}
	pos = UpdateAxis(raw, center, posPrev, a.Thresholds)
	neg = UpdateAxis(mirrored, center, negPrev, a.Thresholds)
	return pos, neg
}
