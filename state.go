package barview

import (
	"math"
	"strconv"
)

// State is the continuous position of the bar between its anchors. Whole
// values are anchors, fractions are partial interpolation between the two
// neighbouring anchors.
type State float64

// Anchor states.
const (
	Compact  State = 0
	Normal   State = 1
	Expanded State = 2
)

// String returns the anchor name, or the numeric value for fractional states.
func (s State) String() string {
	switch s {
	case Compact:
		return "compact"
	case Normal:
		return "normal"
	case Expanded:
		return "expanded"
	}
	return strconv.FormatFloat(float64(s), 'f', -1, 64)
}

// IsAnchor reports whether s is exactly one of the three anchors.
func (s State) IsAnchor() bool {
	return s == Compact || s == Normal || s == Expanded
}

// ParseState parses an anchor name.
func ParseState(name string) (State, bool) {
	switch name {
	case "compact":
		return Compact, true
	case "normal", "":
		return Normal, true
	case "expanded":
		return Expanded, true
	}
	return Normal, false
}

func clampState(s, lo, hi State) State {
	return State(math.Min(math.Max(float64(s), float64(lo)), float64(hi)))
}

// mapRange linearly maps v from [fromLo, fromHi] onto [toLo, toHi]. Callers
// guarantee fromLo != fromHi.
func mapRange(v, fromLo, fromHi, toLo, toHi float64) float64 {
	return toLo + (v-fromLo)*(toHi-toLo)/(fromHi-fromLo)
}
