package layout

var blackKeysInOctave = map[int]bool{
	1:  true,
	3:  true,
	6:  true,
	8:  true,
	10: true,
}

// IsBlackKey reports whether pitch falls on a black key.
func IsBlackKey(pitch int) bool {
	return blackKeysInOctave[((pitch%12)+12)%12]
}

// IsOctaveLine reports whether a gridline is drawn at the left edge of pitch.
// Lines sit on C and F, the two white keys without a black key to their left.
func IsOctaveLine(pitch int) bool {
	k := ((pitch % 12) + 12) % 12
	return k == 0 || k == 5
}

// SemitoneHue maps a pitch class onto the color wheel so that the circle of
// fifths walks around it: C is red, G is 30 degrees on, and so on.
func SemitoneHue(pitch int) float64 {
	k := ((pitch % 12) + 12) % 12
	return float64((k*7)%12) * 30
}

// Octave returns the scientific octave number of pitch (C4 is middle C).
func Octave(pitch int) int {
	return pitch/12 - 1
}
