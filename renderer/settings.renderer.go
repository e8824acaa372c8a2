package renderer

import "pianoviz/canvas"

// Style holds the fixed visual dimensions of a frame.
type Style struct {
	KeyboardHeight float64
	GlowHeight     float64
	Background     canvas.Color
	Labels         bool
}

// DefaultStyle is the stock look: black background, labelled keys.
func DefaultStyle() Style {
	return Style{
		KeyboardHeight: 20,
		GlowHeight:     120,
		Background:     canvas.Black,
		Labels:         true,
	}
}

var (
	columnColor   = canvas.RGBA(1, 1, 1, 0.0075)
	gridlineColor = canvas.RGBA(1, 1, 1, 0.01)
)

const (
	gridlineWidth = 1
	keyBorder     = 1
	minNoteHeight = 2

	// A note counts as long once it covers more than this share of the
	// visible span; long notes get a tapered tail.
	longNoteShare = 50
	// The square head of a long note covers this share of the visible span.
	noteHeadShare = 100

	baseLightness  = 0.5
	blackKeyShade  = 0.15
	glowAlphaScale = 0.25
	glowAlphaFloor = 0.05
)
