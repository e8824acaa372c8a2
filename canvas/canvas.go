// Package canvas defines the drawing target the visualizer composites onto,
// with a fogleman/gg implementation and a recording test double.
package canvas

// Rect is an axis-aligned rectangle in pixels.
type Rect struct {
	X, Y, W, H float64
}

// SegmentOp is the kind of a path segment.
type SegmentOp uint8

const (
	MoveTo SegmentOp = iota
	LineTo
	QuadTo // control point X1,Y1 then end point X2,Y2
	Close
)

// A Segment is one step of a Path. MoveTo and LineTo use X1,Y1 only.
type Segment struct {
	Op             SegmentOp
	X1, Y1, X2, Y2 float64
}

// Path is an outline that can be filled.
type Path []Segment

func (p Path) MoveTo(x, y float64) Path { return append(p, Segment{Op: MoveTo, X1: x, Y1: y}) }
func (p Path) LineTo(x, y float64) Path { return append(p, Segment{Op: LineTo, X1: x, Y1: y}) }
func (p Path) Close() Path { return append(p, Segment{Op: Close}) }

func (p Path) QuadTo(cx, cy, x, y float64) Path {
	return append(p, Segment{Op: QuadTo, X1: cx, Y1: cy, X2: x, Y2: y})
}

// Surface is the capability set the renderer needs from a 2D target.
type Surface interface {
	Size() (width, height int)
	Clear(c Color)
	FillRect(r Rect, c Color)
	StrokeRect(r Rect, c Color, lineWidth float64)
	Line(x1, y1, x2, y2 float64, c Color, lineWidth float64)
	FillPath(p Path, c Color)
	// FillVerticalGradient fills r blending from top at its upper edge to
	// bottom at its lower edge.
	FillVerticalGradient(r Rect, top, bottom Color)
	FillCircle(x, y, radius float64, c Color)
	Text(s string, x, y, size float64, c Color)
}

// Attacher is implemented by surfaces that can exist before they are ready
// to be drawn on.
type Attacher interface {
	Attached() bool
}

// LayerMarker is implemented by surfaces that want to know which compositing
// layer the following operations belong to.
type LayerMarker interface {
	BeginLayer(name string)
}

// Available reports whether s can be drawn on right now.
func Available(s Surface) bool {
	if s == nil {
		return false
	}
	if a, ok := s.(Attacher); ok {
		return a.Attached()
	}
	return true
}
