package canvas

// Op is one recorded drawing call.
type Op struct {
	Layer  string
	Kind   string
	Rect   Rect
	Color  Color
	Bottom Color // second color of a gradient
	Path   Path
	Text   string
}

// Recorder is a Surface that only records what is drawn on it.
type Recorder struct {
	Width, Height int
	Detached      bool
	Layers        []string
	Ops           []Op

	layer string
}

// NewRecorder returns an attached recorder of the given size.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{Width: width, Height: height}
}

// Reset forgets every recorded call.
func (r *Recorder) Reset() {
	r.Layers = nil
	r.Ops = nil
	r.layer = ""
}

// Count returns the number of recorded calls of kind in layer. An empty
// layer matches all of them.
func (r *Recorder) Count(layer, kind string) int {
	n := 0
	for _, op := range r.Ops {
		if (layer == "" || op.Layer == layer) && op.Kind == kind {
			n++
		}
	}
	return n
}

func (r *Recorder) Attached() bool { return !r.Detached }

func (r *Recorder) BeginLayer(name string) {
	r.layer = name
	r.Layers = append(r.Layers, name)
}

func (r *Recorder) Size() (int, int) { return r.Width, r.Height }

func (r *Recorder) add(op Op) {
	op.Layer = r.layer
	r.Ops = append(r.Ops, op)
}

func (r *Recorder) Clear(c Color) {
	r.add(Op{Kind: "clear", Color: c, Rect: Rect{0, 0, float64(r.Width), float64(r.Height)}})
}

func (r *Recorder) FillRect(rc Rect, c Color) {
	r.add(Op{Kind: "fillRect", Rect: rc, Color: c})
}

func (r *Recorder) StrokeRect(rc Rect, c Color, _ float64) {
	r.add(Op{Kind: "strokeRect", Rect: rc, Color: c})
}

func (r *Recorder) Line(x1, y1, x2, y2 float64, c Color, _ float64) {
	r.add(Op{Kind: "line", Rect: Rect{x1, y1, x2 - x1, y2 - y1}, Color: c})
}

func (r *Recorder) FillPath(p Path, c Color) {
	r.add(Op{Kind: "fillPath", Path: append(Path(nil), p...), Color: c})
}

func (r *Recorder) FillVerticalGradient(rc Rect, top, bottom Color) {
	r.add(Op{Kind: "gradient", Rect: rc, Color: top, Bottom: bottom})
}

func (r *Recorder) FillCircle(x, y, radius float64, c Color) {
	r.add(Op{Kind: "circle", Rect: Rect{x - radius, y - radius, 2 * radius, 2 * radius}, Color: c})
}

func (r *Recorder) Text(s string, x, y, _ float64, c Color) {
	r.add(Op{Kind: "text", Text: s, Rect: Rect{X: x, Y: y}, Color: c})
}
