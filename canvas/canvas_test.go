package canvas

import (
	"image/color"
	"math"
	"testing"
)

func TestHSL(t *testing.T) {
	type testcase struct {
		h, s, l float64
		want    Color
	}
	cases := []testcase{
		{0, 1, 0.5, Color{1, 0, 0, 1}},
		{120, 1, 0.5, Color{0, 1, 0, 1}},
		{240, 1, 0.5, Color{0, 0, 1, 1}},
		{360, 1, 0.5, Color{1, 0, 0, 1}},
		{90, 0, 1, Color{1, 1, 1, 1}},
		{90, 0, 0, Color{0, 0, 0, 1}},
	}
	for _, c := range cases {
		got := HSL(c.h, c.s, c.l)
		if math.Abs(got.R-c.want.R)+math.Abs(got.G-c.want.G)+math.Abs(got.B-c.want.B) > 1e-6 || got.A != 1 {
			t.Errorf("HSL(%v, %v, %v) = %+v, want %+v", c.h, c.s, c.l, got, c.want)
		}
	}
}

func TestColorHelpers(t *testing.T) {
	c := RGBA(1, 0.5, 0, 1)
	if d := c.Darker(); d.R != 0.8 || d.G != 0.4 || d.A != 1 {
		t.Errorf("Darker = %+v", d)
	}
	if a := c.WithAlpha(2); a.A != 1 {
		t.Errorf("alpha not clamped: %v", a.A)
	}
	want := color.NRGBA{255, 128, 0, 64}
	if got := c.WithAlpha(0.25).NRGBA(); got != want {
		t.Errorf("NRGBA = %v, want %v", got, want)
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#ff0000")
	if err != nil || c != (Color{1, 0, 0, 1}) {
		t.Errorf("ParseHex = %+v, %v", c, err)
	}
	if _, err := ParseHex("red"); err == nil {
		t.Error("expected an error for a color name")
	}
}

func TestAvailable(t *testing.T) {
	if Available(nil) {
		t.Errorf("nil surface available")
	}
	r := NewRecorder(10, 10)
	if !Available(r) {
		t.Errorf("recorder not available")
	}
	r.Detached = true
	if Available(r) {
		t.Errorf("detached recorder available")
	}
	var g *GGSurface
	if Available(g) {
		t.Errorf("nil gg surface available")
	}
}

func TestGGSurfaceDraws(t *testing.T) {
	s := NewGGSurface(40, 20)
	s.Clear(Black)
	s.FillRect(Rect{0, 0, 10, 10}, RGBA(1, 0, 0, 1))
	s.FillCircle(30, 10, 4, RGBA(0, 0, 1, 1))
	s.FillVerticalGradient(Rect{12, 0, 6, 20}, RGBA(0, 1, 0, 0), RGBA(0, 1, 0, 1))
	s.FillPath(Path{}.MoveTo(20, 0).LineTo(24, 0).LineTo(24, 4).LineTo(20, 4).Close(), White)
	s.Text("C4", 1, 18, 8, White)

	img := s.Snapshot()
	if r, g, b, _ := img.At(5, 5).RGBA(); r>>8 != 255 || g != 0 || b != 0 {
		t.Errorf("rect pixel = %d %d %d", r>>8, g>>8, b>>8)
	}
	if _, _, b, _ := img.At(30, 10).RGBA(); b>>8 != 255 {
		t.Errorf("circle pixel blue = %d", b>>8)
	}
	_, gTop, _, _ := img.At(15, 1).RGBA()
	_, gBottom, _, _ := img.At(15, 18).RGBA()
	if gTop >= gBottom {
		t.Errorf("gradient not brighter at the bottom: %d >= %d", gTop, gBottom)
	}
	if r, _, _, _ := img.At(22, 2).RGBA(); r>>8 != 255 {
		t.Errorf("path not filled")
	}
	if w, h := s.Size(); w != 40 || h != 20 {
		t.Errorf("size = %dx%d", w, h)
	}
}

func TestRecorderLayers(t *testing.T) {
	r := NewRecorder(10, 10)
	r.BeginLayer("a")
	r.FillRect(Rect{}, Black)
	r.BeginLayer("b")
	r.FillRect(Rect{}, Black)
	r.FillCircle(1, 1, 1, White)
	if r.Count("a", "fillRect") != 1 || r.Count("", "fillRect") != 2 || r.Count("b", "circle") != 1 {
		t.Errorf("counts wrong: %+v", r.Ops)
	}
	r.Reset()
	if len(r.Ops) != 0 || len(r.Layers) != 0 {
		t.Errorf("reset kept state")
	}
}
