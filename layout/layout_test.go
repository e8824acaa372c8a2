package layout

import (
	"math"
	"testing"
)

func TestPitchToXBounds(t *testing.T) {
	for _, width := range []int{88, 640, 1280, 1919} {
		if x := PitchToX(LowestKey, width); x != 0 {
			t.Errorf("width %d: PitchToX(21) = %v, want 0", width, x)
		}
		right := PitchToX(HighestKey, width) + KeyWidth(width)
		if math.Abs(right-float64(width)) > 1e-9 {
			t.Errorf("width %d: right edge of C8 = %v, want %d", width, right, width)
		}
		prev := math.Inf(-1)
		for p := LowestKey; p <= LastRendered; p++ {
			x := PitchToX(p, width)
			if x <= prev {
				t.Errorf("width %d: PitchToX(%d) = %v not above %v", width, p, x, prev)
			}
			prev = x
		}
	}
}

func TestTimeToY(t *testing.T) {
	v := ViewState{PlaybackTime: 2.2, VisibleDuration: 10, Width: 800, Height: 600}
	const kh = 20.0
	if y := TimeToY(2.2, v, kh); y != 580 {
		t.Errorf("TimeToY(playback) = %v, want 580", y)
	}
	if y := TimeToY(12.2, v, kh); math.Abs(y) > 1e-9 {
		t.Errorf("TimeToY(playback+visible) = %v, want 0", y)
	}
	prev := math.Inf(1)
	for tm := -5.0; tm < 20; tm += 0.125 {
		y := TimeToY(tm, v, kh)
		if y >= prev {
			t.Errorf("TimeToY(%v) = %v, not below %v", tm, y, prev)
		}
		prev = y
		if TimeToY(tm, v, kh) != y {
			t.Errorf("TimeToY(%v) unstable", tm)
		}
	}
}

func TestTimeToYDegenerate(t *testing.T) {
	type testcase struct {
		name string
		view ViewState
	}
	cases := []testcase{
		{"zero visible", ViewState{PlaybackTime: 1, VisibleDuration: 0, Width: 10, Height: 100}},
		{"negative visible", ViewState{PlaybackTime: 1, VisibleDuration: -3, Width: 10, Height: 100}},
		{"nan visible", ViewState{PlaybackTime: 1, VisibleDuration: math.NaN(), Width: 10, Height: 100}},
		{"inf playback", ViewState{PlaybackTime: math.Inf(1), VisibleDuration: 4, Width: 10, Height: 100}},
		{"empty surface", ViewState{PlaybackTime: 1, VisibleDuration: 4}},
	}
	for _, c := range cases {
		for _, tm := range []float64{-1, 0, 1, 2, 100, math.Inf(1), math.NaN()} {
			y := TimeToY(tm, c.view, 20)
			if math.IsNaN(y) || math.IsInf(y, 0) {
				t.Errorf("%s: TimeToY(%v) = %v", c.name, tm, y)
			}
		}
		if _, issues := Sanitize(c.view); len(issues) == 0 {
			t.Errorf("%s: no issue reported", c.name)
		}
	}
}

func TestSanitizeKeepsValidView(t *testing.T) {
	v := ViewState{PlaybackTime: 3, VisibleDuration: 7, Width: 640, Height: 360}
	got, issues := Sanitize(v)
	if got != v || len(issues) != 0 {
		t.Errorf("Sanitize(%+v) = %+v, %v", v, got, issues)
	}
}

func TestDefaultVisibleDuration(t *testing.T) {
	type testcase struct {
		preferred, total, want float64
	}
	cases := []testcase{
		{10, 4, 4},
		{10, 60, 10},
		{10, 0, 10},
		{0, 30, MinVisibleDuration},
	}
	for _, c := range cases {
		if got := DefaultVisibleDuration(c.preferred, c.total); got != c.want {
			t.Errorf("DefaultVisibleDuration(%v, %v) = %v, want %v", c.preferred, c.total, got, c.want)
		}
	}
}

func TestZoom(t *testing.T) {
	if got := ZoomOut(10, 60); got != 15 {
		t.Errorf("ZoomOut(10, 60) = %v", got)
	}
	if got := ZoomOut(60, 60); got != 60 {
		t.Errorf("ZoomOut(60, 60) = %v", got)
	}
	if got := ZoomIn(15); got != 10 {
		t.Errorf("ZoomIn(15) = %v", got)
	}
	if got := ZoomIn(5); got != 5 {
		t.Errorf("ZoomIn(5) = %v", got)
	}
}

func TestKeys(t *testing.T) {
	black := map[int]bool{22: true, 61: true, 63: true, 66: true, 68: true, 70: true}
	for p := 60; p < 72; p++ {
		if IsBlackKey(p) != black[p] {
			t.Errorf("IsBlackKey(%d) = %v", p, IsBlackKey(p))
		}
	}
	if !IsBlackKey(22) || IsBlackKey(21) {
		t.Errorf("A0/A#0 colors wrong")
	}
	if !IsOctaveLine(60) || !IsOctaveLine(65) || IsOctaveLine(62) {
		t.Errorf("octave lines wrong")
	}
	if SemitoneHue(60) != 0 || SemitoneHue(67) != 30 || SemitoneHue(72) != 0 {
		t.Errorf("hues wrong: %v %v %v", SemitoneHue(60), SemitoneHue(67), SemitoneHue(72))
	}
}
