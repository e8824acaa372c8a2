package keyboard

import (
	"math"
	"testing"

	"pianoviz/notes"
)

func TestIlluminateSingleNote(t *testing.T) {
	ns := []notes.Note{{Pitch: 60, Velocity: 100, OnTime: 2.0, OffTime: 2.5}}
	keys := Illuminate(ns, 2.2)

	k := keys[60]
	if !k.Active {
		t.Fatalf("key 60 not active")
	}
	if math.Abs(k.Elapsed-0.2) > 1e-9 {
		t.Errorf("elapsed = %v, want 0.2", k.Elapsed)
	}
	if k.Velocity != 100 {
		t.Errorf("velocity = %d", k.Velocity)
	}
	if math.Abs(k.Progress-0.4) > 1e-9 {
		t.Errorf("progress = %v, want 0.4", k.Progress)
	}
	if keys[61].Active || keys[61].Glow <= 0 || keys[61].GlowSource != 60 {
		t.Errorf("key 61 = %+v, want inactive with glow from 60", keys[61])
	}
	if keys[72].Glow != 0 || keys[72].GlowSource != -1 {
		t.Errorf("key 72 = %+v, want no glow", keys[72])
	}
	if keys[64].Glow != 0 {
		t.Errorf("key 64 at the radius glows: %v", keys[64].Glow)
	}
}

func TestGlowFalloff(t *testing.T) {
	keys := Illuminate([]notes.Note{{Pitch: 60, Velocity: 64, OnTime: 0, OffTime: 1}}, 0.5)
	prev := 2.0
	for d := 1; d <= GlowRadius; d++ {
		g := keys[60+d].Glow
		if g >= prev {
			t.Errorf("glow at %d = %v, not below %v", d, g, prev)
		}
		if keys[60-d].Glow != g {
			t.Errorf("glow not symmetric at %d", d)
		}
		prev = g
	}
	if GlowIntensity(1) != 0.5625 {
		t.Errorf("GlowIntensity(1) = %v", GlowIntensity(1))
	}
}

func TestGlowTieBreak(t *testing.T) {
	// 62 sits between two active keys at distance 2: the lower one is
	// found first.
	ns := []notes.Note{
		{Pitch: 64, Velocity: 90, OnTime: 0, OffTime: 2},
		{Pitch: 60, Velocity: 90, OnTime: 0, OffTime: 2},
	}
	keys := Illuminate(ns, 1)
	if keys[62].GlowSource != 60 {
		t.Errorf("tie resolved to %d, want 60", keys[62].GlowSource)
	}
	if keys[61].GlowSource != 60 || keys[63].GlowSource != 64 {
		t.Errorf("nearest neighbours wrong: %d %d", keys[61].GlowSource, keys[63].GlowSource)
	}
}

func TestIlluminateEdges(t *testing.T) {
	ns := []notes.Note{
		{Pitch: 21, Velocity: 90, OnTime: 0, OffTime: 2},
		{Pitch: 50, Velocity: 90, OnTime: 1, OffTime: 1},
		{Pitch: 40, Velocity: 10, OnTime: 0, OffTime: 3},
		{Pitch: 40, Velocity: 120, OnTime: 0.5, OffTime: 1.5},
	}
	keys := Illuminate(ns, 1)
	if !keys[21].Active {
		t.Errorf("lowest key not active")
	}
	if !keys[50].Active || keys[50].Progress != 1 {
		t.Errorf("zero-length note at its instant: %+v", keys[50])
	}
	if keys[40].Velocity != 120 {
		t.Errorf("latest onset should win, got velocity %d", keys[40].Velocity)
	}
	if keys[20].Glow != 0 {
		t.Errorf("unrendered key glows")
	}
	if k := Illuminate(ns, 5)[21]; k.Active {
		t.Errorf("key active after release")
	}
}

func TestLightnessAndFalloff(t *testing.T) {
	if Lightness(0) != 0.9 || Lightness(0.5) != 0.5 || Lightness(3) != 0.5 {
		t.Errorf("lightness ramp wrong: %v %v %v", Lightness(0), Lightness(0.5), Lightness(3))
	}
	if Lightness(0.25) >= Lightness(0.1) {
		t.Errorf("lightness not decaying")
	}
	if f := Falloff(60, 127, 0); f != 1 {
		t.Errorf("Falloff at attack = %v", f)
	}
	if Falloff(60, 100, 1) >= Falloff(60, 100, 0.1) {
		t.Errorf("falloff not decaying")
	}
	if Falloff(96, 100, 0.5) >= Falloff(36, 100, 0.5) {
		t.Errorf("high notes should fade faster")
	}
	if Falloff(60, 0, 0) != 0 {
		t.Errorf("silent note has intensity")
	}
}
