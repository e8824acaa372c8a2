package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ScreenResolution is a frame size in pixels.
type ScreenResolution [2]int

func (r ScreenResolution) Width() int  { return r[0] }
func (r ScreenResolution) Height() int { return r[1] }

func (r ScreenResolution) String() string { return fmt.Sprintf("%dx%d", r[0], r[1]) }

var (
	Resolution1080p = ScreenResolution{1920, 1080}
	Resolution720p  = ScreenResolution{1280, 720}
	Resolution480p  = ScreenResolution{854, 480}
	Resolution360p  = ScreenResolution{640, 360}
)

var resolutions = map[string]ScreenResolution{
	"1080p": Resolution1080p,
	"720p":  Resolution720p,
	"480p":  Resolution480p,
	"360p":  Resolution360p,
}

// Presets lists the named resolutions.
func Presets() []string {
	names := make([]string, 0, len(resolutions))
	for n := range resolutions {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return resolutions[names[i]][1] > resolutions[names[j]][1] })
	return names
}

// ParseResolution accepts a preset name such as "720p" or an explicit
// "WIDTHxHEIGHT".
func ParseResolution(s string) (ScreenResolution, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if r, ok := resolutions[s]; ok {
		return r, nil
	}
	ws, hs, ok := strings.Cut(s, "x")
	if !ok {
		return ScreenResolution{}, fmt.Errorf("resolution %q: want one of %v or WIDTHxHEIGHT", s, Presets())
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return ScreenResolution{}, fmt.Errorf("resolution %q: %w", s, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return ScreenResolution{}, fmt.Errorf("resolution %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return ScreenResolution{}, fmt.Errorf("resolution %q: size must be positive", s)
	}
	return ScreenResolution{w, h}, nil
}
