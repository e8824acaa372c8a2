package canvas

import (
	"fmt"
	"image"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	regularOnce sync.Once
	regular     *truetype.Font
	regularErr  error
)

func regularFont() (*truetype.Font, error) {
	regularOnce.Do(func() {
		regular, regularErr = truetype.Parse(goregular.TTF)
	})
	return regular, regularErr
}

// GGSurface draws onto a fogleman/gg context.
type GGSurface struct {
	dc    *gg.Context
	faces map[float64]font.Face
}

// NewGGSurface allocates a surface of the given size.
func NewGGSurface(width, height int) *GGSurface {
	return WrapGG(gg.NewContext(width, height))
}

// WrapGG draws onto an existing context.
func WrapGG(dc *gg.Context) *GGSurface {
	return &GGSurface{dc: dc, faces: map[float64]font.Face{}}
}

// Context exposes the underlying gg context.
func (s *GGSurface) Context() *gg.Context { return s.dc }

// Image returns the backing image. It is reused by the next frame.
func (s *GGSurface) Image() image.Image { return s.dc.Image() }

// Snapshot copies the current frame so it can outlive the next one.
func (s *GGSurface) Snapshot() *image.RGBA {
	src := s.dc.Image().(*image.RGBA)
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}

func (s *GGSurface) Attached() bool { return s != nil && s.dc != nil }

func (s *GGSurface) Size() (int, int) { return s.dc.Width(), s.dc.Height() }

func (s *GGSurface) setColor(c Color) {
	s.dc.SetRGBA(c.R, c.G, c.B, c.A)
}

func (s *GGSurface) Clear(c Color) {
	s.setColor(c)
	s.dc.Clear()
}

func (s *GGSurface) FillRect(r Rect, c Color) {
	s.dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	s.setColor(c)
	s.dc.Fill()
}

func (s *GGSurface) StrokeRect(r Rect, c Color, lineWidth float64) {
	s.dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	s.setColor(c)
	s.dc.SetLineWidth(lineWidth)
	s.dc.Stroke()
}

func (s *GGSurface) Line(x1, y1, x2, y2 float64, c Color, lineWidth float64) {
	s.setColor(c)
	s.dc.SetLineWidth(lineWidth)
	s.dc.DrawLine(x1, y1, x2, y2)
	s.dc.Stroke()
}

func (s *GGSurface) FillPath(p Path, c Color) {
	s.dc.NewSubPath()
	for _, seg := range p {
		switch seg.Op {
		case MoveTo:
			s.dc.MoveTo(seg.X1, seg.Y1)
		case LineTo:
			s.dc.LineTo(seg.X1, seg.Y1)
		case QuadTo:
			s.dc.QuadraticTo(seg.X1, seg.Y1, seg.X2, seg.Y2)
		case Close:
			s.dc.ClosePath()
		}
	}
	s.setColor(c)
	s.dc.Fill()
}

func (s *GGSurface) FillVerticalGradient(r Rect, top, bottom Color) {
	g := gg.NewLinearGradient(r.X, r.Y, r.X, r.Y+r.H)
	g.AddColorStop(0, top.NRGBA())
	g.AddColorStop(1, bottom.NRGBA())
	s.dc.SetFillStyle(g)
	s.dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	s.dc.Fill()
}

func (s *GGSurface) FillCircle(x, y, radius float64, c Color) {
	s.dc.DrawCircle(x, y, radius)
	s.setColor(c)
	s.dc.Fill()
}

func (s *GGSurface) Text(str string, x, y, size float64, c Color) {
	face, err := s.face(size)
	if err != nil {
		return
	}
	s.dc.SetFontFace(face)
	s.setColor(c)
	s.dc.DrawString(str, x, y)
}

func (s *GGSurface) face(size float64) (font.Face, error) {
	if f, ok := s.faces[size]; ok {
		return f, nil
	}
	ft, err := regularFont()
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	f := truetype.NewFace(ft, &truetype.Options{Size: size})
	s.faces[size] = f
	return f, nil
}
