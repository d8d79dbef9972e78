package viewer

import (
	"math"

	"github.com/dgallion1/docreview/internal/bbox"
	"github.com/dgallion1/docreview/internal/elements"
)

// SurfaceSize is one measurement of the rendered page surface.
type SurfaceSize struct {
	WidthPx  float64 `json:"width"`
	HeightPx float64 `json:"height"`
}

// Measured reports whether overlays can be positioned on the surface.
func (s SurfaceSize) Measured() bool {
	return s.WidthPx > 0 && s.HeightPx > 0
}

func (s SurfaceSize) sanitized() SurfaceSize {
	if math.IsNaN(s.WidthPx) || math.IsInf(s.WidthPx, 0) || s.WidthPx < 0 {
		s.WidthPx = 0
	}
	if math.IsNaN(s.HeightPx) || math.IsInf(s.HeightPx, 0) || s.HeightPx < 0 {
		s.HeightPx = 0
	}
	return s
}

// Overlay is a positioned, non-interactive outline for one element.
type Overlay struct {
	Type        elements.Type  `json:"type"`
	Label       string         `json:"label"`
	Style       elements.Style `json:"style"`
	Rect        bbox.PixelRect `json:"rect"`
	Z           int            `json:"z"`
	Interactive bool           `json:"interactive"`
}

// RenderOverlays positions elems on a surface of the given size. Output
// keeps input order and Z increases with it, so later elements draw on
// top. Nothing is emitted until the surface has been measured.
func RenderOverlays(elems []elements.Element, size SurfaceSize) []Overlay {
	if !size.Measured() || len(elems) == 0 {
		return []Overlay{}
	}
	out := make([]Overlay, 0, len(elems))
	for i, e := range elems {
		out = append(out, Overlay{
			Type:  e.Type,
			Label: e.Label(),
			Style: elements.StyleFor(e.Type),
			Rect:  bbox.ToPixelRect(e.Box, size.WidthPx, size.HeightPx),
			Z:     i + 1,
		})
	}
	return out
}
