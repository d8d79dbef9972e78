package bbox

// Scale is the extent of each axis in the normalized coordinate space.
const Scale = 1000.0

// NormalizedBox is an axis-aligned rectangle in resolution-independent
// coordinates, each axis in [0, Scale]. Values slightly outside that range
// are tolerated; extraction output is noisy.
type NormalizedBox struct {
	XMin float64 `json:"x_min"`
	YMin float64 `json:"y_min"`
	XMax float64 `json:"x_max"`
	YMax float64 `json:"y_max"`
}

// PixelRect is a rectangle positioned on a rendered page surface.
type PixelRect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Empty reports whether the rectangle has no area.
func (r PixelRect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// ToPixelRect maps b onto a surface w pixels wide and h pixels tall.
// An unmeasured surface (w <= 0 or h <= 0) yields the zero rectangle.
func ToPixelRect(b NormalizedBox, w, h float64) PixelRect {
	if w <= 0 || h <= 0 {
		return PixelRect{}
	}
	sx := w / Scale
	sy := h / Scale
	return PixelRect{
		Left:   b.XMin * sx,
		Top:    b.YMin * sy,
		Width:  (b.XMax - b.XMin) * sx,
		Height: (b.YMax - b.YMin) * sy,
	}
}

// InRange reports whether every coordinate lies within [0, Scale].
func (b NormalizedBox) InRange() bool {
	for _, v := range [...]float64{b.XMin, b.YMin, b.XMax, b.YMax} {
		if v < 0 || v > Scale {
			return false
		}
	}
	return true
}
