package extract

import (
	"math"

	"github.com/dgallion1/docreview/internal/bbox"
	"github.com/dgallion1/docreview/internal/elements"
)

// ValidateElement converts a wire element into an elements.Element.
// It rejects elements without exactly four finite coordinates or with a
// page below 1. Inverted min/max pairs are swapped; coordinates outside
// the normalized range are kept.
func ValidateElement(w WireElement) (elements.Element, bool) {
	if len(w.BBox) != 4 {
		return elements.Element{}, false
	}
	for _, v := range w.BBox {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return elements.Element{}, false
		}
	}
	if w.Page < 1 {
		return elements.Element{}, false
	}

	xMin, yMin, xMax, yMax := w.BBox[0], w.BBox[1], w.BBox[2], w.BBox[3]
	if xMin > xMax {
		xMin, xMax = xMax, xMin
	}
	if yMin > yMax {
		yMin, yMax = yMax, yMin
	}

	return elements.Element{
		Type: elements.ParseType(w.Type),
		Name: w.Type,
		Box:  bbox.NormalizedBox{XMin: xMin, YMin: yMin, XMax: xMax, YMax: yMax},
		Page: w.Page,
	}, true
}
