package extract

import (
	"math"
	"testing"

	"github.com/dgallion1/docreview/internal/bbox"
	"github.com/dgallion1/docreview/internal/elements"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validElement() WireElement {
	return WireElement{
		Type: "title",
		BBox: []float64{100, 50, 900, 150},
		Page: 1,
	}
}

func TestValidateElement_ValidPasses(t *testing.T) {
	e, ok := ValidateElement(validElement())
	require.True(t, ok)
	assert.Equal(t, elements.TypeTitle, e.Type)
	assert.Equal(t, bbox.NormalizedBox{XMin: 100, YMin: 50, XMax: 900, YMax: 150}, e.Box)
	assert.Equal(t, 1, e.Page)
}

func TestValidateElement_WrongCoordinateCount(t *testing.T) {
	for _, coords := range [][]float64{nil, {}, {1, 2, 3}, {1, 2, 3, 4, 5}} {
		w := validElement()
		w.BBox = coords
		_, ok := ValidateElement(w)
		assert.False(t, ok, "bbox %v", coords)
	}
}

func TestValidateElement_NonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		w := validElement()
		w.BBox[2] = v
		_, ok := ValidateElement(w)
		assert.False(t, ok, "coordinate %v", v)
	}
}

func TestValidateElement_PageBelowOne(t *testing.T) {
	for _, p := range []int{0, -1} {
		w := validElement()
		w.Page = p
		_, ok := ValidateElement(w)
		assert.False(t, ok, "page %d", p)
	}
}

func TestValidateElement_InvertedBoxSwapped(t *testing.T) {
	w := validElement()
	w.BBox = []float64{900, 150, 100, 50}
	e, ok := ValidateElement(w)
	require.True(t, ok)
	assert.Equal(t, bbox.NormalizedBox{XMin: 100, YMin: 50, XMax: 900, YMax: 150}, e.Box)
}

func TestValidateElement_OutOfRangeTolerated(t *testing.T) {
	w := validElement()
	w.BBox = []float64{-5, 0, 1004, 1000}
	e, ok := ValidateElement(w)
	require.True(t, ok)
	assert.False(t, e.Box.InRange())
}

func TestValidateElement_UnknownTypeFallsBack(t *testing.T) {
	w := validElement()
	w.Type = "footnote"
	e, ok := ValidateElement(w)
	require.True(t, ok)
	assert.Equal(t, elements.TypeOther, e.Type)
	assert.Equal(t, "footnote", e.Label())
}
