package bbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPixelRect_TitleScenario(t *testing.T) {
	b := NormalizedBox{XMin: 100, YMin: 50, XMax: 900, YMax: 150}
	got := ToPixelRect(b, 800, 1000)
	assert.Equal(t, PixelRect{Left: 80, Top: 50, Width: 640, Height: 100}, got)
}

func TestToPixelRect_FullPage(t *testing.T) {
	b := NormalizedBox{XMin: 0, YMin: 0, XMax: 1000, YMax: 1000}
	got := ToPixelRect(b, 800, 1000)
	assert.Equal(t, PixelRect{Left: 0, Top: 0, Width: 800, Height: 1000}, got)
}

func TestToPixelRect_Linearity(t *testing.T) {
	boxes := []NormalizedBox{
		{XMin: 0, YMin: 0, XMax: 1000, YMax: 1000},
		{XMin: 12.5, YMin: 3, XMax: 500, YMax: 999},
		{XMin: 250, YMin: 250, XMax: 250, YMax: 750},
	}
	for _, b := range boxes {
		for _, w := range []float64{1, 333, 800, 1920.5} {
			one := ToPixelRect(b, w, 600)
			two := ToPixelRect(b, 2*w, 600)
			assert.InDelta(t, one.Width, two.Width/2, 1e-9, "box=%+v w=%v", b, w)
			assert.InDelta(t, one.Left, two.Left/2, 1e-9, "box=%+v w=%v", b, w)
			assert.GreaterOrEqual(t, one.Left, 0.0)
			assert.GreaterOrEqual(t, one.Top, 0.0)
		}
	}
}

func TestToPixelRect_UnmeasuredSurface(t *testing.T) {
	b := NormalizedBox{XMin: 100, YMin: 100, XMax: 200, YMax: 200}
	sizes := [][2]float64{{0, 1000}, {800, 0}, {-1, 500}, {500, -3}, {0, 0}}
	for _, s := range sizes {
		got := ToPixelRect(b, s[0], s[1])
		assert.Zero(t, got.Width, "w=%v h=%v", s[0], s[1])
		assert.Zero(t, got.Height, "w=%v h=%v", s[0], s[1])
		assert.True(t, got.Empty())
	}
}

func TestToPixelRect_OutOfRangeTolerated(t *testing.T) {
	b := NormalizedBox{XMin: -10, YMin: 0, XMax: 1010, YMax: 1000}
	assert.False(t, b.InRange())
	got := ToPixelRect(b, 1000, 1000)
	assert.Equal(t, -10.0, got.Left)
	assert.Equal(t, 1020.0, got.Width)
}
