package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readyController(t *testing.T, pages int) *LoadController {
	t.Helper()
	var c LoadController
	gen := c.Begin()
	require.True(t, c.Loaded(gen, pages))
	require.Equal(t, StatusReady, c.Status())
	return &c
}

func TestLoadController_ZeroValueIsIdle(t *testing.T) {
	var c LoadController
	assert.Equal(t, StatusIdle, c.Status())
	_, ok := c.PageCount()
	assert.False(t, ok)
	assert.False(t, c.CanPrev())
	assert.False(t, c.CanNext())
	assert.False(t, c.GoToPage(2))
}

func TestLoadController_BeginResetsPage(t *testing.T) {
	c := readyController(t, 5)
	require.True(t, c.GoToPage(4))

	c.Begin()
	assert.Equal(t, StatusLoading, c.Status())
	assert.Equal(t, 1, c.CurrentPage())
	_, ok := c.PageCount()
	assert.False(t, ok, "page count must be unknown while loading")
}

func TestLoadController_GoToPageClamps(t *testing.T) {
	c := readyController(t, 5)

	require.True(t, c.GoToPage(10))
	assert.Equal(t, 5, c.CurrentPage())

	require.True(t, c.GoToPage(0))
	assert.Equal(t, 1, c.CurrentPage())

	require.True(t, c.GoToPage(-3))
	assert.Equal(t, 1, c.CurrentPage())

	require.True(t, c.GoToPage(3))
	assert.Equal(t, 3, c.CurrentPage())
}

func TestLoadController_SinglePageNavigation(t *testing.T) {
	c := readyController(t, 1)
	require.True(t, c.GoToPage(1))
	require.True(t, c.GoToPage(2))
	assert.Equal(t, 1, c.CurrentPage())
	assert.False(t, c.CanNext())
	assert.False(t, c.CanPrev())
}

func TestLoadController_BoundaryFlags(t *testing.T) {
	c := readyController(t, 3)
	assert.False(t, c.CanPrev())
	assert.True(t, c.CanNext())

	c.GoToPage(2)
	assert.True(t, c.CanPrev())
	assert.True(t, c.CanNext())

	c.GoToPage(3)
	assert.True(t, c.CanPrev())
	assert.False(t, c.CanNext())
}

func TestLoadController_Failure(t *testing.T) {
	var c LoadController
	gen := c.Begin()
	require.True(t, c.Failed(gen, "bad pdf"))
	assert.Equal(t, StatusError, c.Status())
	assert.Equal(t, "bad pdf", c.Err())
	_, ok := c.PageCount()
	assert.False(t, ok)
	assert.False(t, c.GoToPage(1))
	assert.False(t, c.CanNext())

	// Recoverable only by a new document.
	gen = c.Begin()
	require.True(t, c.Loaded(gen, 2))
	assert.Empty(t, c.Err())
}

func TestLoadController_ZeroPagesIsError(t *testing.T) {
	var c LoadController
	gen := c.Begin()
	require.True(t, c.Loaded(gen, 0))
	assert.Equal(t, StatusError, c.Status())
	assert.Equal(t, NoPagesMessage, c.Err())
}

func TestLoadController_StaleGenerationIgnored(t *testing.T) {
	var c LoadController
	genA := c.Begin()
	genB := c.Begin()
	require.NotEqual(t, genA, genB)

	require.True(t, c.Loaded(genB, 4))
	require.True(t, c.GoToPage(3))

	assert.False(t, c.Loaded(genA, 9))
	assert.False(t, c.Failed(genA, "late failure"))

	assert.Equal(t, StatusReady, c.Status())
	n, _ := c.PageCount()
	assert.Equal(t, 4, n)
	assert.Equal(t, 3, c.CurrentPage())
}

func TestLoadController_StaleAfterReset(t *testing.T) {
	var c LoadController
	gen := c.Begin()
	c.Reset()
	assert.False(t, c.Loaded(gen, 3))
	assert.Equal(t, StatusIdle, c.Status())
}

func TestLoadController_DuplicateCompletionIgnored(t *testing.T) {
	var c LoadController
	gen := c.Begin()
	require.True(t, c.Loaded(gen, 2))
	assert.False(t, c.Failed(gen, "second callback"))
	assert.Equal(t, StatusReady, c.Status())
}
