package render

import (
	"context"
	"errors"
	"image"
	"sync"
)

// Document is an uploaded source file handed to a Renderer.
type Document struct {
	Name string
	Data []byte
}

// PageGeometry is the native size of one page in PDF points.
type PageGeometry struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Aspect returns height/width, or 0 if the geometry is unknown.
func (g PageGeometry) Aspect() float64 {
	if g.Width <= 0 || g.Height <= 0 {
		return 0
	}
	return g.Height / g.Width
}

// DocumentInfo is what a successful load reports.
type DocumentInfo struct {
	PageCount int
	Pages     []PageGeometry // indexed by page number - 1
}

// Callbacks receive the outcome of a Load. Exactly one is invoked.
type Callbacks struct {
	OnLoad  func(info DocumentInfo)
	OnError func(message string)
}

// Renderer opens documents for display. Load must not block; the outcome
// is delivered through cb.
type Renderer interface {
	Load(ctx context.Context, doc Document, cb Callbacks)
}

// Surface is one rasterized page.
type Surface struct {
	Image    image.Image
	WidthPx  int
	HeightPx int
}

var (
	ErrAlreadyConfigured = errors.New("render: already configured")
	ErrPageOutOfRange    = errors.New("render: page out of range")
)

// Options are process-wide rendering settings.
type Options struct {
	DPI      float64 // rasterization resolution before scaling
	MaxWidth int     // upper bound on requested page width in pixels
}

// DefaultOptions returns the settings used when Setup is never called.
func DefaultOptions() Options {
	return Options{DPI: 144, MaxWidth: 2400}
}

var (
	setupOnce sync.Once
	settingMu sync.RWMutex
	settings  = DefaultOptions()
)

// Setup installs process-wide options. It must be called at most once,
// before any rendering; later calls return ErrAlreadyConfigured.
func Setup(opts Options) error {
	err := ErrAlreadyConfigured
	setupOnce.Do(func() {
		def := DefaultOptions()
		if opts.DPI <= 0 {
			opts.DPI = def.DPI
		}
		if opts.MaxWidth <= 0 {
			opts.MaxWidth = def.MaxWidth
		}
		settingMu.Lock()
		settings = opts
		settingMu.Unlock()
		err = nil
	})
	return err
}

// Current returns the active process-wide options.
func Current() Options {
	settingMu.RLock()
	defer settingMu.RUnlock()
	return settings
}
