package viewer

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/dgallion1/docreview/internal/elements"
	"github.com/dgallion1/docreview/internal/render"
)

// ErrNotReady is returned by navigation while no document is Ready.
var ErrNotReady = errors.New("viewer: document not ready")

// Shell owns the viewer state of one hosted document: load state, page
// selection, the element index and the latest surface measurement. All
// mutations are serialized by its mutex, including renderer callbacks.
type Shell struct {
	mu       sync.Mutex
	renderer render.Renderer
	log      *slog.Logger

	ctrl     LoadController
	index    *elements.Index
	geometry []render.PageGeometry
	surface  SurfaceSize

	ctx        context.Context
	cancel     context.CancelFunc
	loadCancel context.CancelFunc
	observers  sync.WaitGroup
}

func NewShell(r render.Renderer, log *slog.Logger) *Shell {
	ctx, cancel := context.WithCancel(context.Background())
	return &Shell{
		renderer: r,
		log:      log,
		index:    elements.NewIndex(nil),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Open starts loading doc, superseding any document currently hosted.
// It returns the load generation.
func (s *Shell) Open(doc render.Document) uint64 {
	s.mu.Lock()
	if s.loadCancel != nil {
		s.loadCancel()
	}
	gen := s.ctrl.Begin()
	s.geometry = nil
	loadCtx, cancel := context.WithCancel(s.ctx)
	s.loadCancel = cancel
	s.mu.Unlock()

	s.log.Debug("opening document", "name", doc.Name, "generation", gen)
	s.renderer.Load(loadCtx, doc, render.Callbacks{
		OnLoad:  func(info render.DocumentInfo) { s.loaded(gen, info) },
		OnError: func(msg string) { s.failed(gen, msg) },
	})
	return gen
}

func (s *Shell) loaded(gen uint64, info render.DocumentInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ctrl.Loaded(gen, info.PageCount) {
		s.log.Debug("discarding stale load", "generation", gen, "current", s.ctrl.Generation())
		return
	}
	s.geometry = info.Pages
	s.warnBeyondLocked()
}

func (s *Shell) warnBeyondLocked() {
	n, ok := s.ctrl.PageCount()
	if !ok {
		return
	}
	if beyond := s.index.CountBeyond(n); beyond > 0 {
		s.log.Warn("elements reference pages beyond document", "pages", n, "elements", beyond)
	}
}

func (s *Shell) failed(gen uint64, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ctrl.Failed(gen, msg) {
		s.log.Debug("discarding stale load failure", "generation", gen, "current", s.ctrl.Generation())
	}
}

// SetElements replaces the extraction result shown over the document.
func (s *Shell) SetElements(elems []elements.Element) {
	idx := elements.NewIndex(elems)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = idx
	s.warnBeyondLocked()
}

// Clear drops the hosted document and its extraction result.
func (s *Shell) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadCancel != nil {
		s.loadCancel()
		s.loadCancel = nil
	}
	s.ctrl.Reset()
	s.index = elements.NewIndex(nil)
	s.geometry = nil
	s.surface = SurfaceSize{}
}

// GoToPage selects page n, clamped to the document's page range.
func (s *Shell) GoToPage(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ctrl.GoToPage(n) {
		return ErrNotReady
	}
	return nil
}

func (s *Shell) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ctrl.GoToPage(s.ctrl.CurrentPage() + 1) {
		return ErrNotReady
	}
	return nil
}

func (s *Shell) Prev() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ctrl.GoToPage(s.ctrl.CurrentPage() - 1) {
		return ErrNotReady
	}
	return nil
}

// Resize records a new surface measurement, replacing the previous one.
func (s *Shell) Resize(size SurfaceSize) {
	size = size.sanitized()
	s.mu.Lock()
	s.surface = size
	s.mu.Unlock()
}

// Observe applies every measurement received on sizes until the channel
// closes, the returned release func is called, or the shell is closed.
func (s *Shell) Observe(sizes <-chan SurfaceSize) (release func()) {
	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan struct{})
	s.observers.Add(1)
	go func() {
		defer s.observers.Done()
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case size, ok := <-sizes:
				if !ok {
					return
				}
				s.Resize(size)
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}

// Close releases all subscriptions and abandons any in-flight load.
func (s *Shell) Close() {
	s.Clear()
	s.cancel()
	s.observers.Wait()
}

// View is a consistent snapshot of the viewer for presentation.
type View struct {
	Status         Status      `json:"status"`
	Error          string      `json:"error,omitempty"`
	PageCount      *int        `json:"page_count"`
	CurrentPage    *int        `json:"current_page"`
	ShowNavigation bool        `json:"show_navigation"`
	CanPrev        bool        `json:"can_prev"`
	CanNext        bool        `json:"can_next"`
	Surface        SurfaceSize `json:"surface"`
	Overlays       []Overlay   `json:"overlays"`
	Elements       int         `json:"elements"`
	HiddenElements int         `json:"hidden_elements"`
	Generation     uint64      `json:"generation"`
}

// View derives the visible state: overlays are computed for the current
// page against the latest measurement.
func (s *Shell) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Status:     s.ctrl.Status(),
		Error:      s.ctrl.Err(),
		CanPrev:    s.ctrl.CanPrev(),
		CanNext:    s.ctrl.CanNext(),
		Overlays:   []Overlay{},
		Elements:   s.index.Len(),
		Generation: s.ctrl.Generation(),
	}

	switch v.Status {
	case StatusLoading:
		page := s.ctrl.CurrentPage()
		v.CurrentPage = &page
		v.Surface = s.surface
	case StatusReady:
		page := s.ctrl.CurrentPage()
		n, _ := s.ctrl.PageCount()
		v.CurrentPage = &page
		v.PageCount = &n
		v.ShowNavigation = true
		v.Surface = s.effectiveSurfaceLocked(page)
		v.Overlays = RenderOverlays(s.index.ForPage(page), v.Surface)
		v.HiddenElements = s.index.CountBeyond(n)
	}
	return v
}

// effectiveSurfaceLocked fills in a missing height from the page's native
// aspect ratio.
func (s *Shell) effectiveSurfaceLocked(page int) SurfaceSize {
	size := s.surface
	if size.WidthPx <= 0 || size.HeightPx > 0 {
		return size
	}
	if page >= 1 && page <= len(s.geometry) {
		if aspect := s.geometry[page-1].Aspect(); aspect > 0 {
			size.HeightPx = size.WidthPx * aspect
		}
	}
	return size
}
