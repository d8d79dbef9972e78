package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"net/http"
	"strconv"

	"github.com/dgallion1/docreview/internal/markup"
	"github.com/dgallion1/docreview/internal/render"
	"github.com/dgallion1/docreview/internal/viewer"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	writeView(w, sess)
}

func (s *Server) handleSurface(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	var size viewer.SurfaceSize
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&size); err != nil {
		jsonError(w, "invalid surface: "+err.Error(), http.StatusBadRequest)
		return
	}
	sess.Shell.Resize(size)
	writeView(w, sess)
}

func (s *Server) handleGoToPage(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	var req struct {
		Page int `json:"page"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		jsonError(w, "invalid page request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if navigate(w, sess.Shell.GoToPage(req.Page)) {
		writeView(w, sess)
	}
}

func (s *Server) handleNextPage(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	if navigate(w, sess.Shell.Next()) {
		writeView(w, sess)
	}
}

func (s *Server) handlePrevPage(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	if navigate(w, sess.Shell.Prev()) {
		writeView(w, sess)
	}
}

// navigate reports whether a page change succeeded, answering 409 while
// no document is ready.
func navigate(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, viewer.ErrNotReady):
		jsonError(w, err.Error(), http.StatusConflict)
	default:
		jsonError(w, err.Error(), http.StatusInternalServerError)
	}
	return false
}

func (s *Server) handleOverlayHTML(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	var buf bytes.Buffer
	if err := markup.RenderOverlay(&buf, sess.Shell.View()); err != nil {
		s.log.Error("overlay render failed", "session_id", sess.ID, "error", err)
		jsonError(w, "overlay render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handlePageImage(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil || page < 1 {
		jsonError(w, "page must be a positive integer", http.StatusBadRequest)
		return
	}

	v := sess.Shell.View()
	doc, ok := sess.Document()
	if !ok || v.Status != viewer.StatusReady {
		jsonError(w, viewer.ErrNotReady.Error(), http.StatusConflict)
		return
	}
	if page > *v.PageCount {
		jsonError(w, render.ErrPageOutOfRange.Error(), http.StatusNotFound)
		return
	}

	width := int(v.Surface.WidthPx)
	if q := r.URL.Query().Get("width"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			jsonError(w, "width must be a non-negative integer", http.StatusBadRequest)
			return
		}
		width = n
	}

	surface, err := s.pages.RenderPage(r.Context(), doc, page, width)
	if err != nil {
		if errors.Is(err, render.ErrPageOutOfRange) {
			jsonError(w, err.Error(), http.StatusNotFound)
			return
		}
		s.log.Error("page render failed", "session_id", sess.ID, "page", page, "error", err)
		jsonError(w, "page render failed", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, surface.Image); err != nil {
		s.log.Error("png encode failed", "session_id", sess.ID, "page", page, "error", err)
		jsonError(w, "page render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

func (s *Server) handleMarkdown(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	out, err := markup.RenderMarkdown(sess.Markdown())
	if err != nil {
		s.log.Error("markdown render failed", "session_id", sess.ID, "error", err)
		jsonError(w, "markdown render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(out)
}
