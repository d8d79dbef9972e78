package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docreview/internal/extract"
	"github.com/dgallion1/docreview/internal/session"
	"github.com/go-chi/chi/v5"
)

type upload struct {
	filename string
	model    string
	data     []byte
}

// readUpload parses a multipart PDF upload. On failure it has already
// written the error response.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (upload, bool) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return upload{}, false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return upload{}, false
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return upload{}, false
	}

	model := r.FormValue("model")
	if model == "" {
		model = s.cfg.ExtractDefaultModel
	}
	if !extract.Models[model] {
		jsonError(w, fmt.Sprintf("%s: %s", extract.ErrUnsupportedModel, model), http.StatusBadRequest)
		return upload{}, false
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return upload{}, false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return upload{}, false
	}
	if len(data) == 0 {
		jsonError(w, "file is empty", http.StatusBadRequest)
		return upload{}, false
	}

	return upload{filename: filename, model: model, data: data}, true
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	up, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	sess := s.sessions.Create()
	if !s.submit(w, sess, up) {
		s.sessions.Delete(sess.ID)
		return
	}
	s.log.Info("session created", "session_id", sess.ID, "filename", up.filename, "model", up.model)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"session_id": sess.ID,
		"status":     sess.Snapshot().Status,
		"view_url":   fmt.Sprintf("/api/sessions/%s/view", sess.ID),
	})
}

func (s *Server) handleReplaceDocument(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	up, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	if !s.submit(w, sess, up) {
		return
	}
	s.log.Info("document replaced", "session_id", sess.ID, "filename", up.filename, "model", up.model)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(sess.Snapshot())
}

// submit hosts the upload in sess and queues its extraction.
func (s *Server) submit(w http.ResponseWriter, sess *session.Session, up upload) bool {
	job := sess.Replace(up.filename, up.model, up.data)
	if err := s.orchestrator.Submit(job); err != nil {
		s.log.Warn("extraction not queued", "session_id", sess.ID, "error", err)
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return false
	}
	return true
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	v := sess.Shell.View()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"session": sess.Snapshot(),
		"viewer": map[string]any{
			"status":       v.Status,
			"error":        v.Error,
			"page_count":   v.PageCount,
			"current_page": v.CurrentPage,
		},
	})
}

func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	sess := s.lookup(w, r)
	if sess == nil {
		return
	}
	sess.Clear()
	writeView(w, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if !s.sessions.Delete(id) {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	s.log.Info("session deleted", "session_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// lookup resolves the session named in the URL, writing 404 if it is gone.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) *session.Session {
	sess := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if sess == nil {
		jsonError(w, "session not found", http.StatusNotFound)
	}
	return sess
}

func writeView(w http.ResponseWriter, sess *session.Session) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sess.Shell.View())
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
