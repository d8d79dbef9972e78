package session

import (
	"sync"
	"time"

	"github.com/dgallion1/docreview/internal/extract"
	"github.com/dgallion1/docreview/internal/render"
	"github.com/dgallion1/docreview/internal/viewer"
	"github.com/google/uuid"
)

// ExtractStatus represents the state of a session's extraction.
type ExtractStatus string

const (
	StatusEmpty      ExtractStatus = "empty"
	StatusQueued     ExtractStatus = "queued"
	StatusExtracting ExtractStatus = "extracting"
	StatusCompleted  ExtractStatus = "completed"
	StatusFailed     ExtractStatus = "failed"
)

// Session is one review workspace: an uploaded document, its extraction
// result and the viewer that shows them.
type Session struct {
	mu sync.Mutex

	ID    string
	Shell *viewer.Shell

	filename  string
	model     string
	status    ExtractStatus
	errMsg    string
	metrics   extract.Metrics
	markdown  string
	dropped   int
	createdAt time.Time
	updatedAt time.Time

	// seq increases on every file replacement; extraction results for an
	// older seq are discarded. Shell updates happen under mu so the viewer
	// always shows the version named by seq. Shell never calls back into
	// Session.
	seq      uint64
	fileData []byte
}

func newSession(shell *viewer.Shell) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		Shell:     shell,
		status:    StatusEmpty,
		createdAt: now,
		updatedAt: now,
	}
}

// Job is a queued extraction for one version of a session's document.
type Job struct {
	SessionID string
	Seq       uint64
	Model     string
	Filename  string
	Data      []byte
}

// Replace hosts a new document, superseding the current one and any
// extraction in flight for it. The returned job must be submitted.
func (s *Session) Replace(filename, model string, data []byte) Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.resetLocked()
	s.filename = filename
	s.model = model
	s.fileData = data
	s.status = StatusQueued

	s.Shell.SetElements(nil)
	s.Shell.Open(render.Document{Name: filename, Data: data})
	return Job{SessionID: s.ID, Seq: s.seq, Model: model, Filename: filename, Data: data}
}

// Clear drops the hosted document.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.resetLocked()
	s.status = StatusEmpty
	s.Shell.Clear()
}

// resetLocked forgets everything derived from the previous document.
func (s *Session) resetLocked() {
	s.filename = ""
	s.model = ""
	s.fileData = nil
	s.errMsg = ""
	s.metrics = extract.Metrics{}
	s.markdown = ""
	s.dropped = 0
	s.updatedAt = time.Now()
}

// Begin marks the extraction for seq as running. It returns false if seq
// has been superseded.
func (s *Session) Begin(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.status = StatusExtracting
	s.updatedAt = time.Now()
	return true
}

// Complete applies an extraction result for seq. It returns false if seq
// has been superseded.
func (s *Session) Complete(seq uint64, res *extract.Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.status = StatusCompleted
	s.metrics = res.Metrics
	s.markdown = res.Markdown
	s.dropped = res.Dropped
	s.updatedAt = time.Now()
	s.Shell.SetElements(res.Elements)
	return true
}

// Fail records an extraction failure for seq and clears the document, so
// the user starts over with a new upload.
func (s *Session) Fail(seq uint64, msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.status = StatusFailed
	s.errMsg = msg
	s.fileData = nil
	s.updatedAt = time.Now()
	s.Shell.Clear()
	return true
}

// Document returns the hosted document, if any.
func (s *Session) Document() (render.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fileData == nil {
		return render.Document{}, false
	}
	return render.Document{Name: s.filename, Data: s.fileData}, true
}

// Markdown returns the extracted markdown.
func (s *Session) Markdown() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markdown
}

func (s *Session) touch() {
	s.mu.Lock()
	s.updatedAt = time.Now()
	s.mu.Unlock()
}

func (s *Session) lastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

// Snapshot is a read-only, JSON-safe copy of session state.
type Snapshot struct {
	ID        string          `json:"session_id"`
	Filename  string          `json:"filename,omitempty"`
	Model     string          `json:"model,omitempty"`
	Status    ExtractStatus   `json:"status"`
	Error     string          `json:"error,omitempty"`
	Metrics   extract.Metrics `json:"metrics"`
	Dropped   int             `json:"dropped_elements"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:        s.ID,
		Filename:  s.filename,
		Model:     s.model,
		Status:    s.status,
		Error:     s.errMsg,
		Metrics:   s.metrics,
		Dropped:   s.dropped,
		CreatedAt: s.createdAt,
		UpdatedAt: s.updatedAt,
	}
}

// Store is a thread-safe in-memory session registry with TTL eviction.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	newShell func() *viewer.Shell
}

// NewStore creates a registry; newShell builds the viewer for each session.
func NewStore(ttl time.Duration, newShell func() *viewer.Shell) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		newShell: newShell,
	}
}

// Create registers a new, empty session.
func (st *Store) Create() *Session {
	sess := newSession(st.newShell())
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[sess.ID] = sess
	return sess
}

// Get returns a session by ID and refreshes its TTL.
func (st *Store) Get(id string) *Session {
	st.mu.Lock()
	sess := st.sessions[id]
	st.mu.Unlock()
	if sess != nil {
		sess.touch()
	}
	return sess
}

// Delete removes a session and releases its viewer.
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	sess, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if ok {
		sess.Shell.Close()
	}
	return ok
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Cleanup removes expired sessions.
func (st *Store) Cleanup() int {
	now := time.Now()
	var expired []*Session
	st.mu.Lock()
	for id, sess := range st.sessions {
		if now.Sub(sess.lastUsed()) > st.ttl {
			expired = append(expired, sess)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, sess := range expired {
		sess.Shell.Close()
	}
	return len(expired)
}

// CloseAll releases every session.
func (st *Store) CloseAll() {
	st.mu.Lock()
	all := st.sessions
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()
	for _, sess := range all {
		sess.Shell.Close()
	}
}
