package viewer

import "fmt"

// Status is the load state of the hosted document.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "idle":
		*s = StatusIdle
	case "loading":
		*s = StatusLoading
	case "ready":
		*s = StatusReady
	case "error":
		*s = StatusError
	default:
		return fmt.Errorf("unknown viewer status %q", b)
	}
	return nil
}

// NoPagesMessage is reported when a document loads with zero pages.
const NoPagesMessage = "document has no pages"

// LoadController tracks document load state and the selected page.
//
// Every Begin or Reset starts a new generation; completions carrying an
// older generation are ignored. The zero value is Idle and ready to use.
// LoadController is not safe for concurrent use; Shell serializes access.
type LoadController struct {
	status      Status
	pageCount   int
	currentPage int
	errMsg      string
	generation  uint64
}

// Begin moves to Loading for a newly supplied document and returns the
// generation the eventual completion must carry.
func (c *LoadController) Begin() uint64 {
	c.generation++
	c.status = StatusLoading
	c.pageCount = 0
	c.currentPage = 1
	c.errMsg = ""
	return c.generation
}

// Loaded applies a successful load. It returns false if the completion is
// stale or arrives outside Loading.
func (c *LoadController) Loaded(gen uint64, pageCount int) bool {
	if gen != c.generation || c.status != StatusLoading {
		return false
	}
	if pageCount < 1 {
		c.status = StatusError
		c.errMsg = NoPagesMessage
		return true
	}
	c.status = StatusReady
	c.pageCount = pageCount
	c.currentPage = clamp(c.currentPage, 1, pageCount)
	return true
}

// Failed applies a load failure. It returns false if the completion is
// stale or arrives outside Loading.
func (c *LoadController) Failed(gen uint64, msg string) bool {
	if gen != c.generation || c.status != StatusLoading {
		return false
	}
	c.status = StatusError
	c.errMsg = msg
	c.pageCount = 0
	return true
}

// Reset returns to Idle, discarding any in-flight load.
func (c *LoadController) Reset() {
	c.generation++
	c.status = StatusIdle
	c.pageCount = 0
	c.currentPage = 1
	c.errMsg = ""
}

// GoToPage selects page n, clamped to [1, pageCount]. It is only legal in
// Ready and returns false otherwise.
func (c *LoadController) GoToPage(n int) bool {
	if c.status != StatusReady {
		return false
	}
	c.currentPage = clamp(n, 1, c.pageCount)
	return true
}

func (c *LoadController) Status() Status     { return c.status }
func (c *LoadController) Generation() uint64 { return c.generation }
func (c *LoadController) CurrentPage() int   { return c.currentPage }

// PageCount returns the page count; ok is false unless Ready.
func (c *LoadController) PageCount() (n int, ok bool) {
	if c.status != StatusReady {
		return 0, false
	}
	return c.pageCount, true
}

// Err returns the failure message in Error, "" otherwise.
func (c *LoadController) Err() string {
	if c.status != StatusError {
		return ""
	}
	return c.errMsg
}

func (c *LoadController) CanPrev() bool {
	return c.status == StatusReady && c.currentPage > 1
}

func (c *LoadController) CanNext() bool {
	return c.status == StatusReady && c.currentPage < c.pageCount
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
