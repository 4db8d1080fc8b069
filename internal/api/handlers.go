// Package api serves moon phases over HTTP as JSON.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/litescript/ls-moonphase/internal/logging"
	"github.com/litescript/ls-moonphase/internal/lunar"
	"github.com/litescript/ls-moonphase/internal/moon"
)

// Backend is everything a request resolves phases with. It is replaced as
// a whole when the configuration changes.
type Backend struct {
	Default   moon.Mode
	Services  map[moon.Mode]*moon.Service
	Locator   *lunar.Locator
	Ephemeris string
	Location  *time.Location
	Now       func() time.Time
}

// Handlers holds the HTTP handlers.
type Handlers struct {
	mu      sync.RWMutex
	backend *Backend
	log     *logging.Logger
}

// NewHandlers creates handlers over b.
func NewHandlers(b *Backend, log *logging.Logger) *Handlers {
	if log == nil {
		log = logging.Discard()
	}
	return &Handlers{backend: b, log: log}
}

// Swap replaces the backend for subsequent requests.
func (h *Handlers) Swap(b *Backend) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.backend = b
}

func (h *Handlers) current() *Backend {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.backend
}

// PhaseData is the body of a phase answer.
type PhaseData struct {
	Date     string  `json:"date"`
	Phase    string  `json:"phase"`
	Glyph    string  `json:"glyph,omitempty"`
	Known    bool    `json:"known"`
	Source   string  `json:"source"`
	Position float64 `json:"position"`
}

// HealthCheck handles GET /health.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	_ = WriteSuccess(w, map[string]string{"status": "ok"})
}

// GetPhase handles GET /api/v1/phase?date=YYYY-MM-DD&source=local|ephemeris|almanac.
func (h *Handlers) GetPhase(w http.ResponseWriter, r *http.Request) {
	b := h.current()

	t, err := b.date(r.URL.Query().Get("date"))
	if err != nil {
		_ = WriteBadRequest(w, err.Error())
		return
	}

	mode := b.Default
	if s := r.URL.Query().Get("source"); s != "" {
		if mode, err = moon.ParseMode(s); err != nil {
			_ = WriteBadRequest(w, err.Error())
			return
		}
	}
	svc, ok := b.Services[mode]
	if !ok {
		_ = WriteBadRequest(w, fmt.Sprintf("source %s is not enabled", mode))
		return
	}

	res, err := svc.Resolve(r.Context(), t)
	if err != nil {
		h.log.Warn("phase %s via %s: %v", t.Format(time.DateOnly), mode, err)
		_ = WriteUpstreamError(w, err.Error())
		return
	}

	_ = WriteSuccess(w, PhaseData{
		Date:     t.Format(time.DateOnly),
		Phase:    res.Name,
		Glyph:    res.Glyph,
		Known:    res.Known(),
		Source:   res.Source,
		Position: lunar.Position(t),
	})
}

// GetAnchors handles GET /api/v1/anchors?date=YYYY-MM-DD.
func (h *Handlers) GetAnchors(w http.ResponseWriter, r *http.Request) {
	b := h.current()

	t, err := b.date(r.URL.Query().Get("date"))
	if err != nil {
		_ = WriteBadRequest(w, err.Error())
		return
	}

	cal, err := moon.BuildCalendar(b.Locator, b.Ephemeris, t)
	if errors.Is(err, lunar.ErrNoAnchors) {
		_ = WriteUpstreamError(w, err.Error())
		return
	}
	if err != nil {
		h.log.Warn("anchors %s: %v", cal.Date, err)
	}

	_ = WriteSuccess(w, cal)
}

// NotFound answers unknown routes with the JSON envelope.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	_ = WriteNotFound(w, "no route for "+r.URL.Path)
}

// date parses a YYYY-MM-DD query value in the backend's location. An empty
// value means now.
func (b *Backend) date(s string) (time.Time, error) {
	loc := b.Location
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	if s == "" {
		now := time.Now
		if b.Now != nil {
			now = b.Now
		}
		return now().In(loc), nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}
