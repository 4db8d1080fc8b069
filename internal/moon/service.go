package moon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/litescript/ls-moonphase/internal/cache"
	"github.com/litescript/ls-moonphase/internal/logging"
	"github.com/litescript/ls-moonphase/internal/lunar"
)

// Result is the outcome of resolving one day.
type Result struct {
	Date   time.Time
	Name   string // phase name as reported by the source; empty on a cache hit
	Glyph  string // empty when Name is not a known phase
	Source string
	Cached bool
}

// Known reports whether the result carries a glyph.
func (r Result) Known() bool {
	return r.Glyph != ""
}

// Phase returns the parsed phase, falling back to the glyph for cache hits.
func (r Result) Phase() (lunar.Phase, bool) {
	if p, err := lunar.ParsePhase(r.Name); err == nil {
		return p, true
	}
	for _, p := range lunar.AllPhases {
		if p.Glyph() == r.Glyph {
			return p, true
		}
	}
	return 0, false
}

// Service resolves the glyph for a date through a Source, caching today's
// answer.
type Service struct {
	source Source
	cache  *cache.Cache
	log    *logging.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithCache enables the day cache.
func WithCache(c *cache.Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Service) {
		s.log = l
	}
}

// WithClock overrides the clock used to decide which date is today.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a service over source.
func NewService(source Source, opts ...Option) *Service {
	s := &Service{
		source: source,
		log:    logging.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Source returns the configured source.
func (s *Service) Source() Source {
	return s.source
}

// Today resolves the current date.
func (s *Service) Today(ctx context.Context) (Result, error) {
	return s.Resolve(ctx, s.now())
}

// Resolve returns the glyph for t's calendar day.
//
// The cache is consulted and filled only when t falls on today. A name the
// glyph table does not know is returned with an empty glyph and no error,
// and is never cached. Source failures are returned as errors.
func (s *Service) Resolve(ctx context.Context, t time.Time) (Result, error) {
	res := Result{Date: t, Source: s.source.Name()}
	today := s.cache != nil && sameDay(t, s.now().In(t.Location()))

	if today {
		glyph, err := s.cache.Get()
		switch {
		case err == nil:
			s.log.Debug("cache hit %s: %s", s.cache.Path(), glyph)
			res.Glyph = glyph
			res.Cached = true
			return res, nil
		case errors.Is(err, cache.ErrMiss):
			s.log.Debug("%v", err)
		default:
			s.log.Warn("cache read: %v", err)
		}
	}

	name, err := s.source.PhaseName(ctx, t)
	if err != nil {
		return res, fmt.Errorf("%s: %w", s.source.Name(), err)
	}
	res.Name = name

	glyph, err := lunar.GlyphFor(name)
	if err != nil {
		s.log.Warn("%v", err)
		return res, nil
	}
	res.Glyph = glyph

	if today {
		if err := s.cache.Put(glyph); err != nil {
			s.log.Warn("cache write: %v", err)
		}
	}

	return res, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
