// Package moon answers "what is the moon doing today" by combining a phase
// source with the day cache and the glyph table.
package moon

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/litescript/ls-moonphase/internal/almanac"
	"github.com/litescript/ls-moonphase/internal/ephem"
	"github.com/litescript/ls-moonphase/internal/logging"
	"github.com/litescript/ls-moonphase/internal/lunar"
)

// Source names the phase of the moon for a date.
type Source interface {
	// Name returns the source name for display/logging.
	Name() string

	// PhaseName returns the phase for t's calendar day. Remote sources may
	// return names outside the canonical eight.
	PhaseName(ctx context.Context, t time.Time) (string, error)
}

// Mode selects a Source.
type Mode int

const (
	ModeEphemeris Mode = iota // Anchor search over an ephemeris (default)
	ModeLocal                 // Calendar arithmetic only
	ModeAlmanac               // USNO one-day almanac
)

// Modes lists every source mode.
var Modes = []Mode{ModeEphemeris, ModeLocal, ModeAlmanac}

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeEphemeris:
		return "ephemeris"
	case ModeLocal:
		return "local"
	case ModeAlmanac:
		return "almanac"
	default:
		return "unknown"
	}
}

// ParseMode parses a source name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ephemeris":
		return ModeEphemeris, nil
	case "local":
		return ModeLocal, nil
	case "almanac":
		return ModeAlmanac, nil
	default:
		return ModeEphemeris, fmt.Errorf("unknown source %q (want local, ephemeris or almanac)", s)
	}
}

// Deps holds what the sources are built from.
type Deps struct {
	Ephemeris ephem.Provider
	Almanac   *almanac.Client
	Logger    *logging.Logger
}

// NewSource returns the source for mode. Missing dependencies fall back to
// the Meeus oracle, a default almanac client and a discarding logger.
func NewSource(mode Mode, deps Deps) Source {
	log := deps.Logger
	if log == nil {
		log = logging.Discard()
	}

	switch mode {
	case ModeLocal:
		return LocalSource{}
	case ModeAlmanac:
		client := deps.Almanac
		if client == nil {
			client = almanac.NewClient()
		}
		return &AlmanacSource{client: client, log: log}
	default:
		eph := deps.Ephemeris
		if eph == nil {
			eph = ephem.NewMeeusProvider()
		}
		return NewEphemerisSource(eph, log)
	}
}

// LocalSource classifies the date with lunar.Estimate.
type LocalSource struct{}

// Name implements Source.
func (LocalSource) Name() string {
	return "local"
}

// PhaseName implements Source.
func (LocalSource) PhaseName(_ context.Context, t time.Time) (string, error) {
	return lunar.Estimate(t).String(), nil
}

// EphemerisSource resolves the date between primary phase anchors.
type EphemerisSource struct {
	provider ephem.Provider
	resolver *lunar.Resolver
	log      *logging.Logger
}

// NewEphemerisSource creates a source backed by provider. A nil log
// discards.
func NewEphemerisSource(provider ephem.Provider, log *logging.Logger) *EphemerisSource {
	if log == nil {
		log = logging.Discard()
	}
	return &EphemerisSource{
		provider: provider,
		resolver: lunar.NewResolver(lunar.NewLocator(provider)),
		log:      log,
	}
}

// Name implements Source.
func (s *EphemerisSource) Name() string {
	return "ephemeris/" + strings.ToLower(s.provider.Name())
}

// PhaseName implements Source. Anchors that fail to locate are logged and
// skipped; only a date with no anchors at all is an error.
func (s *EphemerisSource) PhaseName(_ context.Context, t time.Time) (string, error) {
	phase, err := s.resolver.NearestPhase(t)
	if errors.Is(err, lunar.ErrNoAnchors) {
		return "", fmt.Errorf("resolve phase: %w", err)
	}
	if err != nil {
		s.log.Warn("partial anchors for %s: %v", t.Format(time.DateOnly), err)
	}
	return phase.String(), nil
}

// Resolver returns the underlying resolver.
func (s *EphemerisSource) Resolver() *lunar.Resolver {
	return s.resolver
}

// AlmanacSource asks the USNO almanac.
type AlmanacSource struct {
	client *almanac.Client
	log    *logging.Logger
}

// Name implements Source.
func (s *AlmanacSource) Name() string {
	return "almanac"
}

// PhaseName implements Source.
func (s *AlmanacSource) PhaseName(ctx context.Context, t time.Time) (string, error) {
	resp, err := s.client.Fetch(ctx, t)
	if err != nil {
		return "", err
	}

	s.log.Debug("almanac %s for %s: illumination %s, closest %s on %s %s",
		t.Format(time.DateOnly), resp.Place(), resp.FracIllum,
		resp.ClosestPhase.Phase, resp.ClosestPhase.Date, resp.ClosestPhase.Time)
	for _, p := range resp.MoonData {
		s.log.Debug("moon %s at %s", p.Phen, p.Time)
	}

	return resp.PhaseName()
}
