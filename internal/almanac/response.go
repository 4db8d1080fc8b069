package almanac

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUpstream is returned when the almanac flags its own answer as an
	// error.
	ErrUpstream = errors.New("almanac reported an error")

	// ErrNoPhase is returned when a response names no phase at all.
	ErrNoPhase = errors.New("almanac response has no phase")
)

// Phenomenon is one timed sun or moon event, such as rise ("R") or
// upper transit ("U").
type Phenomenon struct {
	Phen string `json:"phen"`
	Time string `json:"time"`
}

// ClosestPhase is the primary phase nearest the queried day.
type ClosestPhase struct {
	Phase string `json:"phase"`
	Date  string `json:"date"`
	Time  string `json:"time"`
}

// Response is the one-day almanac answer.
type Response struct {
	Error      bool    `json:"error"`
	APIVersion string  `json:"apiversion"`
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	Day        int     `json:"day"`
	DayOfWeek  string  `json:"dayofweek"`
	State      string  `json:"state"`
	City       string  `json:"city"`
	Lon        float64 `json:"lon"`
	Lat        float64 `json:"lat"`
	TZ         float64 `json:"tz"`
	IsDST      string  `json:"isdst"`

	SunData      []Phenomenon `json:"sundata"`
	MoonData     []Phenomenon `json:"moondata"`
	ClosestPhase ClosestPhase `json:"closestphase"`
	FracIllum    string       `json:"fracillum"`

	// CurPhase is absent on days that hold a primary phase; ClosestPhase
	// names it instead.
	CurPhase *string `json:"curphase"`
}

// Parse decodes a one-day almanac JSON body.
func Parse(body []byte) (*Response, error) {
	var r Response
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}
	if r.Error {
		return nil, ErrUpstream
	}
	return &r, nil
}

// PhaseName returns the phase for the queried day: curphase when the
// almanac sent one, otherwise the closest primary phase.
func (r *Response) PhaseName() (string, error) {
	if r.CurPhase != nil && strings.TrimSpace(*r.CurPhase) != "" {
		return *r.CurPhase, nil
	}
	if r.ClosestPhase.Phase != "" {
		return r.ClosestPhase.Phase, nil
	}
	return "", ErrNoPhase
}

// Place formats the response location as "City, ST".
func (r *Response) Place() string {
	switch {
	case r.City != "" && r.State != "":
		return r.City + ", " + r.State
	case r.City != "":
		return r.City
	default:
		return r.State
	}
}
