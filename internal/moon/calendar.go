package moon

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-moonphase/internal/lunar"
)

// Format is a calendar output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ParseFormat parses an output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatTOML, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json, toml or yaml)", s)
	}
}

// AnchorEntry is one primary phase in a calendar.
type AnchorEntry struct {
	Phase string    `json:"phase" toml:"phase" yaml:"phase"`
	Glyph string    `json:"glyph" toml:"glyph" yaml:"glyph"`
	Time  time.Time `json:"time" toml:"time" yaml:"time"`
}

// Calendar lists the primary phases of the lunation around a date.
type Calendar struct {
	Date      string        `json:"date" toml:"date" yaml:"date"`
	Ephemeris string        `json:"ephemeris" toml:"ephemeris" yaml:"ephemeris"`
	Phase     string        `json:"phase" toml:"phase" yaml:"phase"`
	Anchors   []AnchorEntry `json:"anchors" toml:"anchors" yaml:"anchors"`
}

// BuildCalendar locates the anchors for t. Anchors that fail are left out
// and reported through the returned error alongside the partial calendar.
func BuildCalendar(loc *lunar.Locator, ephemeris string, t time.Time) (Calendar, error) {
	anchors, err := loc.Anchors(t)

	cal := Calendar{
		Date:      t.Format(time.DateOnly),
		Ephemeris: ephemeris,
		Anchors:   make([]AnchorEntry, 0, len(anchors)),
	}
	if len(anchors) > 0 {
		cal.Phase = lunar.ResolveAnchors(t, anchors).String()
	}
	for _, a := range anchors {
		cal.Anchors = append(cal.Anchors, AnchorEntry{
			Phase: a.Phase.String(),
			Glyph: a.Phase.Phase().Glyph(),
			Time:  a.Time.Truncate(time.Second),
		})
	}

	return cal, err
}

// Encode writes the calendar in format.
func (c Calendar) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(c)
	case FormatTOML:
		return toml.NewEncoder(w).Encode(c)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		return c.writeText(w)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func (c Calendar) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t(%s)\n", c.Date, c.Phase, c.Ephemeris)
	for _, a := range c.Anchors {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", a.Glyph, a.Phase, a.Time.Format("Mon Jan 2 15:04 MST"))
	}
	return tw.Flush()
}
