package moon

import (
	"testing"
	"time"

	"github.com/litescript/ls-moonphase/internal/ephem"
	"github.com/litescript/ls-moonphase/internal/lunar"
)

func TestCompareMonth_November2019(t *testing.T) {
	r := lunar.NewResolver(lunar.NewLocator(ephem.NewMeeusProvider()))
	rows := CompareMonth(r, time.Date(2019, 11, 17, 8, 0, 0, 0, time.UTC))

	if len(rows) != 30 {
		t.Fatalf("got %d rows, want 30", len(rows))
	}
	if rows[0].Date.Day() != 1 || rows[0].Date.Hour() != 0 {
		t.Errorf("first row = %v, want midnight Nov 1", rows[0].Date)
	}

	for _, row := range rows {
		if row.Err != nil {
			t.Fatalf("%v: %v", row.Date, row.Err)
		}
		if row.Position < 0 || row.Position >= 1 {
			t.Errorf("%v: position %v out of range", row.Date, row.Position)
		}
	}

	if !rows[0].Agree() {
		t.Errorf("Nov 1: resolver %v and estimator %v disagree", rows[0].Resolved, rows[0].Estimated)
	}
	if rows[11].Resolved != lunar.FullMoon {
		t.Errorf("Nov 12 resolved %v, want Full Moon", rows[11].Resolved)
	}
}

func TestCompareMonth_LeapFebruary(t *testing.T) {
	r := lunar.NewResolver(lunar.NewLocator(ephem.NewMeanProvider()))
	if got := len(CompareMonth(r, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))); got != 29 {
		t.Errorf("got %d rows, want 29", got)
	}
}

func TestRow_Agree(t *testing.T) {
	tests := []struct {
		name string
		row  Row
		want bool
	}{
		{"same", Row{Resolved: lunar.FullMoon, Estimated: lunar.FullMoon}, true},
		{"adjacent", Row{Resolved: lunar.FullMoon, Estimated: lunar.WaningGibbous}, true},
		{"wrap", Row{Resolved: lunar.WaningCrescent, Estimated: lunar.NewMoon}, true},
		{"two apart", Row{Resolved: lunar.FullMoon, Estimated: lunar.LastQuarter}, false},
		{"unresolved", Row{Err: lunar.ErrNoAnchors}, false},
	}

	for _, tt := range tests {
		if got := tt.row.Agree(); got != tt.want {
			t.Errorf("%s: Agree() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
