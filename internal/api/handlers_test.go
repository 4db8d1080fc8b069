package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/litescript/ls-moonphase/internal/astro"
	"github.com/litescript/ls-moonphase/internal/ephem"
	"github.com/litescript/ls-moonphase/internal/lunar"
	"github.com/litescript/ls-moonphase/internal/moon"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type failingSource struct{}

func (failingSource) Name() string { return "almanac" }

func (failingSource) PhaseName(context.Context, time.Time) (string, error) {
	return "", errors.New("dial tcp: connection refused")
}

type brokenEphemeris struct{}

func (brokenEphemeris) TimeOfPhase(astro.AstronomicalDay, lunar.PrimaryPhase) (float64, error) {
	return 0, errors.New("out of range")
}

func testBackend() *Backend {
	eph := ephem.NewMeeusProvider()
	return &Backend{
		Default: moon.ModeEphemeris,
		Services: map[moon.Mode]*moon.Service{
			moon.ModeEphemeris: moon.NewService(moon.NewEphemerisSource(eph, nil)),
			moon.ModeLocal:     moon.NewService(moon.LocalSource{}),
			moon.ModeAlmanac:   moon.NewService(failingSource{}),
		},
		Locator:   lunar.NewLocator(eph),
		Ephemeris: eph.Name(),
		Location:  time.UTC,
		Now:       func() time.Time { return time.Date(2019, 11, 12, 9, 0, 0, 0, time.UTC) },
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *ErrorInfo      `json:"error"`
}

func get(t *testing.T, h http.Handler, target string) (int, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func TestHealthCheck(t *testing.T) {
	router := NewRouter(NewHandlers(testBackend(), nil))

	code, env := get(t, router, "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))
}

func TestGetPhase(t *testing.T) {
	tests := []struct {
		name   string
		target string
		phase  string
		glyph  string
		source string
	}{
		{"default source", "/api/v1/phase?date=2019-11-12", "Full Moon", "🌝", "ephemeris/meeus"},
		{"local source", "/api/v1/phase?date=2019-11-01&source=local", "Waxing Crescent", "🌒", "local"},
		{"today", "/api/v1/phase", "Full Moon", "🌝", "ephemeris/meeus"},
	}

	router := NewRouter(NewHandlers(testBackend(), nil))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := get(t, router, tt.target)
			require.Equal(t, http.StatusOK, code)
			require.True(t, env.Success)

			var data PhaseData
			require.NoError(t, json.Unmarshal(env.Data, &data))
			assert.Equal(t, tt.phase, data.Phase)
			assert.Equal(t, tt.glyph, data.Glyph)
			assert.Equal(t, tt.source, data.Source)
			assert.True(t, data.Known)
			assert.GreaterOrEqual(t, data.Position, 0.0)
			assert.Less(t, data.Position, 1.0)
		})
	}
}

func TestGetPhase_BadRequests(t *testing.T) {
	b := testBackend()
	delete(b.Services, moon.ModeLocal)
	router := NewRouter(NewHandlers(b, nil))

	for _, target := range []string{
		"/api/v1/phase?date=11/12/2019",
		"/api/v1/phase?date=2019-13-01",
		"/api/v1/phase?source=oracle",
		"/api/v1/phase?source=local",
		"/api/v1/anchors?date=yesterday",
	} {
		t.Run(target, func(t *testing.T) {
			code, env := get(t, router, target)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, CodeBadRequest, env.Error.Code)
		})
	}
}

func TestGetPhase_UpstreamFailure(t *testing.T) {
	router := NewRouter(NewHandlers(testBackend(), nil))

	code, env := get(t, router, "/api/v1/phase?date=2019-11-12&source=almanac")
	assert.Equal(t, http.StatusBadGateway, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, CodeUpstream, env.Error.Code)
	assert.Contains(t, env.Error.Message, "connection refused")
}

func TestGetAnchors(t *testing.T) {
	router := NewRouter(NewHandlers(testBackend(), nil))

	code, env := get(t, router, "/api/v1/anchors?date=2019-11-12")
	require.Equal(t, http.StatusOK, code)

	var cal moon.Calendar
	require.NoError(t, json.Unmarshal(env.Data, &cal))
	assert.Equal(t, "2019-11-12", cal.Date)
	assert.Equal(t, "Full Moon", cal.Phase)
	require.Len(t, cal.Anchors, 4)
	assert.Equal(t, "New Moon", cal.Anchors[0].Phase)
	assert.Equal(t, "2019-11-12", cal.Anchors[2].Time.UTC().Format(time.DateOnly))
}

func TestGetAnchors_NoAnchors(t *testing.T) {
	b := testBackend()
	b.Locator = lunar.NewLocator(brokenEphemeris{})
	router := NewRouter(NewHandlers(b, nil))

	code, env := get(t, router, "/api/v1/anchors?date=2019-11-12")
	assert.Equal(t, http.StatusBadGateway, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, CodeUpstream, env.Error.Code)
}

func TestNotFound(t *testing.T) {
	router := NewRouter(NewHandlers(testBackend(), nil))

	code, env := get(t, router, "/api/v2/phase")
	assert.Equal(t, http.StatusNotFound, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, CodeNotFound, env.Error.Code)
}

func TestHandlers_Swap(t *testing.T) {
	h := NewHandlers(testBackend(), nil)
	router := NewRouter(h)

	b := testBackend()
	b.Default = moon.ModeLocal
	h.Swap(b)

	_, env := get(t, router, "/api/v1/phase?date=2019-11-12")
	var data PhaseData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "local", data.Source)
}

func TestServer_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewServer(ln.Addr().String(), NewHandlers(testBackend(), nil))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	client.CloseIdleConnections()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("server did not stop")
	}
}
