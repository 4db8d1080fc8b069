package almanac

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Fetch(t *testing.T) {
	var query url.Values
	var agent string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		agent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleResponse))
	})

	c := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	day := time.Date(2018, 6, 10, 9, 30, 0, 0, time.UTC)

	resp, err := c.Fetch(context.Background(), day)
	require.NoError(t, err)

	assert.Equal(t, "06/10/2018", query.Get("date"))
	assert.Equal(t, DefaultLocation, query.Get("loc"))
	assert.Contains(t, agent, "ls-moonphase/")

	name, err := resp.PhaseName()
	require.NoError(t, err)
	assert.Equal(t, "Waning Crescent", name)
}

func TestClient_FetchCustomLocation(t *testing.T) {
	var loc string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		loc = r.URL.Query().Get("loc")
		_, _ = w.Write([]byte(sampleResponse))
	})

	c := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithLocation("Boston, MA"))
	_, err := c.Fetch(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Boston, MA", loc)
	assert.Equal(t, "Boston, MA", c.Location())
}

func TestClient_FetchUsesLocalCalendarDay(t *testing.T) {
	c := NewClient()
	// 2018-06-11 02:00 UTC is still June 10 in San Francisco.
	pdt := time.FixedZone("PDT", -7*3600)
	day := time.Date(2018, 6, 11, 2, 0, 0, 0, time.UTC).In(pdt)

	target, err := c.RequestURL(day)
	require.NoError(t, err)
	assert.Contains(t, target, "date=06%2F10%2F2018")
	assert.Contains(t, target, "loc=San+Francisco%2C+CA")
}

func TestClient_FetchStatusError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	})

	c := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	_, err := c.Fetch(context.Background(), time.Now())

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
	assert.Contains(t, statusErr.Error(), "service unavailable")
}

func TestClient_FetchMalformedBody(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	})

	c := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	_, err := c.Fetch(context.Background(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse almanac data")
}

func TestClient_FetchHonoursContext(t *testing.T) {
	release := make(chan struct{})
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	defer close(release)

	c := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Fetch(ctx, time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

func TestClient_BadBaseURL(t *testing.T) {
	c := NewClient(WithBaseURL("://nope"))
	_, err := c.Fetch(context.Background(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse base URL")
}
