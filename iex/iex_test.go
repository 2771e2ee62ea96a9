package iex

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ThomasStivers/portfolio"
	"github.com/ThomasStivers/portfolio/date"
)

const batchResponse = `{
  "TEST": {"chart": [
    {"date": "2020-01-02", "close": 100.0},
    {"date": "2020-01-03", "close": 101.5},
    {"date": "2019-12-31", "close": 99.0}
  ]},
  "OTHER": {"chart": [
    {"date": "2020-01-02", "close": 50.0}
  ]}
}`

func testServer(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("IEX_API_KEY", "test-key")
	return &Provider{Base: srv.URL, Client: srv.Client()}
}

func TestCloses(t *testing.T) {
	p := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("token"); got != "test-key" {
			t.Errorf("token = %q, want %q", got, "test-key")
		}
		if got := r.URL.Query().Get("symbols"); got != "TEST,OTHER" {
			t.Errorf("symbols = %q, want %q", got, "TEST,OTHER")
		}
		fmt.Fprint(w, batchResponse)
	})

	window := date.NewRange(date.New(2020, time.January, 1), date.New(2020, time.January, 31))
	prices, err := p.Closes([]string{"TEST", "OTHER"}, window)
	if err != nil {
		t.Fatalf("Closes() error = %v", err)
	}

	if close, ok := prices.Get("TEST", date.New(2020, time.January, 3)); !ok || close != 101.5 {
		t.Errorf("Get(TEST, 2020-01-03) = (%v, %v), want (101.5, true)", close, ok)
	}
	// The 2019 close falls outside the window and must be dropped.
	if _, ok := prices.Get("TEST", date.New(2019, time.December, 31)); ok {
		t.Errorf("Get(TEST, 2019-12-31) found a close outside the window")
	}
	if close, ok := prices.Get("OTHER", date.New(2020, time.January, 2)); !ok || close != 50 {
		t.Errorf("Get(OTHER, 2020-01-02) = (%v, %v), want (50, true)", close, ok)
	}
}

func TestClosesServerError(t *testing.T) {
	p := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	})

	window := date.NewRange(date.New(2020, time.January, 1), date.New(2020, time.January, 31))
	_, err := p.Closes([]string{"TEST"}, window)
	if !errors.Is(err, portfolio.ErrDataUnavailable) {
		t.Errorf("Closes() error = %v, want ErrDataUnavailable", err)
	}
}

func TestClosesEmptyResponse(t *testing.T) {
	p := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"TEST": {"chart": []}}`)
	})

	window := date.NewRange(date.New(2020, time.January, 1), date.New(2020, time.January, 31))
	_, err := p.Closes([]string{"TEST"}, window)
	if !errors.Is(err, portfolio.ErrDataUnavailable) {
		t.Errorf("Closes() error = %v, want ErrDataUnavailable", err)
	}
}

func TestChartRange(t *testing.T) {
	testCases := []struct {
		days int
		want string
	}{
		{3, "5d"},
		{20, "1m"},
		{60, "3m"},
		{300, "1y"},
		{1000, "5y"},
	}
	start := date.New(2020, time.January, 1)
	for _, tc := range testCases {
		window := date.NewRange(start, start.Add(tc.days-1))
		if got := chartRange(window); got != tc.want {
			t.Errorf("chartRange(%d days) = %q, want %q", tc.days, got, tc.want)
		}
	}
}
