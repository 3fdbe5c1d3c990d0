package ephem

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

var testDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func TestClient_ProxyQuery(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"result": "$$SOE\n2024-Jan-01 00:00 10 20 30.0 +5 00 00\n$$EOE\n"}`)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL + "/planet-data"))
	res := c.Fetch(context.Background(), "399", testDate)
	if res.Error != nil {
		t.Fatalf("unexpected error: %v", res.Error)
	}

	if gotQuery.Get("command") != "399" {
		t.Errorf("command = %q, want 399", gotQuery.Get("command"))
	}
	if gotQuery.Get("date") != "2024-01-01" {
		t.Errorf("date = %q, want 2024-01-01", gotQuery.Get("date"))
	}
	if !strings.Contains(res.Result, "$$SOE") {
		t.Errorf("result missing data region: %q", res.Result)
	}
	if res.Command != "399" || !res.Date.Equal(testDate) {
		t.Errorf("FetchResult metadata = %q %v", res.Command, res.Date)
	}
}

func TestClient_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, `oops`, ErrStatus},
		{"not found", http.StatusNotFound, `{"result": "x"}`, ErrStatus},
		{"missing result", http.StatusOK, `{"other": 1}`, ErrNoResult},
		{"empty result", http.StatusOK, `{"result": ""}`, ErrNoResult},
		{"horizons error", http.StatusOK, `{"error": "Cannot interpret date"}`, ErrNoResult},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			c := NewClient(WithBaseURL(srv.URL))
			_, err := c.Query(context.Background(), "499", testDate)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestClient_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer srv.Close()

	_, err := NewClient(WithBaseURL(srv.URL)).Query(context.Background(), "499", testDate)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if errors.Is(err, ErrStatus) || errors.Is(err, ErrNoResult) {
		t.Errorf("invalid JSON misclassified: %v", err)
	}
}

func TestClient_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result": "x"}`)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(WithBaseURL(srv.URL)).Query(ctx, "399", testDate)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestClient_HorizonsParams(t *testing.T) {
	c := NewClient(WithMode(ModeHorizons))
	if c.BaseURL() != HorizonsAPIURL {
		t.Fatalf("BaseURL = %q, want %q", c.BaseURL(), HorizonsAPIURL)
	}

	raw, err := c.RequestURL("599", testDate)
	if err != nil {
		t.Fatalf("RequestURL: %v", err)
	}
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}

	q := u.Query()
	want := map[string]string{
		"format":     "json",
		"COMMAND":    "'599'",
		"CENTER":     "'500@399'",
		"START_TIME": "'2024-01-01'",
		"STOP_TIME":  "'2024-01-02'",
		"STEP_SIZE":  "'1 d'",
		"QUANTITIES": "'1'",
	}
	for k, v := range want {
		if got := q.Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
}

func TestClient_RateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result": "x"}`)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithRateLimit(20, 1))

	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := c.Query(context.Background(), "399", testDate); err != nil {
			t.Fatalf("query %d: %v", i, err)
		}
	}
	// Burst of 1 at 20/s: the 2nd and 3rd requests each wait ~50ms.
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("3 requests took %v, expected pacing", elapsed)
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient()
	if c.Mode() != ModeProxy {
		t.Errorf("Mode = %v, want proxy", c.Mode())
	}
	if c.BaseURL() != DefaultProxyURL {
		t.Errorf("BaseURL = %q, want %q", c.BaseURL(), DefaultProxyURL)
	}
}
