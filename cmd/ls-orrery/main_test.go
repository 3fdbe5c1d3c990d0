package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun_FlagErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"version", []string{"-version"}, 0},
		{"unknown flag", []string{"-bogus"}, 2},
		{"missing config", []string{"-config", filepath.Join(t.TempDir(), "none.yaml")}, 2},
		{"bad date", []string{"-date", "01/02/2024", "-summary"}, 2},
		{"bad mode", []string{"-ephem", "carrier-pigeon", "-summary"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := run(tt.args); got != tt.want {
				t.Errorf("run(%v) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}
}

func TestRun_HeadlessFailureFlushesTraces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	logPath := filepath.Join(t.TempDir(), "orrery.log")
	code := run([]string{
		"-summary",
		"-ephem", "proxy",
		"-base-url", srv.URL,
		"-rate", "1000",
		"-trace", "stdout",
		"-log-file", logPath,
	})
	if code != 1 {
		t.Fatalf("run = %d, want 1 when no body is positioned", code)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	// Batched spans only reach the exporter when the provider shuts down.
	if !strings.Contains(string(data), "refresh.cycle") {
		t.Error("cycle span not exported; tracing shutdown did not run")
	}
}
