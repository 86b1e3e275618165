package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func releaseServer(t *testing.T, status int, body string) Checker {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/vnd.github.v3+json" {
			t.Errorf("unexpected Accept header %q", got)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return Checker{ReleasesURL: server.URL, HTTP: server.Client()}
}

func TestCanonical(t *testing.T) {
	tests := map[string]string{
		"1.2.3":   "v1.2.3",
		"v1.2.3":  "v1.2.3",
		" 0.1.0 ": "v0.1.0",
		"":        "v",
	}
	for in, want := range tests {
		if got := canonical(in); got != want {
			t.Errorf("canonical(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCheck_SkipsDevAndEmpty(t *testing.T) {
	c := Checker{ReleasesURL: "http://127.0.0.1:0"}
	for _, v := range []string{"dev", ""} {
		if c.Check(context.Background(), v) != nil {
			t.Errorf("expected nil result for version %q", v)
		}
	}
}

func TestCheck_DisabledByEnv(t *testing.T) {
	t.Setenv(EnvNoUpdateCheck, "1")
	c := releaseServer(t, http.StatusOK, `{"tag_name":"v9.0.0"}`)
	if c.Check(context.Background(), "1.0.0") != nil {
		t.Fatal("expected nil result when the check is disabled")
	}
}

func TestCheck_Versions(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		tag       string
		available bool
	}{
		{"patch", "1.0.0", "v1.0.1", true},
		{"minor", "1.0.0", "v1.1.0", true},
		{"major", "1.9.9", "v2.0.0", true},
		{"same", "1.0.0", "v1.0.0", false},
		{"same with prefix", "v1.0.0", "1.0.0", false},
		{"current newer", "2.0.0", "v1.5.0", false},
		{"prerelease to release", "1.0.0-beta.1", "v1.0.0", true},
		{"build metadata ignored", "1.0.0+abc", "v1.0.0", false},
		{"invalid current", "not-a-version", "v1.0.0", false},
		{"invalid latest", "1.0.0", "latest", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := releaseServer(t, http.StatusOK, `{"tag_name":"`+tt.tag+`","html_url":"https://example.test/r"}`)
			result := c.Check(context.Background(), tt.current)
			if result == nil {
				t.Fatal("expected a result")
			}
			if result.UpdateAvailable != tt.available {
				t.Errorf("UpdateAvailable = %v, want %v", result.UpdateAvailable, tt.available)
			}
			if result.CurrentVersion != tt.current {
				t.Errorf("CurrentVersion = %q, want %q", result.CurrentVersion, tt.current)
			}
			if result.UpdateURL != "https://example.test/r" {
				t.Errorf("UpdateURL = %q", result.UpdateURL)
			}
		})
	}
}

func TestCheck_LatestVersionStripsPrefix(t *testing.T) {
	c := releaseServer(t, http.StatusOK, `{"tag_name":"v1.4.0"}`)
	result := c.Check(context.Background(), "1.0.0")
	if result == nil || result.LatestVersion != "1.4.0" {
		t.Fatalf("expected LatestVersion 1.4.0, got %+v", result)
	}
}

func TestCheck_FailuresReturnNil(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{}`},
		{"not found", http.StatusNotFound, `{}`},
		{"forbidden", http.StatusForbidden, `{}`},
		{"rate limited", http.StatusTooManyRequests, `{}`},
		{"invalid json", http.StatusOK, `not json`},
		{"empty body", http.StatusOK, ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := releaseServer(t, tt.status, tt.body)
			if result := c.Check(context.Background(), "1.0.0"); result != nil {
				t.Fatalf("expected nil, got %+v", result)
			}
		})
	}
}

func TestCheck_ConnectionErrorAndCanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()
	if result := (Checker{ReleasesURL: url}).Check(context.Background(), "1.0.0"); result != nil {
		t.Fatalf("expected nil on connection error, got %+v", result)
	}

	c := releaseServer(t, http.StatusOK, `{"tag_name":"v2.0.0"}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if result := c.Check(ctx, "1.0.0"); result != nil {
		t.Fatalf("expected nil on canceled context, got %+v", result)
	}
}

func TestCheck_InvalidURL(t *testing.T) {
	if result := (Checker{ReleasesURL: "://bad"}).Check(context.Background(), "1.0.0"); result != nil {
		t.Fatalf("expected nil for invalid URL, got %+v", result)
	}
}
