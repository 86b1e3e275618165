package cmd

import (
	"context"
	"strings"
	"testing"
)

func TestExecute_Help(t *testing.T) {
	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"--help"}); err != nil {
			t.Errorf("Execute() with --help failed: %v", err)
		}
	})

	for _, want := range []string{"kk", "auth", "complaints", "comment", "customers", "users", "categories", "cache", "version"} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q", want)
		}
	}
}

func TestExecute_UnknownCommandSuggestion(t *testing.T) {
	stderr := captureStderr(t, func() {
		err := Execute(context.Background(), []string{"complants", "list"})
		if ExitCode(err) != exitUsage {
			t.Errorf("exit code = %d, want %d", ExitCode(err), exitUsage)
		}
	})
	if !strings.Contains(stderr, `Did you mean "complaints"?`) {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestExecute_UnknownFlagSuggestion(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	stderr := captureStderr(t, func() {
		err := Execute(context.Background(), []string{"complaints", "list", "--custmer", "7"})
		if ExitCode(err) != exitUsage {
			t.Errorf("exit code = %d, want %d", ExitCode(err), exitUsage)
		}
	})
	if !strings.Contains(stderr, `Did you mean "--customer"?`) {
		t.Errorf("stderr = %q", stderr)
	}
	if !strings.Contains(stderr, "kk complaints list --help") {
		t.Errorf("stderr missing help hint: %q", stderr)
	}
}

func TestExecute_GlobalFlagValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"json conflicts with text", []string{"version", "--json", "--output", "text"}},
		{"bad color", []string{"version", "--color", "rainbow"}},
		{"query needs json", []string{"version", "--output", "text", "--query", ".version"}},
		{"zero timeout", []string{"version", "--timeout", "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubUpdateCheck(t, "dev", nil)
			_ = captureStderr(t, func() {
				err := Execute(context.Background(), tt.args)
				if ExitCode(err) != exitUsage {
					t.Errorf("exit code = %d, want %d (err %v)", ExitCode(err), exitUsage, err)
				}
			})
		})
	}
}

func TestExecute_QueryImpliesJSON(t *testing.T) {
	stubUpdateCheck(t, "dev", nil)
	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"version", "--query", ".version"}); err != nil {
			t.Fatalf("version failed: %v", err)
		}
	})
	if strings.TrimSpace(output) != `"dev"` {
		t.Errorf("output = %q", output)
	}
}

func TestExecute_JSONLines(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/categories", jsonResponse(200, `[{"ID": 2, "Name": "Faktura"}, {"ID": 4, "Name": "Levering"}]`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"categories", "list", "-o", "ndjson"}); err != nil {
			t.Fatalf("list failed: %v", err)
		}
	})

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != 2 || lines[0] != `{"ID":2,"Name":"Faktura"}` {
		t.Errorf("lines = %q", lines)
	}
}

func TestExecute_QuietSuppressesText(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/categories", jsonResponse(200, `[{"ID": 4, "Name": "Levering"}]`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"categories", "list", "--quiet"}); err != nil {
			t.Fatalf("list failed: %v", err)
		}
	})
	if output != "" {
		t.Errorf("output = %q, want empty", output)
	}
}

func TestExecute_ProtectedCommandsAreMarked(t *testing.T) {
	root := newRootCmd()
	for _, path := range [][]string{
		{"complaints", "list"},
		{"complaints", "create"},
		{"comment"},
		{"comments", "create"},
		{"customers", "list"},
		{"users", "list"},
		{"categories", "list"},
	} {
		cmd, _, err := root.Find(path)
		if err != nil {
			t.Fatalf("find %v: %v", path, err)
		}
		if !requiresAuth(cmd) {
			t.Errorf("%v should require a session", path)
		}
	}
	for _, path := range [][]string{{"auth", "login"}, {"auth", "status"}, {"version"}, {"cache", "clear"}} {
		cmd, _, err := root.Find(path)
		if err != nil {
			t.Fatalf("find %v: %v", path, err)
		}
		if requiresAuth(cmd) {
			t.Errorf("%v should not require a session", path)
		}
	}
}

func TestExecute_ResetsFlagsBetweenRuns(t *testing.T) {
	stubUpdateCheck(t, "dev", nil)
	_ = captureStdout(t, func() {
		_ = Execute(context.Background(), []string{"version", "--json"})
	})
	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"version"}); err != nil {
			t.Fatalf("version failed: %v", err)
		}
	})
	if strings.HasPrefix(strings.TrimSpace(output), "{") {
		t.Errorf("--json leaked into the next run: %q", output)
	}
}
