package cmd

import (
	"context"
	"strings"
	"testing"
)

func TestLookupLists(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		path  string
		body  string
		wants []string
	}{
		{
			name:  "customers",
			args:  []string{"customers", "list"},
			path:  "/api/customers",
			body:  `[{"ID": 7, "Name": "Acme AS", "CreatedAt": "2023-11-05T08:00:00Z"}]`,
			wants: []string{"ID", "NAME", "CREATED", "7", "Acme AS", "2023-11-05"},
		},
		{
			name:  "users",
			args:  []string{"users", "ls"},
			path:  "/api/users",
			body:  `[{"ID": 3, "Email": "ola@example.com", "Name": "Ola Nordmann"}]`,
			wants: []string{"EMAIL", "3", "Ola Nordmann", "ola@example.com"},
		},
		{
			name:  "categories",
			args:  []string{"categories", "list"},
			path:  "/api/categories",
			body:  `[{"ID": 4, "Name": "Levering"}]`,
			wants: []string{"ID", "NAME", "4", "Levering"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newRouteHandler().On("GET", tt.path, jsonResponse(200, tt.body))
			setupTestEnvWithHandler(t, handler)

			output := captureStdout(t, func() {
				if err := Execute(context.Background(), tt.args); err != nil {
					t.Fatalf("%s failed: %v", tt.name, err)
				}
			})
			for _, want := range tt.wants {
				if !strings.Contains(output, want) {
					t.Errorf("output missing %q:\n%s", want, output)
				}
			}
		})
	}
}

func TestLookupLists_JSONItems(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/categories", jsonResponse(200, `[{"ID": 2, "Name": "Faktura"}, {"ID": 4, "Name": "Levering"}]`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"categories", "list", "-o", "json"}); err != nil {
			t.Fatalf("list failed: %v", err)
		}
	})

	items := decodeItems(t, output)
	if len(items) != 2 || items[1]["Name"] != "Levering" {
		t.Errorf("items = %v", items)
	}
}

func TestLookupLists_EmptyJSONIsArray(t *testing.T) {
	handler := newRouteHandler().On("GET", "/api/users", jsonResponse(200, `[]`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"users", "list", "--json", "--compact-json"}); err != nil {
			t.Fatalf("list failed: %v", err)
		}
	})

	if strings.TrimSpace(output) != `{"items":[]}` {
		t.Errorf("output = %q", output)
	}
}

func TestLookupLists_CachedAcrossRuns(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/api/customers", jsonResponse(200, `[{"ID": 7, "Name": "Acme AS"}]`))
	setupTestEnvWithHandler(t, handler)

	for i := 0; i < 3; i++ {
		_ = captureStdout(t, func() {
			if err := Execute(context.Background(), []string{"customers", "list"}); err != nil {
				t.Fatalf("list failed: %v", err)
			}
		})
	}
	if got := handler.Hits("GET", "/api/customers"); got != 1 {
		t.Errorf("backend hits = %d, want 1", got)
	}
}

func TestLookupLists_RequireSession(t *testing.T) {
	handler := newRouteHandler().On("GET", "/api/customers", jsonResponse(200, `[]`))
	setupAnonymousEnv(t, handler)

	_ = captureStderr(t, func() {
		err := Execute(context.Background(), []string{"customers", "list"})
		if ExitCode(err) != exitAuth {
			t.Errorf("exit code = %d, want %d", ExitCode(err), exitAuth)
		}
	})
	if handler.Hits("GET", "/api/customers") != 0 {
		t.Error("anonymous request reached the backend")
	}
}
