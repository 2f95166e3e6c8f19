package cmd

import (
	"context"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/meetfewer/internal/server"
	"github.com/teemow/meetfewer/internal/store"
)

func TestParseCommaSeparatedList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "single value",
			input:    "alice",
			expected: []string{"alice"},
		},
		{
			name:     "multiple values",
			input:    "alice,bob",
			expected: []string{"alice", "bob"},
		},
		{
			name:     "values with spaces around comma",
			input:    "alice, bob",
			expected: []string{"alice", "bob"},
		},
		{
			name:     "values with leading/trailing spaces",
			input:    "  alice  ,  bob  ",
			expected: []string{"alice", "bob"},
		},
		{
			name:     "trailing comma",
			input:    "alice,bob,",
			expected: []string{"alice", "bob"},
		},
		{
			name:     "leading comma",
			input:    ",alice,bob",
			expected: []string{"alice", "bob"},
		},
		{
			name:     "multiple consecutive commas",
			input:    "alice,,bob",
			expected: []string{"alice", "bob"},
		},
		{
			name:     "only commas and spaces",
			input:    ",  , , ",
			expected: []string{},
		},
		{
			name:     "single value with surrounding whitespace",
			input:    "  alice  ",
			expected: []string{"alice"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseCommaSeparatedList(tt.input)

			// Handle nil vs empty slice comparison
			if tt.expected == nil {
				if result != nil {
					t.Errorf("parseCommaSeparatedList(%q) = %v, want nil", tt.input, result)
				}
				return
			}

			if len(result) != len(tt.expected) {
				t.Errorf("parseCommaSeparatedList(%q) = %v (len %d), want %v (len %d)",
					tt.input, result, len(result), tt.expected, len(tt.expected))
				return
			}

			for i, v := range result {
				if v != tt.expected[i] {
					t.Errorf("parseCommaSeparatedList(%q)[%d] = %q, want %q",
						tt.input, i, v, tt.expected[i])
				}
			}
		})
	}
}

func TestLoadMetricsEnvVars(t *testing.T) {
	t.Run("env vars apply when flags untouched", func(t *testing.T) {
		t.Setenv("MEETFEWER_METRICS_ENABLED", "false")
		t.Setenv("MEETFEWER_METRICS_ADDR", ":9999")

		cmd := newServeCmd()
		config := MetricsConfig{Enabled: true, Addr: ":9090"}
		loadMetricsEnvVars(cmd, &config)

		if config.Enabled {
			t.Error("expected MEETFEWER_METRICS_ENABLED=false to disable metrics")
		}
		if config.Addr != ":9999" {
			t.Errorf("Addr = %q, want %q", config.Addr, ":9999")
		}
	})

	t.Run("explicit flags win over env vars", func(t *testing.T) {
		t.Setenv("MEETFEWER_METRICS_ENABLED", "false")
		t.Setenv("MEETFEWER_METRICS_ADDR", ":9999")

		cmd := newServeCmd()
		if err := cmd.Flags().Set("metrics-enabled", "true"); err != nil {
			t.Fatal(err)
		}
		if err := cmd.Flags().Set("metrics-addr", ":7070"); err != nil {
			t.Fatal(err)
		}

		config := MetricsConfig{Enabled: true, Addr: ":7070"}
		loadMetricsEnvVars(cmd, &config)

		if !config.Enabled {
			t.Error("expected explicit flag to keep metrics enabled")
		}
		if config.Addr != ":7070" {
			t.Errorf("Addr = %q, want %q", config.Addr, ":7070")
		}
	})

	t.Run("invalid enabled value keeps default", func(t *testing.T) {
		t.Setenv("MEETFEWER_METRICS_ENABLED", "sometimes")

		cmd := newServeCmd()
		config := MetricsConfig{Enabled: true, Addr: ":9090"}
		loadMetricsEnvVars(cmd, &config)

		if !config.Enabled {
			t.Error("expected invalid env value to keep the default")
		}
	})
}

func TestRegisterAllTools(t *testing.T) {
	st, err := store.Open(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	sc := server.NewServerContext(context.Background(), st)
	defer func() {
		_ = sc.Shutdown()
	}()

	for _, readOnly := range []bool{true, false} {
		mcpSrv := mcpserver.NewMCPServer("meetfewer", "test",
			mcpserver.WithToolCapabilities(true),
			mcpserver.WithResourceCapabilities(false, false),
		)
		if err := registerAllTools(mcpSrv, sc, readOnly); err != nil {
			t.Fatalf("registerAllTools(readOnly=%v) error = %v", readOnly, err)
		}
	}
}
