package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// TestNewConfig tests the default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	c := NewConfig()
	if c.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", c.Timeout, DefaultTimeout)
	}
	if c.MaxPages != DefaultMaxPages {
		t.Errorf("MaxPages = %d, want %d", c.MaxPages, DefaultMaxPages)
	}
	if c.DecisionLimit != DefaultDecisionLimit {
		t.Errorf("DecisionLimit = %d, want %d", c.DecisionLimit, DefaultDecisionLimit)
	}
	if c.BatchSize != DefaultBatchSize {
		t.Errorf("BatchSize = %d, want %d", c.BatchSize, DefaultBatchSize)
	}
	if c.RequestInterval != DefaultRequestInterval {
		t.Errorf("RequestInterval = %v, want %v", c.RequestInterval, DefaultRequestInterval)
	}
	if c.UserAgent == "" {
		t.Error("expected non-empty default user agent")
	}
}

// TestConfigValidate tests validation error cases.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		c := NewConfig()
		c.Targets = []string{"example.com"}
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid", func(*Config) {}, nil},
		{"no targets", func(c *Config) { c.Targets = nil }, ErrNoTarget},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, ErrInvalidTimeout},
		{"zero max pages", func(c *Config) { c.MaxPages = 0 }, ErrInvalidMaxPages},
		{"zero decision limit", func(c *Config) { c.DecisionLimit = 0 }, ErrInvalidDecisionLimit},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }, ErrInvalidBatchSize},
		{"conflicting formats", func(c *Config) { c.JSONReport = true; c.MarkdownReport = true }, ErrConflictingReportFormats},
		{"negative interval", func(c *Config) { c.RequestInterval = -time.Second }, ErrInvalidRequestInterval},
		{"negative page bytes", func(c *Config) { c.MaxPageBytes = -1 }, ErrInvalidMaxPageBytes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := valid()
			tt.mutate(c)
			if err := c.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestLoadConfigFile tests YAML site config loading.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads sites and defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `
defaults:
  maxPages: 10
sites:
  example.com:
    cookie: "session=abc"
    extraPaths:
      - /ons-team
    headers:
      X-Forwarded-For: "10.0.0.1"
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("LoadConfigFile() error = %v", err)
		}

		site := cf.GetSiteConfig("example.com")
		if site.Cookie != "session=abc" {
			t.Errorf("Cookie = %q", site.Cookie)
		}
		if site.MaxPages != 10 {
			t.Errorf("MaxPages = %d, want 10 from defaults", site.MaxPages)
		}
		if diff := cmp.Diff([]string{"/ons-team"}, site.ExtraPaths); diff != "" {
			t.Errorf("ExtraPaths mismatch (-want +got):\n%s", diff)
		}
		if site.Headers["X-Forwarded-For"] != "10.0.0.1" {
			t.Errorf("Headers = %v", site.Headers)
		}

		unknown := cf.GetSiteConfig("other.example")
		if unknown.MaxPages != 10 || unknown.Cookie != "" {
			t.Errorf("expected defaults for unknown site, got %+v", unknown)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("sites: [broken"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected parse error")
		}
	})
}

// TestFindConfigFile tests explicit path resolution.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("sites: {}"), 0600); err != nil {
			t.Fatal(err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("FindConfigFile() = %q, want %q", got, path)
		}
	})

	t.Run("explicit missing path", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "nope")); got != "" {
			t.Errorf("FindConfigFile() = %q, want empty", got)
		}
	})
}

// TestLoadTargetsFile tests the three accepted input formats.
func TestLoadTargetsFile(t *testing.T) {
	t.Parallel()

	write := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "targets")
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("json array", func(t *testing.T) {
		t.Parallel()

		got, err := LoadTargetsFile(write(t, `["example.com", " b.example ", ""]`))
		if err != nil {
			t.Fatalf("LoadTargetsFile() error = %v", err)
		}
		want := []string{"example.com", "b.example"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("targets mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("json object with websites", func(t *testing.T) {
		t.Parallel()

		got, err := LoadTargetsFile(write(t, `{"websites": ["a.example"], "other": 1}`))
		if err != nil {
			t.Fatalf("LoadTargetsFile() error = %v", err)
		}
		if len(got) != 1 || got[0] != "a.example" {
			t.Errorf("targets = %v", got)
		}
	})

	t.Run("json object with urls", func(t *testing.T) {
		t.Parallel()

		got, err := LoadTargetsFile(write(t, `{"urls": ["https://a.example"]}`))
		if err != nil {
			t.Fatalf("LoadTargetsFile() error = %v", err)
		}
		if len(got) != 1 || got[0] != "https://a.example" {
			t.Errorf("targets = %v", got)
		}
	})

	t.Run("line delimited with comments", func(t *testing.T) {
		t.Parallel()

		got, err := LoadTargetsFile(write(t, "a.example\n# comment\n\nb.example\n"))
		if err != nil {
			t.Fatalf("LoadTargetsFile() error = %v", err)
		}
		want := []string{"a.example", "b.example"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("targets mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty file", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadTargetsFile(write(t, "   \n")); err == nil {
			t.Error("expected error for empty file")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadTargetsFile(filepath.Join(t.TempDir(), "nope")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

// TestDedupeTargets tests order-preserving input deduplication.
func TestDedupeTargets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"no duplicates", []string{"a.example", "b.example"}, []string{"a.example", "b.example"}},
		{"repeat dropped, first kept", []string{"a.example", "b.example", "a.example"}, []string{"a.example", "b.example"}},
		{"case insensitive", []string{"Example.com", "example.com"}, []string{"Example.com"}},
		{"blanks dropped", []string{" ", "a.example", ""}, []string{"a.example"}},
		{"empty input", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := DedupeTargets(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("DedupeTargets(%v) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("DedupeTargets(%v)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
				}
			}
		})
	}
}
