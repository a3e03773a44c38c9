package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/spacesedan/swotflow/internal/apperrors"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Source.Provider != "google" {
		t.Errorf("Source.Provider = %q, want google", cfg.Source.Provider)
	}
	if cfg.Sentiment.Backend != "hugot" {
		t.Errorf("Sentiment.Backend = %q, want hugot", cfg.Sentiment.Backend)
	}
	if cfg.Source.Timeout != 15*time.Second {
		t.Errorf("Source.Timeout = %v, want 15s", cfg.Source.Timeout)
	}
	if !reflect.DeepEqual(cfg.Store.Backends, []string{"file"}) {
		t.Errorf("Store.Backends = %v, want [file]", cfg.Store.Backends)
	}
	if !reflect.DeepEqual(cfg.Source.Google.Sites, []string{"amazon.in", "flipkart.com"}) {
		t.Errorf("Google.Sites = %v", cfg.Source.Google.Sites)
	}
	if !cfg.Chart.Enabled || cfg.Chart.FailOnError {
		t.Errorf("unexpected chart defaults %+v", cfg.Chart)
	}
	if cfg.Kafka.RequestInterval != 6*time.Hour || len(cfg.Kafka.Watchlist) != 0 ||
		cfg.Kafka.CommitRetries != 5 || cfg.Kafka.CommitBackoff != 2*time.Second {
		t.Errorf("unexpected kafka defaults %+v", cfg.Kafka)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlDoc := `
sentiment:
  backend: vader
  batch_size: 8
store:
  backends: [file, sqlite]
  results_dir: /tmp/results
chart:
  fail_on_error: true
`
	if err := os.WriteFile(path, []byte(yamlDoc), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("GOOGLE_API_KEY", "legacy-key")
	t.Setenv("SEARCH_ENGINE_ID", "cx-123")
	t.Setenv("PORT", "8081")
	t.Setenv("SWOTFLOW_SENTIMENT__BATCH_SIZE", "16")
	t.Setenv("SWOTFLOW_SOURCE__TIMEOUT", "3s")
	t.Setenv("SWOTFLOW_KAFKA__WATCHLIST", "Widget X, Widget Y")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Sentiment.Backend != "vader" {
		t.Errorf("Sentiment.Backend = %q, want vader", cfg.Sentiment.Backend)
	}
	if cfg.Sentiment.BatchSize != 16 {
		t.Errorf("Sentiment.BatchSize = %d, want env override 16", cfg.Sentiment.BatchSize)
	}
	if cfg.Source.Timeout != 3*time.Second {
		t.Errorf("Source.Timeout = %v, want 3s", cfg.Source.Timeout)
	}
	if !reflect.DeepEqual(cfg.Store.Backends, []string{"file", "sqlite"}) {
		t.Errorf("Store.Backends = %v", cfg.Store.Backends)
	}
	if cfg.Source.Google.APIKey != "legacy-key" || cfg.Source.Google.SearchEngineID != "cx-123" {
		t.Errorf("legacy google env not applied: %+v", cfg.Source.Google)
	}
	if cfg.Server.Port != ":8081" {
		t.Errorf("Server.Port = %q, want :8081", cfg.Server.Port)
	}
	if !cfg.Chart.FailOnError {
		t.Error("Chart.FailOnError should come from the file")
	}
	if !reflect.DeepEqual(cfg.Kafka.Watchlist, []string{"Widget X", "Widget Y"}) {
		t.Errorf("Kafka.Watchlist = %q", cfg.Kafka.Watchlist)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != ":5000" {
		t.Errorf("Server.Port = %q, want :5000", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		if err != nil {
			t.Fatal(err)
		}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.Source.Provider = "bing" }},
		{"unknown backend", func(c *Config) { c.Sentiment.Backend = "bert" }},
		{"unknown store", func(c *Config) { c.Store.Backends = []string{"s3"} }},
		{"zero request interval", func(c *Config) { c.Kafka.RequestInterval = 0 }},
		{"negative request interval", func(c *Config) { c.Kafka.RequestInterval = -time.Minute }},
		{"feed without placeholder", func(c *Config) {
			c.Source.Provider = "feed"
			c.Source.Feed.URLTemplate = "https://example.com/rss"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Errorf("Validate() = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList([]string{"file, sqlite", "", " valkey "})
	want := []string{"file", "sqlite", "valkey"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitList = %v, want %v", got, want)
	}
}

func TestLoadRejectsZeroRequestInterval(t *testing.T) {
	t.Setenv("SWOTFLOW_KAFKA__REQUEST_INTERVAL", "0s")

	if _, err := Load(""); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("Load() error = %v, want ErrInvalidInput", err)
	}
}
