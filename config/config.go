package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/spacesedan/swotflow/internal/apperrors"
)

const envPrefix = "SWOTFLOW_"

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Source    SourceConfig    `koanf:"source"`
	Sentiment SentimentConfig `koanf:"sentiment"`
	Chart     ChartConfig     `koanf:"chart"`
	Store     StoreConfig     `koanf:"store"`
	Kafka     KafkaConfig     `koanf:"kafka"`
}

type ServerConfig struct {
	Port           string        `koanf:"port"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

type SourceConfig struct {
	Provider    string        `koanf:"provider"`
	Timeout     time.Duration `koanf:"timeout"`
	ReviewLimit int           `koanf:"review_limit"`
	Google      GoogleConfig  `koanf:"google"`
	Reddit      RedditConfig  `koanf:"reddit"`
	Feed        FeedConfig    `koanf:"feed"`
}

type GoogleConfig struct {
	APIKey         string   `koanf:"api_key"`
	SearchEngineID string   `koanf:"search_engine_id"`
	Endpoint       string   `koanf:"endpoint"`
	Sites          []string `koanf:"sites"`
}

type RedditConfig struct {
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	TokenURL     string `koanf:"token_url"`
	APIURL       string `koanf:"api_url"`
	Limit        int    `koanf:"limit"`
}

type FeedConfig struct {
	URLTemplate string `koanf:"url_template"`
}

type SentimentConfig struct {
	Backend   string       `koanf:"backend"`
	Model     string       `koanf:"model"`
	ModelDir  string       `koanf:"model_dir"`
	BatchSize int          `koanf:"batch_size"`
	OpenAI    OpenAIConfig `koanf:"openai"`
}

type OpenAIConfig struct {
	APIKey      string `koanf:"api_key"`
	Model       string `koanf:"model"`
	Concurrency int    `koanf:"concurrency"`
}

type ChartConfig struct {
	Enabled     bool `koanf:"enabled"`
	FailOnError bool `koanf:"fail_on_error"`
}

type StoreConfig struct {
	Backends   []string       `koanf:"backends"`
	ResultsDir string         `koanf:"results_dir"`
	PDFDir     string         `koanf:"pdf_dir"`
	SQLitePath string         `koanf:"sqlite_path"`
	DynamoDB   DynamoDBConfig `koanf:"dynamodb"`
	Valkey     ValkeyConfig   `koanf:"valkey"`
}

type DynamoDBConfig struct {
	Table    string `koanf:"table"`
	Region   string `koanf:"region"`
	Endpoint string `koanf:"endpoint"`
}

type ValkeyConfig struct {
	Address  string        `koanf:"address"`
	Password string        `koanf:"password"`
	TLS      bool          `koanf:"tls"`
	TTL      time.Duration `koanf:"ttl"`
}

type KafkaConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Broker          string        `koanf:"broker"`
	GroupID         string        `koanf:"group_id"`
	RequestTopic    string        `koanf:"request_topic"`
	ResultTopic     string        `koanf:"result_topic"`
	Watchlist       []string      `koanf:"watchlist"`
	RequestInterval time.Duration `koanf:"request_interval"`
	CommitRetries   int           `koanf:"commit_retries"`
	CommitBackoff   time.Duration `koanf:"commit_backoff"`
}

func defaults() map[string]any {
	return map[string]any{
		"server.port":                  ":5000",
		"server.request_timeout":       "120s",
		"log.level":                    "info",
		"source.provider":              "google",
		"source.timeout":               "15s",
		"source.review_limit":          0,
		"source.google.endpoint":       "https://www.googleapis.com/customsearch/v1",
		"source.google.sites":          []string{"amazon.in", "flipkart.com"},
		"source.reddit.token_url":      "https://www.reddit.com/api/v1/access_token",
		"source.reddit.api_url":        "https://oauth.reddit.com",
		"source.reddit.limit":          25,
		"sentiment.backend":            "hugot",
		"sentiment.model":              "KnightsAnalytics/distilbert-base-uncased-finetuned-sst-2-english",
		"sentiment.model_dir":          "./models",
		"sentiment.batch_size":         32,
		"sentiment.openai.model":       "gpt-4o-mini",
		"sentiment.openai.concurrency": 4,
		"chart.enabled":                true,
		"chart.fail_on_error":          false,
		"store.backends":               []string{"file"},
		"store.results_dir":            "analysis_results",
		"store.pdf_dir":                "pdf_reports",
		"store.sqlite_path":            "swotflow.db",
		"store.dynamodb.table":         "SwotAnalyses",
		"store.dynamodb.region":        "us-west-2",
		"store.valkey.address":         "localhost:6379",
		"store.valkey.ttl":             "24h",
		"kafka.enabled":                false,
		"kafka.broker":                 "localhost:29092",
		"kafka.group_id":               "swotflow-consumer-group",
		"kafka.request_topic":          "swot-requests",
		"kafka.result_topic":           "swot-results",
		"kafka.watchlist":              []string{},
		"kafka.request_interval":       "6h",
		"kafka.commit_retries":         5,
		"kafka.commit_backoff":         "2s",
	}
}

// legacyEnv maps the variable names the original deployment used onto
// config keys. They are applied before the prefixed variables so the latter
// win.
var legacyEnv = map[string]string{
	"GOOGLE_API_KEY":       "source.google.api_key",
	"SEARCH_ENGINE_ID":     "source.google.search_engine_id",
	"OPENAI_API_KEY":       "sentiment.openai.api_key",
	"REDDIT_CLIENT_ID":     "source.reddit.client_id",
	"REDDIT_CLIENT_SECRET": "source.reddit.client_secret",
	"AWS_ENDPOINT":         "store.dynamodb.endpoint",
	"KAFKA_BROKER":         "kafka.broker",
}

// Load layers defaults, an optional YAML file and the environment. path may
// be empty, and a missing file is ignored.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}

	legacy := map[string]any{}
	for name, key := range legacyEnv {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			legacy[key] = v
		}
	}
	if port, ok := os.LookupEnv("PORT"); ok && port != "" {
		legacy["server.port"] = ":" + strings.TrimPrefix(port, ":")
	}
	if err := k.Load(confmap.Provider(legacy, "."), nil); err != nil {
		return nil, fmt.Errorf("load legacy env: %w", err)
	}

	// SWOTFLOW_SOURCE__GOOGLE__API_KEY -> source.google.api_key
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Store.Backends = splitList(cfg.Store.Backends)
	cfg.Source.Google.Sites = splitList(cfg.Source.Google.Sites)
	cfg.Kafka.Watchlist = splitList(cfg.Kafka.Watchlist)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Source.Provider {
	case "google", "reddit", "feed":
	default:
		return fmt.Errorf("%w: unknown source provider %q", apperrors.ErrInvalidInput, c.Source.Provider)
	}

	switch c.Sentiment.Backend {
	case "hugot", "vader", "openai":
	default:
		return fmt.Errorf("%w: unknown sentiment backend %q", apperrors.ErrInvalidInput, c.Sentiment.Backend)
	}

	for _, b := range c.Store.Backends {
		switch b {
		case "file", "sqlite", "dynamodb", "valkey":
		default:
			return fmt.Errorf("%w: unknown store backend %q", apperrors.ErrInvalidInput, b)
		}
	}

	if c.Kafka.RequestInterval <= 0 {
		return fmt.Errorf("%w: kafka.request_interval must be positive, got %s", apperrors.ErrInvalidInput, c.Kafka.RequestInterval)
	}

	if c.Source.Provider == "feed" && !strings.Contains(c.Source.Feed.URLTemplate, "%s") {
		return fmt.Errorf("%w: source.feed.url_template must contain %%s", apperrors.ErrInvalidInput)
	}
	return nil
}

// splitList expands comma separated entries, which is how list values arrive
// from the environment.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
