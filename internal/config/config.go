// Package config loads and validates the folio configuration.
//
// Configuration sources, lowest to highest priority:
//  1. Built-in defaults (mirroring the tuned search constants)
//  2. YAML config file (folio.yaml)
//  3. Environment variables (FOLIO_*)
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	folioerrors "github.com/atelierhq/folio/internal/errors"
)

// Config represents the complete folio configuration.
type Config struct {
	Paths      PathsConfig      `yaml:"paths"`
	Search     SearchConfig     `yaml:"search"`
	Suggest    SuggestConfig    `yaml:"suggest"`
	Embeddings EmbeddingsConfig `yaml:"embeddings"`
	Server     ServerConfig     `yaml:"server"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	LogLevel   string           `yaml:"log_level"`
}

// PathsConfig configures the data files the server reads and owns.
type PathsConfig struct {
	// WorksFile is the precomputed works snapshot (JSON, with embeddings).
	WorksFile string `yaml:"works_file"`
	// ImagesFile is the precomputed image catalog (JSON, with embeddings).
	ImagesFile string `yaml:"images_file"`
	// HistoryFile is the persisted search history (owned by folio).
	HistoryFile string `yaml:"history_file"`
	// TelemetryDB is the local query telemetry database.
	TelemetryDB string `yaml:"telemetry_db"`
	// PublicDir is the static site directory served at /.
	PublicDir string `yaml:"public_dir"`
	// LogFile is an optional log file path.
	LogFile string `yaml:"log_file"`
}

// SearchConfig configures hybrid search weights and thresholds.
// The four strategy weights must sum to 1.0.
type SearchConfig struct {
	// SemanticWeight is the weight for embedding similarity (default 0.60).
	// Semantic dominates by design: portfolio visitors search by concept,
	// not by exact vocabulary.
	SemanticWeight float64 `yaml:"semantic_weight"`
	// KeywordWeight is the weight for inverted-index matches (default 0.15).
	KeywordWeight float64 `yaml:"keyword_weight"`
	// FuzzyWeight is the weight for typo-tolerant matches (default 0.10).
	FuzzyWeight float64 `yaml:"fuzzy_weight"`
	// MetadataWeight is the weight for year/medium/category/tag matches
	// (default 0.15).
	MetadataWeight float64 `yaml:"metadata_weight"`

	// SemanticThreshold is the minimum cosine similarity for a semantic
	// match to participate in the merge (default 0.15).
	SemanticThreshold float64 `yaml:"semantic_threshold"`
	// KeywordThreshold is the minimum keyword score (default 0: any
	// nonzero term overlap passes).
	KeywordThreshold float64 `yaml:"keyword_threshold"`
	// FuzzyThreshold is the maximum normalized edit distance for a fuzzy
	// match (default 0.4, lower is stricter).
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"`
	// CombinedThreshold is the minimum combined score for inclusion in
	// results (default 0.12).
	CombinedThreshold float64 `yaml:"combined_threshold"`

	// MaxResults is the hard result cap (default 50).
	MaxResults int `yaml:"max_results"`
	// DefaultLimit is the per-request default limit (default 20).
	DefaultLimit int `yaml:"default_limit"`

	// TextWeight and ImageWeight configure the multimodal blend
	// (defaults 0.7 / 0.3).
	TextWeight  float64 `yaml:"text_weight"`
	ImageWeight float64 `yaml:"image_weight"`
	// MinSimilarity is the multimodal inclusion floor (default 0.1).
	MinSimilarity float64 `yaml:"min_similarity"`

	// Timeout bounds a single search request, including provider calls
	// (default 15s). A stalled embedding call degrades the request
	// instead of hanging it.
	Timeout time.Duration `yaml:"timeout"`
}

// SuggestConfig configures the query suggestion engine.
type SuggestConfig struct {
	// DefaultLimit is the suggestion count per request (default 5).
	DefaultLimit int `yaml:"default_limit"`
	// SeedDefaults controls idempotent seeding of a fresh history.
	SeedDefaults bool `yaml:"seed_defaults"`
}

// EmbeddingsConfig configures the embedding provider.
type EmbeddingsConfig struct {
	// Provider selects the implementation: "ollama" or "static".
	Provider string `yaml:"provider"`
	// Model is the text embedding model name.
	Model string `yaml:"model"`
	// ImageModel is the multimodal model used for image embeddings.
	ImageModel string `yaml:"image_model"`
	// OllamaHost is the Ollama API endpoint.
	OllamaHost string `yaml:"ollama_host"`
	// CacheSize is the query embedding LRU cache size (default 1000).
	CacheSize int `yaml:"cache_size"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// TelemetryConfig configures local query telemetry.
type TelemetryConfig struct {
	Enabled bool `yaml:"enabled"`
	// FlushInterval is how often aggregated metrics are written to the
	// telemetry database (default 1m).
	FlushInterval time.Duration `yaml:"flush_interval"`
}

// Default returns a Config with the tuned defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			WorksFile:   "data/works-index.json",
			ImagesFile:  "data/image-catalog.json",
			HistoryFile: "data/search-history.json",
			TelemetryDB: "data/telemetry.db",
			PublicDir:   "public",
		},
		Search: SearchConfig{
			SemanticWeight:    0.60,
			KeywordWeight:     0.15,
			FuzzyWeight:       0.10,
			MetadataWeight:    0.15,
			SemanticThreshold: 0.15,
			KeywordThreshold:  0.0,
			FuzzyThreshold:    0.4,
			CombinedThreshold: 0.12,
			MaxResults:        50,
			DefaultLimit:      20,
			TextWeight:        0.7,
			ImageWeight:       0.3,
			MinSimilarity:     0.1,
			Timeout:           15 * time.Second,
		},
		Suggest: SuggestConfig{
			DefaultLimit: 5,
			SeedDefaults: true,
		},
		Embeddings: EmbeddingsConfig{
			Provider:   "ollama",
			Model:      "all-minilm",
			ImageModel: "llava",
			OllamaHost: "http://localhost:11434",
			CacheSize:  1000,
		},
		Server: ServerConfig{
			Addr: ":3000",
		},
		Telemetry: TelemetryConfig{
			Enabled:       true,
			FlushInterval: time.Minute,
		},
		LogLevel: "info",
	}
}

// Load reads configuration from the given YAML file, layering it over the
// defaults and applying environment overrides. A missing file is not an
// error: defaults plus environment apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults apply.
		case err != nil:
			return nil, folioerrors.Wrap(folioerrors.ErrCodeConfigNotFound, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, folioerrors.Wrap(folioerrors.ErrCodeConfigInvalid, err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv applies FOLIO_* environment overrides.
func (c *Config) applyEnv() {
	if v := os.Getenv("FOLIO_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("FOLIO_OLLAMA_HOST"); v != "" {
		c.Embeddings.OllamaHost = v
	}
	if v := os.Getenv("FOLIO_EMBEDDER"); v != "" {
		c.Embeddings.Provider = v
	}
	if v := os.Getenv("FOLIO_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("FOLIO_SEMANTIC_WEIGHT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Search.SemanticWeight = f
		}
	}
	if v := os.Getenv("FOLIO_KEYWORD_WEIGHT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Search.KeywordWeight = f
		}
	}
	if v := os.Getenv("FOLIO_FUZZY_WEIGHT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Search.FuzzyWeight = f
		}
	}
	if v := os.Getenv("FOLIO_METADATA_WEIGHT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Search.MetadataWeight = f
		}
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	sum := c.Search.SemanticWeight + c.Search.KeywordWeight +
		c.Search.FuzzyWeight + c.Search.MetadataWeight
	if math.Abs(sum-1.0) > 1e-9 {
		return folioerrors.New(folioerrors.ErrCodeConfigInvalid,
			fmt.Sprintf("search weights must sum to 1.0, got %.4f", sum), nil)
	}

	blend := c.Search.TextWeight + c.Search.ImageWeight
	if math.Abs(blend-1.0) > 1e-9 {
		return folioerrors.New(folioerrors.ErrCodeConfigInvalid,
			fmt.Sprintf("multimodal weights must sum to 1.0, got %.4f", blend), nil)
	}

	if c.Search.MaxResults <= 0 || c.Search.DefaultLimit <= 0 {
		return folioerrors.New(folioerrors.ErrCodeConfigInvalid,
			"result limits must be positive", nil)
	}

	if c.Search.DefaultLimit > c.Search.MaxResults {
		return folioerrors.New(folioerrors.ErrCodeConfigInvalid,
			"default_limit cannot exceed max_results", nil)
	}

	return nil
}
