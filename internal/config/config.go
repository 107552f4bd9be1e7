// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Defaults used when neither the config file nor flags set a value.
const (
	DefaultDataDir       = "data"
	DefaultChunkSize     = 200
	DefaultChunkOverlap  = 20
	DefaultTopK          = 5
	DefaultMaxPollRounds = 500
	DefaultPort          = 8080
)

// Config is the full configuration surface. All fields are optional in the
// JSON file; missing values fall back to defaults or CLI flags.
type Config struct {
	// Capabilities
	APIKey          string `json:"api_key,omitempty"`
	GenerationModel string `json:"generation_model,omitempty"`
	EmbeddingModel  string `json:"embedding_model,omitempty"`

	// Sources
	Channels      []string `json:"channels,omitempty" validate:"dive,required"`
	MaxPollRounds int      `json:"max_poll_rounds,omitempty" validate:"gte=0"`

	// Storage
	DataDir    string `json:"data_dir,omitempty"`
	CorpusPath string `json:"corpus_path,omitempty"`
	IndexPath  string `json:"index_path,omitempty"`

	// Retrieval
	ChunkSize    int `json:"chunk_size,omitempty" validate:"gte=0"`
	ChunkOverlap int `json:"chunk_overlap,omitempty" validate:"gte=0"`
	TopK         int `json:"top_k,omitempty" validate:"gte=0"`

	// HTTP
	Port int `json:"port,omitempty" validate:"gte=0,lte=65535"`
}

var validate = validator.New()

// Load reads a JSON config file and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field ranges. Required fields are not enforced here; the
// CLI validates those after merging flags and environment.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	return nil
}

// ApplyDefaults fills every unset field with its default. Paths derive from
// DataDir unless set explicitly.
func (c *Config) ApplyDefaults() {
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.CorpusPath == "" {
		c.CorpusPath = filepath.Join(c.DataDir, "cleaned", "combined_news.json")
	}
	if c.IndexPath == "" {
		c.IndexPath = filepath.Join(c.DataDir, "index")
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.ChunkOverlap == 0 {
		c.ChunkOverlap = DefaultChunkOverlap
	}
	if c.TopK == 0 {
		c.TopK = DefaultTopK
	}
	if c.MaxPollRounds == 0 {
		c.MaxPollRounds = DefaultMaxPollRounds
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("GEMINI_API_KEY")
	}
}

// RawDir is where per-source scrape artifacts live during a run.
func (c *Config) RawDir() string {
	return filepath.Join(c.DataDir, "raw")
}
