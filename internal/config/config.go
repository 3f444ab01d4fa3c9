package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ChunkerConfig configures how document pages are split into chunks.
type ChunkerConfig struct {
	ChunkSize int    `yaml:"chunk_size"`
	Overlap   int    `yaml:"overlap"`
	Unit      string `yaml:"unit"`
	SpanPages bool   `yaml:"span_pages"`
}

// RetrievalConfig holds the query-time defaults.
type RetrievalConfig struct {
	Method        string  `yaml:"method"`
	TopK          int     `yaml:"top_k"`
	MinScore      float64 `yaml:"min_score"`
	SparseVariant string  `yaml:"sparse_variant"`
}

// AnswerConfig configures answer composition.
type AnswerConfig struct {
	MaxKeyPoints int `yaml:"max_key_points"`
}

// SummarizerConfig configures the corpus overview summary.
type SummarizerConfig struct {
	MaxSentences int `yaml:"max_sentences"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Chunker    ChunkerConfig    `yaml:"chunker"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Answer     AnswerConfig     `yaml:"answer"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/studyrag/config.yaml.
// If neither exists, it writes defaults to ~/.config/studyrag/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := Default()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "studyrag", "config.yaml"), nil
}

// Default returns the documented default configuration: 1200-char
// chunks with 200-char overlap, page-bounded; auto method selection,
// top 5 results, any positive score counts as evidence.
func Default() *AppConfig {
	return &AppConfig{
		Chunker:    ChunkerConfig{ChunkSize: 1200, Overlap: 200, Unit: "char"},
		Retrieval:  RetrievalConfig{Method: "auto", TopK: 5, MinScore: 0, SparseVariant: "bm25"},
		Answer:     AnswerConfig{MaxKeyPoints: 6},
		Summarizer: SummarizerConfig{MaxSentences: 5},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 1200
		if cfg.Chunker.Overlap == 0 {
			cfg.Chunker.Overlap = 200
		}
	}
	if cfg.Chunker.Unit == "" {
		cfg.Chunker.Unit = "char"
	}
	if cfg.Retrieval.Method == "" {
		cfg.Retrieval.Method = "auto"
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 5
	}
	if cfg.Retrieval.SparseVariant == "" {
		cfg.Retrieval.SparseVariant = "bm25"
	}
	if cfg.Answer.MaxKeyPoints == 0 {
		cfg.Answer.MaxKeyPoints = 6
	}
	if cfg.Summarizer.MaxSentences == 0 {
		cfg.Summarizer.MaxSentences = 5
	}
}
