package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the retrieval tool.
type Config struct {
	Corpus    CorpusConfig    `yaml:"corpus"`
	Index     IndexConfig     `yaml:"index"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Cache     CacheConfig     `yaml:"cache"`
}

// CorpusConfig locates the scraped repair documents.
type CorpusConfig struct {
	Dir      string   `yaml:"dir"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// IndexConfig holds ingestion and persistence configuration.
type IndexConfig struct {
	Dir          string `yaml:"dir"`
	WindowChars  int    `yaml:"window_chars"`
	OverlapChars int    `yaml:"overlap_chars"`
}

// EmbeddingConfig holds embedding provider configuration.
type EmbeddingConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Provider  string `yaml:"provider"` // "openai", "ollama", "mock"
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
	BaseURL   string `yaml:"base_url"`
	Dimension int    `yaml:"dimension"` // mock provider only
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK              int      `yaml:"top_k"`
	ComponentKeywords []string `yaml:"component_keywords"`
}

// CacheConfig holds response cache configuration.
type CacheConfig struct {
	TTLMinutes int `yaml:"ttl_minutes"`
	MaxEntries int `yaml:"max_entries"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Dir:      "data",
			Includes: []string{"**/*.json"},
			Excludes: []string{"**/scraped_parts.json"},
		},
		Index: IndexConfig{
			Dir:          ".rag_index",
			WindowChars:  2200,
			OverlapChars: 300,
		},
		Embedding: EmbeddingConfig{
			Enabled:   true,
			Provider:  "openai",
			Model:     "text-embedding-3-small",
			APIKeyEnv: "OPENAI_API_KEY",
			Dimension: 256,
		},
		Retrieve: RetrieveConfig{
			TopK: 8,
		},
		Cache: CacheConfig{
			TTLMinutes: 30,
			MaxEntries: 100,
		},
	}
}

// Load loads configuration from a YAML file, falling back to defaults when
// the file does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for
// partselect.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "partselect.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}
	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CorpusDir resolves the corpus directory against the root directory.
func (c *Config) CorpusDir(root string) string {
	if filepath.IsAbs(c.Corpus.Dir) {
		return c.Corpus.Dir
	}
	return filepath.Join(root, c.Corpus.Dir)
}

// SnapshotDBPath returns the path to the persisted index snapshot.
func (c *Config) SnapshotDBPath(root string) string {
	return filepath.Join(c.indexDir(root), "repairs.db")
}

// EnsureIndexDir ensures the index directory exists.
func (c *Config) EnsureIndexDir(root string) error {
	return os.MkdirAll(c.indexDir(root), 0755)
}

func (c *Config) indexDir(root string) string {
	if filepath.IsAbs(c.Index.Dir) {
		return c.Index.Dir
	}
	return filepath.Join(root, c.Index.Dir)
}
