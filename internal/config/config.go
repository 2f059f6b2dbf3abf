package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FastEmbedConfig holds configuration for the local fastembed embedder.
type FastEmbedConfig struct {
	Model    string `yaml:"model"`
	CacheDir string `yaml:"cache_dir"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	BatchSize   int    `yaml:"batch_size"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type      string                `yaml:"type"`
	FastEmbed *FastEmbedConfig      `yaml:"fastembed,omitempty"`
	OpenAI    *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// ChunkerConfig configures how documents are split into word windows.
type ChunkerConfig struct {
	WindowWords  int `yaml:"window_words"`
	OverlapWords int `yaml:"overlap_words"`
}

// ChunkStoreConfig selects and configures the chunk store implementation.
type ChunkStoreConfig struct {
	Type    string         `yaml:"type"`
	Chromem *ChromemConfig `yaml:"chromem,omitempty"`
	Qdrant  *QdrantConfig  `yaml:"qdrant,omitempty"`
}

// ChromemConfig contains settings for the embedded chromem store.
type ChromemConfig struct {
	Path       string `yaml:"path"`
	Collection string `yaml:"collection"`
	Compress   bool   `yaml:"compress"`
}

// QdrantConfig contains connection details for a Qdrant chunk store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// ExplainerConfig selects and configures the match explanation generator.
type ExplainerConfig struct {
	Type        string `yaml:"type"`
	GeminiModel string `yaml:"gemini_model,omitempty"`
	OllamaHost  string `yaml:"ollama_host,omitempty"`
	OllamaModel string `yaml:"ollama_model,omitempty"`
	APIKeyEnv   string `yaml:"api_key_env,omitempty"`
	TimeoutSecs int    `yaml:"timeout_secs,omitempty"`
}

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds on-disk paths for the document store and saved indexes.
type StorageConfig struct {
	DocumentsPath string `yaml:"documents_path"`
	IndexDir      string `yaml:"index_dir"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedder   EmbedderConfig   `yaml:"embedder"`
	Chunker    ChunkerConfig    `yaml:"chunker"`
	ChunkStore ChunkStoreConfig `yaml:"chunk_store"`
	Explainer  ExplainerConfig  `yaml:"explainer"`
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
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

// LoadDefault tries ./config.yaml first, then ~/.config/resumatch/config.yaml.
// If neither exists, it writes defaults to the user path and returns them.
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
	cfg := defaultConfig()
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
	return filepath.Join(home, ".config", "resumatch", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Embedder:   EmbedderConfig{Type: "fastembed"},
		Chunker:    ChunkerConfig{WindowWords: 150, OverlapWords: 30},
		ChunkStore: ChunkStoreConfig{Type: "memory"},
		Explainer:  ExplainerConfig{Type: "none"},
		Server:     ServerConfig{Host: "localhost", Port: 8080},
		Storage: StorageConfig{
			DocumentsPath: "data/documents.json",
			IndexDir:      "data/index",
		},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Chunker.WindowWords == 0 {
		cfg.Chunker.WindowWords = 150
	}
	if cfg.Chunker.WindowWords == 150 && cfg.Chunker.OverlapWords == 0 {
		cfg.Chunker.OverlapWords = 30
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "fastembed"
	}
	if cfg.Embedder.Type == "fastembed" {
		if cfg.Embedder.FastEmbed == nil {
			cfg.Embedder.FastEmbed = &FastEmbedConfig{}
		}
		// EMBED_MODEL overrides the configured model name
		if env := os.Getenv("EMBED_MODEL"); env != "" {
			cfg.Embedder.FastEmbed.Model = env
		}
	}
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI != nil {
		if cfg.Embedder.OpenAI.BaseURL == "" {
			cfg.Embedder.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
		if cfg.Embedder.OpenAI.BatchSize == 0 {
			cfg.Embedder.OpenAI.BatchSize = 32
		}
	}
	if cfg.ChunkStore.Type == "" {
		cfg.ChunkStore.Type = "memory"
	}
	if cfg.Explainer.Type == "" {
		cfg.Explainer.Type = "none"
	}
	if cfg.Explainer.Type == "gemini" && cfg.Explainer.APIKeyEnv == "" {
		cfg.Explainer.APIKeyEnv = "GEMINI_API_KEY"
	}
	if cfg.Explainer.Type == "ollama" {
		if cfg.Explainer.OllamaHost == "" {
			if env := os.Getenv("OLLAMA_HOST"); env != "" {
				cfg.Explainer.OllamaHost = env
			}
		}
		if cfg.Explainer.OllamaModel == "" {
			if env := os.Getenv("OLLAMA_MODEL"); env != "" {
				cfg.Explainer.OllamaModel = env
			}
		}
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DocumentsPath == "" {
		cfg.Storage.DocumentsPath = "data/documents.json"
	}
	if cfg.Storage.IndexDir == "" {
		cfg.Storage.IndexDir = "data/index"
	}
}
