package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"resumatch/internal/chunker"
	"resumatch/internal/config"
	"resumatch/internal/embedding"
	"resumatch/internal/embedding/fastembed"
	"resumatch/internal/embedding/openai"
	"resumatch/internal/explain"
	"resumatch/internal/logger"
	"resumatch/internal/vectorizer"
	"resumatch/internal/vectorstore"
)

var (
	cfgFile string
	debug   bool
	jsonLog bool

	rootCmd = &cobra.Command{
		Use:           "resumatch",
		Short:         "resumatch scores resumes against job descriptions by semantic similarity",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is config.yaml, then ~/.config/resumatch/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&jsonLog, "json", "j", false, "json format for logging")
}

// app bundles the components every subcommand assembles the same way.
type app struct {
	cfg *config.AppConfig
	log *zap.Logger
	enc *embedding.Encoder
	vec *vectorizer.Vectorizer
}

func buildApp() (*app, error) {
	var cfg *config.AppConfig
	var err error
	if cfgFile == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgFile)
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(jsonLog, debug)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	provider, err := buildProvider(cfg)
	if err != nil {
		return nil, err
	}
	enc := embedding.NewEncoder(provider)

	ch, err := chunker.NewWordChunker(cfg.Chunker.WindowWords, cfg.Chunker.OverlapWords)
	if err != nil {
		return nil, fmt.Errorf("building chunker: %w", err)
	}

	return &app{
		cfg: cfg,
		log: log,
		enc: enc,
		vec: vectorizer.New(enc, ch, log),
	}, nil
}

func (a *app) close() {
	if err := a.enc.Close(); err != nil {
		a.log.Warn("closing encoder", zap.Error(err))
	}
	_ = a.log.Sync()
}

func buildProvider(cfg *config.AppConfig) (embedding.Provider, error) {
	switch cfg.Embedder.Type {
	case "fastembed", "":
		fcfg := fastembed.Config{}
		if cfg.Embedder.FastEmbed != nil {
			fcfg.Model = cfg.Embedder.FastEmbed.Model
			fcfg.CacheDir = cfg.Embedder.FastEmbed.CacheDir
		}
		return fastembed.New(fcfg)
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			return nil, fmt.Errorf("openai embedder config missing")
		}
		return openai.NewClient(openai.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}
}

func buildExplainer(cmd *cobra.Command, cfg *config.AppConfig) (explain.Generator, error) {
	switch cfg.Explainer.Type {
	case "none", "":
		return nil, nil
	case "gemini":
		keyEnv := cfg.Explainer.APIKeyEnv
		if keyEnv == "" {
			keyEnv = "GEMINI_API_KEY"
		}
		return explain.NewGeminiGenerator(cmd.Context(), os.Getenv(keyEnv), cfg.Explainer.GeminiModel)
	case "ollama":
		return explain.NewOllamaGenerator(explain.OllamaConfig{
			Host:    cfg.Explainer.OllamaHost,
			Model:   cfg.Explainer.OllamaModel,
			Timeout: time.Duration(cfg.Explainer.TimeoutSecs) * time.Second,
		}), nil
	default:
		return nil, fmt.Errorf("unknown explainer: %s", cfg.Explainer.Type)
	}
}

func buildChunkStore(cfg *config.AppConfig) (vectorstore.Store, error) {
	switch cfg.ChunkStore.Type {
	case "memory", "":
		return vectorstore.NewMemoryStore(), nil
	case "chromem":
		ccfg := vectorstore.ChromemConfig{}
		if cfg.ChunkStore.Chromem != nil {
			ccfg.Path = cfg.ChunkStore.Chromem.Path
			ccfg.Collection = cfg.ChunkStore.Chromem.Collection
			ccfg.Compress = cfg.ChunkStore.Chromem.Compress
		}
		return vectorstore.NewChromemStore(ccfg)
	case "qdrant":
		if cfg.ChunkStore.Qdrant == nil {
			return nil, fmt.Errorf("qdrant config missing")
		}
		return vectorstore.NewQdrantStore(vectorstore.QdrantConfig{
			URL:        cfg.ChunkStore.Qdrant.URL,
			APIKey:     cfg.ChunkStore.Qdrant.APIKey,
			Collection: cfg.ChunkStore.Qdrant.Collection,
			Timeout:    time.Duration(cfg.ChunkStore.Qdrant.TimeoutSecs) * time.Second,
		}), nil
	default:
		return nil, fmt.Errorf("unknown chunk store: %s", cfg.ChunkStore.Type)
	}
}
