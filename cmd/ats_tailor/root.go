package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jonathan/ats-tailor/internal/ats"
	"github.com/jonathan/ats-tailor/internal/config"
	"github.com/jonathan/ats-tailor/internal/keywords"
	"github.com/jonathan/ats-tailor/internal/llm"
	"github.com/jonathan/ats-tailor/internal/logger"
	"github.com/jonathan/ats-tailor/internal/skills"
	"github.com/jonathan/ats-tailor/internal/store"
	"github.com/jonathan/ats-tailor/internal/tailoring"
)

var (
	// Used for flags.
	cfgFile string
	verbose bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is ats-tailor.{yaml,json,toml} in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print formatted score and change boxes")
}

// flagBindings maps config keys to the command flags that override them.
var flagBindings = map[string]string{
	"log.debug":        "debug",
	"log.json":         "json",
	"ai.provider":      "provider",
	"ai.model":         "model",
	"ai.timeout":       "timeout",
	"scoring.semantic": "semantic",
}

// app holds the collaborators built from configuration for one command run.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	catalog *skills.Catalog
	tagger  *keywords.Tagger
	scorer  *ats.Scorer
	closers []func() error
}

// newApp loads configuration (flags > env > file > defaults) and builds the
// logger and the deterministic scorer.
func newApp(cmd *cobra.Command) (*app, error) {
	v := viper.New()
	for key, name := range flagBindings {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return nil, err
	}
	if noAI, _ := cmd.Flags().GetBool("no-ai"); noAI {
		cfg.AI.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	tagger, err := keywords.NewTagger()
	if err != nil {
		return nil, err
	}

	catalog := skills.Default()
	return &app{
		cfg:     cfg,
		logger:  log,
		catalog: catalog,
		tagger:  tagger,
		scorer:  ats.NewScorer(catalog, tagger),
	}, nil
}

// engine builds the tailoring engine. Without an enabled, configured AI
// provider the engine runs the rule-based path only.
func (a *app) engine(ctx context.Context) (*tailoring.Engine, error) {
	opts := tailoring.Options{
		Scorer:              a.scorer,
		Catalog:             a.catalog,
		Logger:              a.logger,
		Timeout:             a.cfg.AI.Timeout,
		Shot1Temperature:    float32(a.cfg.AI.Shot1Temperature),
		Shot2Temperature:    float32(a.cfg.AI.Shot2Temperature),
		JobDescriptionLimit: a.cfg.AI.JobDescriptionLimit,
	}

	switch {
	case !a.cfg.AI.Enabled:
		a.logger.Debug("AI pass disabled")
	case !a.cfg.AIAvailable():
		a.logger.Warn("no API key configured, using rule-based tailoring only",
			zap.String(logger.FieldProvider, a.cfg.AI.Provider))
	default:
		llmCfg, err := llm.DefaultConfigFor(llm.Provider(a.cfg.AI.Provider))
		if err != nil {
			return nil, err
		}
		if a.cfg.AI.Model != "" {
			llmCfg = llmCfg.WithModel(llm.TierStandard, a.cfg.AI.Model)
		}
		llmCfg.MaxTokens = a.cfg.AI.MaxTokens

		client, err := llm.NewClient(ctx, llmCfg, a.cfg.AI.APIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		opts.Generator = client
		opts.Logger = logger.WithAI(a.logger, a.cfg.AI.Provider, client.Model())
	}

	return tailoring.New(opts), nil
}

// semantic builds the embedding scorer when semantic scoring is enabled.
func (a *app) semantic(ctx context.Context) (*ats.SemanticScorer, error) {
	if !a.cfg.Scoring.Semantic {
		return nil, nil
	}
	embedder, err := llm.NewGeminiEmbedder(ctx, a.cfg.Scoring.GeminiAPIKey, a.cfg.Scoring.EmbeddingModel)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	a.closers = append(a.closers, embedder.Close)
	return ats.NewSemanticScorer(embedder, a.tagger, a.logger), nil
}

// openStore connects to the configured result store.
func (a *app) openStore(ctx context.Context) (store.Store, error) {
	if a.cfg.Store.Driver == config.StoreNone {
		return nil, fmt.Errorf("persistence requires store.driver (postgres or sqlite) and store.dsn")
	}
	s, err := store.Open(ctx, a.cfg.Store.Driver, a.cfg.Store.DSN)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, s.Close)
	return s, nil
}

// Close releases clients and stores in reverse order of creation.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Debug("close failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

// writeJSON writes v as indented JSON to w.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}

// writeJSONFile writes v as indented JSON to path.
func writeJSONFile(path string, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := os.WriteFile(path, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
