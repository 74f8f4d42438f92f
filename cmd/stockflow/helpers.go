package main

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"github.com/spf13/viper"

	"github.com/TechsNtheCity940/stockflow/internal/config"
	"github.com/TechsNtheCity940/stockflow/internal/engine"
	"github.com/TechsNtheCity940/stockflow/internal/extract"
	"github.com/TechsNtheCity940/stockflow/internal/match"
	"github.com/TechsNtheCity940/stockflow/internal/storage"
)

// initLedger initializes the storage layer with proper path expansion.
func initLedger(ctx context.Context) (*storage.SQLiteStorage, error) {
	// Get database path from config
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/stockflow/stockflow.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initEngine wires the full pipeline: storage, matcher, and extractor.
func initEngine(ctx context.Context) (*engine.Engine, *storage.SQLiteStorage, error) {
	store, err := initLedger(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	matcher, err := buildMatcher(store)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}

	extractCfg := extract.Config{}
	if markers := viper.GetStringSlice("extract.boilerplate"); len(markers) > 0 {
		extractCfg.BoilerplateMarkers = markers
	}
	extractor := extract.New(extractCfg)

	return engine.New(store, store, matcher, extractor), store, nil
}

// buildMatcher assembles the scorer stack. Lexical scoring is on unless
// matching.lexical is explicitly disabled; embedding scoring joins when
// matching.embedding is enabled and an OpenAI API key is configured.
func buildMatcher(store *storage.SQLiteStorage) (*match.Matcher, error) {
	var scorers []match.Scorer

	if !viper.IsSet("matching.lexical") || viper.GetBool("matching.lexical") {
		scorers = append(scorers, match.NewLexicalScorer())
	}

	if viper.GetBool("matching.embedding") {
		apiKey := viper.GetString("openai.api_key")
		if apiKey == "" {
			return nil, fmt.Errorf("matching.embedding is enabled but openai.api_key is not set")
		}

		model := viper.GetString("matching.embedding_model")
		if model == "" {
			model = string(openai.SmallEmbedding3)
		}

		client := openai.NewClient(apiKey)
		scorers = append(scorers, match.NewEmbeddingScorer(client, model))
	}

	if len(scorers) == 0 {
		return nil, fmt.Errorf("no scorers enabled; set matching.lexical or matching.embedding")
	}

	opts := []match.Option{match.WithCorrections(store)}
	if threshold := viper.GetFloat64("matching.threshold"); threshold > 0 {
		opts = append(opts, match.WithThreshold(threshold))
	}

	return match.NewMatcher(scorers, opts...)
}
