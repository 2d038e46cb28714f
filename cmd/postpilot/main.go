package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/postpilot/cli/config"
	"github.com/postpilot/cli/internal/db"
	"github.com/postpilot/cli/internal/docstore"
	"github.com/postpilot/cli/internal/embeddings"
	"github.com/postpilot/cli/internal/rag"
)

// app holds the configuration and logger shared by all commands
type app struct {
	cfg *config.Config
	log *zap.Logger
}

var a = &app{}

var rootCmd = &cobra.Command{
	Use:   "postpilot",
	Short: "Compose and publish short social posts from documents, news and facts",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Secrets come from the environment; a local .env is optional
		_ = godotenv.Load()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		log, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}

		a.cfg = cfg
		a.log = log
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if a.log != nil {
			_ = a.log.Sync()
		}
	},
	SilenceUsage: true,
}

// embedder builds the configured embedding provider
func (a *app) embedder() embeddings.Embedder {
	if a.cfg.Embeddings.Provider == "openai" {
		return embeddings.NewOpenAIEmbedder(embeddings.OpenAIConfig{
			APIKey:     os.Getenv(a.cfg.Embeddings.OpenAI.APIKeyEnv),
			BaseURL:    a.cfg.Embeddings.OpenAI.BaseURL,
			Model:      a.cfg.Embeddings.OpenAI.Model,
			Dimensions: a.cfg.Embeddings.OpenAI.Dimensions,
		})
	}
	return embeddings.NewOllamaEmbedder(a.cfg.Embeddings.Ollama.BaseURL, a.cfg.Embeddings.Ollama.Model)
}

// openStore connects to the database and wires the document store.
// The caller owns the returned connection and must Close it.
func (a *app) openStore(ctx context.Context) (*db.DB, *docstore.Store, error) {
	database, err := db.New(ctx, a.cfg.Database.ConnectionString, a.cfg.Database.MaxConns)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return database, docstore.New(database, a.embedder(), a.log), nil
}

// retriever wires a retriever over the given store using the
// configured relevance tunables
func (a *app) retriever(store *docstore.Store) *rag.Retriever {
	return rag.NewRetriever(store,
		a.cfg.Processing.RelevanceThreshold,
		a.cfg.Processing.OverfetchFactor,
		a.log)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
