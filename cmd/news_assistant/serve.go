package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KissedByF1re/News-Assistant-AI/internal/index"
	"github.com/KissedByF1re/News-Assistant-AI/internal/llm"
	"github.com/KissedByF1re/News-Assistant-AI/internal/logging"
	"github.com/KissedByF1re/News-Assistant-AI/internal/qa"
	"github.com/KissedByF1re/News-Assistant-AI/internal/server"
)

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Serve the question-answering API over HTTP",
	Long: `Loads the vector index once, wires the QA pipeline, and serves POST
/api/ask until interrupted. The pipeline is read-only, so requests are
handled concurrently.`,
	RunE: runServe,
}

var (
	servePort    int
	serveDataDir string
)

func init() {
	serveCommand.Flags().IntVar(&servePort, "port", 0, "Port to listen on")
	serveCommand.Flags().StringVar(&serveDataDir, "data-dir", "", "Directory holding the index")

	rootCmd.AddCommand(serveCommand)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = serveDataDir
	}
	cfg.ApplyDefaults()

	if cfg.APIKey == "" {
		return fmt.Errorf("no API key: set GEMINI_API_KEY or api_key in the config file")
	}

	store, err := index.Load(cfg.IndexPath)
	if err != nil {
		var notFound *index.IndexNotFoundError
		if errors.As(err, &notFound) {
			return fmt.Errorf("%w: run 'news_assistant index' first", err)
		}
		return err
	}

	client, err := llm.NewClient(cmd.Context(), cfg.APIKey,
		llm.WithGenerationModel(cfg.GenerationModel),
		llm.WithEmbeddingModel(cfg.EmbeddingModel))
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	pipeline := qa.New(store, client, client, cfg.TopK)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logging.New("api")
	srv := server.New(fmt.Sprintf(":%d", cfg.Port), pipeline, log)
	return srv.Start(ctx)
}
