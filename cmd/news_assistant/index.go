package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KissedByF1re/News-Assistant-AI/internal/chunk"
	"github.com/KissedByF1re/News-Assistant-AI/internal/corpus"
	"github.com/KissedByF1re/News-Assistant-AI/internal/index"
	"github.com/KissedByF1re/News-Assistant-AI/internal/llm"
)

var indexCommand = &cobra.Command{
	Use:   "index",
	Short: "Build the vector index over the corpus",
	Long: `Chunks the corpus and embeds the chunks into a persisted vector index.
An existing index is reused as-is, even when the corpus has grown since it
was built; pass --force to rebuild from the current corpus.`,
	RunE: runIndex,
}

var (
	indexForce        bool
	indexDataDir      string
	indexChunkSize    int
	indexChunkOverlap int
)

func init() {
	indexCommand.Flags().BoolVar(&indexForce, "force", false, "Delete any existing index and rebuild")
	indexCommand.Flags().StringVar(&indexDataDir, "data-dir", "", "Directory for corpus and index")
	indexCommand.Flags().IntVar(&indexChunkSize, "chunk-size", 0, "Chunk size in characters")
	indexCommand.Flags().IntVar(&indexChunkOverlap, "chunk-overlap", 0, "Chunk overlap in characters")

	rootCmd.AddCommand(indexCommand)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = indexDataDir
	}
	if cmd.Flags().Changed("chunk-size") {
		cfg.ChunkSize = indexChunkSize
	}
	if cmd.Flags().Changed("chunk-overlap") {
		cfg.ChunkOverlap = indexChunkOverlap
	}
	cfg.ApplyDefaults()

	if cfg.APIKey == "" {
		return fmt.Errorf("no API key: set GEMINI_API_KEY or api_key in the config file")
	}

	records, err := corpus.Load(cfg.CorpusPath)
	if err != nil {
		var missing *corpus.MissingCorpusError
		if errors.As(err, &missing) {
			return fmt.Errorf("%w: run 'news_assistant scrape' first", err)
		}
		return err
	}

	splitter := chunk.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	chunks := splitter.SplitAll(records)

	client, err := llm.NewClient(cmd.Context(), cfg.APIKey, llm.WithEmbeddingModel(cfg.EmbeddingModel))
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if indexForce {
		if err := os.RemoveAll(cfg.IndexPath); err != nil {
			return fmt.Errorf("remove existing index: %w", err)
		}
	}

	store, err := index.GetOrBuild(cmd.Context(), cfg.IndexPath, chunks, client)
	if err != nil {
		return err
	}

	fmt.Printf("Index ready at %s (%d chunks from %d records)\n", store.Path(), store.Len(), len(records))
	return nil
}
