package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KissedByF1re/News-Assistant-AI/internal/index"
	"github.com/KissedByF1re/News-Assistant-AI/internal/llm"
	"github.com/KissedByF1re/News-Assistant-AI/internal/qa"
)

var askCommand = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer one question over the indexed corpus",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

var (
	askDataDir string
	askTopK    int
)

func init() {
	askCommand.Flags().StringVar(&askDataDir, "data-dir", "", "Directory holding the index")
	askCommand.Flags().IntVarP(&askTopK, "top-k", "k", 0, "Number of chunks to retrieve")

	rootCmd.AddCommand(askCommand)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = askDataDir
	}
	if cmd.Flags().Changed("top-k") {
		cfg.TopK = askTopK
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

	result, err := pipeline.AnswerQuestion(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	fmt.Println(result.Answer)
	if len(result.Links) > 0 {
		fmt.Println("\nSources:")
		for _, link := range result.Links {
			fmt.Printf("  %s\n", link)
		}
	}
	return nil
}
