package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KissedByF1re/News-Assistant-AI/internal/ingest"
	"github.com/KissedByF1re/News-Assistant-AI/internal/logging"
	"github.com/KissedByF1re/News-Assistant-AI/internal/scrape"
)

var scrapeCommand = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape configured channels and merge new posts into the corpus",
	Long: `Fetches every configured Telegram channel concurrently, normalizes and
deduplicates the posts, and merges them into the corpus. Previously stored
records are never removed; a failing channel is reported but does not stop
the others.`,
	RunE: runScrape,
}

var (
	scrapeChannels      []string
	scrapeMaxPollRounds int
	scrapeDataDir       string
)

func init() {
	scrapeCommand.Flags().StringSliceVarP(&scrapeChannels, "channels", "c", nil, "Channel names to scrape (e.g. rian_ru,mash)")
	scrapeCommand.Flags().IntVar(&scrapeMaxPollRounds, "max-poll-rounds", 0, "Maximum scroll rounds per channel")
	scrapeCommand.Flags().StringVar(&scrapeDataDir, "data-dir", "", "Directory for corpus and artifacts")

	rootCmd.AddCommand(scrapeCommand)
}

func runScrape(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("channels") {
		cfg.Channels = scrapeChannels
	}
	if cmd.Flags().Changed("max-poll-rounds") {
		cfg.MaxPollRounds = scrapeMaxPollRounds
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = scrapeDataDir
	}
	cfg.ApplyDefaults()

	if len(cfg.Channels) == 0 {
		return fmt.Errorf("no channels configured: pass --channels or set them in the config file")
	}

	log := logging.New("scrape")
	sources := make([]scrape.Source, 0, len(cfg.Channels))
	for _, channel := range cfg.Channels {
		sources = append(sources, scrape.NewChannelSource(channel, cfg.MaxPollRounds, log))
	}

	report, err := ingest.Run(cmd.Context(), sources, ingest.Options{
		RawDir:     cfg.RawDir(),
		CorpusPath: cfg.CorpusPath,
		Logger:     log,
	})
	if err != nil {
		return err
	}

	for _, src := range report.Sources {
		if src.Err != nil {
			fmt.Printf("  %s: FAILED (%v)\n", src.Source, src.Err)
			continue
		}
		fmt.Printf("  %s: %d records\n", src.Source, src.Records)
	}
	fmt.Printf("Corpus: %d -> %d records (%s)\n", report.CorpusBefore, report.CorpusAfter, cfg.CorpusPath)
	return nil
}
