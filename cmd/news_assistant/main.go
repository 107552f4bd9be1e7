// Package main provides the news assistant CLI: scrape channels into a
// corpus, build the vector index, and answer questions over it.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "news_assistant",
	Short: "RAG assistant over Telegram news channels",
	Long: `News assistant scrapes public Telegram news channels into a deduplicated
corpus, builds a vector index over it, and answers free-text questions with
source links using retrieval-augmented generation.`,
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json (flags override config values)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
