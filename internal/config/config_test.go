package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
		"channels": ["rian_ru", "mash"],
		"chunk_size": 300,
		"top_k": 7
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"rian_ru", "mash"}, cfg.Channels)
	assert.Equal(t, 300, cfg.ChunkSize)
	assert.Equal(t, 7, cfg.TopK)
}

func TestLoadInvalidJSON(t *testing.T) {
	path := writeConfig(t, `{not json`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsNegativeValues(t *testing.T) {
	path := writeConfig(t, `{"top_k": -1}`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsEmptyChannelName(t *testing.T) {
	path := writeConfig(t, `{"channels": ["rian_ru", ""]}`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadEmptyPath(t *testing.T) {
	_, err := Load("")
	require.Error(t, err)
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	assert.Equal(t, DefaultDataDir, cfg.DataDir)
	assert.Equal(t, filepath.Join("data", "cleaned", "combined_news.json"), cfg.CorpusPath)
	assert.Equal(t, filepath.Join("data", "index"), cfg.IndexPath)
	assert.Equal(t, DefaultChunkSize, cfg.ChunkSize)
	assert.Equal(t, DefaultChunkOverlap, cfg.ChunkOverlap)
	assert.Equal(t, DefaultTopK, cfg.TopK)
	assert.Equal(t, DefaultMaxPollRounds, cfg.MaxPollRounds)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, filepath.Join("data", "raw"), cfg.RawDir())
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := Config{
		DataDir:   "elsewhere",
		IndexPath: "custom/index",
		ChunkSize: 100,
	}
	cfg.ApplyDefaults()

	assert.Equal(t, "elsewhere", cfg.DataDir)
	assert.Equal(t, "custom/index", cfg.IndexPath)
	assert.Equal(t, filepath.Join("elsewhere", "cleaned", "combined_news.json"), cfg.CorpusPath)
	assert.Equal(t, 100, cfg.ChunkSize)
}

func TestApplyDefaultsReadsAPIKeyFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "secret-from-env")

	var cfg Config
	cfg.ApplyDefaults()

	assert.Equal(t, "secret-from-env", cfg.APIKey)
}
