package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadMissingFile verifies a missing config file yields a zero config
// rather than an error.
func TestLoadMissingFile(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.LLM.Model)
	assert.True(t, cfg.Chat.AutoSummarizeEnabled())
}

// TestLoadParsesSections verifies a populated YAML document round-trips into
// the typed sections.
func TestLoadParsesSections(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("PARLEY_MODEL", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `llm:
  model: gpt-4o
  api_key: file-key
  summarization_model: gpt-4o-mini
chat:
  auto_summarize: false
  summarization_threshold: 20
  recent_turns_to_keep: 8
  instructions: be brief
storage:
  history_dir: /var/lib/parley/threads
triage:
  enabled: true
  fallback_agent: general
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, "file-key", cfg.LLM.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.SummarizationModel)
	assert.False(t, cfg.Chat.AutoSummarizeEnabled())
	assert.Equal(t, 20, cfg.Chat.SummarizationThreshold)
	assert.Equal(t, 8, cfg.Chat.RecentTurnsToKeep)
	assert.Equal(t, "be brief", cfg.Chat.Instructions)
	assert.Equal(t, "/var/lib/parley/threads", cfg.Storage.HistoryDir)
	assert.True(t, cfg.Triage.Enabled)
	assert.Equal(t, "general", cfg.Triage.FallbackAgent)
}

// TestEnvOverridesFile verifies environment credentials win over file values.
func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `llm:
  model: file-model
  api_key: file-key
  base_url: https://file.example
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0600))

	t.Setenv("OPENAI_API_KEY", "env-key")
	t.Setenv("OPENAI_BASE_URL", "https://env.example")
	t.Setenv("PARLEY_MODEL", "env-model")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.LLM.APIKey)
	assert.Equal(t, "https://env.example", cfg.LLM.BaseURL)
	assert.Equal(t, "env-model", cfg.LLM.Model)
}

// TestSaveRoundTrip verifies Save writes a document Load reads back
// unchanged.
func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_BASE_URL", "")
	t.Setenv("PARLEY_MODEL", "")

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	off := false
	original := &Config{
		LLM:  LLMConfig{Model: "gpt-4o", APIKey: "secret"},
		Chat: ChatConfig{AutoSummarize: &off, MaxContextTurns: 12},
	}
	require.NoError(t, original.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, original.LLM, loaded.LLM)
	assert.Equal(t, 12, loaded.Chat.MaxContextTurns)
	assert.False(t, loaded.Chat.AutoSummarizeEnabled())

	// No stray temp file left behind.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
