package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.ListenAddr)
	require.Equal(t, "0 9 * * *", cfg.DigestCron)
	require.False(t, cfg.RequireAgeGate)
}

func TestLoadMissingFileIsFine(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.ListenAddr)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"listen_addr": ":9090",
		"require_age_gate": true,
		"openai": {"model": "gpt-4o"}
	}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.ListenAddr)
	require.True(t, cfg.RequireAgeGate)
	require.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	require.Equal(t, "0 9 * * *", cfg.DigestCron)
}

func TestLoadEnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"listen_addr": ":9090"}`), 0o644))

	t.Setenv("EVOLVE_LISTEN_ADDR", ":7070")
	t.Setenv("EVOLVE_OPENAI_API_KEY", "sk-test")
	t.Setenv("EVOLVE_REQUIRE_AGE_GATE", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":7070", cfg.ListenAddr)
	require.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	require.True(t, cfg.RequireAgeGate)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
