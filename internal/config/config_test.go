package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/st3v3nmw/lbcheck/internal/config"
	"github.com/st3v3nmw/lbcheck/internal/leaderboard"
	"github.com/st3v3nmw/lbcheck/internal/verify"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "lbcheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `
base_url: http://leaderboard:8081/api/v1/leaderboard
top_n: 20
subjects: 8
id_range:
  min: 1
  max: 1000
scores: [100, 200]
game_modes: [team]
batch_interval: 1m
settle_buffer: 15s
parallel: true
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://leaderboard:8081/api/v1/leaderboard", cfg.BaseURLOrDefault())
	assert.Equal(t, 10*time.Second, cfg.RequestTimeoutOrDefault())

	v, err := cfg.Verify()
	require.NoError(t, err)

	assert.Equal(t, 20, v.TopN)
	assert.Equal(t, 8, v.Subjects)
	assert.Equal(t, verify.IDRange{Min: 1, Max: 1000}, v.IDRange)
	assert.Equal(t, []int{100, 200}, v.Scores)
	assert.Equal(t, []leaderboard.GameMode{leaderboard.Team}, v.GameModes)
	assert.Equal(t, 75*time.Second, v.SettleWindow())
	assert.True(t, v.Parallel)

	// Unset fields keep their defaults.
	assert.Equal(t, 200*time.Millisecond, v.SubmitDelay)
	assert.Equal(t, 1, v.SubmissionsPerSubject)
}

func TestLoadErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = config.Load(writeFile(t, "top_n: [not, a, number]\n"))
	assert.Error(t, err)
}

func TestVerifyRejectsInvalid(t *testing.T) {
	cfg := &config.Config{GameModes: []string{"duo"}}
	_, err := cfg.Verify()
	assert.Error(t, err)

	cfg = &config.Config{IDRange: config.IDRange{Min: 5, Max: 2_000_000}}
	_, err = cfg.Verify()
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		config.EnvBatchInterval: "90s",
		config.EnvBaseURL:       "http://example.test/api",
	}

	cfg := &config.Config{BatchInterval: time.Minute}
	require.NoError(t, cfg.ApplyEnv(func(key string) string { return env[key] }))

	assert.Equal(t, 90*time.Second, cfg.BatchInterval)
	assert.Equal(t, "http://example.test/api", cfg.BaseURL)

	env[config.EnvBatchInterval] = "three minutes"
	assert.Error(t, cfg.ApplyEnv(func(key string) string { return env[key] }))
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lbcheck.yaml")
	require.NoError(t, config.SaveTo(config.Default(), path))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, config.Default(), cfg)

	v, err := cfg.Verify()
	require.NoError(t, err)
	assert.Equal(t, verify.DefaultConfig(), v)
}
