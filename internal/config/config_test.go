package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/config"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "axiomiq.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.Equal(t, "data/readings.csv", cfg.Input)
	require.Equal(t, "outputs/last_snapshot.csv", cfg.Snapshot)
	require.Equal(t, 5, cfg.TopN)
	require.Equal(t, 2.0, cfg.HealthDrop)
	require.Equal(t, 7.0, cfg.ETACompress)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFile_TopLevelKeys(t *testing.T) {
	path := writeFile(t, `
input: /data/fleet.csv
health_drop: 5.0
log:
  level: debug
`)

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, "/data/fleet.csv", cfg.Input)
	require.Equal(t, 5.0, cfg.HealthDrop)
	require.Equal(t, "debug", cfg.Log.Level)
	// untouched keys keep their defaults
	require.Equal(t, "outputs/last_snapshot.csv", cfg.Snapshot)
	require.Equal(t, 7.0, cfg.ETACompress)
}

func TestLoadFile_SectionedKeys(t *testing.T) {
	path := writeFile(t, `
axiomiq:
  input: /data/fleet.csv
  eta_compress: 3.0
`)

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, "/data/fleet.csv", cfg.Input)
	require.Equal(t, 3.0, cfg.ETACompress)
	require.Equal(t, 2.0, cfg.HealthDrop)
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := config.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadFile_Malformed(t *testing.T) {
	path := writeFile(t, "input: [unclosed")
	_, err := config.LoadFile(path)
	require.Error(t, err)
}

func TestRules(t *testing.T) {
	cfg := config.Default()
	cfg.HealthDrop = 4.5
	cfg.ETACompress = 10.0

	rules := cfg.Rules()
	require.Equal(t, 4.5, rules.HealthDropPoints)
	require.Equal(t, 10.0, rules.ETACompressDays)
	// locked thresholds stay locked
	require.Equal(t, 7.0, rules.HighPriorityETADays)
	require.Equal(t, 30.0, rules.MedPriorityETADays)
	require.Equal(t, 80.0, rules.MedPriorityHealthBelow)
	require.Equal(t, 3.0, rules.UrgentActionETADays)
	require.Equal(t, 8, rules.MaxDeltaLines)
}
