package delta_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/config"
	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/delta"
	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/models"
)

func snap(engine string, health float64, topRisk string, eta *float64, priority string) models.Snapshot {
	return models.Snapshot{
		EngineID: engine,
		Health:   models.Float64(health),
		TopRisk:  topRisk,
		EtaDays:  eta,
		Priority: priority,
	}
}

func TestComputeLines_FirstRun(t *testing.T) {
	curr := []models.Snapshot{snap("DG1", 95, "p", nil, "LOW")}

	lines := delta.ComputeLines(nil, curr, config.DefaultRules())
	require.Equal(t, []string{
		"Baseline created (first run). Future reports will highlight changes.",
	}, lines)
}

func TestComputeLines_NoDataAtAll(t *testing.T) {
	lines := delta.ComputeLines(nil, nil, config.DefaultRules())
	require.Equal(t, []string{"No fleet data available yet."}, lines)
}

func TestComputeLines_IdenticalSnapshots(t *testing.T) {
	s := []models.Snapshot{
		snap("DG1", 95, "p", models.Float64(40), "LOW"),
		snap("DG2", 70, "q", nil, "MED"),
	}

	lines := delta.ComputeLines(s, s, config.DefaultRules())
	require.Equal(t, []string{"No material fleet changes detected since last report."}, lines)
}

func TestComputeLines_MembershipChanges(t *testing.T) {
	prev := []models.Snapshot{snap("DG1", 95, "p", nil, "LOW")}
	curr := []models.Snapshot{snap("DG2", 60, "q", nil, "MED")}

	lines := delta.ComputeLines(prev, curr, config.DefaultRules())
	require.Equal(t, []string{
		"DG1 removed from fleet monitoring.",
		"DG2 added to fleet monitoring (priority MED).",
	}, lines)
}

func TestComputeLines_PriorityChanges(t *testing.T) {
	t.Run("escalation", func(t *testing.T) {
		prev := []models.Snapshot{snap("DG1", 95, "p", nil, "LOW")}
		curr := []models.Snapshot{snap("DG1", 95, "p", nil, "HIGH")}

		lines := delta.ComputeLines(prev, curr, config.DefaultRules())
		require.Equal(t, []string{"DG1 priority escalated LOW -> HIGH."}, lines)
	})

	t.Run("de-escalation", func(t *testing.T) {
		prev := []models.Snapshot{snap("DG1", 95, "p", nil, "HIGH")}
		curr := []models.Snapshot{snap("DG1", 95, "p", nil, "MED")}

		lines := delta.ComputeLines(prev, curr, config.DefaultRules())
		require.Equal(t, []string{"DG1 priority reduced HIGH -> MED."}, lines)
	})
}

func TestComputeLines_HealthDrop(t *testing.T) {
	t.Run("at the trigger", func(t *testing.T) {
		prev := []models.Snapshot{snap("DG1", 95.0, "p", nil, "LOW")}
		curr := []models.Snapshot{snap("DG1", 93.0, "p", nil, "LOW")}

		lines := delta.ComputeLines(prev, curr, config.DefaultRules())
		require.Equal(t, []string{"DG1 health dropped 2.0 points (95.0 -> 93.0)."}, lines)
	})

	t.Run("below the trigger", func(t *testing.T) {
		prev := []models.Snapshot{snap("DG1", 95.0, "p", nil, "LOW")}
		curr := []models.Snapshot{snap("DG1", 93.5, "p", nil, "LOW")}

		lines := delta.ComputeLines(prev, curr, config.DefaultRules())
		require.Equal(t, []string{"No material fleet changes detected since last report."}, lines)
	})

	t.Run("undefined health on either side is skipped", func(t *testing.T) {
		prev := []models.Snapshot{{EngineID: "DG1", TopRisk: "p", Priority: "LOW"}}
		curr := []models.Snapshot{snap("DG1", 50.0, "p", nil, "LOW")}

		lines := delta.ComputeLines(prev, curr, config.DefaultRules())
		require.Equal(t, []string{"No material fleet changes detected since last report."}, lines)
	})
}

func TestComputeLines_EtaCompression(t *testing.T) {
	prev := []models.Snapshot{snap("DG1", 95, "p", models.Float64(20.0), "MED")}
	curr := []models.Snapshot{snap("DG1", 95, "p", models.Float64(12.0), "MED")}

	lines := delta.ComputeLines(prev, curr, config.DefaultRules())
	require.Equal(t, []string{"DG1 time-to-limit compressed 20.0d -> 12.0d."}, lines)
}

func TestComputeLines_TopRiskChange(t *testing.T) {
	t.Run("reported when both sides known", func(t *testing.T) {
		prev := []models.Snapshot{snap("DG1", 95, "old_param", nil, "LOW")}
		curr := []models.Snapshot{snap("DG1", 95, "new_param", nil, "LOW")}

		lines := delta.ComputeLines(prev, curr, config.DefaultRules())
		require.Equal(t, []string{"DG1 top risk changed old_param -> new_param."}, lines)
	})

	t.Run("suppressed when a side is unknown", func(t *testing.T) {
		prev := []models.Snapshot{snap("DG1", 95, "N/A", nil, "LOW")}
		curr := []models.Snapshot{snap("DG1", 95, "new_param", nil, "LOW")}

		lines := delta.ComputeLines(prev, curr, config.DefaultRules())
		require.Equal(t, []string{"No material fleet changes detected since last report."}, lines)
	})
}

func TestComputeLines_CapAndOrdering(t *testing.T) {
	var prev, curr []models.Snapshot
	for i := 1; i <= 12; i++ {
		id := fmt.Sprintf("DG%02d", i)
		prev = append(prev, snap(id, 95, "p", nil, "LOW"))
		curr = append(curr, snap(id, 95, "p", nil, "HIGH"))
	}

	lines := delta.ComputeLines(prev, curr, config.DefaultRules())
	require.Len(t, lines, 8)
	// engines visited in ascending id order
	require.Equal(t, "DG01 priority escalated LOW -> HIGH.", lines[0])
	require.Equal(t, "DG08 priority escalated LOW -> HIGH.", lines[7])
}

func TestComputeLines_TunableTriggers(t *testing.T) {
	rules := config.DefaultRules()
	rules.HealthDropPoints = 10.0

	prev := []models.Snapshot{snap("DG1", 95.0, "p", nil, "LOW")}
	curr := []models.Snapshot{snap("DG1", 90.0, "p", nil, "LOW")}

	lines := delta.ComputeLines(prev, curr, rules)
	require.Equal(t, []string{"No material fleet changes detected since last report."}, lines)
}

func TestFromSummaries(t *testing.T) {
	summaries := []models.EngineSummary{
		{EngineID: "DG2", Health: 70.5, TopRisk: "q", EtaDays: models.Float64(12.0), Priority: models.PriorityMed},
		{EngineID: "DG1", Health: 95.0, TopRisk: "p", Priority: models.PriorityLow},
	}

	snaps := delta.FromSummaries(summaries)
	require.Len(t, snaps, 2)
	// sorted by engine id regardless of summary ranking
	require.Equal(t, "DG1", snaps[0].EngineID)
	require.Equal(t, "DG2", snaps[1].EngineID)
	require.Nil(t, snaps[0].EtaDays)
	require.NotNil(t, snaps[1].EtaDays)
	require.Equal(t, "MED", snaps[1].Priority)
}
