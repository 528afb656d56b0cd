package baseline_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/baseline"
	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/models"
)

func reading(engine, param string, ts time.Time, value float64) models.Reading {
	return models.Reading{
		Timestamp: ts,
		EngineID:  engine,
		Param:     param,
		Value:     value,
		Unit:      "bar",
	}
}

func TestCompute_EmptyInput(t *testing.T) {
	require.Empty(t, baseline.Compute(nil, baseline.DefaultOptions()))
	require.Empty(t, baseline.Compute([]models.Reading{}, baseline.DefaultOptions()))
}

func TestCompute_MinPeriodsGate(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var rows []models.Reading
	for i := 0; i < 12; i++ {
		rows = append(rows, reading("DG1", "p", start.Add(time.Duration(i)*time.Hour), float64(i+1)))
	}

	out := baseline.Compute(rows, baseline.Options{
		Window:     14 * 24 * time.Hour,
		MinPeriods: 10,
	})
	require.Len(t, out, 12)

	for i := 0; i < 9; i++ {
		require.Nil(t, out[i].BaselineMean, "row %d should have no baseline", i)
		require.Nil(t, out[i].BaselineStd, "row %d should have no baseline std", i)
	}
	for i := 9; i < 12; i++ {
		require.NotNil(t, out[i].BaselineMean, "row %d should have a baseline", i)
		require.NotNil(t, out[i].BaselineStd, "row %d should have a baseline std", i)
	}

	// row 9 covers values 1..10
	require.InDelta(t, 5.5, *out[9].BaselineMean, 1e-9)
	// sample std of 1..10
	require.InDelta(t, 3.0276503540974917, *out[9].BaselineStd, 1e-9)
}

func TestCompute_TinySeriesNeverGetsBaseline(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := []models.Reading{
		reading("DG1", "p", start, 1.0),
		reading("DG1", "p", start.Add(time.Hour), 2.0),
	}

	out := baseline.Compute(rows, baseline.DefaultOptions())
	require.Len(t, out, 2)
	for _, r := range out {
		require.Nil(t, r.BaselineMean)
		require.Nil(t, r.BaselineStd)
	}
}

func TestCompute_WindowExpiry(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// one sample per hour; a 2h left-open window holds the current
	// sample plus the two before it, and excludes the sample exactly at
	// the left edge
	rows := []models.Reading{
		reading("DG1", "p", start, 100.0),
		reading("DG1", "p", start.Add(1*time.Hour), 10.0),
		reading("DG1", "p", start.Add(2*time.Hour), 20.0),
		reading("DG1", "p", start.Add(3*time.Hour), 30.0),
	}

	out := baseline.Compute(rows, baseline.Options{
		Window:     2 * time.Hour,
		MinPeriods: 2,
	})
	require.Len(t, out, 4)

	// last row: window (01:00, 03:00] -> values 20, 30; the 100 at
	// 00:00 and the 10 exactly at the edge are out
	require.NotNil(t, out[3].BaselineMean)
	require.InDelta(t, 25.0, *out[3].BaselineMean, 1e-9)
}

func TestCompute_IrregularSampling(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// gaps of minutes to days; the window is purely time-based
	rows := []models.Reading{
		reading("DG1", "p", start, 1.0),
		reading("DG1", "p", start.Add(7*time.Minute), 2.0),
		reading("DG1", "p", start.Add(26*time.Hour), 3.0),
		reading("DG1", "p", start.Add(9*24*time.Hour), 4.0),
		reading("DG1", "p", start.Add(30*24*time.Hour), 5.0),
	}

	out := baseline.Compute(rows, baseline.Options{
		Window:     14 * 24 * time.Hour,
		MinPeriods: 2,
	})
	require.Len(t, out, 5)

	// row 3 at day 9: all four first samples inside the 14d window
	require.NotNil(t, out[3].BaselineMean)
	require.InDelta(t, 2.5, *out[3].BaselineMean, 1e-9)

	// row 4 at day 30: everything else has aged out
	require.Nil(t, out[4].BaselineMean)
}

func TestCompute_GroupsAreIndependent(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var rows []models.Reading
	for i := 0; i < 10; i++ {
		rows = append(rows, reading("DG1", "a", start.Add(time.Duration(i)*time.Hour), 1.0))
	}
	// second group too small for a baseline
	rows = append(rows, reading("DG2", "a", start, 9.0))

	out := baseline.Compute(rows, baseline.Options{
		Window:     14 * 24 * time.Hour,
		MinPeriods: 10,
	})
	require.Len(t, out, 11)

	require.NotNil(t, out[9].BaselineMean)
	require.Equal(t, "DG2", out[10].EngineID)
	require.Nil(t, out[10].BaselineMean)
}

func TestCompute_OutOfOrderInputIsSorted(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := []models.Reading{
		reading("DG1", "p", start.Add(2*time.Hour), 3.0),
		reading("DG1", "p", start, 1.0),
		reading("DG1", "p", start.Add(time.Hour), 2.0),
	}

	out := baseline.Compute(rows, baseline.Options{
		Window:     14 * 24 * time.Hour,
		MinPeriods: 2,
	})
	require.Len(t, out, 3)
	require.Equal(t, 1.0, out[0].Value)
	require.Equal(t, 3.0, out[2].Value)
	require.InDelta(t, 2.0, *out[2].BaselineMean, 1e-9)
}
