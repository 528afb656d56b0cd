package report_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/models"
	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/report"
)

func samplePayload() report.Payload {
	return report.Payload{
		Meta: report.Meta{
			ReportID:        "run-1",
			GeneratedAt:     "2026-02-01 08:00",
			Coverage:        "Coverage: 2026-01-01 -> 2026-01-31 | Samples: 100 | Engines: 2",
			DecisionVersion: "0.1.0",
			RunConfig:       map[string]string{"input": "readings.csv"},
		},
		Fleet: report.Fleet{
			Verdict: "DG1 requires inspection within 72 hours due to near-term drift.",
			Delta:   []string{"Baseline created (first run). Future reports will highlight changes."},
			Table: []models.EngineSummary{
				{
					EngineID: "DG1",
					Health:   61.2,
					TopRisk:  "charge_air_pressure_bar",
					EtaDays:  models.Float64(5.0),
					Priority: models.PriorityHigh,
					Reason:   "ETA 5.0d to limit (charge_air_pressure_bar).",
					Action:   "Inspect <72h",
					Trend:    []float64{0.4, 0.3, 0.2},
				},
			},
		},
		Focus: report.Focus{
			EngineID:    "DG1",
			HealthScore: 61.2,
			Risks: []models.ParamRisk{
				{
					EngineID:     "DG1",
					Param:        "charge_air_pressure_bar",
					MaxRisk:      0.91,
					Direction:    models.DirectionDown,
					EtaToMinDays: models.Float64(5.0),
				},
			},
		},
		Notes: []string{"3 rows have invalid timestamp"},
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "report.json")
	require.NoError(t, report.WriteJSON(path, samplePayload()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	meta := decoded["meta"].(map[string]any)
	require.Equal(t, "run-1", meta["report_id"])
	require.Equal(t, "0.1.0", meta["decision_version"])

	fleet := decoded["fleet"].(map[string]any)
	require.Contains(t, fleet["verdict"], "DG1")
	require.Len(t, fleet["table"].([]any), 1)

	focus := decoded["focus"].(map[string]any)
	require.Equal(t, "DG1", focus["engine_id"])
	require.Equal(t, 61.2, focus["health_score"])
}

func TestWriteJSON_EmptySlicesStayArrays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	payload := samplePayload()
	payload.Fleet.Delta = nil
	payload.Notes = nil

	require.NoError(t, report.WriteJSON(path, payload))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"delta": []`)
	require.Contains(t, string(data), `"notes": []`)
}

func TestWriteExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, report.WriteExcel(path, samplePayload()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	require.ElementsMatch(t, []string{"Fleet", "Focus", "Notes"}, f.GetSheetList())

	engine, err := f.GetCellValue("Fleet", "A6")
	require.NoError(t, err)
	require.Equal(t, "DG1", engine)

	focusTitle, err := f.GetCellValue("Focus", "A1")
	require.NoError(t, err)
	require.Equal(t, "Focus Engine: DG1", focusTitle)

	// interpretation context joins the focus risk table
	system, err := f.GetCellValue("Focus", "F5")
	require.NoError(t, err)
	require.Equal(t, "Air Intake / Turbocharging", system)
}
