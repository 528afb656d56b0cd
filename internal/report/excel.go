package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/interpret"
)

var fleetHeader = []string{
	"Engine", "Health", "Top Risk", "ETA (days)", "Priority", "Reason", "Action",
}

var focusHeader = []string{
	"Param", "Max Risk", "Direction", "ETA to Min (d)", "ETA to Max (d)",
	"System", "Interpretation", "Risk Type",
}

// WriteExcel renders the operator report workbook: a Fleet sheet with
// the ranked summary, verdict and change lines, a Focus sheet with the
// focus engine's risk table plus interpretation context, and a Notes
// sheet with ingestion issues.
func WriteExcel(path string, payload Payload) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := writeFleetSheet(f, payload, headerStyle); err != nil {
		return err
	}
	if err := writeFocusSheet(f, payload, headerStyle); err != nil {
		return err
	}
	if err := writeNotesSheet(f, payload); err != nil {
		return err
	}

	f.DeleteSheet("Sheet1")

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeFleetSheet(f *excelize.File, payload Payload, headerStyle int) error {
	const sheet = "Fleet"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	f.SetActiveSheet(index)

	meta := payload.Meta
	setCell(f, sheet, 1, 1, fmt.Sprintf("AxiomIQ Fleet Report - %s", meta.GeneratedAt))
	setCell(f, sheet, 1, 2, meta.Coverage)
	setCell(f, sheet, 1, 3, fmt.Sprintf("Verdict: %s", payload.Fleet.Verdict))

	row := 5
	if err := writeHeaderRow(f, sheet, row, fleetHeader, headerStyle); err != nil {
		return err
	}
	for _, s := range payload.Fleet.Table {
		row++
		setCell(f, sheet, 1, row, s.EngineID)
		setCell(f, sheet, 2, row, s.Health)
		setCell(f, sheet, 3, row, s.TopRisk)
		setCell(f, sheet, 4, row, optFloatCell(s.EtaDays))
		setCell(f, sheet, 5, row, string(s.Priority))
		setCell(f, sheet, 6, row, s.Reason)
		setCell(f, sheet, 7, row, s.Action)
	}

	row += 2
	setCell(f, sheet, 1, row, "Key Changes Since Last Report")
	for _, line := range payload.Fleet.Delta {
		row++
		setCell(f, sheet, 1, row, "- "+line)
	}

	widths := []float64{12, 10, 28, 12, 10, 48, 18}
	return setColWidths(f, sheet, widths)
}

func writeFocusSheet(f *excelize.File, payload Payload, headerStyle int) error {
	const sheet = "Focus"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}

	setCell(f, sheet, 1, 1, fmt.Sprintf("Focus Engine: %s", payload.Focus.EngineID))
	setCell(f, sheet, 1, 2, fmt.Sprintf("Health Score: %.1f", payload.Focus.HealthScore))

	row := 4
	if err := writeHeaderRow(f, sheet, row, focusHeader, headerStyle); err != nil {
		return err
	}
	for _, r := range payload.Focus.Risks {
		row++
		rule := interpret.Param(r.Param)
		setCell(f, sheet, 1, row, r.Param)
		setCell(f, sheet, 2, row, fmt.Sprintf("%.3f", r.MaxRisk))
		setCell(f, sheet, 3, row, r.Direction)
		setCell(f, sheet, 4, row, optFloatCell(r.EtaToMinDays))
		setCell(f, sheet, 5, row, optFloatCell(r.EtaToMaxDays))
		setCell(f, sheet, 6, row, rule.System)
		setCell(f, sheet, 7, row, rule.Meaning)
		setCell(f, sheet, 8, row, rule.RiskType)
	}

	widths := []float64{28, 10, 10, 14, 14, 26, 60, 34}
	return setColWidths(f, sheet, widths)
}

func writeNotesSheet(f *excelize.File, payload Payload) error {
	const sheet = "Notes"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}

	setCell(f, sheet, 1, 1, "Ingestion Notes")
	row := 2
	if len(payload.Notes) == 0 {
		setCell(f, sheet, 1, row, "None.")
	}
	for _, note := range payload.Notes {
		setCell(f, sheet, 1, row, "- "+note)
		row++
	}

	rc := make([]string, 0, len(payload.Meta.RunConfig))
	for k, v := range payload.Meta.RunConfig {
		if v != "" {
			rc = append(rc, fmt.Sprintf("%s=%s", k, v))
		}
	}
	sort.Strings(rc)
	if len(rc) > 0 {
		row += 2
		setCell(f, sheet, 1, row, "Run config: "+strings.Join(rc, " "))
	}
	return nil
}

func writeHeaderRow(f *excelize.File, sheet string, row int, headers []string, style int) error {
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return fmt.Errorf("set header style: %w", err)
		}
	}
	return nil
}

func setColWidths(f *excelize.File, sheet string, widths []float64) error {
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("convert column number: %w", err)
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value any) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return
	}
	_ = f.SetCellValue(sheet, cell, value)
}

func optFloatCell(v *float64) any {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", *v)
}
