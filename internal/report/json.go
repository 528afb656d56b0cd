package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/models"
)

// WriteJSON writes the full report payload as indented JSON, creating
// parent directories as needed.
func WriteJSON(path string, payload Payload) error {
	if payload.Meta.SchemaVersion == "" {
		payload.Meta.SchemaVersion = SchemaVersion
	}
	if payload.Fleet.Delta == nil {
		payload.Fleet.Delta = []string{}
	}
	if payload.Fleet.Table == nil {
		payload.Fleet.Table = []models.EngineSummary{}
	}
	if payload.Focus.Risks == nil {
		payload.Focus.Risks = []models.ParamRisk{}
	}
	if payload.Notes == nil {
		payload.Notes = []string{}
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
