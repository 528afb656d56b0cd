package delta

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/Blackreef-Systems/blackreef-axiomiq/internal/models"
)

// SnapshotColumns is the persisted column set, in order.
var SnapshotColumns = []string{"engine_id", "health", "top_risk", "eta_days", "priority"}

// SnapshotStore is the persistence collaborator for the snapshot differ
// (file-backed in production, in-memory fake in tests). Load reporting
// found=false signals the first-run state; a missing snapshot is never
// an error.
type SnapshotStore interface {
	Load() (snapshots []models.Snapshot, found bool, err error)
	Save(snapshots []models.Snapshot) error
}

// FileStore persists the snapshot as a flat five-column CSV, one row
// per engine, sorted by engine_id, overwritten wholesale each run.
// Writes go to a temp file renamed into place so a partially written
// snapshot is never observable. Concurrent runs against the same path
// are the caller's responsibility; no locking is attempted.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() ([]models.Snapshot, bool, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, false, fmt.Errorf("read snapshot: %w", err)
	}
	if len(records) == 0 {
		return nil, true, nil
	}

	col := make(map[string]int)
	for i, name := range records[0] {
		col[name] = i
	}
	for _, name := range SnapshotColumns {
		if _, ok := col[name]; !ok {
			return nil, false, fmt.Errorf("snapshot missing column %q", name)
		}
	}

	out := make([]models.Snapshot, 0, len(records)-1)
	for _, rec := range records[1:] {
		snap := models.Snapshot{
			EngineID: rec[col["engine_id"]],
			TopRisk:  rec[col["top_risk"]],
			Priority: rec[col["priority"]],
		}
		snap.Health = parseOptFloat(rec[col["health"]])
		snap.EtaDays = parseOptFloat(rec[col["eta_days"]])
		out = append(out, snap)
	}

	sortSnapshots(out)
	return out, true, nil
}

func (s *FileStore) Save(snapshots []models.Snapshot) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}

	rows := make([]models.Snapshot, len(snapshots))
	copy(rows, snapshots)
	sortSnapshots(rows)

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".snapshot-*.csv")
	if err != nil {
		return fmt.Errorf("create snapshot temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := csv.NewWriter(tmp)
	writeErr := w.Write(SnapshotColumns)
	for _, snap := range rows {
		if writeErr != nil {
			break
		}
		writeErr = w.Write([]string{
			snap.EngineID,
			formatOptFloat(snap.Health),
			snap.TopRisk,
			formatOptFloat(snap.EtaDays),
			snap.Priority,
		})
	}
	w.Flush()
	if writeErr == nil {
		writeErr = w.Error()
	}
	if closeErr := tmp.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", writeErr)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func sortSnapshots(snaps []models.Snapshot) {
	sort.SliceStable(snaps, func(i, j int) bool {
		return snaps[i].EngineID < snaps[j].EngineID
	})
}

func parseOptFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return models.Float64(v)
}

// formatOptFloat renders to one decimal, matching the presentation
// rounding applied upstream, so save(load(p)) is byte-stable.
func formatOptFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}
