package file

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mitchellh/mapstructure"

	"github.com/katalvlaran/matchcycle/model"
)

var historyColumns = []string{"a_id", "b_id", "last_cycle"}

// historyAliases maps folded column names onto HistoryRecord fields.
var historyAliases = map[string]string{
	"aid": "a_id", "a": "a_id", "persona": "a_id", "personaemail": "a_id", "personaid": "a_id",
	"bid": "b_id", "b": "b_id", "personb": "b_id", "personbemail": "b_id", "personbid": "b_id",
	"lastcycle": "last_cycle", "cycle": "last_cycle",
}

// HistoryFile implements ports.HistoryStore on a single file.
// Appends rewrite the whole file atomically; the mutex serializes writers
// within one process.
type HistoryFile struct {
	Path string
	mu   sync.Mutex
}

// NewHistoryFile returns a store for path (.yaml, .yml, .json or .csv).
// The file is created on the first append.
func NewHistoryFile(path string) *HistoryFile {
	return &HistoryFile{Path: path}
}

// LoadHistory reads every record. Columns may use sheet names such as
// "Person A (Email)" and "Cycle".
func (h *HistoryFile) LoadHistory(ctx context.Context) ([]model.HistoryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.load()
}

func (h *HistoryFile) load() ([]model.HistoryRecord, error) {
	rows, err := readRows(h.Path)
	if err != nil {
		return nil, err
	}
	out := make([]model.HistoryRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := decodeHistory(row)
		if err != nil {
			return nil, model.Invalid(fmt.Sprintf("%s row %d", h.Path, i+1), "%v", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// AppendHistory adds records and rewrites the file in canonical columns.
func (h *HistoryFile) AppendHistory(ctx context.Context, records []model.HistoryRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	existing, err := h.load()
	if err != nil {
		return err
	}
	all := append(existing, records...)
	rows := make([]map[string]any, len(all))
	for i, r := range all {
		rows[i] = map[string]any{"a_id": r.A, "b_id": r.B, "last_cycle": r.LastCycle}
	}
	return writeRows(h.Path, historyColumns, rows)
}

func decodeHistory(row map[string]any) (model.HistoryRecord, error) {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys) // aliases of one field: the last non-blank in key order wins

	norm := make(map[string]any, 3)
	for _, k := range keys {
		field, ok := historyAliases[normalizeKey(k)]
		if !ok {
			continue
		}
		if s := cell(row[k]); s != "" || norm[field] == nil {
			norm[field] = s
		}
	}
	for _, c := range historyColumns {
		if s, _ := norm[c].(string); s == "" {
			return model.HistoryRecord{}, fmt.Errorf("missing %s", c)
		}
	}

	var rec model.HistoryRecord
	err := mapstructure.WeakDecode(norm, &rec)
	return rec, err
}
