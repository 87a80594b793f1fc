package file

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/katalvlaran/matchcycle/model"
)

// Loader implements ports.Loader over a participant sheet export.
//
// Column names are matched case- and punctuation-insensitively:
//   - "id" is the participant id; without it "email" is used.
//   - "include" or "eligible" sets eligibility; absent means included.
//   - every other non-empty column becomes an attribute under its folded name
//     ("Email" → "email", "Team Name" → "teamname").
//
// Rows without an id are skipped.
type Loader struct {
	Path string
}

// NewLoader returns a Loader for path (.yaml, .yml, .json or .csv).
func NewLoader(path string) *Loader {
	return &Loader{Path: path}
}

// LoadParticipants reads and decodes every row. A missing file is an empty pool.
func (l *Loader) LoadParticipants(ctx context.Context) ([]model.Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := readRows(l.Path)
	if err != nil {
		return nil, err
	}

	out := make([]model.Participant, 0, len(rows))
	for i, row := range rows {
		p, ok, err := decodeParticipant(row)
		if err != nil {
			return nil, model.Invalid(fmt.Sprintf("%s row %d", l.Path, i+1), "%v", err)
		}
		if ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// decodeParticipant normalizes one row and decodes it with mapstructure.
// ok is false for rows without an id.
func decodeParticipant(row map[string]any) (model.Participant, bool, error) {
	var (
		id, email string
		include   any = true
		attrs         = make(map[string]string)
		keys          = make([]string, 0, len(row))
	)
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys) // stable choice when two columns fold to the same name

	for _, k := range keys {
		v := row[k]
		switch nk := normalizeKey(k); nk {
		case "id":
			id = cell(v)
		case "email":
			email = cell(v)
			attrs[nk] = email
		case "include", "eligible":
			include = normalizeBool(v)
		default:
			if s := cell(v); s != "" && nk != "" {
				attrs[nk] = s
			}
		}
	}
	if id == "" {
		id = email
	}
	if id == "" {
		return model.Participant{}, false, nil
	}
	if attrs["email"] == "" {
		delete(attrs, "email")
	}

	var p model.Participant
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &p,
	})
	if err != nil {
		return model.Participant{}, false, err
	}
	err = dec.Decode(map[string]any{"id": id, "eligible": include, "attributes": attrs})
	if err != nil {
		return model.Participant{}, false, err
	}
	if len(p.Attributes) == 0 {
		p.Attributes = nil
	}
	return p, true, nil
}

// normalizeBool maps the checkbox spellings sheets produce onto values the
// weak decoder understands. Blank cells count as included.
func normalizeBool(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "yes", "y", "x", "✓", "checked":
		return true
	case "no", "n", "unchecked":
		return false
	}
	return s
}
