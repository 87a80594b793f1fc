package jsonout_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/matchcycle/internal/adapters/jsonout"
	"github.com/katalvlaran/matchcycle/model"
	"github.com/katalvlaran/matchcycle/ports"
)

var _ ports.Emitter = (*jsonout.Emitter)(nil)

func TestEmit_WireShape(t *testing.T) {
	res := &model.PairingResult{Pairs: []model.Group{
		model.NewGroup(7, "b", "a"),
		model.NewGroup(9, "c", "e", "d"),
	}}
	res.Normalize()

	var buf bytes.Buffer
	env := ports.Envelope{
		RunID:       "run-1",
		Cycle:       4,
		GeneratedAt: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC),
		Result:      res,
	}
	require.NoError(t, jsonout.New(&buf).Emit(context.Background(), env))

	assert.JSONEq(t, `{
		"run_id": "run-1",
		"cycle": 4,
		"generated_at": "2026-01-05T09:00:00Z",
		"result": {
			"pairs": [
				{"members": ["a", "b"], "weight": 7, "kind": "pair"},
				{"members": ["c", "d", "e"], "weight": 9, "kind": "triad"}
			],
			"unresolved": [],
			"total_weight": 16
		}
	}`, buf.String())
}

func TestEmit_OneDocumentPerCall(t *testing.T) {
	var buf bytes.Buffer
	e := jsonout.New(&buf, jsonout.WithIndent())
	res := &model.PairingResult{}
	res.Normalize()
	for _, id := range []string{"r1", "r2"} {
		require.NoError(t, e.Emit(context.Background(), ports.Envelope{RunID: id, Result: res}))
	}

	dec := json.NewDecoder(&buf)
	var n int
	for dec.More() {
		var env ports.Envelope
		require.NoError(t, dec.Decode(&env))
		n++
	}
	assert.Equal(t, 2, n)
}

func TestEmit_Errors(t *testing.T) {
	e := jsonout.New(&bytes.Buffer{})
	assert.Error(t, e.Emit(context.Background(), ports.Envelope{RunID: "x"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, e.Emit(ctx, ports.Envelope{Result: &model.PairingResult{}}), context.Canceled)

	assert.Panics(t, func() { jsonout.New(nil) })
}
