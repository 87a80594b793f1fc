package model_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/matchcycle/model"
)

func TestPairKey_Canonical(t *testing.T) {
	require.Equal(t, model.NewPairKey("b", "a"), model.NewPairKey("a", "b"))
	k := model.NewPairKey("zed", "amy")
	require.Equal(t, "amy", k.Lo)
	require.Equal(t, "amy|zed", k.String())

	require.True(t, model.NewPairKey("a", "c").Less(model.NewPairKey("b", "c")))
	require.True(t, model.NewPairKey("a", "b").Less(model.NewPairKey("a", "c")))
	require.False(t, model.NewPairKey("a", "b").Less(model.NewPairKey("a", "b")))
}

func TestValidatePool(t *testing.T) {
	ok := []model.Participant{{ID: "a", Eligible: true}, {ID: "b"}}
	require.NoError(t, model.ValidatePool(ok))

	err := model.ValidatePool([]model.Participant{{ID: "a"}, {ID: "b"}, {ID: "a"}})
	require.Error(t, err)
	require.True(t, errors.Is(err, model.ErrValidation))
	var ve *model.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "participants[2].id", ve.Field)
	assert.Contains(t, ve.Reason, "duplicate")

	err = model.ValidatePool([]model.Participant{{ID: ""}})
	require.ErrorIs(t, err, model.ErrValidation)
}

func TestEligible_SortedAndFiltered(t *testing.T) {
	in := []model.Participant{
		{ID: "c", Eligible: true},
		{ID: "a", Eligible: true},
		{ID: "b", Eligible: false},
	}
	out := model.Eligible(in)
	require.Len(t, out, 2)
	require.Equal(t, "a", out[0].ID)
	require.Equal(t, "c", out[1].ID)
	require.Equal(t, "c", in[0].ID, "input must not be reordered")
}

func TestValidateHistory(t *testing.T) {
	cases := []struct {
		name  string
		recs  []model.HistoryRecord
		cycle int64
		ok    bool
	}{
		{"empty", nil, 0, true},
		{"valid", []model.HistoryRecord{{A: "a", B: "b", LastCycle: 3}}, 4, true},
		{"unknown ids are fine", []model.HistoryRecord{{A: "x", B: "y", LastCycle: 0}}, 1, true},
		{"empty id", []model.HistoryRecord{{A: "", B: "b", LastCycle: 0}}, 1, false},
		{"self pair", []model.HistoryRecord{{A: "a", B: "a", LastCycle: 0}}, 1, false},
		{"negative cycle", []model.HistoryRecord{{A: "a", B: "b", LastCycle: -1}}, 1, false},
		{"same cycle", []model.HistoryRecord{{A: "a", B: "b", LastCycle: 2}}, 2, false},
		{"future cycle", []model.HistoryRecord{{A: "a", B: "b", LastCycle: 9}}, 2, false},
		{"negative current", nil, -1, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := model.ValidateHistory(tc.recs, tc.cycle)
			if tc.ok {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, model.ErrValidation)
		})
	}
}

func TestIndexHistory_KeepsLatest(t *testing.T) {
	idx := model.IndexHistory([]model.HistoryRecord{
		{A: "a", B: "b", LastCycle: 1},
		{A: "b", B: "a", LastCycle: 5},
		{A: "a", B: "b", LastCycle: 3},
		{A: "c", B: "a", LastCycle: 2},
	})
	require.Len(t, idx, 2)
	require.Equal(t, int64(5), idx[model.NewPairKey("a", "b")])
	require.Equal(t, int64(2), idx[model.NewPairKey("a", "c")])
}

func TestPairingResult_NormalizeAndHistory(t *testing.T) {
	r := model.PairingResult{
		Pairs: []model.Group{
			model.NewGroup(10, "d", "c"),
			model.NewGroup(30, "b", "e", "a"),
		},
		Unresolved: []string{"z", "f"},
	}
	r.Normalize()

	require.Equal(t, []string{"a", "b", "e"}, r.Pairs[0].Members)
	require.Equal(t, model.KindTriad, r.Pairs[0].Kind)
	require.Equal(t, model.KindPair, r.Pairs[1].Kind)
	require.Equal(t, []string{"f", "z"}, r.Unresolved)
	require.Equal(t, int64(40), r.TotalWeight)
	require.Equal(t, []string{"a", "b", "c", "d", "e"}, r.Covered())
	require.Equal(t, 1, r.CountKind(model.KindTriad))

	recs := r.HistoryRecords(7)
	require.Len(t, recs, 4) // 3 for the triad + 1 for the pair
	for _, rec := range recs {
		require.Equal(t, int64(7), rec.LastCycle)
		require.Less(t, rec.A, rec.B)
	}
}

func TestNormalize_EmptyResultSerializesAsArrays(t *testing.T) {
	var r model.PairingResult
	r.Normalize()
	require.NotNil(t, r.Pairs)
	require.NotNil(t, r.Unresolved)
}

func TestErrorTypes(t *testing.T) {
	var err error = &model.PartialCoverageError{Uncovered: []string{"c", "d"}, Policy: "triple"}
	require.ErrorIs(t, err, model.ErrPartialCoverage)
	require.Contains(t, err.Error(), "c, d")

	err = &model.InfeasibleMatchingError{Participants: []string{"a", "b"}}
	require.ErrorIs(t, err, model.ErrInfeasible)
	require.False(t, errors.Is(err, model.ErrValidation))
}
