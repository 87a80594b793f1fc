package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/matchcycle/internal/adapters/file"
	"github.com/katalvlaran/matchcycle/model"
	"github.com/katalvlaran/matchcycle/ports"
)

var (
	_ ports.Loader       = (*file.Loader)(nil)
	_ ports.HistoryStore = (*file.HistoryFile)(nil)
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoader_CSVSheetExport(t *testing.T) {
	path := write(t, "participants.csv", `Name,Email,Team,Include
Alice,alice@example.com,red,TRUE
Bob,bob@example.com,blue,FALSE
Carol, carol@example.com ,red,
,,,
Dave,dave@example.com,,yes
`)
	ps, err := file.NewLoader(path).LoadParticipants(context.Background())
	require.NoError(t, err)
	require.Len(t, ps, 4, "blank row skipped")

	assert.Equal(t, model.Participant{
		ID:         "alice@example.com",
		Eligible:   true,
		Attributes: map[string]string{"name": "Alice", "email": "alice@example.com", "team": "red"},
	}, ps[0])
	assert.False(t, ps[1].Eligible)
	assert.Equal(t, "carol@example.com", ps[2].ID, "cells are trimmed")
	assert.True(t, ps[2].Eligible, "blank include means included")
	assert.True(t, ps[3].Eligible)
	assert.Equal(t, "", ps[3].Attr("team"))
}

func TestLoader_YAMLWithExplicitID(t *testing.T) {
	path := write(t, "participants.yaml", `
- id: u1
  email: one@example.com
  eligible: false
- ID: u2
  Team Name: platform
`)
	ps, err := file.NewLoader(path).LoadParticipants(context.Background())
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, "u1", ps[0].ID)
	assert.False(t, ps[0].Eligible)
	assert.Equal(t, "one@example.com", ps[0].Attr("email"))
	assert.Equal(t, "u2", ps[1].ID)
	assert.True(t, ps[1].Eligible, "eligibility defaults to true")
	assert.Equal(t, "platform", ps[1].Attr("teamname"))
}

func TestLoader_Errors(t *testing.T) {
	_, err := file.NewLoader(write(t, "p.json", `[{"id": "a", "include": "maybe"}]`)).LoadParticipants(context.Background())
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = file.NewLoader(write(t, "p.txt", "a")).LoadParticipants(context.Background())
	assert.ErrorIs(t, err, file.ErrUnsupportedFormat)

	ps, err := file.NewLoader(filepath.Join(t.TempDir(), "none.csv")).LoadParticipants(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ps)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = file.NewLoader("p.csv").LoadParticipants(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHistoryFile_SheetColumns(t *testing.T) {
	path := write(t, "history.csv", `Person A (Email),Person B (Email),Cycle
alice@example.com,bob@example.com,4
carol@example.com,alice@example.com,2
`)
	recs, err := file.NewHistoryFile(path).LoadHistory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.HistoryRecord{
		{A: "alice@example.com", B: "bob@example.com", LastCycle: 4},
		{A: "carol@example.com", B: "alice@example.com", LastCycle: 2},
	}, recs)

	_, err = file.NewHistoryFile(write(t, "h.csv", "a_id,b_id\nx,y\n")).LoadHistory(context.Background())
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestHistoryFile_AliasedColumnsResolveByName(t *testing.T) {
	path := write(t, "history.csv", `A,Person A (Email),B,Person B (Email),Cycle
short@example.com,alice@example.com,bob@example.com,,3
`)
	for i := 0; i < 20; i++ {
		recs, err := file.NewHistoryFile(path).LoadHistory(context.Background())
		require.NoError(t, err)
		require.Equal(t, []model.HistoryRecord{
			{A: "alice@example.com", B: "bob@example.com", LastCycle: 3},
		}, recs, "attempt %d", i)
	}
}

func TestHistoryFile_Contract(t *testing.T) {
	for _, ext := range []string{"yaml", "json", "csv"} {
		t.Run(ext, func(t *testing.T) {
			store := file.NewHistoryFile(filepath.Join(t.TempDir(), "nested", "history."+ext))
			ports.RunHistoryStoreContract(t, store)
		})
	}
}
