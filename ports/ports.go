package ports

import (
	"context"
	"time"

	"github.com/katalvlaran/matchcycle/model"
)

// Loader supplies the participant pool for the current cycle.
// Ineligible participants are returned with Eligible=false, not dropped;
// the engine filters them.
type Loader interface {
	LoadParticipants(ctx context.Context) ([]model.Participant, error)
}

// HistoryStore persists the pair history between cycles.
type HistoryStore interface {
	// LoadHistory returns every stored record. Order is not significant.
	LoadHistory(ctx context.Context) ([]model.HistoryRecord, error)

	// AppendHistory stores records. A record for a pair that already exists
	// replaces it when its cycle is newer.
	AppendHistory(ctx context.Context, records []model.HistoryRecord) error
}

// Emitter delivers a finished result.
type Emitter interface {
	Emit(ctx context.Context, env Envelope) error
}

// Envelope wraps a result with the metadata the delivery layer records.
type Envelope struct {
	RunID       string               `json:"run_id" yaml:"run_id"`
	Cycle       int64                `json:"cycle" yaml:"cycle"`
	GeneratedAt time.Time            `json:"generated_at" yaml:"generated_at"`
	Result      *model.PairingResult `json:"result" yaml:"result"`
}
