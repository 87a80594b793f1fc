// File: engine.go
// Role: Stage orchestration from Input to PairingResult.
// Determinism:
//   - Every stage consumes sorted inputs; the result is Normalize()d.
// Concurrency:
//   - An Engine is immutable after New and safe for concurrent Run calls.

package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/katalvlaran/matchcycle/builder"
	"github.com/katalvlaran/matchcycle/core"
	"github.com/katalvlaran/matchcycle/internal/logging"
	"github.com/katalvlaran/matchcycle/matching"
	"github.com/katalvlaran/matchcycle/model"
	"github.com/katalvlaran/matchcycle/parity"
	"github.com/katalvlaran/matchcycle/weight"
)

// Stage names reported to hooks and logs.
const (
	StageValidate = "validate"
	StageBuild    = "build"
	StageAnnotate = "annotate"
	StageSolve    = "solve"
	StageParity   = "parity"
)

// Input is everything one cycle needs.
type Input struct {
	Participants []model.Participant   `json:"participants" yaml:"participants"`
	History      []model.HistoryRecord `json:"history" yaml:"history"`
	CurrentCycle int64                 `json:"current_cycle" yaml:"current_cycle"`
	Config       Config                `json:"config" yaml:"config"`
}

// NewInput returns an Input whose Config holds DefaultConfig, ready to be
// decoded onto.
func NewInput() Input {
	return Input{Config: DefaultConfig()}
}

// StageEvent describes a finished stage.
type StageEvent struct {
	Stage    string
	Duration time.Duration
	Vertices int // candidate graph size after the stage, 0 before build
	Edges    int
}

// Hooks receives lifecycle callbacks. Nil fields are skipped.
type Hooks struct {
	OnStage  func(ctx context.Context, e StageEvent)
	OnResult func(ctx context.Context, res *model.PairingResult, elapsed time.Duration)
	OnError  func(ctx context.Context, stage string, err error)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("engine: WithLogger(nil)")
	}
	return func(e *Engine) { e.log = l }
}

// WithHooks appends lifecycle hooks; several sets may be attached.
func WithHooks(h Hooks) Option {
	return func(e *Engine) { e.hooks = append(e.hooks, h) }
}

// Engine runs pairing cycles.
type Engine struct {
	log   *slog.Logger
	hooks []Hooks
}

// New builds an Engine with a no-op logger unless WithLogger is given.
func New(opts ...Option) *Engine {
	e := &Engine{log: logging.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run is New().Run for callers without options.
func Run(ctx context.Context, in Input, opts ...Option) (*model.PairingResult, error) {
	return New(opts...).Run(ctx, in)
}

// run carries per-call state through the stages.
type run struct {
	e     *Engine
	ctx   context.Context
	stage string
	t0    time.Time
	g     *core.Graph
}

// Run computes the pairing for in.
//
// Errors:
//   - *model.ValidationError for malformed participants, history or config.
//   - *model.InfeasibleMatchingError, *model.PartialCoverageError from the
//     parity stage.
//   - ctx.Err() on cancellation.
func (e *Engine) Run(ctx context.Context, in Input) (*model.PairingResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	r := &run{e: e, ctx: ctx}

	res, err := r.pipeline(in)
	if err != nil {
		e.log.Warn("pairing failed", "stage", r.stage, "cycle", in.CurrentCycle, "error", err)
		for _, h := range e.hooks {
			if h.OnError != nil {
				h.OnError(ctx, r.stage, err)
			}
		}
		return nil, err
	}

	elapsed := time.Since(start)
	e.log.Info("pairing computed",
		"cycle", in.CurrentCycle,
		"pairs", res.CountKind(model.KindPair),
		"triads", res.CountKind(model.KindTriad),
		"unresolved", len(res.Unresolved),
		"total_weight", res.TotalWeight,
		"elapsed", elapsed,
	)
	for _, h := range e.hooks {
		if h.OnResult != nil {
			h.OnResult(ctx, res, elapsed)
		}
	}

	return res, nil
}

func (r *run) pipeline(in Input) (*model.PairingResult, error) {
	var (
		p   *prepared
		m   *matching.Matching
		err error
	)

	// Stage 1: validation and eligibility.
	if err = r.begin(StageValidate); err != nil {
		return nil, err
	}
	if p, err = prepare(in); err != nil {
		return nil, err
	}
	r.end()

	// Stage 2: candidate graph minus hard exclusions.
	if err = r.begin(StageBuild); err != nil {
		return nil, err
	}
	if r.g, err = p.candidates(); err != nil {
		return nil, err
	}
	r.end()

	// Stage 3: weights.
	if err = r.begin(StageAnnotate); err != nil {
		return nil, err
	}
	if err = p.annotate(r.g); err != nil {
		return nil, err
	}
	r.end()

	// Stage 4: maximum-weight matching.
	if err = r.begin(StageSolve); err != nil {
		return nil, err
	}
	if m, err = matching.MaxWeight(r.g, matching.Options{Ctx: r.ctx, MaxCardinality: p.cfg.MaxCardinality}); err != nil {
		return nil, fmt.Errorf("engine: solve: %w", err)
	}
	r.end()

	// Stage 5: parity.
	if err = r.begin(StageParity); err != nil {
		return nil, err
	}
	res, err := p.resolver.ResolveContext(r.ctx, r.g, m)
	if err != nil {
		return nil, err
	}
	r.end()

	return res, nil
}

// prepared holds the validated pieces shared by Run and Check.
type prepared struct {
	cfg      Config
	eligible []model.Participant
	scorer   *weight.Scorer
	resolver *parity.Resolver
}

func prepare(in Input) (*prepared, error) {
	cfg := in.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := model.ValidatePool(in.Participants); err != nil {
		return nil, err
	}
	if err := model.ValidateHistory(in.History, in.CurrentCycle); err != nil {
		return nil, err
	}
	scorer, err := weight.NewScorer(cfg.Weight(), in.CurrentCycle, in.History)
	if err != nil {
		return nil, err
	}
	resolver, err := parity.NewResolver(cfg.Parity())
	if err != nil {
		return nil, err
	}

	return &prepared{
		cfg:      cfg,
		eligible: model.Eligible(in.Participants),
		scorer:   scorer,
		resolver: resolver,
	}, nil
}

func (p *prepared) candidates() (*core.Graph, error) {
	opts := []builder.BuilderOption{
		builder.WithExcludedPairs(p.cfg.HardExclusionPairs),
		builder.WithRecencyExclusion(p.scorer.Excluded),
	}
	for _, k := range p.cfg.ExcludeSameAttrs {
		opts = append(opts, builder.WithSameAttributeExclusion(k))
	}
	return builder.Candidates(p.eligible, opts...)
}

// annotate weights g and rejects graphs the parity policy cannot complete.
func (p *prepared) annotate(g *core.Graph) error {
	byID := make(map[string]model.Participant, len(p.eligible))
	for _, pt := range p.eligible {
		byID[pt.ID] = pt
	}
	if err := p.scorer.Annotate(g, byID); err != nil {
		return err
	}
	return p.resolver.Feasible(g)
}

// Report summarizes a checked Input.
type Report struct {
	Participants int
	Eligible     int
	History      int
	Candidates   int   // edges of the candidate graph
	Weight       int64 // sum of candidate edge weights
	Components   int
	Isolated     []string // eligible participants without any candidate partner
	// MinUncovered is the number of odd-sized components: each leaves at
	// least one participant out of the matching.
	MinUncovered int
	Policy       parity.Policy
}

// Check runs every stage before the solver and reports what it saw. It
// returns the same errors Run would return for those stages.
func Check(in Input) (*Report, error) {
	p, err := prepare(in)
	if err != nil {
		return nil, err
	}
	g, err := p.candidates()
	if err != nil {
		return nil, err
	}
	if err = p.annotate(g); err != nil {
		return nil, err
	}

	rep := &Report{
		Participants: len(in.Participants),
		Eligible:     len(p.eligible),
		History:      len(in.History),
		Candidates:   g.EdgeCount(),
		Weight:       g.TotalWeight(),
		Isolated:     g.Isolated(),
		Policy:       p.resolver.Options().Policy,
	}
	for _, comp := range g.Components() {
		rep.Components++
		if len(comp)%2 == 1 {
			rep.MinUncovered++
		}
	}

	return rep, nil
}

// begin checks for cancellation and starts the stage clock.
func (r *run) begin(stage string) error {
	r.stage = stage
	if err := r.ctx.Err(); err != nil {
		return err
	}
	r.t0 = time.Now()
	return nil
}

// end reports the stage to the log and hooks.
func (r *run) end() {
	ev := StageEvent{Stage: r.stage, Duration: time.Since(r.t0)}
	if r.g != nil {
		ev.Vertices, ev.Edges = r.g.VertexCount(), r.g.EdgeCount()
	}
	r.e.log.Debug("stage done", "stage", ev.Stage, "duration", ev.Duration, "vertices", ev.Vertices, "edges", ev.Edges)
	for _, h := range r.e.hooks {
		if h.OnStage != nil {
			h.OnStage(r.ctx, ev)
		}
	}
}
