// Package metrics records pairing runs in Prometheus collectors.
//
// A Recorder owns its registry, so several engines (or tests) never collide
// on the global default registry. The CLI writes the registry to a node
// exporter textfile after each run; long-running hosts can serve Gatherer()
// with promhttp instead.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/matchcycle/engine"
	"github.com/katalvlaran/matchcycle/model"
)

const namespace = "matchcycle"

// Recorder holds the engine collectors.
type Recorder struct {
	reg *prometheus.Registry

	runs          *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	runDuration   prometheus.Histogram
	candidates    *prometheus.GaugeVec
	groups        *prometheus.GaugeVec
	unresolved    prometheus.Gauge
	totalWeight   prometheus.Gauge
}

// NewRecorder creates and registers the collectors on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Pairing runs by outcome (ok, validation, infeasible, partial_coverage, canceled, error).",
		}, []string{"outcome"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each engine stage.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"stage"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of successful pairing runs.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		candidates: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "candidate_graph_size",
			Help:      "Vertices and edges of the last candidate graph.",
		}, []string{"kind"}),
		groups: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "groups",
			Help:      "Groups in the last result by kind (pair, triad).",
		}, []string{"kind"}),
		unresolved: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "unresolved_participants",
			Help:      "Participants carried over by the last result.",
		}),
		totalWeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "total_weight",
			Help:      "Total weight of the last result.",
		}),
	}
	r.reg.MustRegister(r.runs, r.stageDuration, r.runDuration, r.candidates, r.groups, r.unresolved, r.totalWeight)

	return r
}

// Gatherer exposes the registry, e.g. for promhttp.HandlerFor.
func (r *Recorder) Gatherer() prometheus.Gatherer { return r.reg }

// WriteTextfile writes the current metrics in the text exposition format,
// atomically, for the node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}

// Hooks returns engine hooks that feed this recorder.
func (r *Recorder) Hooks() engine.Hooks {
	return engine.Hooks{
		OnStage: func(_ context.Context, e engine.StageEvent) {
			r.stageDuration.WithLabelValues(e.Stage).Observe(e.Duration.Seconds())
			if e.Stage == engine.StageBuild {
				r.candidates.WithLabelValues("vertices").Set(float64(e.Vertices))
				r.candidates.WithLabelValues("edges").Set(float64(e.Edges))
			}
		},
		OnResult: func(_ context.Context, res *model.PairingResult, elapsed time.Duration) {
			r.runs.WithLabelValues("ok").Inc()
			r.runDuration.Observe(elapsed.Seconds())
			r.groups.WithLabelValues(model.KindPair).Set(float64(res.CountKind(model.KindPair)))
			r.groups.WithLabelValues(model.KindTriad).Set(float64(res.CountKind(model.KindTriad)))
			r.unresolved.Set(float64(len(res.Unresolved)))
			r.totalWeight.Set(float64(res.TotalWeight))
		},
		OnError: func(_ context.Context, _ string, err error) {
			r.runs.WithLabelValues(Outcome(err)).Inc()
		},
	}
}

// Outcome classifies a run error into the runs_total label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, model.ErrValidation):
		return "validation"
	case errors.Is(err, model.ErrInfeasible):
		return "infeasible"
	case errors.Is(err, model.ErrPartialCoverage):
		return "partial_coverage"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
