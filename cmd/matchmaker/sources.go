package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/matchcycle/config"
	"github.com/katalvlaran/matchcycle/engine"
	"github.com/katalvlaran/matchcycle/internal/adapters/file"
	"github.com/katalvlaran/matchcycle/internal/adapters/redis"
	"github.com/katalvlaran/matchcycle/model"
	"github.com/katalvlaran/matchcycle/ports"
)

// sources bundles the ports selected by the flags.
type sources struct {
	loader  ports.Loader
	history ports.HistoryStore // nil: no history, nothing recorded
	closers []io.Closer
}

func (s *sources) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("participants", "p", "", "participant sheet export (.csv, .yaml, .json)")
	cmd.Flags().String("history", "", "history file (.csv, .yaml, .json); ignored when Redis is configured")
	cmd.Flags().String("redis-addr", "", "Redis address for history (and participants when --participants is empty); env "+envRedisAddr)
	cmd.Flags().String("redis-password", "", "Redis password; env "+envRedisPassword)
	cmd.Flags().Int("redis-db", 0, "Redis database number")
	cmd.Flags().String("redis-prefix", "matchcycle:", "Redis key prefix")
}

// openSources picks a Loader and HistoryStore.
// Participants come from --participants, else Redis. History comes from
// Redis when configured, else --history, else none.
func openSources(cmd *cobra.Command) (*sources, error) {
	s := &sources{}
	participants, _ := cmd.Flags().GetString("participants")
	historyPath, _ := cmd.Flags().GetString("history")

	var store *redis.Store
	if addr := stringFlag(cmd, "redis-addr", envRedisAddr); addr != "" {
		db, _ := cmd.Flags().GetInt("redis-db")
		prefix, _ := cmd.Flags().GetString("redis-prefix")
		store = redis.New(addr, stringFlag(cmd, "redis-password", envRedisPassword), db, redis.WithPrefix(prefix))
		s.closers = append(s.closers, store)
	}

	switch {
	case participants != "":
		s.loader = file.NewLoader(participants)
	case store != nil:
		s.loader = store
	default:
		return nil, errors.New("no participant source: set --participants or --redis-addr")
	}

	switch {
	case store != nil:
		s.history = store
	case historyPath != "":
		s.history = file.NewHistoryFile(historyPath)
	}
	return s, nil
}

// loadInput gathers config, participants and history into an engine.Input.
func loadInput(ctx context.Context, cmd *cobra.Command, s *sources, cycle int64) (engine.Input, error) {
	in := engine.NewInput()
	cfg, err := config.Load(stringFlag(cmd, "config", envConfig))
	if err != nil {
		return in, err
	}
	in.Config = cfg
	in.CurrentCycle = cycle

	if in.Participants, err = s.loader.LoadParticipants(ctx); err != nil {
		return in, fmt.Errorf("load participants: %w", err)
	}
	if s.history != nil {
		var recs []model.HistoryRecord
		if recs, err = s.history.LoadHistory(ctx); err != nil {
			return in, fmt.Errorf("load history: %w", err)
		}
		in.History = recs
	}
	return in, nil
}
