package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/matchcycle/engine"
	"github.com/katalvlaran/matchcycle/internal/adapters/jsonout"
	"github.com/katalvlaran/matchcycle/internal/metrics"
	"github.com/katalvlaran/matchcycle/model"
	"github.com/katalvlaran/matchcycle/ports"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compute the pairing for a cycle",
	Long: `Loads participants and history, computes the maximum-freshness pairing
for --cycle, writes it as JSON and appends the new pairs to the history store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return runPairing(ctx, cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	addSourceFlags(runCmd)
	runCmd.Flags().Int64("cycle", 0, "current cycle number (required); history must be older")
	runCmd.Flags().StringP("out", "o", "-", "output file for the result envelope, - for stdout")
	runCmd.Flags().Bool("indent", false, "pretty-print the result")
	runCmd.Flags().Bool("dry-run", false, "do not append the new pairs to history")
	runCmd.Flags().String("metrics-textfile", "", "write Prometheus metrics to this file after the run")
	runCmd.Flags().Duration("timeout", 0, "abort the computation after this long")
	_ = runCmd.MarkFlagRequired("cycle")
}

func runPairing(ctx context.Context, cmd *cobra.Command) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	runID := uuid.NewString()
	log = log.With("run_id", runID)

	rec := metrics.NewRecorder()
	if path, _ := cmd.Flags().GetString("metrics-textfile"); path != "" {
		defer func() {
			if werr := rec.WriteTextfile(path); werr != nil {
				log.Warn("metrics textfile not written", "path", path, "error", werr)
			}
		}()
	}

	src, err := openSources(cmd)
	if err != nil {
		return err
	}
	defer src.Close()

	cycle, _ := cmd.Flags().GetInt64("cycle")
	in, err := loadInput(ctx, cmd, src, cycle)
	if err != nil {
		return err
	}
	if n := len(model.Eligible(in.Participants)); n < 2 {
		log.Warn("fewer than two eligible participants", "eligible", n)
	}

	eng := engine.New(engine.WithLogger(log), engine.WithHooks(rec.Hooks()))
	res, err := eng.Run(ctx, in)
	if err != nil {
		return err
	}

	if err = emit(ctx, cmd, ports.Envelope{
		RunID:       runID,
		Cycle:       cycle,
		GeneratedAt: time.Now().UTC(),
		Result:      res,
	}); err != nil {
		return err
	}

	if dry, _ := cmd.Flags().GetBool("dry-run"); dry || src.history == nil {
		log.Info("history not updated", "dry_run", dry)
		return nil
	}
	records := res.HistoryRecords(cycle)
	if err = src.history.AppendHistory(ctx, records); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	log.Debug("history updated", "records", len(records))
	return nil
}

// createOutput opens the --out file; tests replace it.
var createOutput = func(path string) (io.WriteCloser, error) { return os.Create(path) }

func emit(ctx context.Context, cmd *cobra.Command, env ports.Envelope) (err error) {
	out, _ := cmd.Flags().GetString("out")
	indent, _ := cmd.Flags().GetBool("indent")

	var w io.Writer = cmd.OutOrStdout()
	if out != "-" && out != "" {
		f, ferr := createOutput(out)
		if ferr != nil {
			return fmt.Errorf("open output: %w", ferr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close output: %w", cerr)
			}
		}()
		w = f
	}

	var opts []jsonout.Option
	if indent {
		opts = append(opts, jsonout.WithIndent())
	}
	return jsonout.New(w, opts...).Emit(ctx, env)
}
