package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/matchcycle/engine"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check participants, history and config without pairing",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
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
		rep, err := engine.Check(in)
		if err != nil {
			return err
		}
		printReport(cmd.OutOrStdout(), rep)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	addSourceFlags(validateCmd)
	validateCmd.Flags().Int64("cycle", 0, "cycle the inputs are checked against (required)")
	_ = validateCmd.MarkFlagRequired("cycle")
}

func printReport(w io.Writer, r *engine.Report) {
	fmt.Fprintf(w, "participants: %d (eligible %d)\n", r.Participants, r.Eligible)
	fmt.Fprintf(w, "history records: %d\n", r.History)
	fmt.Fprintf(w, "candidate pairs: %d\n", r.Candidates)
	fmt.Fprintf(w, "components: %d\n", r.Components)
	fmt.Fprintf(w, "parity policy: %s\n", r.Policy)
	if len(r.Isolated) > 0 {
		fmt.Fprintf(w, "no candidate partner: %s\n", strings.Join(r.Isolated, ", "))
	}
	if r.MinUncovered > 0 {
		fmt.Fprintf(w, "left out of the matching: at least %d\n", r.MinUncovered)
	}
}
