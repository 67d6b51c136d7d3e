package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/phaselock/phaselock/internal/config"
	"github.com/phaselock/phaselock/internal/consensus"
)

func newScoreCommand() *cobra.Command {
	var stageNames []string

	cmd := &cobra.Command{
		Use:   "score LAMBDA...",
		Short: "Fold per-stage lambda outputs into a consensus score",
		Long: `score computes the weighted consensus value for an ordered list of
per-stage raw lambda outputs and classifies it into a named stage.

Stage names default to stage-1..stage-N; pass --stages to name them.
Weights come from the config file when set, otherwise the positional
0.2/0.3/0.5 convention applies for three stages (equal weights for any
other count).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := stageNames
			if len(names) == 0 {
				for i := range args {
					names = append(names, fmt.Sprintf("stage-%d", i+1))
				}
			}
			if len(names) != len(args) {
				return fmt.Errorf("got %d stage names for %d lambda values", len(names), len(args))
			}

			outputs := make([]consensus.StageOutput, 0, len(args))
			for i, arg := range args {
				v, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return fmt.Errorf("lambda %q: %w", arg, err)
				}
				outputs = append(outputs, consensus.StageOutput{Stage: names[i], RawLambda: v})
			}

			// Scoring works without a daemon config; fall back to the
			// standard table and positional weights if none is readable.
			var ccfg config.ConsensusConfig
			if cfg, err := config.Load(configPath); err == nil {
				ccfg = cfg.Consensus
			} else {
				slog.Debug("score: config not loaded, using defaults", "err", err)
			}
			weights := ccfg.Weights
			if len(weights) == 0 {
				weights = consensus.PositionalWeights(names)
			}

			res := consensus.Score(outputs, weights, ccfg.Table())

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}

	cmd.Flags().StringSliceVar(&stageNames, "stages", nil, "stage names matching the lambda values in order")
	return cmd
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration file and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			table := cfg.Consensus.StageTable
			if table == "" {
				table = "standard"
			}
			fmt.Printf("config ok: %d nodes, poll every %s, stage table %q\n",
				len(cfg.Engine.Nodes), cfg.Poll.Interval, table)
			return nil
		},
	}
}
