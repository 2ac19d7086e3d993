package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brianjleepub/diablo4-item-comparer/internal/cli"
)

func scoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score <item-hash>",
		Short: "Score a stored item against a build",
		Long: `Evaluate a previously ingested item against a build's weight profile and
print the per-affix contribution table.`,
		Args: cobra.ExactArgs(1),
		RunE: runScore,
	}

	cmd.Flags().Int("build", 0, "build id to score against (required)")
	_ = cmd.MarkFlagRequired("build")

	return cmd
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	buildID, _ := cmd.Flags().GetInt("build")

	eng, store, err := initEngine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	breakdown, err := eng.Score(ctx, args[0], buildID)
	if err != nil {
		return err
	}

	fmt.Print(cli.FormatBreakdown(breakdown))
	return nil
}
