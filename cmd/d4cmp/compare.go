package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brianjleepub/diablo4-item-comparer/internal/cli"
)

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <item-a-hash> <item-b-hash>",
		Short: "Compare two stored items under a build",
		Long: `Score both items against the same build weight profile, record the verdict
in the comparison history, and print which item wins.`,
		Args: cobra.ExactArgs(2),
		RunE: runCompare,
	}

	cmd.Flags().Int("build", 0, "build id to compare under (required)")
	_ = cmd.MarkFlagRequired("build")

	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	buildID, _ := cmd.Flags().GetInt("build")

	eng, store, err := initEngine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	result, err := eng.Compare(ctx, args[0], args[1], buildID)
	if err != nil {
		return err
	}

	fmt.Print(cli.FormatComparison(result))
	return nil
}
