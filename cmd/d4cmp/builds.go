package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/brianjleepub/diablo4-item-comparer/internal/cli"
	"github.com/brianjleepub/diablo4-item-comparer/internal/model"
)

func buildsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "builds",
		Short: "Manage build weight profiles",
	}

	cmd.AddCommand(buildsCreateCmd())
	cmd.AddCommand(buildsListCmd())
	cmd.AddCommand(buildsShowCmd())
	cmd.AddCommand(buildsSetWeightsCmd())

	return cmd
}

func buildsCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new build",
		Args:  cobra.ExactArgs(1),
		RunE:  runBuildsCreate,
	}

	cmd.Flags().String("description", "", "build description")
	cmd.Flags().Int("class", 0, "class id the build belongs to")

	return cmd
}

func runBuildsCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	description, _ := cmd.Flags().GetString("description")
	classID, _ := cmd.Flags().GetInt("class")

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	build, err := store.CreateBuild(ctx, args[0], description, classID)
	if err != nil {
		return err
	}

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("%s Created build %d: %s", cli.SuccessIcon, build.BuildID, build.Name)))
	return nil
}

func buildsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all builds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			builds, err := store.GetBuilds(ctx)
			if err != nil {
				return err
			}

			classes, err := classNames(ctx, store)
			if err != nil {
				return err
			}

			fmt.Print(cli.FormatBuilds(builds, classes))
			return nil
		},
	}
}

func buildsShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a build's weight table",
		Args:  cobra.NoArgs,
		RunE:  runBuildsShow,
	}

	cmd.Flags().Int("build", 0, "build id to show (required)")
	_ = cmd.MarkFlagRequired("build")

	return cmd
}

func runBuildsShow(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	buildID, _ := cmd.Flags().GetInt("build")

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	profile, err := store.GetBuildProfile(ctx, buildID)
	if err != nil {
		return err
	}
	if profile == nil {
		return fmt.Errorf("build %d not found", buildID)
	}

	names, err := affixNames(ctx, store)
	if err != nil {
		return err
	}

	fmt.Print(cli.FormatBuildProfile(profile, names))
	return nil
}

// weightsFile is the YAML shape accepted by `builds set-weights`.
type weightsFile struct {
	Weights []struct {
		Notes    string  `yaml:"notes"`
		AffixID  int     `yaml:"affix_id"`
		Weight   float64 `yaml:"weight"`
		Priority int     `yaml:"priority"`
		Required bool    `yaml:"required"`
	} `yaml:"weights"`
}

func buildsSetWeightsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-weights <weights.yaml>",
		Short: "Replace a build's affix weights from a YAML file",
		Long: `Load a YAML weight profile and replace the build's weight set with it.

The file lists one entry per affix:

    weights:
      - affix_id: 101
        weight: 80
        priority: 1
        required: true
        notes: core survivability stat`,
		Args: cobra.ExactArgs(1),
		RunE: runBuildsSetWeights,
	}

	cmd.Flags().Int("build", 0, "build id to update (required)")
	_ = cmd.MarkFlagRequired("build")

	return cmd
}

func runBuildsSetWeights(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	buildID, _ := cmd.Flags().GetInt("build")

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read weights file: %w", err)
	}

	var file weightsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse weights file: %w", err)
	}
	if len(file.Weights) == 0 {
		return fmt.Errorf("weights file %s defines no weights", args[0])
	}

	weights := make([]model.AffixWeight, 0, len(file.Weights))
	for _, w := range file.Weights {
		weights = append(weights, model.AffixWeight{
			AffixID:  w.AffixID,
			Weight:   w.Weight,
			Priority: w.Priority,
			Required: w.Required,
			Notes:    w.Notes,
		})
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.SetBuildWeights(ctx, buildID, weights); err != nil {
		return err
	}

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("%s Set %d weights on build %d", cli.SuccessIcon, len(weights), buildID)))
	return nil
}
