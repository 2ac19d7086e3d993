package main

import (
	"context"
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/brianjleepub/diablo4-item-comparer/internal/catalog"
	"github.com/brianjleepub/diablo4-item-comparer/internal/cli"
	"github.com/brianjleepub/diablo4-item-comparer/internal/service"
)

func referenceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reference",
		Short: "Manage the reference catalog",
	}

	cmd.AddCommand(referenceImportCmd())
	cmd.AddCommand(referenceStatsCmd())

	return cmd
}

func referenceImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <seed.json>",
		Short: "Import a reference catalog seed file",
		Long: `Load a scraped catalog seed file (affixes, aspects, item types, classes)
into the database. Imports are idempotent: existing entries are updated in
place, so re-running with a newer dump refreshes the catalog.`,
		Args: cobra.ExactArgs(1),
		RunE: runReferenceImport,
	}
}

func runReferenceImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cat, err := catalog.Load(args[0])
	if err != nil {
		return err
	}
	if cat.Size() == 0 {
		return fmt.Errorf("seed file %s contains no catalog entries", args[0])
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	bar := progressbar.NewOptions(cat.Size(),
		progressbar.OptionSetDescription("Importing catalog"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	steps := []struct {
		save  func(context.Context) error
		name  string
		count int
	}{
		{name: "item types", count: len(cat.ItemTypes), save: func(ctx context.Context) error {
			return store.SaveItemTypes(ctx, cat.ItemTypes)
		}},
		{name: "classes", count: len(cat.Classes), save: func(ctx context.Context) error {
			return store.SaveClasses(ctx, cat.Classes)
		}},
		{name: "affixes", count: len(cat.Affixes), save: func(ctx context.Context) error {
			return store.SaveAffixes(ctx, cat.Affixes)
		}},
		{name: "aspects", count: len(cat.Aspects), save: func(ctx context.Context) error {
			return store.SaveAspects(ctx, cat.Aspects)
		}},
	}

	for _, step := range steps {
		if step.count == 0 {
			continue
		}
		if err := step.save(ctx); err != nil {
			return fmt.Errorf("failed to import %s: %w", step.name, err)
		}
		_ = bar.Add(step.count)
	}
	_ = bar.Finish()

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf(
		"%s Imported %d catalog entries (%d affixes, %d aspects, %d item types, %d classes)",
		cli.SuccessIcon, cat.Size(), len(cat.Affixes), len(cat.Aspects), len(cat.ItemTypes), len(cat.Classes))))
	return nil
}

func referenceStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show reference catalog counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			affixes, err := store.GetAffixes(ctx)
			if err != nil {
				return err
			}
			aspects, err := store.GetAspects(ctx)
			if err != nil {
				return err
			}
			types, err := store.GetItemTypes(ctx)
			if err != nil {
				return err
			}
			classes, err := store.GetClasses(ctx)
			if err != nil {
				return err
			}

			fmt.Print(cli.FormatReferenceStats(service.ReferenceStats{
				Affixes:   len(affixes),
				Aspects:   len(aspects),
				ItemTypes: len(types),
				Classes:   len(classes),
			}))
			return nil
		},
	}
}
