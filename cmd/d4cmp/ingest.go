package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brianjleepub/diablo4-item-comparer/internal/assemble"
	"github.com/brianjleepub/diablo4-item-comparer/internal/cli"
)

func ingestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <ocr-dump.json>",
		Short: "Ingest an OCR dump into a structured item",
		Long: `Read a PaddleOCR-style JSON dump of an item tooltip, normalize and match
its lines against the reference catalog, and persist the structured item.

The item is addressed by the content hash of its OCR lines; re-ingesting the
same screenshot is a no-op.`,
		Args: cobra.ExactArgs(1),
		RunE: runIngest,
	}
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	eng, store, err := initEngine(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	item, err := eng.Ingest(ctx, args[0])
	if err != nil {
		var insufficient *assemble.InsufficientMatchError
		if errors.As(err, &insufficient) {
			fmt.Println(cli.ErrorStyle.Render(fmt.Sprintf(
				"%s Tooltip too noisy: only %.0f%% of lines resolved",
				cli.ErrorIcon, insufficient.Completeness*100)))
			for _, line := range insufficient.UnresolvedLines {
				fmt.Println(cli.SubtleStyle.Render("    " + line))
			}
		}
		return err
	}

	names, err := affixNames(ctx, store)
	if err != nil {
		return err
	}

	fmt.Print(cli.FormatItem(item, names))
	return nil
}
