package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/TechsNtheCity940/stockflow/internal/cli"
)

func rolloverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rollover [label]",
		Short: "Close the active period and open a new one",
		Long: `Close the active inventory period and open a new one.

The closed period keeps its entries frozen; the item catalog carries
over so future documents keep matching against known items. The label
defaults to the current month, e.g. "September 2026".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initLedger(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() {
				if closeErr := store.Close(); closeErr != nil {
					slog.Error("failed to close storage", "error", closeErr)
				}
			}()

			label := time.Now().Format("January 2006")
			if len(args) == 1 {
				label = args[0]
			}

			period, err := store.RollOver(ctx, label)
			if err != nil {
				return fmt.Errorf("rollover failed: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Opened period %q (id %d)", period.Label, period.ID)))
			return nil
		},
	}
}
