package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/TechsNtheCity940/stockflow/internal/cli"
	"github.com/TechsNtheCity940/stockflow/internal/model"
)

func correctionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corrections",
		Short: "Manage OCR correction rules",
		Long: `Teach the matcher about recurring OCR garbles.

A correction maps raw extracted text to a catalog item name. Future
documents containing that text match the corrected item directly,
bypassing the similarity threshold. Repeating a correction raises its
confidence.`,
	}

	cmd.AddCommand(correctionsAddCmd())
	cmd.AddCommand(correctionsListCmd())

	return cmd
}

func correctionsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <original-text> <corrected-name>",
		Short: "Record a correction",
		Args:  cobra.ExactArgs(2),
		RunE:  runCorrectionsAdd,
	}

	cmd.Flags().String("category", "other", "Category of the corrected item (food, alcohol, other)")

	return cmd
}

func runCorrectionsAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	categoryFlag, _ := cmd.Flags().GetString("category")
	category := model.ItemCategory(categoryFlag)
	if !model.ValidCategory(category) {
		return fmt.Errorf("unknown category %q (want food, alcohol, or other)", categoryFlag)
	}

	eng, store, err := initEngine(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("failed to close storage", "error", closeErr)
		}
	}()

	correction, err := eng.Correct(ctx, args[0], args[1], category)
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Correction saved: %q now matches %q (confidence %.2f)",
		correction.OriginalText, correction.CorrectedName, correction.Confidence)))
	return nil
}

func correctionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all corrections",
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			corrections, err := store.ListCorrections(ctx)
			if err != nil {
				return fmt.Errorf("failed to list corrections: %w", err)
			}

			if len(corrections) == 0 {
				fmt.Println(cli.FormatInfo("No corrections yet. Use 'stockflow corrections add' after reviewing unmatched items."))
				return nil
			}

			fmt.Println(cli.FormatTitle("Corrections"))
			fmt.Println()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() {
				if flushErr := w.Flush(); flushErr != nil {
					slog.Error("failed to flush table writer", "error", flushErr)
				}
			}()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("Original Text"),
				cli.TableHeaderStyle.Render("Corrected Name"),
				cli.TableHeaderStyle.Render("Category"),
				cli.TableHeaderStyle.Render("Confidence"))

			for _, correction := range corrections {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\n",
					correction.OriginalText,
					correction.CorrectedName,
					correction.Category,
					correction.Confidence)
			}

			return nil
		},
	}
}
