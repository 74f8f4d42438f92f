package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/TechsNtheCity940/stockflow/internal/cli"
	"github.com/TechsNtheCity940/stockflow/internal/model"
)

func periodsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "periods",
		Short: "Inspect inventory periods",
		Long:  `List ledger periods and view per-period inventory summaries.`,
	}

	cmd.AddCommand(periodsListCmd())
	cmd.AddCommand(periodsSummaryCmd())

	return cmd
}

func periodsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all periods",
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

			periods, err := store.ListPeriods(ctx)
			if err != nil {
				return fmt.Errorf("failed to list periods: %w", err)
			}

			if len(periods) == 0 {
				fmt.Println(cli.FormatInfo("No periods yet. The first processed document creates one."))
				return nil
			}

			fmt.Println(cli.FormatTitle("Inventory Periods"))
			fmt.Println()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() {
				if flushErr := w.Flush(); flushErr != nil {
					slog.Error("failed to flush table writer", "error", flushErr)
				}
			}()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("ID"),
				cli.TableHeaderStyle.Render("Label"),
				cli.TableHeaderStyle.Render("Started"),
				cli.TableHeaderStyle.Render("Ended"),
				cli.TableHeaderStyle.Render("Active"))

			for _, period := range periods {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					period.ID,
					period.Label,
					period.StartDate.Format("2006-01-02"),
					formatPeriodEnd(period),
					formatPeriodActive(period))
			}

			return nil
		},
	}
}

func periodsSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary [period-id]",
		Short: "Show aggregate figures for a period",
		Long:  `Show item, quantity, and value totals for a period, broken down by category. Defaults to the active period.`,
		Args:  cobra.MaximumNArgs(1),
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

			var periodID int64
			if len(args) == 1 {
				periodID, err = strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid period id %q: %w", args[0], err)
				}
			} else {
				period, activeErr := store.ActivePeriod(ctx)
				if activeErr != nil {
					return fmt.Errorf("failed to resolve active period: %w", activeErr)
				}
				periodID = period.ID
			}

			summary, err := store.PeriodSummary(ctx, periodID)
			if err != nil {
				return fmt.Errorf("failed to summarize period %d: %w", periodID, err)
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("%s %s", cli.ChartIcon, summary.PeriodLabel)))
			fmt.Println()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() {
				if flushErr := w.Flush(); flushErr != nil {
					slog.Error("failed to flush table writer", "error", flushErr)
				}
			}()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("Category"),
				cli.TableHeaderStyle.Render("Items"),
				cli.TableHeaderStyle.Render("Quantity"),
				cli.TableHeaderStyle.Render("Value"))

			for _, category := range []model.ItemCategory{model.CategoryFood, model.CategoryAlcohol, model.CategoryOther} {
				totals, ok := summary.ByCategory[category]
				if !ok {
					continue
				}
				fmt.Fprintf(w, "%s\t%d\t%d\t$%.2f\n",
					category, totals.ItemCount, totals.Quantity, totals.Value)
			}

			fmt.Fprintf(w, "%s\t%d\t%d\t$%.2f\n",
				cli.TableHeaderStyle.Render("Total"),
				summary.ItemCount, summary.TotalQuantity, summary.TotalValue)
			fmt.Fprintf(w, "Documents\t%d\t\t\n", summary.DocumentCount)

			return nil
		},
	}
}

func formatPeriodEnd(period model.LedgerPeriod) string {
	if period.EndDate == nil {
		return "-"
	}
	return period.EndDate.Format("2006-01-02")
}

func formatPeriodActive(period model.LedgerPeriod) string {
	if period.IsActive {
		return cli.SuccessStyle.Render(cli.SuccessIcon)
	}
	return ""
}
