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

func itemsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Manage the item catalog",
		Long:  `View and extend the canonical item catalog that invoice line items are matched against.`,
	}

	cmd.AddCommand(itemsListCmd())
	cmd.AddCommand(itemsAddCmd())

	return cmd
}

func itemsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog items",
		RunE:  runItemsList,
	}

	cmd.Flags().String("category", "", "Filter by category (food, alcohol, other)")

	return cmd
}

func runItemsList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	categoryFlag, _ := cmd.Flags().GetString("category")

	store, err := initLedger(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("failed to close storage", "error", closeErr)
		}
	}()

	var items []model.CanonicalItem
	if categoryFlag != "" {
		category := model.ItemCategory(categoryFlag)
		if !model.ValidCategory(category) {
			return fmt.Errorf("unknown category %q (want food, alcohol, or other)", categoryFlag)
		}
		items, err = store.GetItemsByCategory(ctx, category)
	} else {
		items, err = store.GetItems(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list items: %w", err)
	}

	if len(items) == 0 {
		fmt.Println(cli.FormatInfo("Catalog is empty. Use 'stockflow items add' to seed it."))
		return nil
	}

	fmt.Println(cli.FormatTitle("Item Catalog"))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() {
		if flushErr := w.Flush(); flushErr != nil {
			slog.Error("failed to flush table writer", "error", flushErr)
		}
	}()

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		cli.TableHeaderStyle.Render("ID"),
		cli.TableHeaderStyle.Render("Name"),
		cli.TableHeaderStyle.Render("Category"),
		cli.TableHeaderStyle.Render("Pack Size"),
		cli.TableHeaderStyle.Render("Updated"))

	for _, item := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			item.ID,
			item.Name,
			item.Category,
			item.PackSize,
			item.LastUpdated.Format("2006-01-02"))
	}

	return nil
}

func itemsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an item to the catalog",
		Long: `Add a canonical item to the catalog.

Adding an item that already exists (after name normalization) reuses the
existing row rather than creating a duplicate.`,
		Args: cobra.ExactArgs(1),
		RunE: runItemsAdd,
	}

	cmd.Flags().String("category", "other", "Item category (food, alcohol, other)")
	cmd.Flags().String("pack-size", "", "Pack size, e.g. 6/10 oz")

	return cmd
}

func runItemsAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	categoryFlag, _ := cmd.Flags().GetString("category")
	packSize, _ := cmd.Flags().GetString("pack-size")

	category := model.ItemCategory(categoryFlag)
	if !model.ValidCategory(category) {
		return fmt.Errorf("unknown category %q (want food, alcohol, or other)", categoryFlag)
	}

	store, err := initLedger(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("failed to close storage", "error", closeErr)
		}
	}()

	item, err := store.UpsertItem(ctx, &model.CanonicalItem{
		Name:     args[0],
		Category: category,
		PackSize: packSize,
	})
	if err != nil {
		return fmt.Errorf("failed to add item: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Item %q (%s) is in the catalog with id %d", item.Name, item.Category, item.ID)))
	return nil
}
