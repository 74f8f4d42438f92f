package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/TechsNtheCity940/stockflow/internal/cli"
	"github.com/TechsNtheCity940/stockflow/internal/model"
)

// exportRecord is the JSON shape for one exported inventory line.
type exportRecord struct {
	Item         string  `json:"item"`
	Category     string  `json:"category"`
	PackSize     string  `json:"pack_size,omitempty"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	LastDelivery string  `json:"last_delivery,omitempty"`
}

// exportFile is the JSON document written by the export command.
type exportFile struct {
	Period     string         `json:"period"`
	ExportedAt time.Time      `json:"exported_at"`
	Records    []exportRecord `json:"records"`
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [period-id]",
		Short: "Export a period's inventory as JSON",
		Long:  `Write a period's inventory records to a JSON file (or stdout). Defaults to the active period.`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExport,
	}

	cmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	output, _ := cmd.Flags().GetString("output")

	store, err := initLedger(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("failed to close storage", "error", closeErr)
		}
	}()

	var period *model.LedgerPeriod
	if len(args) == 1 {
		periodID, parseErr := strconv.ParseInt(args[0], 10, 64)
		if parseErr != nil {
			return fmt.Errorf("invalid period id %q: %w", args[0], parseErr)
		}
		periods, listErr := store.ListPeriods(ctx)
		if listErr != nil {
			return fmt.Errorf("failed to list periods: %w", listErr)
		}
		for i := range periods {
			if periods[i].ID == periodID {
				period = &periods[i]
				break
			}
		}
		if period == nil {
			return fmt.Errorf("no period with id %d", periodID)
		}
	} else {
		period, err = store.ActivePeriod(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve active period: %w", err)
		}
	}

	records, err := store.EntriesByPeriod(ctx, period.ID)
	if err != nil {
		return fmt.Errorf("failed to load entries: %w", err)
	}

	doc := exportFile{
		Period:     period.Label,
		ExportedAt: time.Now().UTC(),
		Records:    make([]exportRecord, 0, len(records)),
	}
	for _, record := range records {
		exported := exportRecord{
			Item:     record.Item.Name,
			Category: string(record.Item.Category),
			PackSize: record.Item.PackSize,
			Quantity: record.Quantity,
			Price:    record.Price,
		}
		if !record.LastDeliveryDate.IsZero() {
			exported.LastDelivery = record.LastDeliveryDate.Format("2006-01-02")
		}
		doc.Records = append(doc.Records, exported)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	data = append(data, '\n')

	if output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}

	if err := os.WriteFile(output, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d records from %q to %s", len(doc.Records), period.Label, output)))
	return nil
}
