package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/TechsNtheCity940/stockflow/internal/cli"
	"github.com/TechsNtheCity940/stockflow/internal/engine"
)

const processingTimePrecision = 10 * time.Millisecond

func processCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <file|directory>...",
		Short: "Process OCR invoice text into the active period",
		Long: `Run one or more OCR text files through the extraction pipeline.

Each file is scanned for dates, prices, quantities, and item names; the
assembled line items are matched against the item catalog and accepted
matches update the active inventory period. Items that cannot be matched
are listed for review. Use 'stockflow corrections add' to teach the
matcher about recurring OCR garbles.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runProcess,
	}

	cmd.Flags().Int("workers", 0, "Number of parallel document workers (default: process.workers config, then 4)")
	cmd.Flags().Bool("no-progress", false, "Disable the progress bar")

	return cmd
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	workers, _ := cmd.Flags().GetInt("workers")
	if workers <= 0 {
		workers = viper.GetInt("process.workers")
	}
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	docs, err := collectDocuments(args)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Println(cli.FormatWarning("No text files found in the given paths."))
		return nil
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

	opts := engine.BatchOptions{Workers: workers}
	if !noProgress {
		bar := cli.NewProgressBar(len(docs), os.Stderr)
		opts.Progress = func() { _ = bar.Add(1) }
	}

	summary, err := eng.ProcessBatch(ctx, docs, opts)
	if err != nil {
		return fmt.Errorf("batch processing failed: %w", err)
	}

	renderBatchSummary(summary)
	return nil
}

// collectDocuments expands files and directories into batch documents.
// Directories are walked one level for .txt files.
func collectDocuments(paths []string) ([]engine.BatchDocument, error) {
	var docs []engine.BatchDocument

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", path, err)
		}

		if !info.IsDir() {
			doc, readErr := readDocument(path)
			if readErr != nil {
				return nil, readErr
			}
			docs = append(docs, doc)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("cannot list %s: %w", path, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".txt") {
				continue
			}
			doc, readErr := readDocument(filepath.Join(path, entry.Name()))
			if readErr != nil {
				return nil, readErr
			}
			docs = append(docs, doc)
		}
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Filename < docs[j].Filename })
	return docs, nil
}

func readDocument(path string) (engine.BatchDocument, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path comes from the user's own CLI arguments
	if err != nil {
		return engine.BatchDocument{}, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return engine.BatchDocument{
		Filename: filepath.Base(path),
		Text:     string(data),
	}, nil
}

func renderBatchSummary(summary *engine.BatchSummary) {
	fmt.Println(cli.FormatTitle("Processing Complete"))
	fmt.Println()

	stats := fmt.Sprintf("Documents:  %d\nAccepted:   %d\nUnmatched:  %d\nFailed:     %d\nDuration:   %s",
		summary.TotalDocuments,
		summary.Accepted,
		summary.Unmatched,
		summary.Failed,
		summary.ProcessingTime.Round(processingTimePrecision))
	fmt.Println(cli.RenderBox("Batch "+summary.RunID.String()[:8], stats))

	if summary.Unmatched > 0 {
		fmt.Println()
		fmt.Println(cli.FormatWarning("Unmatched items need review:"))
		renderUnmatched(summary)
	}

	for _, failure := range summary.Failures {
		fmt.Println(cli.FormatError(fmt.Sprintf("%s: %v", failure.Filename, failure.Err)))
	}
}

func renderUnmatched(summary *engine.BatchSummary) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer func() {
		if flushErr := w.Flush(); flushErr != nil {
			slog.Error("failed to flush table writer", "error", flushErr)
		}
	}()

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		cli.TableHeaderStyle.Render("File"),
		cli.TableHeaderStyle.Render("Extracted Name"),
		cli.TableHeaderStyle.Render("Closest Match"),
		cli.TableHeaderStyle.Render("Score"))

	for _, result := range summary.Results {
		for _, item := range result.Unmatched {
			suggested := item.SuggestedMatch
			if suggested == "" {
				suggested = cli.SubtleStyle.Render("(none)")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\n",
				result.Filename,
				item.Name,
				suggested,
				item.Score)
		}
	}
}
