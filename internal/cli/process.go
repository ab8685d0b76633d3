package cli

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/avolkov/abyssal-tome/internal/model"
	"github.com/avolkov/abyssal-tome/internal/pipeline"
	"github.com/avolkov/abyssal-tome/internal/store"
)

var (
	processIn             string
	processOut            string
	processDB             string
	processNoCoerce       bool
	processEmitUnanswered bool
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Extract structured rulings from scraped FAQ entries",
	Long: `Process runs the ruling extraction engine over every entry of a
scraped FAQ file: entries are segmented by their inline labels
("Errata:", "Q:", "A:", ...), classified, paired into Q&A records and
stamped with provenance and cross-references.

Entries are processed independently; a malformed entry is reported and
skipped, never aborts the run.

Example:
  tome process --in faqs.json --out processed_rulings.json
  tome process --in faqs.json --db rulings.db`,
	Args: cobra.NoArgs,
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&processIn, "in", "faqs.json", "scraped FAQ file to process")
	processCmd.Flags().StringVar(&processOut, "out", "processed_rulings.json", "output JSON path (empty to skip)")
	processCmd.Flags().StringVar(&processDB, "db", "", "SQLite database path (empty to skip)")
	processCmd.Flags().BoolVar(&processNoCoerce, "no-coerce-answers", false,
		"do not repurpose a labeled segment after a pending question as its answer")
	processCmd.Flags().BoolVar(&processEmitUnanswered, "emit-unanswered", false,
		"emit question-only rulings for questions left without an answer")
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg := loadConfig()
	if processNoCoerce {
		cfg.Extract.CoerceAnswers = false
	}
	if processEmitUnanswered {
		cfg.Extract.EmitUnanswered = true
	}

	faqs, err := pipeline.LoadFAQFile(processIn)
	if err != nil {
		return err
	}

	p := pipeline.New(cfg)
	rulings, report := p.Process(ctx, faqs)

	if processOut != "" {
		if err := pipeline.WriteJSON(processOut, rulings); err != nil {
			return err
		}
		if cfg.Output.Verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", processOut)
		}
	}

	if processDB != "" {
		db, err := store.Open(processDB)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		if err := db.Insert(ctx, rulings); err != nil {
			return fmt.Errorf("store rulings: %w", err)
		}
		if cfg.Output.Verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote database: %s\n", processDB)
		}
	}

	printReport(report, cfg.Output.Verbose)
	return nil
}

// printReport writes the run summary to stdout.
func printReport(report *model.RunReport, verbose bool) {
	fmt.Printf("Entries:   %d\n", report.Entries)
	fmt.Printf("Fragments: %d\n", report.Fragments)
	fmt.Printf("Rulings:   %d\n", report.Rulings)

	kinds := make([]string, 0, len(report.ByKind))
	for kind := range report.ByKind {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Printf("  %-28s %d\n", kind, report.ByKind[model.RulingKind(kind)])
	}

	if len(report.Warnings) > 0 {
		fmt.Printf("Warnings:  %d\n", len(report.Warnings))
		if verbose {
			for _, w := range report.Warnings {
				fmt.Fprintf(os.Stderr, "  [%s] %s label=%q %s\n", w.Code, w.EntityCode, w.Label, w.Detail)
			}
		}
	}
	if len(report.Failures) > 0 {
		fmt.Printf("Failures:  %d\n", len(report.Failures))
		for _, f := range report.Failures {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", f.EntityCode, f.Error)
		}
	}
}
