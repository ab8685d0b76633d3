package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/avolkov/abyssal-tome/internal/enrich"
	"github.com/avolkov/abyssal-tome/internal/model"
	"github.com/avolkov/abyssal-tome/internal/pipeline"
)

var (
	enrichIn       string
	enrichOut      string
	enrichProvider string
	enrichModel    string
	enrichTimeout  time.Duration
)

// enrichCmd represents the enrich command
var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Tag extracted rulings with an LLM",
	Long: `Enrich runs an LLM pass over processed rulings that suggests
gameplay-concept tags. The pass is strictly additive: kind, content and
provenance of every ruling stay exactly as extracted.

Example:
  tome enrich --in processed_rulings.json --out enriched_rulings.json
  tome enrich --llm-model gpt-4o-mini`,
	Args: cobra.NoArgs,
	RunE: runEnrich,
}

func init() {
	rootCmd.AddCommand(enrichCmd)

	enrichCmd.Flags().StringVar(&enrichIn, "in", "processed_rulings.json", "processed rulings to enrich")
	enrichCmd.Flags().StringVar(&enrichOut, "out", "enriched_rulings.json", "output JSON path")
	enrichCmd.Flags().StringVar(&enrichProvider, "llm-provider", "openai", "LLM provider")
	enrichCmd.Flags().StringVar(&enrichModel, "llm-model", "", "LLM model name (provider default when empty)")
	enrichCmd.Flags().DurationVar(&enrichTimeout, "timeout", 30*time.Minute, "overall enrichment timeout")
}

func runEnrich(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), enrichTimeout)
	defer cancel()

	cfg := loadConfig()
	cfg.LLM.Provider = enrichProvider
	if enrichModel != "" {
		cfg.LLM.Model = enrichModel
	}
	if cfg.LLM.Provider == "openai" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	data, err := os.ReadFile(enrichIn)
	if err != nil {
		return fmt.Errorf("read rulings: %w", err)
	}
	var rulings []model.Ruling
	if err := json.Unmarshal(data, &rulings); err != nil {
		return fmt.Errorf("decode rulings: %w", err)
	}

	provider, err := enrich.NewProvider(cfg.LLM)
	if err != nil {
		return err
	}

	enriched := enrich.NewEnricher(provider).Enrich(ctx, rulings, func(id string, err error) {
		fmt.Fprintf(os.Stderr, "Warning: enrich %s: %v\n", id, err)
	})

	if err := pipeline.WriteJSON(enrichOut, enriched); err != nil {
		return err
	}
	fmt.Printf("✓ Enriched %d rulings: %s\n", len(enriched), enrichOut)
	return nil
}
