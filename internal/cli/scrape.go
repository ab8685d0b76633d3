package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/avolkov/abyssal-tome/internal/pipeline"
)

var (
	scrapeOut     string
	scrapeBaseURL string
	scrapeNoCache bool
	scrapeTimeout time.Duration
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Fetch every card's FAQ entry from the catalog API",
	Long: `Scrape fetches the full card list, then every card's FAQ entry,
cleans the HTML (icon spans, link normalization, paragraph unwrapping)
and writes the result keyed by card code.

Fetches are rate limited per host, checked against robots.txt and
cached, so interrupted or repeated runs are cheap.

Example:
  tome scrape --out faqs.json
  tome scrape --base-url https://arkhamdb.com --no-cache`,
	Args: cobra.NoArgs,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVar(&scrapeOut, "out", "faqs.json", "output path for scraped FAQ entries")
	scrapeCmd.Flags().StringVar(&scrapeBaseURL, "base-url", "", "catalog API base URL (default from config)")
	scrapeCmd.Flags().BoolVar(&scrapeNoCache, "no-cache", false, "disable the fetch cache (force fresh fetches)")
	scrapeCmd.Flags().DurationVar(&scrapeTimeout, "timeout", 30*time.Minute, "overall scrape timeout")
}

func runScrape(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), scrapeTimeout)
	defer cancel()

	cfg := loadConfig()
	if scrapeBaseURL != "" {
		cfg.API.BaseURL = scrapeBaseURL
	}
	if scrapeNoCache {
		cfg.Cache.Enabled = false
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Scraping: %s\n", cfg.API.BaseURL)
		fmt.Fprintf(os.Stderr, "Cache: %v\n\n", cfg.Cache.Enabled)
	}

	p := pipeline.New(cfg)
	faqs, err := p.Scrape(ctx, func(code string, err error) {
		fmt.Fprintf(os.Stderr, "Warning: fetch %s: %v\n", code, err)
	})
	if err != nil {
		return fmt.Errorf("scrape: %w", err)
	}

	if err := pipeline.WriteJSON(scrapeOut, faqs); err != nil {
		return err
	}
	fmt.Printf("✓ Wrote %d FAQ entries: %s\n", len(faqs), scrapeOut)
	return nil
}
