// Package pipeline orchestrates the two stages of the toolkit: scrape
// (catalog API → cleaned faqs.json) and process (faqs.json → ruling
// records via the extraction engine).
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/avolkov/abyssal-tome/internal/cache"
	"github.com/avolkov/abyssal-tome/internal/extract"
	"github.com/avolkov/abyssal-tome/internal/model"
	"github.com/avolkov/abyssal-tome/internal/worker"
)

// Pipeline wires the fetcher and the extraction engine together under
// one configuration.
type Pipeline struct {
	fetcher   *Fetcher
	extractor *extract.Extractor
	cfg       *model.Config
}

// New creates a pipeline from the given configuration.
func New(cfg *model.Config) *Pipeline {
	var store cache.Cache
	if cfg.Cache.Enabled && cfg.Cache.Dir != "" {
		store = cache.NewLayered(cfg.Cache.TTL, cfg.Cache.Dir, cfg.Cache.TTL)
	}

	return &Pipeline{
		fetcher: NewFetcher(cfg, store),
		extractor: extract.NewExtractor(extract.Options{
			CoerceAnswers:  cfg.Extract.CoerceAnswers,
			EmitUnanswered: cfg.Extract.EmitUnanswered,
		}),
		cfg: cfg,
	}
}

// Scrape fetches every card's FAQ entry and returns them keyed by card
// code. Cards without an entry are skipped; fetch failures are
// reported through errf and do not abort the run.
func (p *Pipeline) Scrape(ctx context.Context, errf func(code string, err error)) (model.FAQFile, error) {
	cards, err := p.fetcher.FetchCards(ctx)
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(cards))
	for _, card := range cards {
		if card.Code != "" {
			codes = append(codes, card.Code)
		}
	}

	faqs := make(model.FAQFile)
	for _, out := range worker.FetchBatch(ctx, p.fetcher, codes, p.cfg.Concurrency.FetchWorkers) {
		switch {
		case out.Error != nil:
			if errf != nil {
				errf(out.Code, out.Error)
			}
		case out.Entry != nil:
			faqs[out.Entry.Code] = *out.Entry
		}
	}
	return faqs, nil
}

// Process runs the extraction engine over every entry of a FAQ file.
// Entries are processed concurrently and independently; per-entry
// failures land in the report, never abort the batch. The returned
// rulings are ordered by card code, then document order within a card.
func (p *Pipeline) Process(ctx context.Context, faqs model.FAQFile) ([]model.Ruling, *model.RunReport) {
	report := model.NewRunReport()
	report.Entries = len(faqs)

	entries := make([]model.FAQEntry, 0, len(faqs))
	for _, entry := range faqs {
		entries = append(entries, entry)
	}

	sourceURL := func(code string) string {
		return fmt.Sprintf("%s/card/%s#faq", p.cfg.API.BaseURL, code)
	}
	outcomes := worker.ExtractBatch(ctx, p.extractor, entries, sourceURL, p.cfg.Concurrency.ExtractWorkers)

	byCode := make(map[string]*extract.Result, len(outcomes))
	codes := make([]string, 0, len(outcomes))
	for _, out := range outcomes {
		if out.Error != nil {
			report.Failures = append(report.Failures, model.EntryFailure{
				EntityCode: out.Code,
				Error:      out.Error.Error(),
			})
			continue
		}
		byCode[out.Code] = out.Result
		codes = append(codes, out.Code)
	}
	sort.Strings(codes)

	var rulings []model.Ruling
	for _, code := range codes {
		res := byCode[code]
		report.Fragments += res.Fragments
		report.Warnings = append(report.Warnings, res.Warnings...)
		report.AddRulings(res.Rulings)
		rulings = append(rulings, res.Rulings...)
	}
	return rulings, report
}

// LoadFAQFile reads a scraped FAQ file from disk.
func LoadFAQFile(path string) (model.FAQFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read faq file: %w", err)
	}

	var faqs model.FAQFile
	if err := json.Unmarshal(data, &faqs); err != nil {
		return nil, fmt.Errorf("decode faq file: %w", err)
	}
	return faqs, nil
}

// WriteJSON writes any value as indented JSON, the interchange format
// for faqs.json and processed rulings.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
