package worker

import (
	"context"

	"github.com/avolkov/abyssal-tome/internal/extract"
	"github.com/avolkov/abyssal-tome/internal/model"
)

// EntryExtractor extracts rulings from one FAQ entry.
type EntryExtractor interface {
	Extract(entry model.FAQEntry, sourceURL string) (*extract.Result, error)
}

// FAQFetcher fetches one card's FAQ entry; a nil entry means the card
// has none.
type FAQFetcher interface {
	FetchFAQ(ctx context.Context, code string) (*model.FAQEntry, error)
}

// ExtractJob runs the extraction engine over one entry.
type ExtractJob struct {
	Entry     model.FAQEntry
	SourceURL string
	Extractor EntryExtractor
}

// ExtractOutcome is the result of one extraction job. A failed entry
// carries its error here instead of aborting the batch.
type ExtractOutcome struct {
	Code   string
	Result *extract.Result
	Error  error
}

func (o *ExtractOutcome) Err() error { return o.Error }

// Execute implements Job.
func (j *ExtractJob) Execute(ctx context.Context) Result {
	res, err := j.Extractor.Extract(j.Entry, j.SourceURL)
	return &ExtractOutcome{Code: j.Entry.Code, Result: res, Error: err}
}

// ExtractBatch processes entries concurrently, one job per entry.
// sourceURL derives the caller-supplied provenance link per card code.
func ExtractBatch(ctx context.Context, extractor EntryExtractor, entries []model.FAQEntry,
	sourceURL func(code string) string, concurrency int) []*ExtractOutcome {

	if len(entries) == 0 {
		return nil
	}

	jobs := make([]Job, len(entries))
	for i, entry := range entries {
		jobs[i] = &ExtractJob{Entry: entry, SourceURL: sourceURL(entry.Code), Extractor: extractor}
	}

	results := NewPool(concurrency).Run(ctx, jobs)
	outcomes := make([]*ExtractOutcome, len(results))
	for i, res := range results {
		outcomes[i] = res.(*ExtractOutcome)
	}
	return outcomes
}

// FetchJob fetches one card's FAQ entry.
type FetchJob struct {
	Code    string
	Fetcher FAQFetcher
}

// FetchOutcome is the result of one fetch job.
type FetchOutcome struct {
	Code  string
	Entry *model.FAQEntry
	Error error
}

func (o *FetchOutcome) Err() error { return o.Error }

// Execute implements Job.
func (j *FetchJob) Execute(ctx context.Context) Result {
	entry, err := j.Fetcher.FetchFAQ(ctx, j.Code)
	return &FetchOutcome{Code: j.Code, Entry: entry, Error: err}
}

// FetchBatch fetches FAQ entries for all codes concurrently.
func FetchBatch(ctx context.Context, fetcher FAQFetcher, codes []string, concurrency int) []*FetchOutcome {
	if len(codes) == 0 {
		return nil
	}

	jobs := make([]Job, len(codes))
	for i, code := range codes {
		jobs[i] = &FetchJob{Code: code, Fetcher: fetcher}
	}

	results := NewPool(concurrency).Run(ctx, jobs)
	outcomes := make([]*FetchOutcome, len(results))
	for i, res := range results {
		outcomes[i] = res.(*FetchOutcome)
	}
	return outcomes
}
