package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/avolkov/abyssal-tome/internal/extract"
	"github.com/avolkov/abyssal-tome/internal/model"
)

type fakeExtractor struct {
	failCode string
}

func (f *fakeExtractor) Extract(entry model.FAQEntry, sourceURL string) (*extract.Result, error) {
	if entry.Code == f.failCode {
		return nil, errors.New("malformed entry")
	}
	return &extract.Result{
		EntityCode: entry.Code,
		Rulings: []model.Ruling{{
			ID:         entry.Code + "-1",
			SourceCode: entry.Code,
			Kind:       model.KindClarification,
			Text:       entry.Text,
			Provenance: model.Provenance{SourceURL: sourceURL},
		}},
		Fragments: 1,
	}, nil
}

func TestExtractBatch(t *testing.T) {
	entries := []model.FAQEntry{
		{Code: "01001", Text: "first"},
		{Code: "01002", Text: "second"},
		{Code: "01003", Text: "third"},
	}
	sourceURL := func(code string) string { return fmt.Sprintf("https://example.com/card/%s", code) }

	outcomes := ExtractBatch(context.Background(), &fakeExtractor{}, entries, sourceURL, 2)

	if len(outcomes) != 3 {
		t.Fatalf("Expected 3 outcomes, got %d", len(outcomes))
	}
	seen := make(map[string]bool)
	for _, out := range outcomes {
		if out.Error != nil {
			t.Errorf("Unexpected error for %s: %v", out.Code, out.Error)
			continue
		}
		seen[out.Code] = true
		wantURL := "https://example.com/card/" + out.Code
		if got := out.Result.Rulings[0].Provenance.SourceURL; got != wantURL {
			t.Errorf("Expected per-code source URL %q, got %q", wantURL, got)
		}
	}
	if len(seen) != 3 {
		t.Errorf("Expected all 3 codes processed, got %v", seen)
	}
}

func TestExtractBatch_FailedEntryDoesNotAbort(t *testing.T) {
	entries := []model.FAQEntry{
		{Code: "01001", Text: "fine"},
		{Code: "01002", Text: "broken"},
	}
	sourceURL := func(code string) string { return "https://example.com/card/" + code }

	outcomes := ExtractBatch(context.Background(), &fakeExtractor{failCode: "01002"}, entries, sourceURL, 2)

	if len(outcomes) != 2 {
		t.Fatalf("Expected 2 outcomes, got %d", len(outcomes))
	}
	var ok, failed int
	for _, out := range outcomes {
		if out.Error != nil {
			failed++
			if out.Code != "01002" {
				t.Errorf("Expected the broken entry to fail, got %s", out.Code)
			}
		} else {
			ok++
		}
	}
	if ok != 1 || failed != 1 {
		t.Errorf("Expected 1 success and 1 failure, got %d/%d", ok, failed)
	}
}

func TestExtractBatch_Empty(t *testing.T) {
	outcomes := ExtractBatch(context.Background(), &fakeExtractor{}, nil,
		func(string) string { return "" }, 4)
	if outcomes != nil {
		t.Errorf("Expected nil for an empty batch, got %v", outcomes)
	}
}

type fakeFetcher struct{}

func (f *fakeFetcher) FetchFAQ(ctx context.Context, code string) (*model.FAQEntry, error) {
	switch code {
	case "09999":
		return nil, errors.New("upstream failure")
	case "00000":
		return nil, nil // card without an entry
	default:
		return &model.FAQEntry{Code: code, Text: "<p>text</p>", Updated: "2020-03-15"}, nil
	}
}

func TestFetchBatch(t *testing.T) {
	outcomes := FetchBatch(context.Background(), &fakeFetcher{},
		[]string{"01001", "00000", "09999"}, 2)

	if len(outcomes) != 3 {
		t.Fatalf("Expected 3 outcomes, got %d", len(outcomes))
	}
	byCode := make(map[string]*FetchOutcome)
	for _, out := range outcomes {
		byCode[out.Code] = out
	}

	if out := byCode["01001"]; out.Error != nil || out.Entry == nil || out.Entry.Code != "01001" {
		t.Errorf("Unexpected outcome for 01001: %+v", out)
	}
	if out := byCode["00000"]; out.Error != nil || out.Entry != nil {
		t.Errorf("Expected nil entry without error for 00000, got %+v", out)
	}
	if out := byCode["09999"]; out.Error == nil {
		t.Errorf("Expected error for 09999, got %+v", out)
	}
}
