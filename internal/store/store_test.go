package store

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/avolkov/abyssal-tome/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "rulings.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleRulings() []model.Ruling {
	retrieved := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	return []model.Ruling{
		{
			ID:           "r-1",
			SourceCode:   "01001",
			RelatedCodes: []string{"01002"},
			Kind:         model.KindErrata,
			Text:         "Corrected text.",
			Provenance: model.Provenance{
				SourceType:    "arkhamdb_faq",
				SourceName:    "FAQ v.1.7, March 2020",
				SourceDate:    "2020-03-15",
				RetrievalDate: retrieved,
				SourceURL:     "https://arkhamdb.com/card/01001#faq",
			},
			RawSnippet: "<strong>Errata:</strong> Corrected text.",
			Tags:       []string{"errata_scope"},
		},
		{
			ID:           "r-2",
			SourceCode:   "01001",
			RelatedCodes: []string{},
			Kind:         model.KindQuestionAnswer,
			Question:     "Does it work?",
			Answer:       "Yes.",
			Provenance: model.Provenance{
				SourceType:    "arkhamdb_faq",
				SourceDate:    "2020-03-15",
				RetrievalDate: retrieved,
			},
			Tags: []string{},
		},
		{
			ID:           "r-3",
			SourceCode:   "01002",
			RelatedCodes: []string{},
			Kind:         model.KindNote,
			Text:         "Unrelated note.",
			Provenance: model.Provenance{
				SourceType:    "arkhamdb_faq",
				RetrievalDate: retrieved,
			},
			Tags: []string{},
		},
	}
}

func TestStore_InsertAndByCode(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Insert(ctx, sampleRulings()); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := s.ByCode(ctx, "01001")
	if err != nil {
		t.Fatalf("ByCode failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 rulings for 01001, got %d", len(got))
	}
	want := sampleRulings()[0]
	if !reflect.DeepEqual(got[0], want) {
		t.Errorf("Round trip mismatch:\ngot  %+v\nwant %+v", got[0], want)
	}
}

func TestStore_InsertIsIdempotentPerID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rulings := sampleRulings()
	if err := s.Insert(ctx, rulings); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	rulings[0].Text = "Amended text."
	if err := s.Insert(ctx, rulings); err != nil {
		t.Fatalf("Second insert failed: %v", err)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Expected 3 rows after replace, got %d", n)
	}

	got, err := s.ByCode(ctx, "01001")
	if err != nil {
		t.Fatalf("ByCode failed: %v", err)
	}
	if got[0].Text != "Amended text." {
		t.Errorf("Expected replaced text, got %q", got[0].Text)
	}
}

func TestStore_Search(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Insert(ctx, sampleRulings()); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := s.Search(ctx, "corrected")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "r-1" {
		t.Errorf("Expected r-1 for 'corrected', got %+v", got)
	}

	got, err = s.Search(ctx, "work")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "r-2" {
		t.Errorf("Expected r-2 for 'work', got %+v", got)
	}

	got, err = s.Search(ctx, "nothing matches this")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected no matches, got %+v", got)
	}
}

func TestStore_EmptyInsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Insert(ctx, nil); err != nil {
		t.Fatalf("Empty insert failed: %v", err)
	}
	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected empty store, got %d rows", n)
	}
}
