package enrich

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/avolkov/abyssal-tome/internal/model"
)

type stubProvider struct {
	tags     map[string][]string
	failID   string
	failWith error
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) SuggestTags(ctx context.Context, ruling model.Ruling) ([]string, error) {
	if ruling.ID == p.failID {
		return nil, p.failWith
	}
	return p.tags[ruling.ID], nil
}

func TestEnrich_MergesSuggestedTags(t *testing.T) {
	rulings := []model.Ruling{
		{ID: "r-1", Kind: model.KindErrata, Text: "X.", Tags: []string{"existing"}},
		{ID: "r-2", Kind: model.KindNote, Text: "Y.", Tags: []string{}},
	}
	provider := &stubProvider{tags: map[string][]string{
		"r-1": {"timing_window", "existing"},
		"r-2": nil,
	}}

	out := NewEnricher(provider).Enrich(context.Background(), rulings, nil)

	if want := []string{"existing", "timing_window"}; !reflect.DeepEqual(out[0].Tags, want) {
		t.Errorf("Expected merged tags %v, got %v", want, out[0].Tags)
	}
	if out[1].Tags == nil || len(out[1].Tags) != 0 {
		t.Errorf("Expected empty tag array preserved, got %v", out[1].Tags)
	}
	// The input slice stays untouched.
	if !reflect.DeepEqual(rulings[0].Tags, []string{"existing"}) {
		t.Errorf("Input rulings must not be mutated, got %v", rulings[0].Tags)
	}
}

func TestEnrich_ProviderFailureSkipsRuling(t *testing.T) {
	rulings := []model.Ruling{
		{ID: "r-1", Kind: model.KindErrata, Text: "X.", Tags: []string{}},
		{ID: "r-2", Kind: model.KindNote, Text: "Y.", Tags: []string{}},
	}
	provider := &stubProvider{
		tags:     map[string][]string{"r-2": {"ok"}},
		failID:   "r-1",
		failWith: errors.New("rate limited"),
	}

	var warned []string
	out := NewEnricher(provider).Enrich(context.Background(), rulings, func(id string, err error) {
		warned = append(warned, id)
	})

	if !reflect.DeepEqual(warned, []string{"r-1"}) {
		t.Errorf("Expected warning for r-1, got %v", warned)
	}
	if len(out[0].Tags) != 0 {
		t.Errorf("Failed ruling keeps its tags, got %v", out[0].Tags)
	}
	if !reflect.DeepEqual(out[1].Tags, []string{"ok"}) {
		t.Errorf("Other rulings still enriched, got %v", out[1].Tags)
	}
}

func TestNewProvider(t *testing.T) {
	if _, err := NewProvider(model.LLMConfig{Provider: ""}); err == nil {
		t.Error("Expected an error for an empty provider")
	}
	if _, err := NewProvider(model.LLMConfig{Provider: "carrier-pigeon"}); err == nil {
		t.Error("Expected an error for an unknown provider")
	}
	if _, err := NewProvider(model.LLMConfig{Provider: "openai"}); err == nil {
		t.Error("Expected an error for openai without an API key")
	}
	if p, err := NewProvider(model.LLMConfig{Provider: "openai", APIKey: "test-key"}); err != nil || p.Name() != "openai" {
		t.Errorf("Expected a working openai provider, got %v / %v", p, err)
	}
}

func TestMergeTags(t *testing.T) {
	tests := []struct {
		name      string
		existing  []string
		suggested []string
		want      []string
	}{
		{"union sorted", []string{"b"}, []string{"a", "c"}, []string{"a", "b", "c"}},
		{"deduplicated", []string{"a", "b"}, []string{"b", "a"}, []string{"a", "b"}},
		{"empty strings dropped", []string{""}, []string{"a", ""}, []string{"a"}},
		{"both empty", nil, nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeTags(tt.existing, tt.suggested)
			if got == nil {
				t.Fatal("MergeTags must never return nil")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MergeTags(%v, %v) = %v, want %v", tt.existing, tt.suggested, got, tt.want)
			}
		})
	}
}

func TestParseTagList(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  []string
	}{
		{"comma separated", "timing_window, cancellation_effect", []string{"timing_window", "cancellation_effect"}},
		{"newline separated", "timing_window\ncancellation_effect", []string{"timing_window", "cancellation_effect"}},
		{"quotes and case cleaned", `"Timing_Window", 'Errata_Scope'.`, []string{"timing_window", "errata_scope"}},
		{"none reply", "none", nil},
		{"none mixed in", "timing_window, none", []string{"timing_window"}},
		{"empty reply", "  ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseTagList(tt.reply); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseTagList(%q) = %v, want %v", tt.reply, got, tt.want)
			}
		})
	}
}

func TestBuildTagPrompt(t *testing.T) {
	qa := model.Ruling{Kind: model.KindQuestionAnswer, Question: "Works?", Answer: "Yes.", Tags: []string{"t1"}}
	prompt := buildTagPrompt(qa)
	for _, want := range []string{"QuestionAnswer", "Works?", "Yes.", "t1"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected prompt to contain %q:\n%s", want, prompt)
		}
	}

	text := model.Ruling{Kind: model.KindErrata, Text: "Corrected."}
	prompt = buildTagPrompt(text)
	if !strings.Contains(prompt, "Corrected.") {
		t.Errorf("Expected prompt to contain the ruling text:\n%s", prompt)
	}
	if strings.Contains(prompt, "Existing tags") {
		t.Errorf("Expected no tag line without tags:\n%s", prompt)
	}
}
