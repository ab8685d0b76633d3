// Package enrich is the optional LLM pass over extracted rulings. It
// is strictly additive: a provider may suggest tags for a ruling, it
// never changes the ruling's kind, content or provenance produced by
// the extraction engine.
package enrich

import (
	"context"
	"fmt"
	"sort"

	"github.com/avolkov/abyssal-tome/internal/model"
)

// Provider suggests free-form tags for one ruling.
type Provider interface {
	Name() string
	SuggestTags(ctx context.Context, ruling model.Ruling) ([]string, error)
}

// NewProvider builds the configured provider, or an error when the
// provider name is unknown. An empty name means enrichment is
// disabled; callers should not reach this in that case.
func NewProvider(cfg model.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIProvider(cfg)
	case "":
		return nil, fmt.Errorf("no enrichment provider configured")
	default:
		return nil, fmt.Errorf("unknown enrichment provider: %s", cfg.Provider)
	}
}

// Enricher applies a provider's suggestions to a batch of rulings.
type Enricher struct {
	provider Provider
}

// NewEnricher wraps a provider.
func NewEnricher(provider Provider) *Enricher {
	return &Enricher{provider: provider}
}

// Enrich returns a copy of rulings with suggested tags merged in.
// Provider failures skip the affected ruling via warnf; they never
// fail the batch.
func (e *Enricher) Enrich(ctx context.Context, rulings []model.Ruling, warnf func(id string, err error)) []model.Ruling {
	out := make([]model.Ruling, len(rulings))
	copy(out, rulings)

	for i := range out {
		tags, err := e.provider.SuggestTags(ctx, out[i])
		if err != nil {
			if warnf != nil {
				warnf(out[i].ID, err)
			}
			continue
		}
		out[i].Tags = MergeTags(out[i].Tags, tags)
	}
	return out
}

// MergeTags unions existing and suggested tags, deduplicated and
// sorted.
func MergeTags(existing, suggested []string) []string {
	seen := make(map[string]bool, len(existing)+len(suggested))
	merged := []string{}
	for _, t := range append(append([]string{}, existing...), suggested...) {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		merged = append(merged, t)
	}
	sort.Strings(merged)
	return merged
}
