package model

import "time"

// FAQEntry is one card's raw FAQ entry as produced by the scraper:
// cleaned HTML plus the catalog's last-update date for the entry.
type FAQEntry struct {
	Code    string `json:"code"`
	Text    string `json:"text"`
	Updated string `json:"updated,omitempty"` // ISO-8601 date, may be empty
}

// FAQFile is the scraper output format: entries keyed by card code.
type FAQFile map[string]FAQEntry

// EntryFailure records a per-entry processing failure. One bad entry
// never aborts a batch; it ends up here instead.
type EntryFailure struct {
	EntityCode string `json:"entity_code"`
	Error      string `json:"error"`
}

// RunReport summarizes one processing run over a FAQ file.
type RunReport struct {
	StartedAt  time.Time          `json:"started_at"`
	Entries    int                `json:"entries"`
	Fragments  int                `json:"fragments"`
	Rulings    int                `json:"rulings"`
	ByKind     map[RulingKind]int `json:"by_kind"`
	Warnings   []Warning          `json:"warnings,omitempty"`
	Failures   []EntryFailure     `json:"failures,omitempty"`
}

// NewRunReport creates an empty report stamped with the current time.
func NewRunReport() *RunReport {
	return &RunReport{
		StartedAt: time.Now().UTC(),
		ByKind:    make(map[RulingKind]int),
	}
}

// AddRulings folds a batch of rulings into the report totals.
func (r *RunReport) AddRulings(rulings []Ruling) {
	r.Rulings += len(rulings)
	for i := range rulings {
		r.ByKind[rulings[i].Kind]++
	}
}
