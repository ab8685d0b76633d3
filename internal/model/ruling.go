package model

import "time"

// RulingKind classifies a single extracted ruling
type RulingKind string

const (
	KindErrata                       RulingKind = "Errata"
	KindAddendum                     RulingKind = "Addendum"
	KindQuestionAnswer               RulingKind = "QuestionAnswer"
	KindClarification                RulingKind = "Clarification"
	KindNote                         RulingKind = "Note"
	KindUpdate                       RulingKind = "Update"
	KindAsIf                         RulingKind = "AsIf"
	KindAutoSuccessFailure           RulingKind = "AutoSuccessFailure"
	KindAutoSuccessFailureAndEvasion RulingKind = "AutoSuccessFailureAndEvasion"

	// KindUnclassified marks a label with no alias table entry.
	// It never appears on an emitted Ruling; the pairing machine
	// decides what happens to the segment.
	KindUnclassified RulingKind = "Unclassified"
)

// IsQA reports whether the kind carries question/answer content
// instead of a single text body.
func (k RulingKind) IsQA() bool {
	return k == KindQuestionAnswer
}

// Provenance describes where and when a ruling's text originated.
// SourceType and RetrievalDate are always set; the rest is best-effort.
type Provenance struct {
	SourceType    string    `json:"source_type"`
	SourceName    string    `json:"source_name,omitempty"`    // e.g. "FAQ v.1.7, March 2020"
	SourceDate    string    `json:"source_date,omitempty"`    // date of the source document/post
	RetrievalDate time.Time `json:"retrieval_date"`           // when the extraction run happened
	SourceURL     string    `json:"source_url,omitempty"`     // deep link to the entry's ruling section
}

// Ruling is one structured rules clarification extracted from a card's
// FAQ entry. Immutable once assembled; the field names below are a
// compatibility contract with downstream consumers and must not change.
//
// Exactly one content variant is populated: Question/Answer when Kind
// is QuestionAnswer, Text otherwise.
type Ruling struct {
	ID           string     `json:"id"`
	SourceCode   string     `json:"source_entity_code"`
	RelatedCodes []string   `json:"related_entity_codes"` // sorted, deduplicated, never contains SourceCode
	Kind         RulingKind `json:"kind"`
	Question     string     `json:"question,omitempty"`
	Answer       string     `json:"answer,omitempty"`
	Text         string     `json:"text,omitempty"`
	Provenance   Provenance `json:"provenance"`
	RawSnippet   string     `json:"raw_snippet,omitempty"` // original markup the ruling came from
	Tags         []string   `json:"tags"`                  // empty unless enriched
}

// Body returns the ruling's primary text regardless of content variant.
func (r *Ruling) Body() string {
	if r.Kind.IsQA() {
		return r.Question + " " + r.Answer
	}
	return r.Text
}

// WarningCode identifies a non-fatal extraction anomaly.
type WarningCode string

const (
	WarnUnclassifiedLabel  WarningCode = "unclassified_label"  // label has no alias entry and no pending question
	WarnUnansweredQuestion WarningCode = "unanswered_question" // fragment ended while a question was pending
	WarnSupersededQuestion WarningCode = "superseded_question" // a new question arrived before the previous was answered
)

// Warning is a structured extraction diagnostic. Warnings never abort
// processing; they are collected per entry and summarized in RunReport.
type Warning struct {
	Code       WarningCode `json:"code"`
	EntityCode string      `json:"entity_code"`
	Label      string      `json:"label,omitempty"`
	Detail     string      `json:"detail,omitempty"`
}
