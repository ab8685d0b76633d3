package extract

import "github.com/avolkov/abyssal-tome/internal/model"

// Options carries the pairing policy toggles. The defaults reproduce
// the behavior of previously extracted data; see DESIGN.md for the
// cases they govern.
type Options struct {
	// CoerceAnswers consumes any labeled segment that follows a pending
	// question as that question's answer, discarding the segment's own
	// label. When false, classified segments emit under their own kind
	// and the pending question is dropped with a warning.
	CoerceAnswers bool

	// EmitUnanswered emits a question-only ruling (empty answer) when a
	// fragment ends with a pending question. When false the question is
	// dropped with a warning.
	EmitUnanswered bool
}

// DefaultOptions preserves backward-compatible extraction behavior.
func DefaultOptions() Options {
	return Options{CoerceAnswers: true, EmitUnanswered: false}
}

// PairingState is the pending-question status threaded across one
// fragment's segments. The zero value is Idle.
type PairingState struct {
	pending  bool
	question string
}

// emission is one ruling-to-be produced by a transition, before the
// assembler attaches provenance, cross-references and an identifier.
type emission struct {
	kind     model.RulingKind
	text     string // single-text kinds
	question string // QuestionAnswer kind
	answer   string

	// refine is segment markup to mine for a more specific source name;
	// empty means the fragment's base provenance is used as-is.
	refine string
}

// pairing folds segments of one fragment in document order. Fragment
// local: created per fragment, discarded afterwards, never shared.
type pairing struct {
	opts   Options
	entity string

	state PairingState
	out   []emission
	warns []model.Warning
}

func newPairing(entity string, opts Options) *pairing {
	return &pairing{opts: opts, entity: entity}
}

// feed processes one classified segment and applies the transition for
// the current state.
func (p *pairing) feed(seg Segment) {
	kind := Classify(seg.Label)

	switch {
	case kind == model.KindQuestionAnswer:
		// A question label opens (or replaces) the pending question.
		if p.state.pending {
			p.warn(model.WarnSupersededQuestion, seg.Label, p.state.question)
		}
		p.state = PairingState{pending: true, question: seg.Text}

	case seg.Label == answerLabel && p.state.pending:
		// The literal answer label closes the pending question. The
		// answer segment keeps the fragment's base provenance.
		p.emit(emission{
			kind:     model.KindQuestionAnswer,
			question: p.state.question,
			answer:   seg.Text,
		})

	case kind != model.KindUnclassified:
		if p.state.pending && p.opts.CoerceAnswers {
			// Legacy policy: the segment's text becomes the answer and
			// its own declared kind is discarded.
			p.emit(emission{
				kind:     model.KindQuestionAnswer,
				question: p.state.question,
				answer:   seg.Text,
				refine:   seg.Raw,
			})
			return
		}
		if p.state.pending {
			p.warn(model.WarnUnansweredQuestion, seg.Label, p.state.question)
		}
		p.emit(emission{kind: kind, text: seg.Text, refine: seg.Raw})

	default: // unclassified label
		if p.state.pending && p.opts.CoerceAnswers {
			p.emit(emission{
				kind:     model.KindQuestionAnswer,
				question: p.state.question,
				answer:   seg.Text,
			})
			return
		}
		if !p.state.pending {
			p.warn(model.WarnUnclassifiedLabel, seg.Label, seg.Text)
		}
		// With coercion off a pending question stays pending: a later
		// answer label may still close it.
	}
}

// finish resolves a question left pending at the end of the fragment.
func (p *pairing) finish() {
	if !p.state.pending {
		return
	}
	if p.opts.EmitUnanswered {
		p.emit(emission{kind: model.KindQuestionAnswer, question: p.state.question})
	} else {
		p.warn(model.WarnUnansweredQuestion, "", p.state.question)
	}
	p.state = PairingState{}
}

func (p *pairing) emit(e emission) {
	p.out = append(p.out, e)
	p.state = PairingState{}
}

func (p *pairing) warn(code model.WarningCode, label, detail string) {
	p.warns = append(p.warns, model.Warning{
		Code:       code,
		EntityCode: p.entity,
		Label:      label,
		Detail:     clip(detail, 120),
	})
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
