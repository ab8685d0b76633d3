package extract

import (
	"strings"

	"github.com/avolkov/abyssal-tome/internal/model"
)

// answerLabel is the literal label that closes a pending question.
// It deliberately has no alias table entry: an answer is only
// meaningful relative to the question before it.
const answerLabel = "a"

// followUpPrefix classifies any "Follow-up Q ..." variant as a
// question label.
const followUpPrefix = "follow-up q"

// labelKinds maps normalized label text to a ruling kind. Immutable
// after init; shared read-only across fragments.
var labelKinds = map[string]model.RulingKind{
	"errata":                    model.KindErrata,
	"addendum":                  model.KindAddendum,
	"q":                         model.KindQuestionAnswer,
	"clarification":             model.KindClarification,
	"note":                      model.KindNote,
	"update":                    model.KindUpdate,
	`"as if"`:                   model.KindAsIf,
	"automatic success/failure": model.KindAutoSuccessFailure,
	"automatic success/failure & automatic evasion": model.KindAutoSuccessFailureAndEvasion,
}

// Classify maps a normalized label to its ruling kind. Unknown labels
// return KindUnclassified; deciding what happens to those segments is
// the pairing machine's job, never a silent default here.
func Classify(label string) model.RulingKind {
	if strings.HasPrefix(label, followUpPrefix) {
		return model.KindQuestionAnswer
	}
	if kind, ok := labelKinds[label]; ok {
		return kind
	}
	return model.KindUnclassified
}
