package extract

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/avolkov/abyssal-tome/internal/model"
)

// sourceType labels every ruling extracted from catalog FAQ entries.
const sourceType = "arkhamdb_faq"

// stripPatterns is boilerplate the catalog wraps around real rulings;
// occurrences are removed from extracted text before assembly.
var stripPatterns = []string{
	"NB: ArkhamDB now incorporates errata from the Arkham Horror FAQ in its card text, so the ArkhamDB text and the card image above differ, as the ArkhamDB text has been edited to contain this erratum (updated August 2022): ",
	`"As If": This was added to the FAQ (v.1.7, March 2020) and then amended (v.1.8, October 2020). You can read the October ruling on the ArkhamDB rules page here. (I'm adding a hyperlink rather than retyping the rules in case in future the ruling is changed or amended - at that point, the rules page will be updated and all ArkhamDB FAQ entries will link to the correct ruling.)`,
}

// removalMarkers identify rulings retracted or superseded upstream;
// rulings containing one are dropped entirely.
var removalMarkers = []string{
	"FAQ removed - double-checking provenance.",
	"OVERRULED SEE BELOW",
	"SEE BELOW",
	`Matt writes: "This was unintentional and we are looking into fixing this, perhaps in the next edition of the FAQ."`,
	"A: [NB see follow-up Q]",
}

// Extractor turns raw FAQ entries into Ruling records. Stateless apart
// from its options; safe for concurrent use across entries.
type Extractor struct {
	opts Options
	now  func() time.Time
	id   func() string
}

// NewExtractor creates an extractor with the given pairing options.
func NewExtractor(opts Options) *Extractor {
	return &Extractor{
		opts: opts,
		now:  time.Now,
		id:   uuid.NewString,
	}
}

// Result is the outcome of extracting one entry: zero or more rulings
// plus any structured warnings raised along the way.
type Result struct {
	EntityCode string
	Rulings    []model.Ruling
	Warnings   []model.Warning
	Fragments  int
}

// Extract processes one card's FAQ entry. The entry HTML is split into
// fragments (one per list item, or the whole entry when there is no
// list); each fragment runs through the segmenter and pairing machine
// independently. sourceURL is caller-supplied context carried into
// provenance unchanged.
func (e *Extractor) Extract(entry model.FAQEntry, sourceURL string) (*Result, error) {
	doc, err := html.Parse(strings.NewReader(entry.Text))
	if err != nil {
		return nil, err
	}

	fragments := listItems(doc)
	if len(fragments) == 0 {
		if body := findElement(doc, "body"); body != nil {
			fragments = []*html.Node{body}
		} else {
			fragments = []*html.Node{doc}
		}
	}

	res := &Result{EntityCode: entry.Code, Rulings: []model.Ruling{}}
	for _, frag := range fragments {
		res.Fragments++
		e.extractFragment(entry, sourceURL, frag, res)
	}
	return res, nil
}

// extractFragment runs one fragment through segmentation, pairing and
// assembly, appending to the result.
func (e *Extractor) extractFragment(entry model.FAQEntry, sourceURL string, frag *html.Node, res *Result) {
	snippet := innerMarkup(frag)

	base := model.Provenance{
		SourceType:    sourceType,
		SourceName:    SourceName(snippet),
		SourceDate:    entry.Updated,
		RetrievalDate: e.now().UTC(),
		SourceURL:     sourceURL,
	}

	segments := SegmentNodes(FlattenNode(frag))
	if len(segments) == 0 {
		return // empty fragment, nothing to extract
	}

	if len(segments) == 1 && segments[0].Implicit() {
		// No labels at all: the whole fragment is one clarification.
		e.assemble(emission{kind: model.KindClarification, text: segments[0].Text}, entry, base, snippet, res)
		return
	}

	machine := newPairing(entry.Code, e.opts)
	for _, seg := range segments {
		machine.feed(seg)
	}
	machine.finish()

	res.Warnings = append(res.Warnings, machine.warns...)
	for _, em := range machine.out {
		e.assemble(em, entry, base, snippet, res)
	}
}

// assemble builds the final immutable Ruling for one emission,
// applying boilerplate cleanup and the removal markers.
func (e *Extractor) assemble(em emission, entry model.FAQEntry, base model.Provenance, snippet string, res *Result) {
	prov := base
	if em.refine != "" {
		if name := SourceName(em.refine); name != "" {
			prov.SourceName = name
		}
	}

	ruling := model.Ruling{
		ID:           e.id(),
		SourceCode:   entry.Code,
		RelatedCodes: RelatedCodes(snippet, entry.Code),
		Kind:         em.kind,
		Provenance:   prov,
		RawSnippet:   snippet,
		Tags:         []string{},
	}
	if em.kind.IsQA() {
		ruling.Question = stripBoilerplate(em.question)
		ruling.Answer = stripBoilerplate(em.answer)
	} else {
		ruling.Text = stripBoilerplate(em.text)
	}

	if removed(ruling.Body()) {
		return
	}
	res.Rulings = append(res.Rulings, ruling)
}

func stripBoilerplate(s string) string {
	for _, pattern := range stripPatterns {
		s = strings.ReplaceAll(s, pattern, "")
	}
	return strings.TrimSpace(s)
}

func removed(body string) bool {
	for _, marker := range removalMarkers {
		if strings.Contains(body, marker) {
			return true
		}
	}
	return false
}

// listItems collects every <li> element in document order.
func listItems(doc *html.Node) []*html.Node {
	var items []*html.Node

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "li" {
			items = append(items, n)
			return // nested lists stay part of the enclosing item
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return items
}

// findElement returns the first element with the given tag name.
func findElement(n *html.Node, name string) *html.Node {
	if n.Type == html.ElementNode && n.Data == name {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, name); found != nil {
			return found
		}
	}
	return nil
}
