package extract

import "strings"

// Segment is the span of content between one label and the next within
// a fragment. Transient: produced here, consumed by the pairing
// machine, never persisted.
type Segment struct {
	Label string // normalized label text; "" for the implicit segment
	Raw   string // markup of the span
	Text  string // plain text of the span
}

// Implicit reports whether the segment covers a fragment with no
// labels at all.
func (s Segment) Implicit() bool {
	return s.Label == ""
}

// SegmentNodes partitions a fragment's inline nodes into segments, one
// per label, each consuming everything up to the next label in the
// fragment. Labels nested inside wrapping tags are already surfaced by
// the flattening, so the label set is global by construction.
//
// With no labels the whole fragment becomes one implicit segment; if
// its text is empty, no segments are produced.
func SegmentNodes(nodes []InlineNode) []Segment {
	var labels []int
	for i, n := range nodes {
		if n.Kind == NodeLabel {
			labels = append(labels, i)
		}
	}

	if len(labels) == 0 {
		text := plainText(nodes)
		if text == "" {
			return nil
		}
		return []Segment{{Raw: rawMarkup(nodes), Text: text}}
	}

	segments := make([]Segment, 0, len(labels))
	for i, idx := range labels {
		end := len(nodes)
		if i+1 < len(labels) {
			end = labels[i+1]
		}
		body := nodes[idx+1 : end]
		segments = append(segments, Segment{
			Label: NormalizeLabel(nodes[idx].Text),
			Raw:   rawMarkup(body),
			Text:  plainText(body),
		})
	}
	return segments
}

// NormalizeLabel canonicalizes a label run's text: trailing colon
// (ASCII or full-width) stripped, inner whitespace collapsed,
// lower-cased.
func NormalizeLabel(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.Trim(s, ":：")
	return strings.ToLower(strings.TrimSpace(s))
}
