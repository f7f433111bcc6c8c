package place

// Span maps one region of a Document's text back to the host-side node
// it came from. Break spans represent line-break nodes that contribute a
// newline but own no text of their own.
type Span struct {
	ID    string `json:"id"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Break bool   `json:"break,omitempty"`
}

// Document is the flattened form of a rendered subtree: its visible text
// with reconstructed line breaks, plus the span list produced by the
// host's flatten adapter. The placement engine works only on this
// structure, never on the host's live tree.
type Document struct {
	Text  string `json:"text"`
	Spans []Span `json:"spans"`
}

// SpanAt finds the span whose [Start,End) range strictly contains
// offset, falling back to a span that ends exactly at offset.
func (d *Document) SpanAt(offset int) (Span, bool) {
	for _, s := range d.Spans {
		if offset >= s.Start && offset < s.End {
			return s, true
		}
	}
	for _, s := range d.Spans {
		if offset == s.End {
			return s, true
		}
	}
	return Span{}, false
}

const locationKeyLen = 20

// LocationKey derives the persistence key for a document: the middle
// runes of its full text. Short but stable across re-renders of the
// same message, and unlikely to collide between different messages.
func LocationKey(text string) string {
	runes := []rune(text)
	if len(runes) <= locationKeyLen {
		return text
	}
	start := (len(runes) - locationKeyLen) / 2
	return string(runes[start : start+locationKeyLen])
}
