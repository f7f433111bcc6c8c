package place

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"lorebook/internal/fuzzy"
)

// TagMatch is one (locator, payload) pair from an LLM response. The
// locator approximates a place in previously rendered text; the tag is
// what should be inserted there.
type TagMatch struct {
	Locator string `json:"locator"`
	Tag     string `json:"tag"`
}

// Insertion tells the host to splice a marker into one of its nodes.
// Offset is absolute within the document text. AfterSpan insertions
// attach after the node itself, used for break spans that own no text.
type Insertion struct {
	SpanID    string `json:"span_id"`
	Offset    int    `json:"offset"`
	Marker    string `json:"marker"`
	AfterSpan bool   `json:"after_span,omitempty"`
}

// Anchor is one persisted placement. Field names mirror the stored
// record format: endIndex is the pre-insertion offset, regex the tail of
// the matched line kept for later re-anchoring, tag the payload.
type Anchor struct {
	EndIndex int    `json:"endIndex"`
	Regex    string `json:"regex"`
	Tag      string `json:"tag"`
}

// Plan is the full outcome of placing a batch of tag matches against one
// document. Anchors always describe pre-insertion offsets, so a record
// can be replayed against a fresh render of the same text.
type Plan struct {
	Key        string      `json:"key"`
	Insertions []Insertion `json:"insertions"`
	Anchors    []Anchor    `json:"anchors"`
	Skipped    []string    `json:"skipped,omitempty"`
}

const anchorTailLen = 40

// DefaultMarkerFormat wraps the tag payload into the marker text spliced
// into the document. Must contain exactly one %s verb.
const DefaultMarkerFormat = "{{img::%s}}"

type Engine struct {
	threshold    float64
	markerFormat string
	log          zerolog.Logger
}

func NewEngine(threshold float64, markerFormat string, log zerolog.Logger) *Engine {
	if threshold <= 0 {
		threshold = fuzzy.DefaultThreshold
	}
	if markerFormat == "" {
		markerFormat = DefaultMarkerFormat
	}
	return &Engine{threshold: threshold, markerFormat: markerFormat, log: log}
}

// WithThreshold returns a copy of the engine using a different minimum
// similarity. Non-positive values keep the configured threshold.
func (e *Engine) WithThreshold(threshold float64) *Engine {
	if threshold <= 0 {
		return e
	}
	clone := *e
	clone.threshold = threshold
	return &clone
}

// Marker renders the insertion marker for a tag payload.
func (e *Engine) Marker(tag string) string {
	return fmt.Sprintf(e.markerFormat, tag)
}

type resolved struct {
	match TagMatch
	found *fuzzy.Match
}

// Plan matches every locator against the document, deduplicates,
// orders insertions back-to-front, and builds the persistence record.
// Individual failures are logged and skipped; Plan never fails as a
// whole. All offsets in the returned insertions refer to the original
// text, so the host must apply them in the given (descending) order.
func (e *Engine) Plan(doc Document, matches []TagMatch) Plan {
	plan := Plan{Key: LocationKey(doc.Text)}
	if doc.Text == "" {
		e.log.Warn().Msg("placement: empty logical text, nothing to place")
		plan.Skipped = append(plan.Skipped, "empty logical text")
		return plan
	}

	var hits []resolved
	for _, m := range matches {
		found := fuzzy.BestLine(doc.Text, m.Locator, e.threshold)
		if found == nil {
			e.log.Warn().Str("locator", m.Locator).Msg("placement: no line above threshold")
			plan.Skipped = append(plan.Skipped, fmt.Sprintf("no match for locator %q", m.Locator))
			continue
		}
		hits = append(hits, resolved{match: m, found: found})
	}

	hits = dedupe(hits)

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].found.EndOffset > hits[j].found.EndOffset
	})

	for _, h := range hits {
		marker := e.Marker(h.match.Tag)
		if strings.Contains(doc.Text, marker) {
			e.log.Debug().Str("tag", h.match.Tag).Msg("placement: marker already present")
			plan.Skipped = append(plan.Skipped, fmt.Sprintf("marker for %q already present", h.match.Tag))
			continue
		}

		span, ok := doc.SpanAt(h.found.EndOffset)
		if !ok {
			e.log.Warn().Int("offset", h.found.EndOffset).Msg("placement: no span owns offset")
			plan.Skipped = append(plan.Skipped, fmt.Sprintf("no span owns offset %d", h.found.EndOffset))
			continue
		}

		plan.Insertions = append(plan.Insertions, Insertion{
			SpanID:    span.ID,
			Offset:    h.found.EndOffset,
			Marker:    marker,
			AfterSpan: span.Break,
		})
		plan.Anchors = append(plan.Anchors, Anchor{
			EndIndex: h.found.EndOffset,
			Regex:    tail(h.found.Text, anchorTailLen),
			Tag:      h.match.Tag,
		})
	}

	return plan
}

// dedupe drops later matches whose normalized locator or tag repeats an
// earlier one.
func dedupe(hits []resolved) []resolved {
	seenLocator := make(map[string]struct{}, len(hits))
	seenTag := make(map[string]struct{}, len(hits))
	out := hits[:0]
	for _, h := range hits {
		locator := normalize(h.match.Locator)
		tag := normalize(h.match.Tag)
		if _, dup := seenLocator[locator]; dup {
			continue
		}
		if _, dup := seenTag[tag]; dup {
			continue
		}
		seenLocator[locator] = struct{}{}
		seenTag[tag] = struct{}{}
		out = append(out, h)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func tail(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}

// Apply splices a plan's markers into plain text. This is the reference
// binding used by the CLI; a DOM host applies the same insertions to its
// own nodes instead.
func Apply(doc Document, plan Plan) string {
	text := doc.Text
	for _, ins := range plan.Insertions {
		if ins.Offset < 0 || ins.Offset > len(text) {
			continue
		}
		text = text[:ins.Offset] + ins.Marker + text[ins.Offset:]
	}
	return text
}
