package fuzzy

import "strings"

// DefaultThreshold is the minimum blended similarity for a line to be
// accepted as the anchor for a locator.
const DefaultThreshold = 0.5

const (
	containedScore        = 1.0
	reverseContainedScore = 0.95
	// Lines at or under this length are too short for the reverse
	// containment shortcut to be trustworthy.
	reverseContainedMinLen = 10

	trigramSize = 3
)

// Line is one line of a logical text with its character offsets. End is
// the offset immediately after the last character of the line, before
// any line break.
type Line struct {
	Text  string
	Start int
	End   int
}

// Match is the best line found for a locator. Text is the literal source
// line, which replaces the locator as the authoritative anchor since the
// locator may be paraphrased or hallucinated.
type Match struct {
	LineIndex int
	EndOffset int
	Score     float64
	Text      string
}

// SplitLines segments text on newlines, tracking each line's offsets.
func SplitLines(text string) []Line {
	var lines []Line
	start := 0
	for {
		idx := strings.IndexByte(text[start:], '\n')
		if idx < 0 {
			lines = append(lines, Line{Text: text[start:], Start: start, End: len(text)})
			return lines
		}
		end := start + idx
		lines = append(lines, Line{Text: text[start:end], Start: start, End: end})
		start = end + 1
	}
}

// BestLine scans every line of text for the one most similar to the
// locator. It returns nil when no line reaches the threshold; callers
// log and move on, they never treat it as an error.
func BestLine(text, locator string, threshold float64) *Match {
	if text == "" || strings.TrimSpace(locator) == "" {
		return nil
	}

	best := Match{LineIndex: -1, Score: -1}
	for i, line := range SplitLines(text) {
		score := Similarity(line.Text, locator)
		if score > best.Score {
			best = Match{LineIndex: i, EndOffset: line.End, Score: score, Text: line.Text}
		}
	}

	if best.LineIndex < 0 || best.Score < threshold {
		return nil
	}
	return &best
}

// Similarity scores a source line against a locator in [0,1]. Exact
// containment in either direction short-circuits; otherwise the score
// blends distinct-character overlap with trigram Jaccard at 50/50.
func Similarity(line, locator string) float64 {
	ln := strings.ToLower(strings.TrimSpace(line))
	loc := strings.ToLower(strings.TrimSpace(locator))
	if ln == "" || loc == "" {
		return 0
	}

	if strings.Contains(ln, loc) {
		return containedScore
	}
	if len(ln) > reverseContainedMinLen && strings.Contains(loc, ln) {
		return reverseContainedScore
	}

	return 0.5*charOverlap(loc, ln) + 0.5*trigramJaccard(ln, loc)
}

// charOverlap is the fraction of the locator's distinct characters that
// appear anywhere in the line.
func charOverlap(locator, line string) float64 {
	distinct := make(map[rune]struct{})
	for _, r := range locator {
		distinct[r] = struct{}{}
	}
	if len(distinct) == 0 {
		return 0
	}

	present := make(map[rune]struct{})
	for _, r := range line {
		present[r] = struct{}{}
	}

	hits := 0
	for r := range distinct {
		if _, ok := present[r]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(distinct))
}

func trigramJaccard(a, b string) float64 {
	ta := trigrams(a)
	tb := trigrams(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	intersection := 0
	for gram := range ta {
		if _, ok := tb[gram]; ok {
			intersection++
		}
	}
	union := len(ta) + len(tb) - intersection
	return float64(intersection) / float64(union)
}

func trigrams(s string) map[string]struct{} {
	runes := []rune(s)
	if len(runes) < trigramSize {
		return nil
	}
	grams := make(map[string]struct{}, len(runes)-trigramSize+1)
	for i := 0; i+trigramSize <= len(runes); i++ {
		grams[string(runes[i:i+trigramSize])] = struct{}{}
	}
	return grams
}
