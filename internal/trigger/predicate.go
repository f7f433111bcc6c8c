package trigger

import "lorebook/internal/book"

// Triggered reports whether a single entry fires against text. Primary
// keys always gate; secondary keys only apply when the entry is
// selective and has any, combined under the entry's selective logic.
func Triggered(e book.Entry, text string) bool {
	opts := KeyOptions{
		CaseSensitive: e.CaseSensitive,
		WholeWords:    e.MatchWholeWords,
	}

	primary := MatchKeys(e.Keys, text, opts, MatchAny)
	if !e.Selective || !primary {
		return primary
	}
	if len(e.SecondaryKeys) == 0 {
		return primary
	}

	switch e.SelectiveLogic {
	case book.LogicAndAny:
		return MatchKeys(e.SecondaryKeys, text, opts, MatchAny)
	case book.LogicAndAll:
		return MatchKeys(e.SecondaryKeys, text, opts, MatchAll)
	case book.LogicNot:
		return !MatchKeys(e.SecondaryKeys, text, opts, MatchAny)
	default:
		return primary
	}
}
