package trigger

import (
	"regexp"
	"strings"
)

type MatchMode int

const (
	MatchAny MatchMode = iota
	MatchAll
)

type KeyOptions struct {
	CaseSensitive bool
	WholeWords    bool
}

// MatchKeys reports whether keys match text under the given mode. An
// empty or nil key list never matches.
func MatchKeys(keys []string, text string, opts KeyOptions, mode MatchMode) bool {
	if len(keys) == 0 {
		return false
	}
	for _, key := range keys {
		matched := matchKey(key, text, opts)
		if mode == MatchAny && matched {
			return true
		}
		if mode == MatchAll && !matched {
			return false
		}
	}
	return mode == MatchAll
}

func matchKey(key, text string, opts KeyOptions) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}

	if opts.WholeWords {
		pattern := `\b` + regexp.QuoteMeta(key) + `\b`
		if !opts.CaseSensitive {
			pattern = `(?i)` + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false
		}
		return re.MatchString(text)
	}

	if !opts.CaseSensitive {
		return strings.Contains(strings.ToLower(text), strings.ToLower(key))
	}
	return strings.Contains(text, key)
}
