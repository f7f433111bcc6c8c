package vars

import "strings"

// Placeholder grammar: {{verb::name}} reads a variable, {{verb::name::value}}
// writes one and expands to nothing. Only the first two :: delimit; the
// value runs opaque (it may contain further :: and newlines) up to the
// closing }}.
const (
	openDelim  = "{{"
	closeDelim = "}}"
	argDelim   = "::"
)

// Expand rewrites all variable placeholders in text in a single
// left-to-right pass. A set takes effect for placeholders after it in
// the text; a get earlier in the text never observes a later set.
// Unknown verbs and unterminated placeholders are left untouched, and a
// get of an unset variable expands to the empty string.
func Expand(text string, sc *Scopes) string {
	var out strings.Builder
	out.Grow(len(text))

	rest := text
	for {
		start := strings.Index(rest, openDelim)
		if start < 0 {
			out.WriteString(rest)
			return out.String()
		}
		out.WriteString(rest[:start])
		rest = rest[start:]

		end := strings.Index(rest, closeDelim)
		if end < 0 {
			out.WriteString(rest)
			return out.String()
		}

		body := rest[len(openDelim):end]
		replaced, ok := apply(body, sc)
		if !ok {
			// Not a variable placeholder. Emit the opening braces
			// literally and rescan from just past them, so a
			// nested placeholder later in the text still expands.
			out.WriteString(openDelim)
			rest = rest[len(openDelim):]
			continue
		}
		out.WriteString(replaced)
		rest = rest[end+len(closeDelim):]
	}
}

func apply(body string, sc *Scopes) (string, bool) {
	verb, args, found := strings.Cut(body, argDelim)
	if !found {
		return "", false
	}

	switch verb {
	case "getvar":
		return lookup(sc.Chat, args), true
	case "getglobalvar":
		return lookup(sc.Global, args), true
	case "gettempvar":
		return lookup(sc.Temp, args), true
	case "setvar":
		return "", store(sc.Chat, args)
	case "setglobalvar":
		return "", store(sc.Global, args)
	case "settempvar":
		return "", store(sc.Temp, args)
	}
	return "", false
}

func lookup(scope Scope, name string) string {
	if scope == nil || name == "" {
		return ""
	}
	value, _ := scope.Get(name)
	return value
}

func store(scope Scope, args string) bool {
	name, value, found := strings.Cut(args, argDelim)
	if !found || name == "" {
		return false
	}
	if scope != nil {
		scope.Set(name, value)
	}
	return true
}
