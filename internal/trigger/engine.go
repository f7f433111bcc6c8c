package trigger

import (
	"sort"
	"strings"

	"lorebook/internal/book"
)

// Result is the outcome of one trigger evaluation. Triggered holds the
// entries in final priority order; Content is their non-empty contents
// joined with blank lines.
type Result struct {
	Content   string
	Triggered []book.Entry
}

// Evaluate runs the recursive trigger loop over one book's entries.
//
// Entry content that triggers can itself trigger further entries: every
// fired entry's content (unless it prevents recursion) is appended to a
// running accumulator seeded from the joined fragments, and not-yet-fired
// entries are rescanned against it until a full pass adds nothing. Each
// entry fires at most once, so the loop terminates in at most one pass
// per entry.
func Evaluate(entries []book.Entry, overrides map[string]book.Activation, fragments []string) Result {
	seed := strings.Join(fragments, "\n")

	var (
		constRecurse   []book.Entry
		constNoRecurse []book.Entry
		seedOnly       []book.Entry
		normal         []book.Entry
	)
	for _, e := range entries {
		state := overrides[e.UID]
		if state == book.ActivationDisabled {
			continue
		}
		forced := state == book.ActivationForced
		if e.Disable && !forced {
			continue
		}

		switch {
		case e.Constant || forced:
			if e.PreventRecursion {
				constNoRecurse = append(constNoRecurse, e)
			} else {
				constRecurse = append(constRecurse, e)
			}
		case e.ExcludeRecursion:
			seedOnly = append(seedOnly, e)
		default:
			normal = append(normal, e)
		}
	}

	var triggered []book.Entry
	pool := seed

	// Seed-only entries never see recursively accumulated content.
	for _, e := range seedOnly {
		if !Triggered(e, seed) {
			continue
		}
		triggered = append(triggered, e)
		if !e.PreventRecursion {
			pool += "\n" + e.Content
		}
	}

	// Constants skip the trigger check entirely.
	for _, e := range constRecurse {
		triggered = append(triggered, e)
		pool += "\n" + e.Content
	}

	fired := make(map[string]struct{}, len(normal))
	for {
		added := false
		for _, e := range normal {
			if _, done := fired[e.UID]; done {
				continue
			}
			if !Triggered(e, pool) {
				continue
			}
			fired[e.UID] = struct{}{}
			triggered = append(triggered, e)
			if !e.PreventRecursion {
				pool += "\n" + e.Content
			}
			added = true
		}
		if !added {
			break
		}
	}

	triggered = append(triggered, constNoRecurse...)

	sort.SliceStable(triggered, func(i, j int) bool {
		oi, oj := triggered[i].Order, triggered[j].Order
		switch {
		case oi == nil:
			return false
		case oj == nil:
			return true
		default:
			return *oi < *oj
		}
	})

	parts := make([]string, 0, len(triggered))
	for _, e := range triggered {
		if e.Content != "" {
			parts = append(parts, e.Content)
		}
	}
	return Result{
		Content:   strings.Join(parts, "\n\n"),
		Triggered: triggered,
	}
}
