package validate

import (
	"fmt"

	"lorebook/internal/book"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeUnreachableEntry   = "unreachable_entry"
	codeEmptyContent       = "empty_content"
	codeLogicWithoutKeys   = "selective_without_secondary"
	codeUnknownLogic       = "unknown_selective_logic"
	codeRedundantExclusion = "redundant_recursion_exclusion"
	codeSecondaryIgnored   = "secondary_keys_ignored"
)

type Issue struct {
	Severity Severity
	Code     string
	Book     string
	UID      string
	Message  string
}

type Report struct {
	Issues []Issue
}

func (r *Report) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Run lints every book in the set for configurations the trigger engine
// silently tolerates but an author almost certainly did not intend.
func Run(set *book.Set) *Report {
	report := &Report{Issues: make([]Issue, 0)}
	for _, name := range set.Names() {
		b, _ := set.Get(name)
		for _, e := range b.Entries {
			report.Issues = append(report.Issues, lintEntry(name, e)...)
		}
	}
	return report
}

func lintEntry(bookName string, e book.Entry) []Issue {
	var issues []Issue

	add := func(severity Severity, code, message string) {
		issues = append(issues, Issue{
			Severity: severity,
			Code:     code,
			Book:     bookName,
			UID:      e.UID,
			Message:  message,
		})
	}

	if !e.Constant && len(e.Keys) == 0 {
		add(SeverityError, codeUnreachableEntry, "entry is not constant and has no primary keys, it can never trigger")
	}
	if e.Content == "" && !e.Disable {
		add(SeverityWarn, codeEmptyContent, "entry has no content")
	}
	if e.Selective && len(e.SecondaryKeys) == 0 {
		add(SeverityWarn, codeLogicWithoutKeys, "selective entry has no secondary keys, selectivity has no effect")
	}
	if !e.Selective && len(e.SecondaryKeys) > 0 {
		add(SeverityWarn, codeSecondaryIgnored, "secondary keys are ignored while selective is false")
	}
	if e.SelectiveLogic < book.LogicAndAny || e.SelectiveLogic > book.LogicNot {
		add(SeverityWarn, codeUnknownLogic, fmt.Sprintf("selective_logic %d is unknown, falls back to primary match", e.SelectiveLogic))
	}
	if e.ExcludeRecursion && e.Constant {
		add(SeverityWarn, codeRedundantExclusion, "exclude_recursion has no effect on a constant entry")
	}

	return issues
}
