package book

import "fmt"

// SelectiveLogic controls how secondary keywords combine with the
// primary-keyword gate when an entry is selective.
type SelectiveLogic int

const (
	LogicAndAny SelectiveLogic = 0
	LogicAndAll SelectiveLogic = 1
	LogicNot    SelectiveLogic = 2
)

// Activation is the per-entry override state stored outside the book
// file. The zero value is Enabled so an absent override changes nothing.
type Activation int

const (
	ActivationEnabled Activation = iota
	ActivationDisabled
	ActivationForced
)

func (a Activation) String() string {
	switch a {
	case ActivationDisabled:
		return "disabled"
	case ActivationForced:
		return "forced"
	default:
		return "enabled"
	}
}

func ParseActivation(s string) (Activation, error) {
	switch s {
	case "enabled", "true":
		return ActivationEnabled, nil
	case "disabled", "false":
		return ActivationDisabled, nil
	case "forced", "force":
		return ActivationForced, nil
	}
	return ActivationEnabled, fmt.Errorf("unknown activation state %q", s)
}

// Entry is one keyword-triggered block of content. Entries are inputs
// to the trigger engine and are never mutated by it.
type Entry struct {
	UID              string         `yaml:"uid"`
	Keys             []string       `yaml:"keys"`
	SecondaryKeys    []string       `yaml:"secondary_keys"`
	Selective        bool           `yaml:"selective"`
	SelectiveLogic   SelectiveLogic `yaml:"selective_logic"`
	CaseSensitive    bool           `yaml:"case_sensitive"`
	MatchWholeWords  bool           `yaml:"match_whole_words"`
	Constant         bool           `yaml:"constant"`
	ExcludeRecursion bool           `yaml:"exclude_recursion"`
	PreventRecursion bool           `yaml:"prevent_recursion"`
	Order            *int           `yaml:"order"`
	Disable          bool           `yaml:"disable"`
	Content          string         `yaml:"content"`
}

type Book struct {
	Name    string  `yaml:"name"`
	Entries []Entry `yaml:"entries"`
}

func (b *Book) Entry(uid string) (*Entry, bool) {
	for i := range b.Entries {
		if b.Entries[i].UID == uid {
			return &b.Entries[i], true
		}
	}
	return nil, false
}
