package book

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidYAML = errors.New("invalid YAML in book file")
	ErrMissingName = errors.New("book missing required 'name' field")
	ErrNoEntries   = errors.New("book has no entries")
)

func ParseFile(path string) (*Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

func Parse(content []byte) (*Book, error) {
	var b Book
	if err := yaml.Unmarshal(content, &b); err != nil {
		return nil, ErrInvalidYAML
	}

	if strings.TrimSpace(b.Name) == "" {
		return nil, ErrMissingName
	}
	if len(b.Entries) == 0 {
		return nil, ErrNoEntries
	}

	seen := make(map[string]struct{}, len(b.Entries))
	for i, e := range b.Entries {
		if strings.TrimSpace(e.UID) == "" {
			return nil, fmt.Errorf("entry %d: uid is required", i)
		}
		if _, dup := seen[e.UID]; dup {
			return nil, fmt.Errorf("entry %d: duplicate uid %q", i, e.UID)
		}
		seen[e.UID] = struct{}{}
	}

	return &b, nil
}
