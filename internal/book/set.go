package book

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Set is the collection of books named by the project config. Books are
// keyed by the name declared inside the file, not by filename.
type Set struct {
	books map[string]*Book
}

// NewSet builds a set from already-parsed books. Later duplicates
// replace earlier ones.
func NewSet(books ...*Book) *Set {
	set := &Set{books: make(map[string]*Book, len(books))}
	for _, b := range books {
		set.books[b.Name] = b
	}
	return set
}

func LoadSet(paths []string, excludes []string) (*Set, error) {
	files, err := walkBookFiles(paths, excludes)
	if err != nil {
		return nil, err
	}

	set := &Set{books: make(map[string]*Book)}
	for _, path := range files {
		b, err := ParseFile(path)
		if err != nil {
			return nil, err
		}
		if _, dup := set.books[b.Name]; dup {
			return nil, fmt.Errorf("%s: duplicate book name %q", path, b.Name)
		}
		set.books[b.Name] = b
	}
	return set, nil
}

func (s *Set) Get(name string) (*Book, bool) {
	b, ok := s.books[name]
	return b, ok
}

func (s *Set) Names() []string {
	names := make([]string, 0, len(s.books))
	for name := range s.books {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Set) Len() int {
	return len(s.books)
}

func walkBookFiles(roots []string, excludes []string) ([]string, error) {
	excluded := make([]string, 0, len(excludes))
	for _, path := range excludes {
		if path == "" {
			continue
		}
		excluded = append(excluded, filepath.Clean(path))
	}

	var files []string
	for _, root := range roots {
		if root == "" {
			continue
		}
		root = filepath.Clean(root)

		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if isExcluded(path, excluded) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if ext == ".yaml" || ext == ".yml" {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", root, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

func isExcluded(path string, excluded []string) bool {
	cleaned := filepath.Clean(path)
	for _, ex := range excluded {
		if cleaned == ex || strings.HasPrefix(cleaned, ex+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
