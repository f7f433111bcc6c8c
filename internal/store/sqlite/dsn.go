package sqlite

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// parseDSN converts a sqlite:// DSN into the path form the driver
// expects. Relative paths gain a ./ prefix so the driver does not treat
// them as URI schemes.
func parseDSN(dsn string) (string, error) {
	if !strings.HasPrefix(dsn, "sqlite://") {
		return "", fmt.Errorf("invalid sqlite DSN scheme, expected sqlite://")
	}

	rest := strings.TrimPrefix(dsn, "sqlite://")

	if rest == ":memory:" {
		return ":memory:", nil
	}

	path := rest
	query := ""
	if idx := strings.Index(rest, "?"); idx >= 0 {
		path = rest[:idx]
		query = rest[idx:]
	}

	unescaped, err := url.PathUnescape(path)
	if err != nil {
		return "", fmt.Errorf("unescaping path: %w", err)
	}
	path = unescaped

	if !filepath.IsAbs(path) && !strings.HasPrefix(path, "./") {
		path = "./" + path
	}
	return path + query, nil
}
