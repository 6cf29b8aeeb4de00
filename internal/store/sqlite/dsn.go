package sqlite

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

const memoryDSN = ":memory:"

// parseDSN turns sqlite://path[?query] into a driver DSN. Relative paths are
// anchored to the working directory.
func parseDSN(dsn string) (string, error) {
	if !strings.HasPrefix(dsn, "sqlite://") {
		return "", fmt.Errorf("invalid sqlite DSN scheme, expected sqlite://")
	}

	rest := strings.TrimPrefix(dsn, "sqlite://")
	if rest == "" {
		return "", fmt.Errorf("sqlite DSN has no path")
	}
	if rest == memoryDSN {
		return memoryDSN, nil
	}

	path, query, hasQuery := strings.Cut(rest, "?")
	if path == memoryDSN {
		return rest, nil
	}
	if !strings.HasPrefix(path, "/") && !strings.HasPrefix(path, "./") {
		unescaped, err := url.PathUnescape(path)
		if err != nil {
			return "", fmt.Errorf("unescaping path: %w", err)
		}
		path = unescaped
		if !filepath.IsAbs(path) {
			path = "./" + path
		}
	}

	if hasQuery {
		return path + "?" + query, nil
	}
	return path, nil
}
