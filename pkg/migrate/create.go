package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)

// CreateSQLMigration writes an empty goose SQL migration named
// <dir>/<YYYYMMDDHHMMSS>_<slug>.sql and returns its path.
func CreateSQLMigration(dir string, name string) (string, error) {
	if dir == "" {
		return "", fmt.Errorf("dir is required")
	}

	slug := slugify(name)
	if slug == "" {
		return "", fmt.Errorf("migration name %q yields an empty slug", name)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %q: %w", dir, err)
	}

	version := time.Now().UTC().Format("20060102150405")
	fullpath := filepath.Join(dir, fmt.Sprintf("%s_%s.sql", version, slug))
	if _, err := os.Stat(fullpath); err == nil {
		return "", fmt.Errorf("migration already exists: %s", fullpath)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "-- +goose Up\n-- +goose StatementBegin\n-- %s\n-- +goose StatementEnd\n", slug)
	fmt.Fprintf(&b, "\n-- +goose Down\n-- +goose StatementBegin\n-- rollback %s\n-- +goose StatementEnd\n", slug)

	if err := os.WriteFile(fullpath, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write migration %q: %w", fullpath, err)
	}
	return fullpath, nil
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = nonSlugRe.ReplaceAllString(slug, "_")
	return strings.Trim(slug, "_")
}
