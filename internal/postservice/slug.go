package postservice

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var nonWordRX = regexp.MustCompile(`\W+`)

// slugify lowers the title and collapses every run of non-word characters
// into a single hyphen, trimming hyphens from both ends.
func slugify(title string) string {
	s := strings.ToLower(title)
	s = nonWordRX.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// assignSlug derives a unique slug for title. When the title is unchanged
// from the stored one the existing slug is returned untouched, leaving the
// counter alone. Otherwise the per-base counter row is bumped in a single
// atomic upsert so that two writers racing on the same base slug can never
// observe the same counter value: the first use of a base gets the bare slug,
// every later use gets a numbered suffix.
func (m *PostModel) assignSlug(ctx context.Context, title, currentTitle, currentSlug string) (string, error) {
	if currentSlug != "" && title == currentTitle {
		return currentSlug, nil
	}

	base := slugify(title)

	query := `
		INSERT INTO slug_counters (slug, counter)
		VALUES ($1, 1)
		ON CONFLICT (slug) DO UPDATE SET counter = slug_counters.counter + 1
		RETURNING counter`

	var counter int
	err := m.db.QueryRowContext(ctx, query, base).Scan(&counter)
	if err != nil {
		return "", err
	}

	if counter == 1 {
		return base, nil
	}

	return fmt.Sprintf("%s-%d", base, counter), nil
}
