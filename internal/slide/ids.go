package slide

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// NewID returns a fresh random identifier for slides, shows, components and
// assignments.
func NewID() string {
	return uuid.NewString()
}

// normalizeTags trims, drops empties and duplicates, and sorts.
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		out = append(out, tag)
	}
	slices.Sort(out)
	out = slices.Compact(out)
	if len(out) == 0 {
		return nil
	}
	return out
}
