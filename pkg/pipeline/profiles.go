package pipeline

import (
	"fmt"
	"strings"

	"talentpipe/pkg/dom"
	"talentpipe/pkg/logger"
)

// ProfileURL turns an identifier into the URL submitted to the API. Values
// that already point at linkedin.com pass through unchanged.
func ProfileURL(id string) string {
	if strings.Contains(id, "linkedin.com/") {
		return id
	}
	return fmt.Sprintf("https://www.linkedin.com/in/uid-%s", id)
}

// Partition splits items into consecutive chunks of at most size
func Partition[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = 1
	}
	var out [][]T
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[start:end])
	}
	return out
}

// ExtractNew returns the identifiers in cands not yet in found, in document
// order, and adds them to found. Unreadable candidates are skipped.
func ExtractNew(cands []dom.Candidate, found *ProfileSet, log logger.Logger) []string {
	var fresh []string
	for i, c := range cands {
		if c.Err != nil {
			log.WithError(c.Err).WarnWithFields("Skipping unreadable profile element", map[string]interface{}{
				"index": i,
			})
			continue
		}
		id := c.ProfileID()
		if id == "" || !found.Add(id) {
			continue
		}
		fresh = append(fresh, id)
	}
	return fresh
}
