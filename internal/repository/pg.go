package repository

import (
	"strings"

	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code for duplicate keys.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == uniqueViolation
	}
	return false
}

// joinTags serializes a tag list into its stored comma-joined form.
func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// splitTags parses the stored comma-joined form back into a slice. The
// stored value is already trimmed, deduplicated and sorted.
func splitTags(stored string) []string {
	if stored == "" {
		return []string{}
	}
	return strings.Split(stored, ",")
}
