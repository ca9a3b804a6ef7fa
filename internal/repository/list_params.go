package repository

import (
	"fmt"
	"strings"
)

// ListParams carries the filter, sort and pagination inputs shared by every
// list query. Zero values mean "not set".
type ListParams struct {
	Search   string
	Status   string
	Tag      string
	Company  string
	SortBy   string
	SortDir  string
	Page     int
	PageSize int
}

// Clamp normalizes pagination: page defaults to 1, page size to def, and is
// capped at max. Out-of-range pages stay as-is; they simply select past the
// end and return an empty slice with the correct total.
func (p *ListParams) Clamp(def, max int) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = def
	}
	if p.PageSize > max {
		p.PageSize = max
	}
}

// Offset converts page/page size into a row offset.
func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// orderClause builds an ORDER BY from a whitelist of sortable columns.
// Unknown fields and empty input fall back to creation order (id ASC), which
// is the stable default for every entity.
func orderClause(p ListParams, allowed map[string]string) string {
	col, ok := allowed[p.SortBy]
	if !ok {
		return " ORDER BY id ASC"
	}
	dir := "ASC"
	if strings.EqualFold(p.SortDir, "desc") {
		dir = "DESC"
	}
	// id is the tiebreaker so pages never shuffle between requests.
	return fmt.Sprintf(" ORDER BY %s %s, id ASC", col, dir)
}
