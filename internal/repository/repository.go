package repository

import "strings"

// sortClause resolves a caller-supplied sort column against a whitelist and
// normalises the direction.
func sortClause(sortBy, sortOrder string, allowed map[string]string, fallback string) (string, string) {
	column := allowed[sortBy]
	if column == "" {
		column = fallback
	}
	order := strings.ToUpper(sortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	return column, order
}

// limitOffset clamps pagination inputs to sane bounds.
func limitOffset(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return pageSize, (page - 1) * pageSize
}
