package option

import (
	"strings"

	"gorm.io/gorm"
)

// QueryOption mutates a gorm statement before execution.
type QueryOption interface {
	Apply(db *gorm.DB) *gorm.DB
}

type queryOptionFunc func(db *gorm.DB) *gorm.DB

func (f queryOptionFunc) Apply(db *gorm.DB) *gorm.DB { return f(db) }

// QuerySortBy describes a caller-provided sort that is checked against Allow.
type QuerySortBy struct {
	SortBy  string
	OrderBy string
	Allow   map[string]bool
}

func WithQuerySortBy(sortBy, orderBy string, allow map[string]bool) QuerySortBy {
	return QuerySortBy{SortBy: sortBy, OrderBy: orderBy, Allow: allow}
}

// WithSortBy orders by SortBy when it is allowed; unknown columns are ignored.
func WithSortBy(s QuerySortBy) QueryOption {
	return queryOptionFunc(func(db *gorm.DB) *gorm.DB {
		column := strings.ToLower(strings.TrimSpace(s.SortBy))
		if column == "" || !s.Allow[column] {
			return db
		}
		direction := "ASC"
		if strings.EqualFold(strings.TrimSpace(s.OrderBy), "desc") {
			direction = "DESC"
		}
		return db.Order(column + " " + direction)
	})
}
