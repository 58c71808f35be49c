// Package paging holds the page/limit arithmetic shared by list endpoints.
package paging

import "strconv"

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type Params struct {
	Page  int
	Limit int
}

// Parse reads page and limit query values. Missing or malformed values fall
// back to the first page and the default limit; the limit is capped at
// MaxLimit.
func Parse(page, limit string) Params {
	p := Params{Page: 1, Limit: DefaultLimit}

	if n, err := strconv.Atoi(page); err == nil && n > 0 {
		p.Page = n
	}

	if n, err := strconv.Atoi(limit); err == nil && n > 0 {
		p.Limit = min(n, MaxLimit)
	}

	return p
}

// Normalize applies the same defaults as Parse to values built in code.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}

	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}

	p.Limit = min(p.Limit, MaxLimit)

	return p
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

type Meta struct {
	Page            int  `json:"page"`
	Limit           int  `json:"limit"`
	Total           int  `json:"total"`
	TotalPages      int  `json:"totalPages"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

func NewMeta(p Params, total int) Meta {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}

	return Meta{
		Page:            p.Page,
		Limit:           p.Limit,
		Total:           total,
		TotalPages:      pages,
		HasNextPage:     p.Page < pages,
		HasPreviousPage: p.Page > 1,
	}
}
