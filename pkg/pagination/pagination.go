package pagination

import "math"

const (
	defaultPerPage = 15
	maxPerPage     = 100
)

// Pagination represents pagination parameters
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// Params are the page/per_page query parameters of a list endpoint.
type Params struct {
	Page    int    `form:"page" json:"page"`
	PerPage int    `form:"per_page" json:"per_page"`
	Search  string `form:"search" json:"search"`
}

// Validate clamps the parameters into range.
func (p *Params) Validate() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = defaultPerPage
	}
	if p.PerPage > maxPerPage {
		p.PerPage = maxPerPage
	}
}

// Offset calculates the offset for SQL queries
func (p *Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// NewPagination creates a new Pagination response
func NewPagination(page, perPage int, total int64) *Pagination {
	if perPage < 1 {
		perPage = defaultPerPage
	}
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))

	return &Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

// Result is one page of items.
type Result[T any] struct {
	Items      []T         `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

// NewResult wraps items and totals. A nil slice is replaced by an empty one
// so the JSON body always carries an array.
func NewResult[T any](items []T, params Params, total int64) *Result[T] {
	if items == nil {
		items = []T{}
	}
	return &Result[T]{
		Items:      items,
		Pagination: NewPagination(params.Page, params.PerPage, total),
	}
}
