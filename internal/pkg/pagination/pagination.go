package pagination

import "math"

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params is bound from the page and limit query parameters.
type Params struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

type Meta struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

func NewMeta(p Params, total int64) Meta {
	n := p.Normalize()
	return Meta{
		CurrentPage:  n.Page,
		TotalPages:   int(math.Ceil(float64(total) / float64(n.Limit))),
		TotalItems:   total,
		ItemsPerPage: n.Limit,
	}
}

// Page is the data payload of a paginated response.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Pagination Meta `json:"pagination"`
}

func NewPage[T any](items []T, p Params, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Pagination: NewMeta(p, total)}
}
