// Package pagination turns untrusted page/sort request parameters into a
// validated query against a store collection. Every list endpoint shares the
// same engine; only the per-list Config differs.
package pagination

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"invtrack/store"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// DefaultPerPage is the page size used when a Config does not set one.
const DefaultPerPage = 10

// Column is one allow-list entry: the stored field behind a public sort
// name. Text columns order case-insensitively.
type Column struct {
	Field string
	Text  bool
}

// Config is the static sorting and paging policy of one list view.
// DefaultSortBy must be a key of Columns.
type Config struct {
	Columns          map[string]Column
	DefaultSortBy    string
	DefaultDirection Direction
	PerPage          int
}

// Request carries the untrusted page/sort parameters of one request.
type Request struct {
	Page      int
	SortBy    string
	Direction string
}

// ParseRequest decodes the page, sort_by and sort_direction query
// parameters. A missing or non-numeric page defaults to 1; sort values are
// validated later against the allow-list, not here.
func ParseRequest(q url.Values) Request {
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil {
		page = 1
	}
	return Request{
		Page:      page,
		SortBy:    q.Get("sort_by"),
		Direction: q.Get("sort_direction"),
	}
}

type Meta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"perPage"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasPrev    bool  `json:"hasPrev"`
	HasNext    bool  `json:"hasNext"`
}

// Result carries one page of records plus the resolved sort parameters, so
// callers echo back what was actually applied rather than what was asked.
type Result[T store.Entity] struct {
	Items     []T
	Meta      Meta
	SortBy    string
	Direction Direction
}

// List applies cfg to the request parameters and runs the query. An unknown
// sort column or direction silently falls back to the configured default; a
// page before the first or past the last yields an empty slice with accurate
// metadata. List never fails on malformed input, only on store errors. A
// DefaultSortBy missing from Columns is a programmer error and panics.
func List[T store.Entity](ctx context.Context, c store.Collection[T], filter store.Filter, cfg Config, req Request) (Result[T], error) {
	sortBy := req.SortBy
	if _, ok := cfg.Columns[sortBy]; !ok {
		sortBy = cfg.DefaultSortBy
	}
	column, ok := cfg.Columns[sortBy]
	if !ok {
		panic(fmt.Sprintf("pagination: default sort column %q not in allow-list", cfg.DefaultSortBy))
	}

	dir := Direction(req.Direction)
	if dir != Asc && dir != Desc {
		dir = cfg.DefaultDirection
		if dir != Desc {
			dir = Asc
		}
	}

	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	var (
		items []T
		total int64
		err   error
	)
	if req.Page < 1 {
		total, err = c.Count(ctx, filter)
	} else {
		order := store.Sort{Field: column.Field, Desc: dir == Desc, Fold: column.Text}
		slice := store.PageRequest{Skip: int64(req.Page-1) * int64(perPage), Limit: int64(perPage)}
		items, total, err = c.FindPage(ctx, filter, order, slice)
	}
	if err != nil {
		return Result[T]{}, err
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return Result[T]{
		Items: items,
		Meta: Meta{
			Page:       req.Page,
			PerPage:    perPage,
			Total:      total,
			TotalPages: totalPages,
			HasPrev:    req.Page > 1 && totalPages > 0,
			HasNext:    req.Page >= 1 && req.Page < totalPages,
		},
		SortBy:    sortBy,
		Direction: dir,
	}, nil
}
