package repository

import (
	"context"
	"fmt"

	"github.com/andresuchdata/hypnoscale/internal/observability"
	"github.com/rs/zerolog/log"
)

const (
	DefaultPageSize = 1000
	DefaultMaxPages = 10
)

// PageOptions bounds a paginated fetch.
type PageOptions struct {
	Source   string
	PageSize int
	MaxPages int
}

func (o PageOptions) withDefaults() PageOptions {
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.MaxPages <= 0 {
		o.MaxPages = DefaultMaxPages
	}
	return o
}

// PageFunc reads one page. hasMore reports whether the backend holds rows past this page.
type PageFunc[T any] func(ctx context.Context, offset, limit int) (rows []T, hasMore bool, err error)

// PageResult is the concatenation of every page read.
type PageResult[T any] struct {
	Rows  []T
	Pages int
	// Truncated is set when the page ceiling stopped the loop while rows remained.
	Truncated bool
}

// FetchPages reads pages until a short page, an explicit end, or the page ceiling.
func FetchPages[T any](ctx context.Context, opts PageOptions, fetch PageFunc[T]) (PageResult[T], error) {
	opts = opts.withDefaults()
	result := PageResult[T]{Rows: make([]T, 0)}

	for page := 0; page < opts.MaxPages; page++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		rows, hasMore, err := fetch(ctx, page*opts.PageSize, opts.PageSize)
		if err != nil {
			return result, fmt.Errorf("error fetching %s page %d: %w", opts.Source, page, err)
		}

		result.Rows = append(result.Rows, rows...)
		result.Pages++
		observability.PagesFetched.WithLabelValues(opts.Source).Inc()

		if !hasMore || len(rows) < opts.PageSize {
			return result, nil
		}
	}

	result.Truncated = true
	observability.PageCeilingHits.WithLabelValues(opts.Source).Inc()
	log.Warn().
		Str("source", opts.Source).
		Int("pages", result.Pages).
		Int("rows", len(result.Rows)).
		Msg("page ceiling reached, totals may be undercounted")

	return result, nil
}
