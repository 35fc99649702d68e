package relaypager

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// PageInfo follows the Relay cursor connections convention.
type PageInfo struct {
	// When paginating backwards, the cursor to continue.
	StartCursor *string `json:"startCursor"`
	// When paginating forwards, the cursor to continue.
	EndCursor *string `json:"endCursor"`
	// When paginating backwards, are there more items?
	HasPreviousPage bool `json:"hasPreviousPage"`
	// When paginating forwards, are there more items?
	HasNextPage bool `json:"hasNextPage"`
}

// Edge wraps a node with its cursor.
type Edge[T any] struct {
	Node   T      `json:"node"`
	Cursor string `json:"cursor"`
}

// Connection is a page of a collection. It is created per resolution.
type Connection[T any] struct {
	Edges    []*Edge[T] `json:"edges"`
	PageInfo PageInfo   `json:"pageInfo"`
	// Length is the size of the whole collection the page was cut from.
	Length int64 `json:"-"`
	// Iterable is the collection the page was cut from.
	Iterable Collection[T] `json:"-"`
}

// Nodes returns the nodes of the page.
func (c *Connection[T]) Nodes() []T {
	if c == nil {
		return nil
	}

	return lo.Map(c.Edges, func(e *Edge[T], _ int) T { return e.Node })
}

// TotalCount returns the size of the whole collection.
func (c *Connection[T]) TotalCount() int64 {
	if c == nil {
		return 0
	}

	return c.Length
}

// pageWindow is the [start, end) range of a page over [0, length).
type pageWindow struct {
	start, end      int
	hasPrevious     bool
	hasNext         bool
	malformedCursor bool
}

// newPageWindow computes the page selected by args over a collection of
// length elements.
func newPageWindow(args Args, length int) pageWindow {
	beforeOffset, beforeErr := offsetWithDefault(args.Before, length)
	afterOffset, afterErr := offsetWithDefault(args.After, -1)

	// Offsets outside of the collection select nothing more than its bounds.
	afterOffset = lo.Clamp(afterOffset, -1, length)
	beforeOffset = lo.Clamp(beforeOffset, -1, length)

	start := afterOffset + 1
	end := beforeOffset
	if args.First != nil && *args.First < end-start {
		end = start + *args.First
	}
	if args.Last != nil && *args.Last < end-start {
		start = end - *args.Last
	}

	lowerBound := lo.Ternary(lo.FromPtr(args.After) != "", afterOffset+1, 0)
	upperBound := lo.Ternary(lo.FromPtr(args.Before) != "", beforeOffset, length)

	return pageWindow{
		start:           start,
		end:             end,
		hasPrevious:     args.Last != nil && start > lowerBound,
		hasNext:         args.First != nil && end < upperBound,
		malformedCursor: (args.After != nil && afterErr != nil) || (args.Before != nil && beforeErr != nil),
	}
}

// ConnectionFromCollection cuts the page selected by args out of c, whose
// size is length. Edge cursors encode absolute offsets within c.
func ConnectionFromCollection[T any](ctx context.Context, c Collection[T], args Args, length int64) (*Connection[T], error) {
	window := newPageWindow(args, int(length))
	if window.malformedCursor {
		zerolog.Ctx(ctx).Debug().
			Str("after", lo.FromPtr(args.After)).
			Str("before", lo.FromPtr(args.Before)).
			Msg("malformed cursor ignored")
	}

	var nodes []T
	if window.start < window.end {
		var err error
		nodes, err = c.Slice(ctx, window.start, window.end)
		if err != nil {
			return nil, err
		}
	}

	edges := lo.Map(nodes, func(node T, i int) *Edge[T] {
		return &Edge[T]{Node: node, Cursor: OffsetToCursor(window.start + i)}
	})

	var pageInfo PageInfo
	if len(edges) > 0 {
		pageInfo.StartCursor = lo.ToPtr(edges[0].Cursor)
		pageInfo.EndCursor = lo.ToPtr(edges[len(edges)-1].Cursor)
	}
	pageInfo.HasPreviousPage = window.hasPrevious
	pageInfo.HasNextPage = window.hasNext

	return &Connection[T]{
		Edges:    edges,
		PageInfo: pageInfo,
		Length:   length,
		Iterable: c,
	}, nil
}
