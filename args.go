package relaypager

import (
	"github.com/samber/lo"
)

// Args are the arguments of a connection field. Pagination arguments follow
// the Relay cursor connections convention; Extra carries resolver-specific
// filters untouched.
type Args struct {
	First  *int
	Last   *int
	After  *string
	Before *string
	// OrderBy lists "column asc|desc" entries resolved through the node type's
	// column mapping.
	OrderBy []string
	Extra   map[string]any
}

// RawConnectionArgs is intended for API payloads. For proper code generation,
// inline it:
//
//	type UsersRequest struct {
//	    Paging RawConnectionArgs `json:",inline"`
//	}
type RawConnectionArgs struct {
	First   *int     `json:"first,omitempty"`
	Last    *int     `json:"last,omitempty"`
	After   string   `json:"after,omitempty"`
	Before  string   `json:"before,omitempty"`
	OrderBy []string `json:"orderBy,omitempty"`
}

// Decode converts RawConnectionArgs into Args. Empty cursors are treated as
// absent.
func (r RawConnectionArgs) Decode() Args {
	return Args{
		First:   r.First,
		Last:    r.Last,
		After:   lo.EmptyableToPtr(r.After),
		Before:  lo.EmptyableToPtr(r.Before),
		OrderBy: r.OrderBy,
	}
}

// ResolveInfo describes the field being resolved.
type ResolveInfo struct {
	FieldName  string
	ParentType string
}

// Params are passed to resolvers.
type Params struct {
	Root any
	Info ResolveInfo
	Args Args
}
