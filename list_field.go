package relaypager

import (
	"context"

	"gorm.io/gorm/schema"
)

// ListResolver resolves a plain list field.
type ListResolver[T any] func(ctx context.Context, p Params) (Source[T], error)

// ListField wraps a list-of-node field. It only normalizes the resolver's
// result; it never slices or paginates.
type ListField[T any] struct {
	node     *ObjectType[T]
	resolver ListResolver[T]
}

// NewListField wraps a list field of node. A nil resolver resolves to nil.
func NewListField[T any](node *ObjectType[T], resolver ListResolver[T]) *ListField[T] {
	return &ListField[T]{
		node:     node,
		resolver: resolver,
	}
}

// NodeType returns the wrapped node type.
func (f *ListField[T]) NodeType() *ObjectType[T] {
	return f.node
}

// Model returns the model backing the node type.
func (f *ListField[T]) Model() (*schema.Schema, error) {
	return f.node.Model()
}

// Resolve invokes the resolver and normalizes its result with MaybeQuery.
// Resolver errors are returned unchanged.
func (f *ListField[T]) Resolve(ctx context.Context, p Params) (*Future[Collection[T]], error) {
	if f.resolver == nil {
		return Resolved[Collection[T]](nil), nil
	}

	src, err := f.resolver(ctx, p)
	if err != nil {
		return nil, err
	}

	return whenSettled(src, func(settled Source[T]) (Collection[T], error) {
		return MaybeQuery(settled), nil
	}), nil
}
