package relaypager

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/vektah/gqlparser/v2/ast"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

const _tracerName = "github.com/Alp4ka/relaypager"

// ConnectionResolver resolves a connection field. manager is the default
// source of the field for this resolution; returning it as-is (or nil) pages
// over the default source, returning another Query intersects it with the
// default source.
type ConnectionResolver[T any] func(ctx context.Context, p Params, manager *Query[T]) (Source[T], error)

type fieldOptions struct {
	on                 string
	maxLimit           *int
	enforceFirstOrLast *bool
	schema             *ast.Schema
	tracerProvider     trace.TracerProvider
}

// FieldOption overrides a Config default for a single field.
type FieldOption func(*fieldOptions)

// On selects the accessor registered with ObjectType.WithAccessor instead of
// the default manager.
func On(accessor string) FieldOption {
	return func(o *fieldOptions) { o.on = accessor }
}

// WithMaxLimit overrides the configured max limit. NoLimit disables it.
func WithMaxLimit(limit int) FieldOption {
	return func(o *fieldOptions) { o.maxLimit = &limit }
}

// WithEnforceFirstOrLast overrides the configured enforcement of first/last.
func WithEnforceFirstOrLast(enforce bool) FieldOption {
	return func(o *fieldOptions) { o.enforceFirstOrLast = &enforce }
}

// WithSchema checks the node, connection and edge types against s when the
// field is built.
func WithSchema(s *ast.Schema) FieldOption {
	return func(o *fieldOptions) { o.schema = s }
}

// WithTracerProvider sets the provider of resolution spans. The global one is
// used by default.
func WithTracerProvider(tp trace.TracerProvider) FieldOption {
	return func(o *fieldOptions) { o.tracerProvider = tp }
}

// ConnectionField wraps a field typed as a connection of T.
type ConnectionField[T any] struct {
	db                 *gorm.DB
	node               *ObjectType[T]
	resolver           ConnectionResolver[T]
	on                 string
	maxLimit           int
	enforceFirstOrLast bool
	tracer             trace.Tracer
}

// NewConnectionField builds a connection field over node. Configuration
// errors are reported here, wrapping ErrImproperlyConfigured, never at query
// time. A nil resolver pages over the default manager.
func NewConnectionField[T any](
	db *gorm.DB,
	node *ObjectType[T],
	resolver ConnectionResolver[T],
	cfg Config,
	opts ...FieldOption,
) (*ConnectionField[T], error) {
	var o fieldOptions
	for _, opt := range opts {
		opt(&o)
	}

	if db == nil {
		return nil, fmt.Errorf("%w: database is nil", ErrImproperlyConfigured)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImproperlyConfigured, err)
	}
	if err := node.validate(); err != nil {
		return nil, err
	}
	if o.on != "" && !node.HasAccessor(o.on) {
		return nil, fmt.Errorf("%w: type '%s' has no accessor '%s'", ErrImproperlyConfigured, node.GetName(), o.on)
	}
	if o.maxLimit != nil && *o.maxLimit < 0 {
		return nil, fmt.Errorf("%w: max limit must not be negative, got %d", ErrImproperlyConfigured, *o.maxLimit)
	}
	if o.schema != nil {
		if err := CheckConnectionSchema(o.schema, node.GetName(), node.GetConnection()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrImproperlyConfigured, err)
		}
	}

	tp := o.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return &ConnectionField[T]{
		db:                 db,
		node:               node,
		resolver:           resolver,
		on:                 o.on,
		maxLimit:           lo.FromPtrOr(o.maxLimit, cfg.maxLimit()),
		enforceFirstOrLast: lo.FromPtrOr(o.enforceFirstOrLast, cfg.ConnectionEnforceFirstOrLast),
		tracer:             tp.Tracer(_tracerName),
	}, nil
}

// Type returns the connection type of the field.
func (f *ConnectionField[T]) Type() *ConnectionType {
	return f.node.GetConnection()
}

// NodeType returns the node type designated by the connection.
func (f *ConnectionField[T]) NodeType() *ObjectType[T] {
	return f.node
}

// Model returns the model backing the node type.
func (f *ConnectionField[T]) Model() (*schema.Schema, error) {
	return f.node.Model()
}

// MaxLimit returns the effective max limit, NoLimit when disabled.
func (f *ConnectionField[T]) MaxLimit() int {
	return f.maxLimit
}

// EnforceFirstOrLast reports whether first or last is required.
func (f *ConnectionField[T]) EnforceFirstOrLast() bool {
	return f.enforceFirstOrLast
}

// GetManager returns the default source of the field: the accessor selected
// with On, or the node type's default manager. It is built anew on every call.
func (f *ConnectionField[T]) GetManager(ctx context.Context) (*Query[T], error) {
	return f.node.Manager(f.db.WithContext(ctx), f.on)
}

// Resolve validates the pagination arguments, invokes the resolver and builds
// the connection. Argument errors wrap ErrInvalidArgument and are returned
// before the resolver runs; resolver errors are returned unchanged.
//
// The returned future is already settled unless the resolver returned a
// Pending source, in which case the connection is built by a continuation.
func (f *ConnectionField[T]) Resolve(ctx context.Context, p Params) (*Future[*Connection[T]], error) {
	ctx, span := f.tracer.Start(ctx, "relaypager.Resolve", trace.WithAttributes(
		attribute.String("relaypager.field", p.Info.FieldName),
		attribute.String("relaypager.node", f.node.GetName()),
	))
	defer span.End()

	args, err := validatePaginationArgs(p.Info.FieldName, p.Args, f.maxLimit, f.enforceFirstOrLast)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	p.Args = args

	var orderings Orderings
	if len(args.OrderBy) > 0 {
		orderings, err = ParseSort(args.OrderBy, f.node.GetColumns())
		if err != nil {
			err = fmt.Errorf("%w: cannot order the `%s` connection: %w", ErrInvalidArgument, p.Info.FieldName, err)
			recordError(span, err)
			return nil, err
		}
	}

	manager, err := f.GetManager(ctx)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	var src Source[T]
	if f.resolver != nil {
		src, err = f.resolver(ctx, p, manager)
		if err != nil {
			recordError(span, err)
			return nil, err
		}
	}

	_, pending := src.(*Pending[T])
	span.SetAttributes(attribute.Bool("relaypager.pending", pending))

	return whenSettled(src, func(settled Source[T]) (*Connection[T], error) {
		return f.resolveConnection(ctx, p.Info.FieldName, manager, args, settled, orderings)
	}), nil
}

func (f *ConnectionField[T]) resolveConnection(
	ctx context.Context,
	fieldName string,
	manager *Query[T],
	args Args,
	src Source[T],
	orderings Orderings,
) (*Connection[T], error) {
	ctx, span := f.tracer.Start(ctx, "relaypager.ResolveConnection")
	defer span.End()

	conn, err := resolveConnection(ctx, manager, args, src, orderings)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("relaypager.length", conn.Length),
		attribute.Int("relaypager.edges", len(conn.Edges)),
	)
	zerolog.Ctx(ctx).Debug().
		Str("field", fieldName).
		Str("node", f.node.GetName()).
		Int("first", lo.FromPtr(args.First)).
		Int("last", lo.FromPtr(args.Last)).
		Int64("length", conn.Length).
		Int("edges", len(conn.Edges)).
		Msg("connection resolved")

	return conn, nil
}

// ResolveConnection builds a connection out of src:
//  1. a nil src falls back to manager;
//  2. src is normalized with MaybeQuery;
//  3. a Query other than manager itself is merged with manager;
//  4. the collection is counted;
//  5. the page selected by args is cut out of it.
func ResolveConnection[T any](ctx context.Context, manager *Query[T], args Args, src Source[T]) (*Connection[T], error) {
	return resolveConnection(ctx, manager, args, src, nil)
}

func resolveConnection[T any](
	ctx context.Context,
	manager *Query[T],
	args Args,
	src Source[T],
	orderings Orderings,
) (*Connection[T], error) {
	collection := MaybeQuery(src)
	if collection == nil {
		if _, pending := src.(*Pending[T]); pending {
			return nil, fmt.Errorf("cannot resolve a connection over a pending source")
		}
		if manager == nil {
			return nil, fmt.Errorf("cannot resolve a connection: no source and no default manager")
		}
		collection = manager
	}

	if query, ok := collection.(*Query[T]); ok {
		if manager != nil && query != manager {
			query = MergeQueries(manager, query)
		}
		if len(orderings) > 0 {
			query = NewQuery[T](orderings.Override(query.DB()))
		}
		collection = query
	} else if len(orderings) > 0 {
		zerolog.Ctx(ctx).Debug().
			Strs("order_by", orderings.ToSQLSlice()).
			Msg("ordering ignored for a materialized collection")
	}

	length, err := collection.Len(ctx)
	if err != nil {
		return nil, err
	}

	return ConnectionFromCollection(ctx, collection, args, length)
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
