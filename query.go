package relaypager

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// Scope narrows a query. It has the shape of a GORM scope so existing scopes
// can be reused as managers and accessors.
type Scope = func(*gorm.DB) *gorm.DB

// Query is a lazy, composable handle over a GORM query. Nothing is executed
// until Len, Slice or All is called. Every method returns a new Query; the
// receiver is never modified.
type Query[T any] struct {
	db *gorm.DB
}

// NewQuery wraps db. If db has no model yet, T is used as the model.
func NewQuery[T any](db *gorm.DB) *Query[T] {
	if db.Statement.Model == nil {
		db = db.Model(new(T))
	}

	return &Query[T]{db: db.Session(&gorm.Session{})}
}

func (*Query[T]) sealed(*T) {}

// DB returns a copy of the underlying GORM query, safe to chain on.
func (q *Query[T]) DB() *gorm.DB {
	return q.db.Session(&gorm.Session{})
}

// Where returns a new Query narrowed by the condition.
func (q *Query[T]) Where(query any, args ...any) *Query[T] {
	return &Query[T]{db: q.db.Where(query, args...).Session(&gorm.Session{})}
}

// Scopes returns a new Query with the scopes applied. Scopes are applied
// immediately rather than at execution time so IsDistinct and And see their
// effect.
func (q *Query[T]) Scopes(scopes ...Scope) *Query[T] {
	return &Query[T]{db: applyScopes(q.db, scopes...).Session(&gorm.Session{})}
}

// IsDistinct reports whether duplicate rows are eliminated on execution.
func (q *Query[T]) IsDistinct() bool {
	return q.db.Statement.Distinct
}

// Distinct returns a new Query that eliminates duplicate rows.
func (q *Query[T]) Distinct() *Query[T] {
	return &Query[T]{db: q.db.Distinct().Session(&gorm.Session{})}
}

// And returns the intersection of q and other: the rows of q that other
// selects too. other is applied as a primary key subquery, so its joins and
// grouping take effect in full. The ordering of other wins when it has one,
// otherwise the ordering of q is kept.
func (q *Query[T]) And(other *Query[T]) *Query[T] {
	tx := q.db.Clauses()
	if orderBy, ok := other.db.Statement.Clauses["ORDER BY"]; ok {
		tx.Statement.Clauses["ORDER BY"] = orderBy
	}

	// Conditions of q are re-added as a group so OR conditions stay scoped to q.
	delete(tx.Statement.Clauses, "WHERE")
	tx = tx.Where(q.db)

	if pk, ok := q.primaryKey(); ok {
		tx = tx.Where("? IN (?)", pk, other.keys(pk))
	} else {
		tx = tx.Where(other.db)
	}

	return &Query[T]{db: tx.Session(&gorm.Session{})}
}

// primaryKey returns the primary key column of T, qualified with the table
// of the statement it is rendered in.
func (q *Query[T]) primaryKey() (clause.Column, bool) {
	s, err := schema.Parse(new(T), &_schemaCache, q.db.NamingStrategy)
	if err != nil || s.PrioritizedPrimaryField == nil {
		return clause.Column{}, false
	}

	return clause.Column{Table: clause.CurrentTable, Name: s.PrioritizedPrimaryField.DBName}, true
}

// keys selects only the pk column of q, unordered.
func (q *Query[T]) keys(pk clause.Column) *gorm.DB {
	tx := q.db.Clauses()
	delete(tx.Statement.Clauses, "ORDER BY")
	tx.Statement.Selects = nil

	return tx.Select("?", pk)
}

// Len implements Collection. It issues a COUNT query. A distinct query is
// counted through a subquery so duplicate rows are not counted.
func (q *Query[T]) Len(ctx context.Context) (int64, error) {
	var count int64
	tx := q.db.WithContext(ctx)
	if q.IsDistinct() {
		tx = tx.Session(&gorm.Session{NewDB: true}).Table("(?) AS distinct_rows", q.db.WithContext(ctx))
	}

	err := tx.Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("cannot count query: %w", err)
	}

	return count, nil
}

// Slice implements Collection. It fetches the rows within [start, end) with
// OFFSET/LIMIT.
func (q *Query[T]) Slice(ctx context.Context, start, end int) ([]T, error) {
	start = max(start, 0)
	if end <= start {
		return []T{}, nil
	}

	items := make([]T, 0, end-start)
	tx := NewOffsetCursor(start).Apply(q.db.WithContext(ctx)).Limit(end - start)
	if err := tx.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("cannot slice query: %w", err)
	}

	return items, nil
}

// All fetches every row of the query.
func (q *Query[T]) All(ctx context.Context) ([]T, error) {
	var items []T
	if err := q.db.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("cannot fetch query: %w", err)
	}

	return items, nil
}

// MergeQueries intersects a resolver's query with the default one. The
// default query runs in full as a subquery and its ordering wins. When
// exactly one side eliminates duplicates, distinct is applied to the other
// side first.
func MergeQueries[T any](defaultQuery, query *Query[T]) *Query[T] {
	defaultQuery, query = reconcileDistinct(defaultQuery, query)

	return query.And(defaultQuery)
}

func applyScopes(db *gorm.DB, scopes ...Scope) *gorm.DB {
	for _, scope := range scopes {
		if scope != nil {
			db = scope(db)
		}
	}

	return db
}

func reconcileDistinct[T any](defaultQuery, query *Query[T]) (*Query[T], *Query[T]) {
	switch {
	case defaultQuery.IsDistinct() && !query.IsDistinct():
		query = query.Distinct()
	case query.IsDistinct() && !defaultQuery.IsDistinct():
		defaultQuery = defaultQuery.Distinct()
	}

	return defaultQuery, query
}
