// Package relaypager adapts GORM queries to Relay-style GraphQL connections.
//
// Overview
//
// relaypager provides two field adapters:
//   - ListField: normalizes whatever a resolver returns (a lazy query, a
//     slice, an iterator, or a pending value) into a Collection the GraphQL
//     engine can enumerate.
//   - ConnectionField: validates first/last/after/before arguments, enforces
//     a maximum page size, merges the resolver's query with the node type's
//     default manager, counts it and cuts a page out of it using
//     array-connection offset cursors.
//
// Key concepts
//   - Source: the tagged union a resolver returns (Query, Materialized, Seq,
//     Pending).
//   - Query: a lazy, countable, sliceable handle over a *gorm.DB session.
//   - ObjectType: a model-backed node type with its connection wrapper,
//     default manager and alternate accessors.
//   - Future: explicit continuation-based async results. Resolution never
//     blocks the caller waiting on a Pending source.
//
// Ordering of the backing collection is the caller's responsibility. Use
// ObjectType.WithOrdering to give the default manager a deterministic order.
package relaypager
