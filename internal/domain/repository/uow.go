package repository

import "context"

// Tx bundles the repositories bound to a single database transaction.
type Tx interface {
	Videos() VideoRepository
	Relations() RelationRepository
}

// UnitOfWork executes a function inside a database transaction.
//
// Execute begins a transaction, calls fn with repositories bound to it,
// commits when fn returns nil and rolls back otherwise. The error from
// fn (or from commit) is returned unchanged.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
