package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hszk-dev/videocatalog/internal/domain/repository"
)

// txBeginner abstracts pgxpool.Pool for testability.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// UnitOfWork implements repository.UnitOfWork on a pgx transaction.
type UnitOfWork struct {
	db txBeginner
}

// NewUnitOfWork creates a new UnitOfWork instance.
func NewUnitOfWork(db txBeginner) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Execute begins a transaction, runs fn with repositories bound to it,
// and commits when fn returns nil. On error the transaction is rolled
// back and fn's error is returned unchanged.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(ctx, &boundTx{tx: tx}); err != nil {
		_ = tx.Rollback(ctx) // Best effort; fn's error takes precedence
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(ctx) // Best effort; no-op when commit already closed the tx
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// boundTx bundles repositories sharing one pgx transaction.
type boundTx struct {
	tx pgx.Tx
}

func (b *boundTx) Videos() repository.VideoRepository {
	return NewVideoRepository(b.tx)
}

func (b *boundTx) Relations() repository.RelationRepository {
	return NewRelationRepository(b.tx)
}

// Compile-time verification that UnitOfWork implements repository.UnitOfWork.
var _ repository.UnitOfWork = (*UnitOfWork)(nil)
