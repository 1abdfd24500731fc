package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v3"

	"github.com/hszk-dev/videocatalog/internal/domain/repository"
)

func TestUnitOfWork_Execute_Commit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer mock.Close()

	video := testVideo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO videos").
		WithArgs(
			video.ID,
			video.Title,
			video.Description,
			video.YearLaunched,
			video.Opened,
			video.Rating.String(),
			video.Duration,
			pgxmock.AnyArg(),
			pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	uow := NewUnitOfWork(mock)
	err = uow.Execute(context.Background(), func(ctx context.Context, tx repository.Tx) error {
		return tx.Videos().Create(ctx, video)
	})
	if err != nil {
		t.Fatalf("Execute() unexpected error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUnitOfWork_Execute_RollbackOnError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer mock.Close()

	boom := errors.New("relation sync exploded")

	mock.ExpectBegin()
	mock.ExpectRollback()

	uow := NewUnitOfWork(mock)
	err = uow.Execute(context.Background(), func(ctx context.Context, tx repository.Tx) error {
		return boom
	})

	// The function's error must come back unchanged.
	if !errors.Is(err, boom) {
		t.Errorf("Execute() error = %v, want %v", err, boom)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUnitOfWork_Execute_CommitError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("connection lost"))
	mock.ExpectRollback()

	uow := NewUnitOfWork(mock)
	err = uow.Execute(context.Background(), func(ctx context.Context, tx repository.Tx) error {
		return nil
	})
	if err == nil || !containsError(err, errors.New("failed to commit transaction")) {
		t.Errorf("Execute() error = %v, want commit failure", err)
	}
}
