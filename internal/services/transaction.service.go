package services

import (
	"context"
	"fmt"

	"maidhub/internal/database"
	ierr "maidhub/internal/errors"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// TRANSACTION_ATTEMPTS bounds how often a unit of work is replayed after
// Postgres aborts it for a deadlock or a serialization conflict.
const TRANSACTION_ATTEMPTS = 3

// TransactionService runs units of work inside one database transaction.
type TransactionService struct {
	db  database.DB
	log logger.Logger
}

func NewTransactionService(db database.DB) *TransactionService {
	return &TransactionService{
		db:  db,
		log: logger.New("TransactionService"),
	}
}

// Execute commits when fn returns nil and rolls back on an error or a panic.
// A panic is returned as an error unless the rollback itself fails. fn may
// run more than once, so it must only write through tx. Callbacks registered
// with database.AfterCommit on fn's context run only after a successful commit.
func (ts *TransactionService) Execute(
	ctx context.Context,
	fn func(context.Context, *gorm.DB) error,
) (err error) {
	log := ts.log.TraceFromContext(ctx).Function("Execute")

	for attempt := 1; ; attempt++ {
		err = ts.run(ctx, log, fn)
		if err == nil || attempt == TRANSACTION_ATTEMPTS || !retryable(err) || ctx.Err() != nil {
			return err
		}
		log.Warn("transaction aborted by database, retrying", "attempt", attempt, "error", err.Error())
	}
}

func (ts *TransactionService) run(
	ctx context.Context,
	log logger.Logger,
	fn func(context.Context, *gorm.DB) error,
) (err error) {
	txCtx, hooks := database.WithCommitHooks(ctx)

	tx := ts.db.SQLWithContext(ctx).Begin()
	if tx.Error != nil {
		return log.Err("failed to begin transaction", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			panicErr := log.ErrMsg(fmt.Sprintf("panic during transaction: %v", r))

			if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
				log.Er("CRITICAL: failed to rollback after panic", rollbackErr, "panic", r)
				panic(fmt.Sprintf("transaction rollback failed: %v (original panic: %v)", rollbackErr, r))
			}

			err = panicErr
		}
	}()

	if err = fn(txCtx, tx); err != nil {
		if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
			log.Er("CRITICAL: failed to rollback after function error", rollbackErr, "originalError", err)
			return log.Error("transaction rollback failed", "rollbackError", rollbackErr, "originalError", err)
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return log.Err("failed to commit transaction", err)
	}

	hooks.Run(ctx)

	return nil
}

// retryable reports a deadlock (40P01) or serialization failure (40001).
func retryable(err error) bool {
	switch ierr.SQLState(err) {
	case ierr.SQLStateDeadlockDetected, ierr.SQLStateSerializationFailure:
		return true
	}
	return false
}
