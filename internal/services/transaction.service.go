package services

import (
	"context"
	"fmt"

	"fieldops/internal/database"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// Transactor runs fn inside one store transaction. The in-memory store
// satisfies it as well as TransactionService.
type Transactor interface {
	Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error
}

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

// Execute commits when fn returns nil and rolls back otherwise. A panic inside
// fn is rolled back and returned as an error; a failed rollback after a panic
// re-panics.
func (ts *TransactionService) Execute(
	ctx context.Context,
	fn func(context.Context, *gorm.DB) error,
) (err error) {
	log := ts.log.Function("Execute")

	tx := ts.db.SQLWithContext(ctx).Begin()
	if tx.Error != nil {
		return log.Err("failed to begin transaction", tx.Error)
	}

	defer func() {
		r := recover()
		if r == nil {
			return
		}

		panicErr := log.ErrMsg(fmt.Sprintf("panic during transaction: %v", r))
		if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
			log.Er("failed to rollback after panic", rollbackErr, "panic", r)
			panic(fmt.Sprintf("transaction rollback failed: %v (original panic: %v)", rollbackErr, r))
		}
		err = panicErr
	}()

	if err = fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
			log.Er("failed to rollback after error", rollbackErr, "originalError", err)
			return log.Error("transaction rollback failed", "rollbackError", rollbackErr, "originalError", err)
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return log.Err("failed to commit transaction", err)
	}

	return nil
}
