package pkg

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNestedTx is returned when WithTx is called with a handle that is already
// inside a transaction.
var ErrNestedTx = errors.New("nested transactions are not supported")

// InTx reports whether db is bound to an open transaction.
func InTx(db *gorm.DB) bool {
	if db == nil || db.Statement == nil {
		return false
	}
	_, ok := db.Statement.ConnPool.(gorm.TxCommitter)
	return ok
}

// WithTx executes fn within a database transaction.
// It commits on success, rolls back on error or panic.
func WithTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if InTx(db) {
		return ErrNestedTx
	}

	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
