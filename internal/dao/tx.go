package dao

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/blogbase/internal/pkg"
)

// Transaction runs op inside one database transaction: commit when op
// succeeds, rollback when it fails or panics. On failure the zero R is
// returned with op's error. Running a Transaction against a handle that is
// already a transaction fails with pkg.ErrNestedTx.
func Transaction[R any](op Operation[R]) Operation[R] {
	return OpFunc[R](func(ctx context.Context, db *gorm.DB) (R, error) {
		var out R
		err := pkg.WithTx(ctx, db, func(tx *gorm.DB) error {
			r, err := op.Run(ctx, tx)
			if err != nil {
				return err
			}
			out = r
			return nil
		})
		if err != nil {
			var zero R
			return zero, err
		}
		return out, nil
	})
}
