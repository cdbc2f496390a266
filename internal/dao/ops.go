package dao

import (
	"context"

	"gorm.io/gorm"

	"github.com/simp-lee/blogbase/internal/domain"
	"github.com/simp-lee/blogbase/internal/pkg"
)

// Operation is a unit of data access work run against an executor.
// Errors are returned as produced by the driver or by the condition.
type Operation[R any] interface {
	Run(ctx context.Context, db *gorm.DB) (R, error)
}

// OpFunc adapts a function to Operation. Aggregates spanning several
// conditions are written as one OpFunc.
type OpFunc[R any] func(ctx context.Context, db *gorm.DB) (R, error)

// Run implements Operation.
func (f OpFunc[R]) Run(ctx context.Context, db *gorm.DB) (R, error) {
	return f(ctx, db)
}

// Create inserts c and yields the new id.
func Create(c CreateDAO) Operation[uint] {
	return OpFunc[uint](c.Create)
}

// Get reads c.
func Get[T any](c ReadDAO[T]) Operation[T] {
	return OpFunc[T](c.Read)
}

// Update applies c and yields whether a row changed.
func Update(c UpdateDAO) Operation[bool] {
	return OpFunc[bool](c.Update)
}

// Delete removes the rows matched by c.
func Delete(c DeleteDAO) Operation[struct{}] {
	return OpFunc[struct{}](func(ctx context.Context, db *gorm.DB) (struct{}, error) {
		return struct{}{}, c.Delete(ctx, db)
	})
}

// ForceDelete hard deletes the rows matched by c. See ForceDeleteWith.
func ForceDelete(c DeleteDAO) Operation[struct{}] {
	return OpFunc[struct{}](func(ctx context.Context, db *gorm.DB) (struct{}, error) {
		return struct{}{}, ForceDeleteWith(ctx, db, c)
	})
}

// Page reads one page of the rows matched by sel into T, ordered by order
// (an ORDER BY body such as SortStatement.Clause renders). The page and its
// total come from a single query.
func Page[T any](sel Selector, p domain.Paginate, order string) Operation[domain.Paginated[T]] {
	return OpFunc[domain.Paginated[T]](func(ctx context.Context, db *gorm.DB) (domain.Paginated[T], error) {
		q := sel.Select(db).Scopes(pkg.OrderBy(order))
		return pkg.WindowPage[T](ctx, q, p)
	})
}

// Run executes op against db. It reads better than op.Run at call sites
// that build the operation inline.
func Run[R any](ctx context.Context, db *gorm.DB, op Operation[R]) (R, error) {
	return op.Run(ctx, db)
}
