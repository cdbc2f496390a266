// Package dao defines the data access traits conditions implement and the
// composite operations built on top of them.
//
// A condition is a plain value describing one query or command, such as
// "the article with id 7" or "insert this user". It implements one or more
// primitive traits against a *gorm.DB executor, which may be the pooled handle
// or an open transaction. The executor is borrowed for the duration of a
// call and never retained.
package dao

import (
	"context"

	"gorm.io/gorm"
)

// CreateDAO inserts one row and returns its generated id.
type CreateDAO interface {
	Create(ctx context.Context, db *gorm.DB) (uint, error)
}

// ReadDAO reads the first row matching a condition into T.
type ReadDAO[T any] interface {
	Read(ctx context.Context, db *gorm.DB) (T, error)
}

// UpdateDAO updates the rows matching a condition and reports whether at
// least one row was affected.
type UpdateDAO interface {
	Update(ctx context.Context, db *gorm.DB) (bool, error)
}

// DeleteDAO removes the rows matching a condition. For soft deletable
// tables this only marks the rows.
type DeleteDAO interface {
	Delete(ctx context.Context, db *gorm.DB) error
}

// ForceDeleteDAO is implemented by conditions whose hard delete differs
// from Delete.
type ForceDeleteDAO interface {
	DeleteDAO
	ForceDelete(ctx context.Context, db *gorm.DB) error
}

// Selector narrows a query to the rows matching a condition. The returned
// query names its model, so it can be read into any projection of it.
type Selector interface {
	Select(db *gorm.DB) *gorm.DB
}

// SelectorFunc adapts a function to Selector.
type SelectorFunc func(db *gorm.DB) *gorm.DB

// Select implements Selector.
func (f SelectorFunc) Select(db *gorm.DB) *gorm.DB { return f(db) }

// Project reads the first row matched by sel into T. Only the columns T
// declares are selected.
func Project[T any](sel Selector) ReadDAO[T] {
	return projection[T]{sel: sel}
}

type projection[T any] struct {
	sel Selector
}

func (p projection[T]) Read(ctx context.Context, db *gorm.DB) (T, error) {
	var out T
	err := p.sel.Select(db.WithContext(ctx)).First(&out).Error
	return out, err
}

// ForceDeleteWith hard deletes the rows matched by c, falling back to Delete
// when c has no dedicated hard delete.
func ForceDeleteWith(ctx context.Context, db *gorm.DB, c DeleteDAO) error {
	if f, ok := c.(ForceDeleteDAO); ok {
		return f.ForceDelete(ctx, db)
	}
	return c.Delete(ctx, db)
}
