package repository

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// GormTransactor runs callbacks inside a single database transaction. The
// transaction handle travels in the context, so the repositories below join
// it transparently when present.
type GormTransactor struct {
	db *gorm.DB
}

// NewGormTransactor creates a transactor over the given connection.
func NewGormTransactor(db *gorm.DB) *GormTransactor {
	return &GormTransactor{db: db}
}

// WithinTx executes fn inside a transaction, committing on nil and rolling
// back on error.
func (t *GormTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFrom returns the transaction bound to ctx, or the fallback connection.
func dbFrom(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}
