// Package database carries a gorm transaction through context so that
// repositories from different packages join the same atomic unit.
package database

import (
	"context"

	"gorm.io/gorm"
)

type ctxKey struct{}

// TxManager opens atomic units. Every ledger operation and every
// resolver create-on-miss runs inside exactly one of these; a returned
// error rolls the whole unit back.
type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Atomically runs fn inside a single storage transaction. The
// transaction handle travels in the context; nested calls reuse the
// already-open transaction instead of starting a second one.
func (m *TxManager) Atomically(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx, ok := ctx.Value(ctxKey{}).(*gorm.DB); ok && tx != nil {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, ctxKey{}, tx))
	})
}

// FromContext returns the open transaction, or fallback when the caller
// is not inside an atomic unit.
func FromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(ctxKey{}).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return fallback.WithContext(ctx)
}
