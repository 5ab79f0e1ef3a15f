package repository

import (
	"context"

	domainRepo "github.com/fieldserv/dms-api/internal/domain/repository"
	"gorm.io/gorm"
)

type txKey struct{}

// txManager implements repository.TxManager on a gorm connection
type txManager struct {
	db *gorm.DB
}

// NewTxManager creates a new transaction manager
func NewTxManager(db *gorm.DB) domainRepo.TxManager {
	return &txManager{db: db}
}

// Do runs fn inside a database transaction. If ctx already carries a
// transaction the function joins it, so a service composed of other
// transactional services still commits or rolls back as one unit.
func (m *txManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction bound to ctx, or the base connection when
// the call is not transactional.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
