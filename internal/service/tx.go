package service

import (
	"context"

	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
//
// The request context is threaded into the transaction, so a client
// disconnect cancels the context and the driver rolls the transaction back.
// Commit-or-rollback and session release happen on every exit path,
// including panics, inside (*gorm.DB).Transaction.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}
