package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrUsageLimitReached = errors.New("usage limit reached")
)

type GormRepo struct {
	DB *gorm.DB
}

// Transaction runs fn against a repo bound to one database transaction.
// Returning an error rolls back everything fn did.
func (r *GormRepo) Transaction(ctx context.Context, fn func(txRepo *GormRepo) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepo{DB: tx})
	})
}
