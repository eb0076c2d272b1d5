// internal/repository/repository.go
package repository

import (
	"context"
	"log/slog"

	"gorm.io/gorm"
)

// Transaction is a unit of work spanning writes to more than one
// repository, such as creating a user and marking their invitation
// accepted. Callers defer Rollback and call Commit on success; rolling
// back after a commit is a no-op.
type Transaction interface {
	Commit() error
	Rollback() error
}

type gormTransaction struct {
	ctx context.Context
	tx  *gorm.DB
}

func (t *gormTransaction) Commit() error {
	return t.tx.Commit().Error
}

func (t *gormTransaction) Rollback() error {
	err := t.tx.Rollback().Error
	if err == nil {
		slog.WarnContext(t.ctx, "transaction rolled back")
	}
	return err
}
