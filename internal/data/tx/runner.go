package tx

import (
	"context"

	"gorm.io/gorm"

	"github.com/rskala/campusbridge-backend/internal/pkg/dbctx"
)

// Runner scopes a unit of work to one database transaction: commit when fn
// returns nil, roll back when it returns an error. Multi-step writes (the
// provisioning workflow in particular) go through this instead of sharing an
// ambient transaction.
type Runner interface {
	WithTransaction(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type gormRunner struct {
	db *gorm.DB
}

func NewRunner(db *gorm.DB) Runner {
	return &gormRunner{db: db}
}

func (r *gormRunner) WithTransaction(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}
