package service

import (
	"context"

	"github.com/growthyari/growthyari-server/internal/database"
)

// Transactor runs fn inside a single database transaction.
// *database.DB satisfies it.
type Transactor interface {
	WithTx(ctx context.Context, fn database.TxFunc) error
}

var _ Transactor = (*database.DB)(nil)
