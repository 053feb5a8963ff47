package mysql

import (
	"context"

	ledgerDomain "validator-engine/internal/domain/ledger"

	"gorm.io/gorm"
)

// LedgerRepository is the durable ledger sink. Append-only by construction:
// no update or delete path exists, and ReadAll returns insertion order (the
// auto-increment id).
type LedgerRepository struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) *LedgerRepository { return &LedgerRepository{db: db} }

func (r *LedgerRepository) Append(ctx context.Context, e *ledgerDomain.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *LedgerRepository) ReadAll(ctx context.Context) ([]ledgerDomain.Entry, error) {
	var out []ledgerDomain.Entry
	res := r.db.WithContext(ctx).Order("id ASC").Find(&out)
	return out, res.Error
}
