package repository

import (
	"context"

	"github.com/MaikonGithub/QualiCam/internal/model"

	"gorm.io/gorm"
)

// MovimentacaoRepository appends to and reads the movement ledger.
// The ledger is append-only: there are no update or delete methods.
type MovimentacaoRepository interface {
	// CreateTx appends a ledger row inside the caller's transaction so the
	// movement commits (or rolls back) together with the chapa change.
	CreateTx(tx *gorm.DB, m *model.Movimentacao) error
	ListByChapa(ctx context.Context, idChapa int64) ([]model.Movimentacao, error)
}

type movimentacaoRepo struct{ db *gorm.DB }

func NewMovimentacaoRepository(db *gorm.DB) MovimentacaoRepository {
	return &movimentacaoRepo{db: db}
}

func (r *movimentacaoRepo) CreateTx(tx *gorm.DB, m *model.Movimentacao) error {
	return tx.Create(m).Error
}

func (r *movimentacaoRepo) ListByChapa(ctx context.Context, idChapa int64) ([]model.Movimentacao, error) {
	var movs []model.Movimentacao
	err := r.db.WithContext(ctx).
		Where("id_chapa = ?", idChapa).
		Order("data_movimentacao ASC").
		Find(&movs).Error
	return movs, err
}
