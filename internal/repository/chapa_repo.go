package repository

import (
	"context"

	"github.com/MaikonGithub/QualiCam/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChapaUpdate is a typed partial update: nil fields are left untouched.
// It replaces the string-built SET clauses of the legacy server — "nothing
// to update" becomes a structural check instead of a string-emptiness check.
type ChapaUpdate struct {
	NomeMaterial   *string
	Fornecedor     *string
	PrecoCompraM2  *decimal.Decimal
	AreaDisponivel *decimal.Decimal
	Localizacao    *string
	Status         *string
}

// Empty reports whether the update would touch no column.
func (u ChapaUpdate) Empty() bool {
	return u.NomeMaterial == nil && u.Fornecedor == nil && u.PrecoCompraM2 == nil &&
		u.AreaDisponivel == nil && u.Localizacao == nil && u.Status == nil
}

func (u ChapaUpdate) columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if u.NomeMaterial != nil {
		cols["nome_material"] = *u.NomeMaterial
	}
	if u.Fornecedor != nil {
		cols["fornecedor"] = *u.Fornecedor
	}
	if u.PrecoCompraM2 != nil {
		cols["preco_compra_m2"] = *u.PrecoCompraM2
	}
	if u.AreaDisponivel != nil {
		cols["area_disponivel"] = *u.AreaDisponivel
	}
	if u.Localizacao != nil {
		cols["localizacao"] = *u.Localizacao
	}
	if u.Status != nil {
		cols["status"] = *u.Status
	}
	return cols
}

// ChapaRepository defines the data access contract for chapas.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling unit testing with in-memory stubs.
type ChapaRepository interface {
	ListDisponiveis(ctx context.Context) ([]model.Chapa, error)
	ListAll(ctx context.Context) ([]model.Chapa, error)
	FindByID(ctx context.Context, id int64) (*model.Chapa, error)
	// Exists is the allocator's collision probe — chapas only, by design.
	Exists(ctx context.Context, id int64) (bool, error)
	MaterialSummary(ctx context.Context) ([]MaterialRow, error)

	// Used inside transactions — callers must pass the tx instance.
	CreateTx(tx *gorm.DB, c *model.Chapa) error
	// FindForUpdateTx takes a row lock so concurrent area updates on the
	// same chapa serialize instead of losing writes.
	FindForUpdateTx(tx *gorm.DB, id int64) (*model.Chapa, error)
	UpdateTx(tx *gorm.DB, id int64, upd ChapaUpdate) (int64, error)
	DeleteTx(tx *gorm.DB, id int64) (int64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

// MaterialRow is one GROUP BY nome_material aggregate over remaining chapas.
type MaterialRow struct {
	NomeMaterial        string
	AreaTotalInicial    decimal.Decimal
	AreaTotalDisponivel decimal.Decimal
	QuantidadeChapas    int64
	PrecoMedioM2        decimal.Decimal
}

type chapaRepo struct{ db *gorm.DB }

func NewChapaRepository(db *gorm.DB) ChapaRepository { return &chapaRepo{db: db} }

func (r *chapaRepo) ListDisponiveis(ctx context.Context) ([]model.Chapa, error) {
	var chapas []model.Chapa
	err := r.db.WithContext(ctx).
		Where("status = ?", model.StatusDisponivel).
		Order("data_entrada DESC").
		Find(&chapas).Error
	return chapas, err
}

func (r *chapaRepo) ListAll(ctx context.Context) ([]model.Chapa, error) {
	var chapas []model.Chapa
	err := r.db.WithContext(ctx).Order("data_entrada DESC").Find(&chapas).Error
	return chapas, err
}

func (r *chapaRepo) FindByID(ctx context.Context, id int64) (*model.Chapa, error) {
	var c model.Chapa
	err := r.db.WithContext(ctx).Where("id_chapa = ?", id).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *chapaRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Chapa{}).
		Where("id_chapa = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *chapaRepo) MaterialSummary(ctx context.Context) ([]MaterialRow, error) {
	var rows []MaterialRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT nome_material,
		       SUM(area_liquida_inicial) AS area_total_inicial,
		       SUM(area_disponivel)      AS area_total_disponivel,
		       COUNT(*)                  AS quantidade_chapas,
		       AVG(preco_compra_m2)      AS preco_medio_m2
		FROM chapas
		GROUP BY nome_material
		ORDER BY nome_material ASC`).Scan(&rows).Error
	return rows, err
}

func (r *chapaRepo) CreateTx(tx *gorm.DB, c *model.Chapa) error {
	return tx.Create(c).Error
}

func (r *chapaRepo) FindForUpdateTx(tx *gorm.DB, id int64) (*model.Chapa, error) {
	var c model.Chapa
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id_chapa = ?", id).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *chapaRepo) UpdateTx(tx *gorm.DB, id int64, upd ChapaUpdate) (int64, error) {
	cols := upd.columns()
	if len(cols) == 0 {
		return 0, nil
	}
	res := tx.Model(&model.Chapa{}).Where("id_chapa = ?", id).Updates(cols)
	return res.RowsAffected, res.Error
}

func (r *chapaRepo) DeleteTx(tx *gorm.DB, id int64) (int64, error) {
	res := tx.Where("id_chapa = ?", id).Delete(&model.Chapa{})
	return res.RowsAffected, res.Error
}

func (r *chapaRepo) DB() *gorm.DB { return r.db }
