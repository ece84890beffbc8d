package repository

import (
	"context"

	"github.com/MaikonGithub/QualiCam/internal/model"

	"gorm.io/gorm"
)

type RetalhoRepository interface {
	CreateTx(tx *gorm.DB, ret *model.Retalho) error
	List(ctx context.Context) ([]model.Retalho, error)
	ExistsByChapaOriginal(ctx context.Context, idChapa int64) (bool, error)
}

type retalhoRepo struct{ db *gorm.DB }

func NewRetalhoRepository(db *gorm.DB) RetalhoRepository { return &retalhoRepo{db: db} }

func (r *retalhoRepo) CreateTx(tx *gorm.DB, ret *model.Retalho) error {
	return tx.Create(ret).Error
}

func (r *retalhoRepo) List(ctx context.Context) ([]model.Retalho, error) {
	var retalhos []model.Retalho
	err := r.db.WithContext(ctx).Order("data_transformacao DESC").Find(&retalhos).Error
	return retalhos, err
}

func (r *retalhoRepo) ExistsByChapaOriginal(ctx context.Context, idChapa int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Retalho{}).
		Where("id_chapa_original = ?", idChapa).Count(&count).Error
	return count > 0, err
}
