package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Retalho is a remnant piece created by transforming a chapa out of active
// stock. IDChapaOriginal is historical: the source chapa row is deleted at
// transformation time and its id becomes reusable.
type Retalho struct {
	IDRetalho         int64           `gorm:"column:id_retalho;primaryKey;autoIncrement"`
	IDChapaOriginal   int64           `gorm:"column:id_chapa_original;not null;index"`
	NomeMaterial      string          `gorm:"not null"`
	Fornecedor        string          `gorm:"not null"`
	AreaRetalho       decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	Localizacao       string          `gorm:"not null"`
	DataTransformacao time.Time       `gorm:"autoCreateTime"`
}

func (Retalho) TableName() string { return "retalhos" }
