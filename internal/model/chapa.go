package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Chapa status values. A chapa leaves the table entirely when transformed
// into a retalho, so there is no 'Retalho' status on a live row.
const (
	StatusDisponivel = "Disponível"
	StatusConsumida  = "Consumida"
)

// Chapa is a stocked raw material sheet with consumable area.
// The primary key is supplied by the caller (it matches the printed label
// number) and is never generated by the store.
type Chapa struct {
	IDChapa            int64           `gorm:"column:id_chapa;primaryKey"`
	NomeMaterial       string          `gorm:"index;not null"`
	Fornecedor         string          `gorm:"not null"`
	PrecoCompraM2      decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	AreaLiquidaInicial decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	// AreaDisponivel only ever decreases; 0 <= AreaDisponivel <= AreaLiquidaInicial.
	AreaDisponivel decimal.Decimal `gorm:"type:decimal(12,4);not null"`
	Localizacao    string          `gorm:"not null"`
	Status         string          `gorm:"not null;default:'Disponível'"`
	DataEntrada    time.Time       `gorm:"autoCreateTime"`
}

func (Chapa) TableName() string { return "chapas" }
