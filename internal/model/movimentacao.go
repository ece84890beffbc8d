package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement types. QuantidadeM2 is always positive; the direction is implied
// by the type.
const (
	MovEntrada            = "ENTRADA"
	MovSaida              = "SAÍDA"
	MovTransformarRetalho = "TRANSFORMAR_RETALHO"
)

// Movimentacao registra cada evento que afeta a área de uma chapa.
// Append-only: rows are never updated or deleted, and IDChapa is a
// historical reference — the chapa may have been deleted since.
type Movimentacao struct {
	IDMovimentacao   int64           `gorm:"column:id_movimentacao;primaryKey;autoIncrement"`
	IDChapa          int64           `gorm:"column:id_chapa;not null;index"`
	TipoMovimentacao string          `gorm:"not null"`
	QuantidadeM2     decimal.Decimal `gorm:"column:quantidade_m2;type:decimal(12,4);not null"`
	OsAssociada      *string         `gorm:"column:os_associada"`
	DataMovimentacao time.Time       `gorm:"autoCreateTime"`
}

func (Movimentacao) TableName() string { return "movimentacoes" }
