package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type MovimentacaoView struct {
	IDMovimentacao   int64           `json:"id_movimentacao"`
	IDChapa          int64           `json:"id_chapa"`
	TipoMovimentacao string          `json:"tipo_movimentacao"`
	QuantidadeM2     decimal.Decimal `json:"quantidade_m2"`
	OsAssociada      *string         `json:"os_associada"`
	DataMovimentacao time.Time       `json:"data_movimentacao"`
}

type ListarMovimentacoesResponse struct {
	Success       bool               `json:"success"`
	IDChapa       int64              `json:"id_chapa"`
	Movimentacoes []MovimentacaoView `json:"movimentacoes"`
}
