package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── v1 dialect — Request DTOs ───────────────────────────────────────────────

type AdicionarChapaRequest struct {
	IDChapa            int64           `json:"id_chapa"             validate:"required"`
	NomeMaterial       string          `json:"nome_material"        validate:"required"`
	Fornecedor         string          `json:"fornecedor"           validate:"required"`
	PrecoCompraM2      decimal.Decimal `json:"preco_compra_m2"      validate:"required"`
	AreaLiquidaInicial decimal.Decimal `json:"area_liquida_inicial" validate:"required"`
	Localizacao        string          `json:"localizacao"          validate:"required"`
}

// AtualizarAreaRequest is a typed partial update: nil means "leave alone".
// At least one of NovaAreaDisponivel / NovaLocalizacao must be present.
type AtualizarAreaRequest struct {
	IDChapa            int64            `json:"id_chapa" validate:"required"`
	NovaAreaDisponivel *decimal.Decimal `json:"nova_area_disponivel"`
	NovaLocalizacao    *string          `json:"nova_localizacao"`
	OsAssociada        *string          `json:"os_associada"`
}

type TransformarRetalhoRequest struct {
	IDChapa int64 `json:"id_chapa" validate:"required"`
}

// ─── v1 dialect — Response DTOs ──────────────────────────────────────────────

type ChapaView struct {
	IDChapa            int64           `json:"id_chapa"`
	NomeMaterial       string          `json:"nome_material"`
	Fornecedor         string          `json:"fornecedor"`
	PrecoCompraM2      decimal.Decimal `json:"preco_compra_m2"`
	AreaLiquidaInicial decimal.Decimal `json:"area_liquida_inicial"`
	AreaDisponivel     decimal.Decimal `json:"area_disponivel"`
	Localizacao        string          `json:"localizacao"`
	Status             string          `json:"status"`
	DataEntrada        time.Time       `json:"data_entrada"`
}

type ListarChapasResponse struct {
	Success bool        `json:"success"`
	Chapas  []ChapaView `json:"chapas"`
}

type AdicionarChapaResponse struct {
	Success bool  `json:"success"`
	IDChapa int64 `json:"id_chapa"`
}

// AtualizarAreaResponse carries the before/after snapshot of area and location.
type AtualizarAreaResponse struct {
	Success              bool            `json:"success"`
	IDChapa              int64           `json:"id_chapa"`
	AreaAnterior         decimal.Decimal `json:"area_anterior"`
	AreaAtual            decimal.Decimal `json:"area_atual"`
	LocalizacaoAnterior  string          `json:"localizacao_anterior"`
	LocalizacaoAtual     string          `json:"localizacao_atual"`
}

type TransformarRetalhoResponse struct {
	Success     bool            `json:"success"`
	Message     string          `json:"message"`
	IDChapa     int64           `json:"id_chapa"`
	AreaRetalho decimal.Decimal `json:"area_retalho"`
}

type RetalhoView struct {
	IDRetalho         int64           `json:"id_retalho"`
	IDChapaOriginal   int64           `json:"id_chapa_original"`
	NomeMaterial      string          `json:"nome_material"`
	Fornecedor        string          `json:"fornecedor"`
	AreaRetalho       decimal.Decimal `json:"area_retalho"`
	Localizacao       string          `json:"localizacao"`
	DataTransformacao time.Time       `json:"data_transformacao"`
}

type ListarRetalhosResponse struct {
	Success  bool          `json:"success"`
	Retalhos []RetalhoView `json:"retalhos"`
}

// MaterialAggregate groups remaining chapas by material name.
type MaterialAggregate struct {
	NomeMaterial         string          `json:"nome_material"`
	AreaTotalInicial     decimal.Decimal `json:"area_total_inicial"`
	AreaTotalDisponivel  decimal.Decimal `json:"area_total_disponivel"`
	QuantidadeChapas     int64           `json:"quantidade_chapas"`
	PrecoMedioM2         decimal.Decimal `json:"preco_medio_m2"`
	PercentualDisponivel decimal.Decimal `json:"percentual_disponivel"`
}

type MetragemTotalResponse struct {
	Success   bool                `json:"success"`
	Materiais []MaterialAggregate `json:"materiais"`
}
