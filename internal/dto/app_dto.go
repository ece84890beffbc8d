package dto

import "github.com/shopspring/decimal"

// The /app dialect is consumed by the QualiCam mobile client. It maps the
// same chapa/retalho entities onto different field names (id, nomeMaterial,
// tamanho, preco) — translation happens entirely in this layer.

type AppChapaRequest struct {
	ID           int64           `json:"id"           validate:"required"`
	NomeMaterial string          `json:"nomeMaterial" validate:"required"`
	Fornecedor   string          `json:"fornecedor"   validate:"required"`
	Tamanho      decimal.Decimal `json:"tamanho"      validate:"required"`
	Preco        decimal.Decimal `json:"preco"        validate:"required"`
	Localizacao  string          `json:"localizacao"  validate:"required"`
}

// AppAtualizarChapaRequest is the full-update body of PUT /app/chapas/:id
// (the id travels in the path).
type AppAtualizarChapaRequest struct {
	NomeMaterial string          `json:"nomeMaterial" validate:"required"`
	Fornecedor   string          `json:"fornecedor"   validate:"required"`
	Tamanho      decimal.Decimal `json:"tamanho"      validate:"required"`
	Preco        decimal.Decimal `json:"preco"        validate:"required"`
	Localizacao  string          `json:"localizacao"  validate:"required"`
}

type AppChapaView struct {
	ID           int64           `json:"id"`
	NomeMaterial string          `json:"nomeMaterial"`
	Fornecedor   string          `json:"fornecedor"`
	Tamanho      decimal.Decimal `json:"tamanho"`
	Preco        decimal.Decimal `json:"preco"`
	Localizacao  string          `json:"localizacao"`
	// DataCriacao only appears in list responses, as in the original client.
	DataCriacao *string `json:"dataCriacao,omitempty"`
}

// AppRetalhoView exposes a retalho under the app's field names; id is the
// original chapa id, which is what the client scans.
type AppRetalhoView struct {
	ID           int64           `json:"id"`
	NomeMaterial string          `json:"nomeMaterial"`
	Fornecedor   string          `json:"fornecedor"`
	Tamanho      decimal.Decimal `json:"tamanho"`
	Localizacao  string          `json:"localizacao"`
	DataCriacao  *string         `json:"dataCriacao,omitempty"`
}

type AppMessage struct {
	Message string `json:"message"`
}
