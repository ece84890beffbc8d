package dto

// GerarEtiquetasRequest accepts both the current field names and the legacy
// aliases still sent by older desktop clients.
type GerarEtiquetasRequest struct {
	QuantidadeIDs   int `json:"quantidade_ids"`
	QuantidadePorID int `json:"quantidade_por_id"`

	// Legacy aliases
	QuantidadeEtiquetas int `json:"quantidade_etiquetas"`
	QuantidadeCada      int `json:"quantidade_cada"`
}

// Normalize resolves the aliases and applies the original defaults (1, 1).
func (r *GerarEtiquetasRequest) Normalize() (ids, porID int) {
	ids = r.QuantidadeIDs
	if ids == 0 {
		ids = r.QuantidadeEtiquetas
	}
	if ids == 0 {
		ids = 1
	}
	porID = r.QuantidadePorID
	if porID == 0 {
		porID = r.QuantidadeCada
	}
	if porID == 0 {
		porID = 1
	}
	return ids, porID
}

// GerarEtiquetasResponse reports full, partial or zero success: the batch is
// not transactional and partial completion is a valid terminal state.
type GerarEtiquetasResponse struct {
	Success         bool     `json:"success"`
	Message         string   `json:"message,omitempty"`
	Error           string   `json:"error,omitempty"`
	IDsGerados      []int64  `json:"ids_gerados"`
	QuantidadeIDs   int      `json:"quantidade_ids"`
	QuantidadePorID int      `json:"quantidade_por_id"`
	TotalImpresso   int      `json:"total_impresso"`
	TotalSolicitado int      `json:"total_solicitado"`
	Erros           []string `json:"erros,omitempty"`
	GabaritoUsado   string   `json:"gabarito_usado,omitempty"`
}

type TestarImpressoraResponse struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	ComandoExecutado string `json:"comando_executado"`
	GabaritoUsado    string `json:"gabarito_usado"`
}
