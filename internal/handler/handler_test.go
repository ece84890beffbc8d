package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MaikonGithub/QualiCam/internal/apierror"
	"github.com/MaikonGithub/QualiCam/internal/dto"
	"github.com/MaikonGithub/QualiCam/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubEstoque answers every call with the canned values below — handler
// tests only care about envelopes and status codes.
type stubEstoque struct {
	err   error
	chapa *dto.AppChapaView
}

func (s *stubEstoque) ListarDisponiveis(context.Context) ([]dto.ChapaView, error) {
	return []dto.ChapaView{}, s.err
}
func (s *stubEstoque) AdicionarChapa(context.Context, dto.AdicionarChapaRequest) (int64, error) {
	return 12345, s.err
}
func (s *stubEstoque) AtualizarArea(context.Context, dto.AtualizarAreaRequest) (*dto.AtualizarAreaResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.AtualizarAreaResponse{Success: true, IDChapa: 12345}, nil
}
func (s *stubEstoque) TransformarRetalho(context.Context, int64) (*dto.TransformarRetalhoResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.TransformarRetalhoResponse{Success: true, IDChapa: 12345}, nil
}
func (s *stubEstoque) MetragemTotal(context.Context) ([]dto.MaterialAggregate, error) {
	return []dto.MaterialAggregate{}, s.err
}
func (s *stubEstoque) ListarRetalhos(context.Context) ([]dto.RetalhoView, error) {
	return []dto.RetalhoView{}, s.err
}
func (s *stubEstoque) HistoricoMovimentacoes(context.Context, int64) ([]dto.MovimentacaoView, error) {
	return []dto.MovimentacaoView{}, s.err
}
func (s *stubEstoque) ObterChapa(context.Context, int64) (*dto.AppChapaView, error) {
	return s.chapa, s.err
}
func (s *stubEstoque) ListarTodas(context.Context) ([]dto.AppChapaView, error) {
	return []dto.AppChapaView{}, s.err
}
func (s *stubEstoque) CriarChapaApp(context.Context, dto.AppChapaRequest) error { return s.err }
func (s *stubEstoque) AtualizarChapaApp(context.Context, int64, dto.AppAtualizarChapaRequest) error {
	return s.err
}
func (s *stubEstoque) RemoverChapa(context.Context, int64) error { return s.err }
func (s *stubEstoque) CriarRetalhoApp(context.Context, dto.AppChapaRequest) error {
	return s.err
}
func (s *stubEstoque) ListarRetalhosApp(context.Context) ([]dto.AppRetalhoView, error) {
	return []dto.AppRetalhoView{}, s.err
}
func (s *stubEstoque) ChapasEmEstoque(context.Context) ([]model.Chapa, error) {
	return nil, s.err
}

func perform(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewBuffer(b)
	} else {
		buf = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func v1Routes(svc *stubEstoque) *gin.Engine {
	r := gin.New()
	h := NewChapasHandler(svc)
	r.POST("/chapas/adicionar", h.Adicionar)
	r.POST("/chapas/update-area", h.AtualizarArea)
	r.POST("/chapas/transformar-retalho", h.TransformarRetalho)
	return r
}

func appRoutes(svc *stubEstoque) *gin.Engine {
	r := gin.New()
	h := NewAppHandler(svc)
	r.GET("/app/chapas/:id", h.ObterChapa)
	r.POST("/app/chapas", h.CriarChapa)
	r.DELETE("/app/chapas/:id", h.RemoverChapa)
	return r
}

// ── Envelope v1 ──────────────────────────────────────────────────────────────

func TestV1CampoObrigatorioAusente(t *testing.T) {
	r := v1Routes(&stubEstoque{})

	w := perform(t, r, "POST", "/chapas/adicionar", map[string]any{
		"id_chapa":             12345,
		"nome_material":        "Granito Verde Ubatuba",
		"preco_compra_m2":      380.0,
		"area_liquida_inicial": 5.5,
		"localizacao":          "Cavalete B2",
		// fornecedor missing
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body apierror.V1Error
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Campo fornecedor é obrigatório", body.Error)
}

func TestV1DuplicadoRetorna400(t *testing.T) {
	r := v1Routes(&stubEstoque{err: apierror.Duplicate("ID 12345 já existe")})

	w := perform(t, r, "POST", "/chapas/adicionar", map[string]any{
		"id_chapa":             12345,
		"nome_material":        "Granito Verde Ubatuba",
		"fornecedor":           "Pedras Sul",
		"preco_compra_m2":      380.0,
		"area_liquida_inicial": 5.5,
		"localizacao":          "Cavalete B2",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body apierror.V1Error
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ID 12345 já existe", body.Error)
}

func TestV1NotFoundRetorna404(t *testing.T) {
	r := v1Routes(&stubEstoque{err: apierror.NotFound("Chapa 99999 não encontrada")})

	w := perform(t, r, "POST", "/chapas/transformar-retalho",
		map[string]any{"id_chapa": 99999})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestV1ErroInternoNaoVazaDetalhes(t *testing.T) {
	r := v1Routes(&stubEstoque{err: assert.AnError})

	w := perform(t, r, "POST", "/chapas/update-area", map[string]any{
		"id_chapa":             12345,
		"nova_area_disponivel": 3.0,
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body apierror.V1Error
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Erro interno do servidor", body.Error)
}

// ── Envelope /app ────────────────────────────────────────────────────────────

func TestAppDuplicadoRetorna409(t *testing.T) {
	r := appRoutes(&stubEstoque{err: apierror.Duplicate("Chapa já existe")})

	w := perform(t, r, "POST", "/app/chapas", map[string]any{
		"id":           22222,
		"nomeMaterial": "Mármore Carrara",
		"fornecedor":   "Pedras Sul",
		"tamanho":      4.0,
		"preco":        500.0,
		"localizacao":  "Cavalete A1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	var body apierror.AppError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Chapa já existe", body.Error)
}

func TestAppChapaNaoEncontradaUsaMessage(t *testing.T) {
	r := appRoutes(&stubEstoque{err: apierror.NotFound("Chapa não encontrada")})

	w := perform(t, r, "GET", "/app/chapas/77777", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// This endpoint answers {message}, not {error}.
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Chapa não encontrada", body["message"])
	assert.NotContains(t, body, "error")
}

func TestAppRemoverNotFoundUsaError(t *testing.T) {
	r := appRoutes(&stubEstoque{err: apierror.NotFound("Chapa não encontrada")})

	w := perform(t, r, "DELETE", "/app/chapas/77777", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body apierror.AppError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Chapa não encontrada", body.Error)
}

func TestAppIDInvalido(t *testing.T) {
	r := appRoutes(&stubEstoque{})

	w := perform(t, r, "GET", "/app/chapas/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAppCampoObrigatorio(t *testing.T) {
	r := appRoutes(&stubEstoque{})

	w := perform(t, r, "POST", "/app/chapas", map[string]any{
		"id":         33333,
		"fornecedor": "Pedras Sul",
		"tamanho":    4.0,
		"preco":      500.0,
		// nomeMaterial / localizacao missing
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body apierror.AppError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Error, "Campo obrigatório")
}

func TestAppObterChapaSucesso(t *testing.T) {
	r := appRoutes(&stubEstoque{chapa: &dto.AppChapaView{
		ID:           44444,
		NomeMaterial: "Quartzito Taj Mahal",
		Tamanho:      decimal.NewFromFloat(3.3),
	}})

	w := perform(t, r, "GET", "/app/chapas/44444", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var body dto.AppChapaView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(44444), body.ID)
}
