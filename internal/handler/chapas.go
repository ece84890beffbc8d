package handler

import (
	"net/http"
	"strconv"

	"github.com/MaikonGithub/QualiCam/internal/apierror"
	"github.com/MaikonGithub/QualiCam/internal/dto"
	"github.com/MaikonGithub/QualiCam/internal/infra"
	"github.com/MaikonGithub/QualiCam/internal/service"

	"github.com/gin-gonic/gin"
)

// ChapasHandler serves the v1 dialect used by the desktop client.
type ChapasHandler struct{ svc service.EstoqueService }

func NewChapasHandler(svc service.EstoqueService) *ChapasHandler {
	return &ChapasHandler{svc: svc}
}

// Listar godoc
// @Summary Lista as chapas com status Disponível
// @Tags chapas
// @Produce json
// @Success 200 {object} dto.ListarChapasResponse
// @Router /chapas [get]
func (h *ChapasHandler) Listar(c *gin.Context) {
	chapas, err := h.svc.ListarDisponiveis(c.Request.Context())
	if err != nil {
		c.JSON(apierror.V1Status(err), apierror.V1(err))
		return
	}
	c.JSON(http.StatusOK, dto.ListarChapasResponse{Success: true, Chapas: chapas})
}

func (h *ChapasHandler) Adicionar(c *gin.Context) {
	var req dto.AdicionarChapaRequest
	if !bindAndValidateV1(c, &req) {
		return
	}
	id, err := h.svc.AdicionarChapa(c.Request.Context(), req)
	if err != nil {
		c.JSON(apierror.V1Status(err), apierror.V1(err))
		return
	}
	c.JSON(http.StatusOK, dto.AdicionarChapaResponse{Success: true, IDChapa: id})
}

func (h *ChapasHandler) AtualizarArea(c *gin.Context) {
	var req dto.AtualizarAreaRequest
	if !bindAndValidateV1(c, &req) {
		return
	}
	resp, err := h.svc.AtualizarArea(c.Request.Context(), req)
	if err != nil {
		c.JSON(apierror.V1Status(err), apierror.V1(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ChapasHandler) TransformarRetalho(c *gin.Context) {
	var req dto.TransformarRetalhoRequest
	if !bindAndValidateV1(c, &req) {
		return
	}
	resp, err := h.svc.TransformarRetalho(c.Request.Context(), req.IDChapa)
	if err != nil {
		c.JSON(apierror.V1Status(err), apierror.V1(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ChapasHandler) MetragemTotal(c *gin.Context) {
	materiais, err := h.svc.MetragemTotal(c.Request.Context())
	if err != nil {
		c.JSON(apierror.V1Status(err), apierror.V1(err))
		return
	}
	c.JSON(http.StatusOK, dto.MetragemTotalResponse{Success: true, Materiais: materiais})
}

func (h *ChapasHandler) ListarRetalhos(c *gin.Context) {
	retalhos, err := h.svc.ListarRetalhos(c.Request.Context())
	if err != nil {
		c.JSON(apierror.V1Status(err), apierror.V1(err))
		return
	}
	c.JSON(http.StatusOK, dto.ListarRetalhosResponse{Success: true, Retalhos: retalhos})
}

// Movimentacoes lists the ledger of one chapa, oldest entry first. The id
// may refer to a chapa already transformed or removed — the ledger answers
// regardless.
func (h *ChapasHandler) Movimentacoes(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.V1Error{Success: false, Error: "ID inválido"})
		return
	}
	movs, err := h.svc.HistoricoMovimentacoes(c.Request.Context(), id)
	if err != nil {
		c.JSON(apierror.V1Status(err), apierror.V1(err))
		return
	}
	c.JSON(http.StatusOK, dto.ListarMovimentacoesResponse{
		Success:       true,
		IDChapa:       id,
		Movimentacoes: movs,
	})
}

// RelatorioPDF streams the current stock as a PDF document.
func (h *ChapasHandler) RelatorioPDF(c *gin.Context) {
	chapas, err := h.svc.ChapasEmEstoque(c.Request.Context())
	if err != nil {
		c.JSON(apierror.V1Status(err), apierror.V1(err))
		return
	}
	pdf, err := infra.GenerateEstoquePDF(chapas)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.V1(err))
		return
	}
	c.Header("Content-Disposition", `inline; filename="relatorio_estoque.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
