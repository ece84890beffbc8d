package handler

import (
	"net/http"
	"strconv"

	"github.com/MaikonGithub/QualiCam/internal/apierror"
	"github.com/MaikonGithub/QualiCam/internal/dto"
	"github.com/MaikonGithub/QualiCam/internal/service"

	"github.com/gin-gonic/gin"
)

// AppHandler serves the /app dialect consumed by the QualiCam mobile client.
// Same engine underneath; only envelopes and field names differ from v1.
type AppHandler struct{ svc service.EstoqueService }

func NewAppHandler(svc service.EstoqueService) *AppHandler {
	return &AppHandler{svc: svc}
}

func parseChapaID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.AppError{Error: "ID inválido"})
		return 0, false
	}
	return id, true
}

func (h *AppHandler) ObterChapa(c *gin.Context) {
	id, ok := parseChapaID(c)
	if !ok {
		return
	}
	chapa, err := h.svc.ObterChapa(c.Request.Context(), id)
	if err != nil {
		// The mobile client expects {message} for a missing chapa here,
		// not the usual {error} envelope.
		if apierror.KindOf(err) == apierror.KindNotFound {
			c.JSON(http.StatusNotFound, dto.AppMessage{Message: "Chapa não encontrada"})
			return
		}
		c.JSON(apierror.AppStatus(err), apierror.App(err))
		return
	}
	c.JSON(http.StatusOK, chapa)
}

// ListarChapas answers a bare JSON array, as the client expects.
func (h *AppHandler) ListarChapas(c *gin.Context) {
	chapas, err := h.svc.ListarTodas(c.Request.Context())
	if err != nil {
		c.JSON(apierror.AppStatus(err), apierror.App(err))
		return
	}
	c.JSON(http.StatusOK, chapas)
}

func (h *AppHandler) CriarChapa(c *gin.Context) {
	var req dto.AppChapaRequest
	if !bindAndValidateApp(c, &req) {
		return
	}
	if err := h.svc.CriarChapaApp(c.Request.Context(), req); err != nil {
		c.JSON(apierror.AppStatus(err), apierror.App(err))
		return
	}
	c.JSON(http.StatusCreated, dto.AppMessage{Message: "Chapa criada com sucesso"})
}

func (h *AppHandler) AtualizarChapa(c *gin.Context) {
	id, ok := parseChapaID(c)
	if !ok {
		return
	}
	var req dto.AppAtualizarChapaRequest
	if !bindAndValidateApp(c, &req) {
		return
	}
	if err := h.svc.AtualizarChapaApp(c.Request.Context(), id, req); err != nil {
		c.JSON(apierror.AppStatus(err), apierror.App(err))
		return
	}
	c.JSON(http.StatusOK, dto.AppMessage{Message: "Chapa atualizada com sucesso"})
}

func (h *AppHandler) RemoverChapa(c *gin.Context) {
	id, ok := parseChapaID(c)
	if !ok {
		return
	}
	if err := h.svc.RemoverChapa(c.Request.Context(), id); err != nil {
		c.JSON(apierror.AppStatus(err), apierror.App(err))
		return
	}
	c.JSON(http.StatusOK, dto.AppMessage{Message: "Chapa removida com sucesso"})
}

func (h *AppHandler) CriarRetalho(c *gin.Context) {
	var req dto.AppChapaRequest
	if !bindAndValidateApp(c, &req) {
		return
	}
	if err := h.svc.CriarRetalhoApp(c.Request.Context(), req); err != nil {
		c.JSON(apierror.AppStatus(err), apierror.App(err))
		return
	}
	c.JSON(http.StatusCreated, dto.AppMessage{Message: "Retalho criado com sucesso"})
}

func (h *AppHandler) ListarRetalhos(c *gin.Context) {
	retalhos, err := h.svc.ListarRetalhosApp(c.Request.Context())
	if err != nil {
		c.JSON(apierror.AppStatus(err), apierror.App(err))
		return
	}
	c.JSON(http.StatusOK, retalhos)
}
