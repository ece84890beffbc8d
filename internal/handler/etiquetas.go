package handler

import (
	"net/http"

	"github.com/MaikonGithub/QualiCam/internal/apierror"
	"github.com/MaikonGithub/QualiCam/internal/dto"
	"github.com/MaikonGithub/QualiCam/internal/service"

	"github.com/gin-gonic/gin"
)

// EtiquetasHandler drives label id allocation and batch printing.
type EtiquetasHandler struct{ svc service.EtiquetaService }

func NewEtiquetasHandler(svc service.EtiquetaService) *EtiquetasHandler {
	return &EtiquetasHandler{svc: svc}
}

// Gerar prints a batch of labels. An absent or empty body means one label,
// one copy. Full and partial success both answer 200; only a batch where
// every copy failed is a 500.
func (h *EtiquetasHandler) Gerar(c *gin.Context) {
	var req dto.GerarEtiquetasRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, apierror.V1Error{Success: false, Error: "JSON inválido: " + err.Error()})
			return
		}
	}
	ids, porID := req.Normalize()

	resp, err := h.svc.GerarEtiquetas(c.Request.Context(), ids, porID)
	if err != nil {
		c.JSON(apierror.V1Status(err), apierror.V1(err))
		return
	}
	if !resp.Success {
		c.JSON(http.StatusInternalServerError, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Testar sends the raw template to the printer queue. The command line is
// echoed back even on failure so the operator can rerun it by hand.
func (h *EtiquetasHandler) Testar(c *gin.Context) {
	resp, err := h.svc.TestarImpressora(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":           false,
			"error":             apierror.Message(err),
			"comando_executado": resp.ComandoExecutado,
			"gabarito_usado":    resp.GabaritoUsado,
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}
