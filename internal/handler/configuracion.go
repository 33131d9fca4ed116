package handler

import (
	"net/http"

	"chichapos/internal/apierror"
	"chichapos/internal/dto"
	"chichapos/internal/service"

	"github.com/gin-gonic/gin"
)

type ConfigHandler struct{ svc service.ConfigService }

func NewConfigHandler(svc service.ConfigService) *ConfigHandler { return &ConfigHandler{svc: svc} }

// Obtener godoc
// @Summary      Configuración del negocio
// @Description  Branding, redes y datos de pago que el storefront lee al cargar.
// @Tags         config
// @Produce      json
// @Success      200 {object} dto.ConfigResponse
// @Router       /v1/config [get]
func (h *ConfigHandler) Obtener(c *gin.Context) {
	resp, err := h.svc.Obtener(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al leer la configuración"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Patch godoc
// @Summary      Actualizar configuración
// @Description  Cambia solo los campos presentes en el body; los ausentes conservan su valor.
// @Tags         config
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.PatchConfigRequest true "Campos a cambiar"
// @Success      200  {object} dto.ConfigResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/config [patch]
func (h *ConfigHandler) Patch(c *gin.Context) {
	var req dto.PatchConfigRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Patch(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
