package handler

import (
	"errors"
	"net/http"

	"chichapos/internal/apierror"
	"chichapos/internal/dto"
	"chichapos/internal/service"

	"github.com/gin-gonic/gin"
)

type PosHandler struct{ svc service.PosService }

func NewPosHandler(svc service.PosService) *PosHandler { return &PosHandler{svc: svc} }

func posStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrSesionNoEncontrada):
		return http.StatusNotFound
	case errors.Is(err, service.ErrCheckoutEnCurso):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// CrearSesion godoc
// @Summary      Abrir sesión POS
// @Description  Crea un carrito en memoria para registrar una venta presencial.
// @Tags         pos
// @Produce      json
// @Security     BearerAuth
// @Success      201 {object} dto.SesionPosResponse
// @Router       /v1/pos/sesiones [post]
func (h *PosHandler) CrearSesion(c *gin.Context) {
	c.JSON(http.StatusCreated, h.svc.CrearSesion(c.Request.Context()))
}

// Ver godoc
// @Summary      Ver carrito POS
// @Tags         pos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "ID de la sesión"
// @Success      200 {object} dto.SesionPosResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/pos/sesiones/{id} [get]
func (h *PosHandler) Ver(c *gin.Context) {
	resp, err := h.svc.Ver(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(posStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AgregarItem godoc
// @Summary      Agregar item al carrito
// @Description  Suma una unidad del producto (o variante); incrementa la línea si ya existe.
// @Tags         pos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                    true "ID de la sesión"
// @Param        body body dto.AgregarItemPosRequest true "Producto"
// @Success      200  {object} dto.SesionPosResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/pos/sesiones/{id}/items [post]
func (h *PosHandler) AgregarItem(c *gin.Context) {
	var req dto.AgregarItemPosRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AgregarItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(posStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// QuitarItem godoc
// @Summary      Quitar item del carrito
// @Description  Resta una unidad; la línea desaparece al llegar a cero.
// @Tags         pos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                    true "ID de la sesión"
// @Param        body body dto.AgregarItemPosRequest true "Producto"
// @Success      200  {object} dto.SesionPosResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/pos/sesiones/{id}/items [delete]
func (h *PosHandler) QuitarItem(c *gin.Context) {
	var req dto.AgregarItemPosRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.QuitarItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(posStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Checkout godoc
// @Summary      Checkout POS
// @Description  Registra la venta como pedido completado y pagado, limpia el carrito y genera el ticket PDF.
// @Tags         pos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                 true "ID de la sesión"
// @Param        body body dto.CheckoutPosRequest true "Método de pago"
// @Success      201  {object} dto.TicketResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/pos/sesiones/{id}/checkout [post]
func (h *PosHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutPosRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Checkout(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(posStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CerrarSesion godoc
// @Summary      Cerrar sesión POS
// @Tags         pos
// @Security     BearerAuth
// @Param        id path string true "ID de la sesión"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/pos/sesiones/{id} [delete]
func (h *PosHandler) CerrarSesion(c *gin.Context) {
	if err := h.svc.CerrarSesion(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(posStatus(err), apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
