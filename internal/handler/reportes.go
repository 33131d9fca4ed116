package handler

import (
	"errors"
	"fmt"
	"net/http"

	"chichapos/internal/apierror"
	"chichapos/internal/dto"
	"chichapos/internal/infra"
	"chichapos/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportesHandler struct{ svc service.ReporteService }

func NewReportesHandler(svc service.ReporteService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

// Resumen godoc
// @Summary      Resumen de ventas
// @Description  Agregados del rango [desde, hasta] a granularidad de día: totales, ticket promedio, top productos, desglose por método de pago y origen. Excluye cancelados.
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Param        desde query string true "Fecha YYYY-MM-DD"
// @Param        hasta query string true "Fecha YYYY-MM-DD"
// @Success      200   {object} dto.ResumenReporte
// @Failure      400   {object} apierror.APIError
// @Router       /v1/reportes/resumen [get]
func (h *ReportesHandler) Resumen(c *gin.Context) {
	var filter dto.ReporteFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	resp, err := h.svc.Resumen(c.Request.Context(), filter)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrRangoInvalido) {
			status = http.StatusBadRequest
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ResumenRango godoc
// @Summary      Resumen con rango rápido
// @Description  Igual que /resumen pero con un preset: hoy | ayer | ultimos7 | mes.
// @Tags         reportes
// @Produce      json
// @Security     BearerAuth
// @Param        rango path string true "hoy | ayer | ultimos7 | mes"
// @Success      200   {object} dto.ResumenReporte
// @Failure      400   {object} apierror.APIError
// @Router       /v1/reportes/resumen/{rango} [get]
func (h *ReportesHandler) ResumenRango(c *gin.Context) {
	rango := service.RangoReporte(c.Param("rango"))
	resp, err := h.svc.ResumenRango(c.Request.Context(), rango)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrRangoInvalido) {
			status = http.StatusBadRequest
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Exportar godoc
// @Summary      Exportar pedidos a CSV
// @Description  Descarga el CSV plano del rango: una fila por pedido (hoja=pedidos) o por item (hoja=items).
// @Tags         reportes
// @Produce      text/csv
// @Security     BearerAuth
// @Param        desde query string true  "Fecha YYYY-MM-DD"
// @Param        hasta query string true  "Fecha YYYY-MM-DD"
// @Param        hoja  query string false "pedidos (default) | items"
// @Success      200
// @Failure      400 {object} apierror.APIError
// @Router       /v1/reportes/export [get]
func (h *ReportesHandler) Exportar(c *gin.Context) {
	var filter dto.ReporteFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	rep, err := h.svc.Exportar(c.Request.Context(), filter)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrRangoInvalido) {
			status = http.StatusBadRequest
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}

	hoja := c.DefaultQuery("hoja", "pedidos")
	var records [][]string
	switch hoja {
	case "pedidos":
		records = infra.FilasPedidosCSV(rep)
	case "items":
		records = infra.FilasItemsCSV(rep)
	default:
		c.JSON(http.StatusBadRequest, apierror.New("hoja debe ser pedidos o items"))
		return
	}

	filename := fmt.Sprintf("reporte_%s_%s_%s.csv", hoja, filter.Desde, filter.Hasta)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := infra.EscribirCSV(c.Writer, records); err != nil {
		_ = c.Error(err)
	}
}

// EnviarEmail godoc
// @Summary      Enviar reporte por email
// @Description  Genera los CSV del rango y encola el correo; el envío SMTP corre en el worker pool.
// @Tags         reportes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.EnviarReporteRequest true "Rango y destinatario"
// @Success      202
// @Failure      400  {object} apierror.APIError
// @Router       /v1/reportes/email [post]
func (h *ReportesHandler) EnviarEmail(c *gin.Context) {
	var req dto.EnviarReporteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.EnviarPorEmail(c.Request.Context(), req); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrRangoInvalido) {
			status = http.StatusBadRequest
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"encolado": true})
}
