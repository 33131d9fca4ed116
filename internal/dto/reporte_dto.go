package dto

import "github.com/shopspring/decimal"

// ReporteFilter is bound from the query string of GET /v1/reportes.
// Fechas are day-granularity; Hasta is expanded to end-of-day.
type ReporteFilter struct {
	Desde string `form:"desde" validate:"required,datetime=2006-01-02"`
	Hasta string `form:"hasta" validate:"required,datetime=2006-01-02"`
}

// ProductoTop is one row of the top-products ranking.
type ProductoTop struct {
	Producto string          `json:"producto"`
	Cantidad int             `json:"cantidad"`
	Total    decimal.Decimal `json:"total"`
}

// MetodoPagoResumen aggregates pedidos of one payment method.
type MetodoPagoResumen struct {
	Metodo   string          `json:"metodo"`
	Pedidos  int             `json:"pedidos"`
	Total    decimal.Decimal `json:"total"`
}

// OrigenResumen aggregates pedidos of one origin (web | pos).
type OrigenResumen struct {
	Origen  string          `json:"origen"`
	Pedidos int             `json:"pedidos"`
	Total   decimal.Decimal `json:"total"`
}

// ResumenReporte is the full aggregate over the filtered, non-cancelled
// pedidos of a date range.
type ResumenReporte struct {
	Desde          string              `json:"desde"`
	Hasta          string              `json:"hasta"`
	VentasTotales  decimal.Decimal     `json:"ventas_totales"`
	CantidadPedidos int                `json:"cantidad_pedidos"`
	TicketPromedio decimal.Decimal     `json:"ticket_promedio"`
	TopProductos   []ProductoTop       `json:"top_productos"`
	PorMetodoPago  []MetodoPagoResumen `json:"por_metodo_pago"`
	PorOrigen      []OrigenResumen     `json:"por_origen"`
}

// ─── Export rows ─────────────────────────────────────────────────────────────

// FilaPedido is one flat row per pedido for the spreadsheet collaborator.
type FilaPedido struct {
	ID         string          `json:"id"` // short form
	Fecha      string          `json:"fecha"`
	Cliente    string          `json:"cliente"`
	Tipo       string          `json:"tipo"`
	MetodoPago string          `json:"metodo_pago"`
	Estado     string          `json:"estado"`
	EstadoPago string          `json:"estado_pago"`
	Total      decimal.Decimal `json:"total"`
}

// FilaItem is one flat row per pedido item (second sheet).
type FilaItem struct {
	PedidoID       string          `json:"pedido_id"` // short form
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// ExportReporte carries both row sets of a range export.
type ExportReporte struct {
	Pedidos []FilaPedido `json:"pedidos"`
	Items   []FilaItem   `json:"items"`
}

// EnviarReporteRequest is the body of POST /v1/reportes/email.
type EnviarReporteRequest struct {
	Desde       string `json:"desde"       validate:"required,datetime=2006-01-02"`
	Hasta       string `json:"hasta"       validate:"required,datetime=2006-01-02"`
	Destinatario string `json:"destinatario" validate:"required,email"`
}
