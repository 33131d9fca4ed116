package dto

import (
	"chichapos/internal/model"

	"github.com/shopspring/decimal"
)

// ─── Filter / List ──────────────────────────────────────────────────────────

// PedidoFilter is bound from the query string of GET /v1/pedidos.
type PedidoFilter struct {
	Fecha  string `form:"fecha"`              // YYYY-MM-DD; empty = all
	Estado string `form:"estado,default=all"` // pending | confirmed | ready | completed | cancelled | all
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type PedidoListResponse struct {
	Data  []PedidoResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemPedidoRequest struct {
	ProductoID string  `json:"producto_id" validate:"required,uuid"`
	VarianteID *string `json:"variante_id" validate:"omitempty,uuid"`
	Cantidad   int     `json:"cantidad"    validate:"required,min=1"`
}

type CrearPedidoRequest struct {
	ClienteNombre   string              `json:"cliente_nombre"   validate:"required,min=2,max=100"`
	ClienteTelefono *string             `json:"cliente_telefono" validate:"omitempty,max=20"`
	TipoEntrega     model.TipoEntrega   `json:"tipo_entrega"     validate:"required,oneof=delivery pickup"`
	MetodoPago      model.MetodoPago    `json:"metodo_pago"      validate:"required,oneof=yape plin efectivo"`
	// Direccion is required for delivery; ignored for pickup (the sentinel
	// "recojo en local" is stored instead).
	Direccion string              `json:"direccion" validate:"omitempty,max=300"`
	Items     []ItemPedidoRequest `json:"items"     validate:"required,min=1,dive"`
}

type CambiarEstadoRequest struct {
	Estado model.EstadoPedido `json:"estado" validate:"required,oneof=pending confirmed ready completed cancelled"`
}

type CambiarEstadoPagoRequest struct {
	EstadoPago model.EstadoPago `json:"estado_pago" validate:"required,oneof=pending paid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemPedidoResponse struct {
	ProductoNombre string          `json:"producto_nombre"`
	VarianteNombre *string         `json:"variante_nombre,omitempty"`
	Cantidad       int             `json:"cantidad"`
	Precio         decimal.Decimal `json:"precio"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type PedidoResponse struct {
	ID              string               `json:"id"`
	ClienteNombre   string               `json:"cliente_nombre"`
	ClienteTelefono *string              `json:"cliente_telefono,omitempty"`
	TipoEntrega     model.TipoEntrega    `json:"tipo_entrega"`
	MetodoPago      model.MetodoPago     `json:"metodo_pago"`
	EstadoPago      model.EstadoPago     `json:"estado_pago"`
	Direccion       string               `json:"direccion"`
	MontoTotal      decimal.Decimal      `json:"monto_total"`
	Estado          model.EstadoPedido   `json:"estado"`
	Origen          model.OrigenPedido   `json:"origen"`
	Items           []ItemPedidoResponse `json:"items"`
	CreatedAt       string               `json:"created_at"`
}

// TableroResponse groups the pedidos into the three dashboard columns.
type TableroResponse struct {
	Pendientes []PedidoResponse `json:"pendientes"`
	Cocina     []PedidoResponse `json:"cocina"`
	Historial  []PedidoResponse `json:"historial"`
}

// WhatsappLinkResponse carries the prefilled deep link the storefront opens
// after placing a pedido.
type WhatsappLinkResponse struct {
	Link    string `json:"link"`
	Mensaje string `json:"mensaje"`
}
