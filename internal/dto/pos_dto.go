package dto

import (
	"chichapos/internal/model"

	"github.com/shopspring/decimal"
)

type AgregarItemPosRequest struct {
	ProductoID string  `json:"producto_id" validate:"required,uuid"`
	VarianteID *string `json:"variante_id" validate:"omitempty,uuid"`
}

type CheckoutPosRequest struct {
	MetodoPago model.MetodoPago `json:"metodo_pago" validate:"required,oneof=yape plin efectivo"`
}

type LineaPosResponse struct {
	ProductoID     string          `json:"producto_id"`
	ProductoNombre string          `json:"producto_nombre"`
	VarianteNombre *string         `json:"variante_nombre,omitempty"`
	Cantidad       int             `json:"cantidad"`
	Precio         decimal.Decimal `json:"precio"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type SesionPosResponse struct {
	SesionID string             `json:"sesion_id"`
	Lineas   []LineaPosResponse `json:"lineas"`
	Total    decimal.Decimal    `json:"total"`
}

// TicketResponse is the printable snapshot returned by a successful POS
// checkout. PDFPath points at the generated A7 receipt; empty when PDF
// generation failed (the venta itself is never rolled back for that).
type TicketResponse struct {
	Pedido  PedidoResponse `json:"pedido"`
	PDFPath string         `json:"pdf_path,omitempty"`
}
