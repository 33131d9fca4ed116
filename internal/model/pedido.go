package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estado values are persisted in English for compatibility with the
// original storefront schema.
type EstadoPedido string

const (
	EstadoPendiente  EstadoPedido = "pending"
	EstadoConfirmado EstadoPedido = "confirmed"
	EstadoListo      EstadoPedido = "ready"
	EstadoCompletado EstadoPedido = "completed"
	EstadoCancelado  EstadoPedido = "cancelled"
)

type EstadoPago string

const (
	PagoPendiente EstadoPago = "pending"
	PagoPagado    EstadoPago = "paid"
)

type TipoEntrega string

const (
	EntregaDelivery TipoEntrega = "delivery"
	EntregaRecojo   TipoEntrega = "pickup"
)

type MetodoPago string

const (
	MetodoYape     MetodoPago = "yape"
	MetodoPlin     MetodoPago = "plin"
	MetodoEfectivo MetodoPago = "efectivo"
)

type OrigenPedido string

const (
	OrigenWeb OrigenPedido = "web"
	OrigenPOS OrigenPedido = "pos"
)

// ColumnaTablero is one of the three dashboard groupings of pedidos.
type ColumnaTablero string

const (
	ColumnaPendientes ColumnaTablero = "pendientes"
	ColumnaCocina     ColumnaTablero = "cocina"
	ColumnaHistorial  ColumnaTablero = "historial"
)

// Sentinel values written by the POS checkout path and by pickup orders.
// Legacy rows carry no origen column, so these strings double as the
// read-side origin shim (see OrigenEfectivo).
const (
	ClientePOS      = "Venta Directa Local"
	DireccionPOS    = "Venta Presencial"
	DireccionRecojo = "recojo en local"
)

// Pedido is an order placed from the storefront or recorded at the POS.
// MontoTotal is fixed at creation time from the item snapshots and is
// never recomputed from live product prices.
type Pedido struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteNombre    string          `gorm:"not null"`
	ClienteTelefono  *string         `gorm:"type:varchar(20)"`
	TipoEntrega      TipoEntrega     `gorm:"type:varchar(10);not null"`
	MetodoPago       MetodoPago      `gorm:"type:varchar(10);not null"`
	EstadoPago       EstadoPago      `gorm:"type:varchar(10);not null;default:'pending'"`
	Direccion        string          `gorm:"not null"`
	MontoTotal       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Estado           EstadoPedido    `gorm:"type:varchar(10);not null;default:'pending';index"`
	Origen           OrigenPedido    `gorm:"type:varchar(5);index"`
	CreatedAt        time.Time       `gorm:"index"`
	UpdatedAt        time.Time

	Items []PedidoItem `gorm:"foreignKey:PedidoID;constraint:OnDelete:CASCADE"`
}

// PedidoItem is an immutable denormalized snapshot of a product line at
// the moment the pedido was created. Product edits or deletions never
// touch these rows.
type PedidoItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductoNombre string          `gorm:"not null"`
	VarianteNombre *string
	Cantidad       int             `gorm:"not null"`
	Precio         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

func (Pedido) TableName() string     { return "pedidos" }
func (PedidoItem) TableName() string { return "pedido_items" }

// Valido reports whether e is one of the five known estados.
func (e EstadoPedido) Valido() bool {
	switch e {
	case EstadoPendiente, EstadoConfirmado, EstadoListo, EstadoCompletado, EstadoCancelado:
		return true
	}
	return false
}

// Terminal reports whether no transition may leave e.
func (e EstadoPedido) Terminal() bool {
	return e == EstadoCompletado || e == EstadoCancelado
}

// PuedeTransicionar implements the lifecycle graph:
// pending → confirmed → ready → completed, with cancellation allowed from
// any non-terminal estado. Terminal estados cannot be left.
func PuedeTransicionar(desde, hacia EstadoPedido) bool {
	if !desde.Valido() || !hacia.Valido() || desde.Terminal() {
		return false
	}
	if hacia == EstadoCancelado {
		return true
	}
	switch desde {
	case EstadoPendiente:
		return hacia == EstadoConfirmado
	case EstadoConfirmado:
		return hacia == EstadoListo
	case EstadoListo:
		return hacia == EstadoCompletado
	}
	return false
}

// Columna buckets an estado into its dashboard column. Every valid estado
// maps to exactly one column.
func (e EstadoPedido) Columna() ColumnaTablero {
	switch e {
	case EstadoPendiente:
		return ColumnaPendientes
	case EstadoConfirmado, EstadoListo:
		return ColumnaCocina
	default:
		return ColumnaHistorial
	}
}

// OrigenEfectivo returns the pedido origin, falling back to the legacy
// sentinel convention for rows imported without an origen column.
func (p *Pedido) OrigenEfectivo() OrigenPedido {
	if p.Origen != "" {
		return p.Origen
	}
	if p.ClienteNombre == ClientePOS || p.Direccion == DireccionPOS {
		return OrigenPOS
	}
	return OrigenWeb
}
