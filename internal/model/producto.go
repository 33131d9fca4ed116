package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a menu item. Variantes override the base price when selected
// at order time; the chosen name/price is snapshotted into the PedidoItem,
// so a producto may be edited or deleted without altering order history.
type Producto struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CategoriaID *uuid.UUID `gorm:"type:uuid;index"`
	Nombre      string     `gorm:"index;not null"`
	Descripcion string
	Precio      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ImagenURL   string
	EsPopular   bool `gorm:"not null;default:false"`
	EsCombo     bool `gorm:"not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Variantes []Variante `gorm:"foreignKey:ProductoID;constraint:OnDelete:CASCADE"`
}

// Variante is a named price override owned by its Producto (e.g. a size).
type Variante struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Nombre     string          `gorm:"not null"`
	Precio     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

func (Producto) TableName() string { return "productos" }
func (Variante) TableName() string { return "variantes" }
