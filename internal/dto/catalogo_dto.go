package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ─── Categorías ──────────────────────────────────────────────────────────────

type CrearCategoriaRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2,max=100"`
	Icono  string `json:"icono"  validate:"max=100"`
	Orden  int    `json:"orden"  validate:"min=0"`
}

type ActualizarCategoriaRequest struct {
	Nombre *string `json:"nombre" validate:"omitempty,min=2,max=100"`
	Icono  *string `json:"icono"  validate:"omitempty,max=100"`
	Orden  *int    `json:"orden"  validate:"omitempty,min=0"`
}

type CategoriaResponse struct {
	ID     uuid.UUID `json:"id"`
	Nombre string    `json:"nombre"`
	Icono  string    `json:"icono,omitempty"`
	Orden  int       `json:"orden"`
}

// ─── Productos ───────────────────────────────────────────────────────────────

type VarianteRequest struct {
	Nombre string          `json:"nombre" validate:"required,min=1,max=100"`
	Precio decimal.Decimal `json:"precio" validate:"min=0"`
}

type CrearProductoRequest struct {
	CategoriaID *string           `json:"categoria_id" validate:"omitempty,uuid"`
	Nombre      string            `json:"nombre"       validate:"required,min=2,max=150"`
	Descripcion string            `json:"descripcion"  validate:"max=1000"`
	Precio      decimal.Decimal   `json:"precio"       validate:"min=0"`
	ImagenURL   string            `json:"imagen_url"   validate:"max=2000"`
	EsPopular   bool              `json:"es_popular"`
	EsCombo     bool              `json:"es_combo"`
	Variantes   []VarianteRequest `json:"variantes"    validate:"omitempty,dive"`
}

type ActualizarProductoRequest struct {
	CategoriaID *string         `json:"categoria_id" validate:"omitempty,uuid"`
	Nombre      *string         `json:"nombre"       validate:"omitempty,min=2,max=150"`
	Descripcion *string         `json:"descripcion"  validate:"omitempty,max=1000"`
	Precio      *decimal.Decimal `json:"precio"      validate:"omitempty,min=0"`
	ImagenURL   *string         `json:"imagen_url"   validate:"omitempty,max=2000"`
	EsPopular   *bool           `json:"es_popular"`
	EsCombo     *bool           `json:"es_combo"`
	// Variantes, when present, replaces the full set.
	Variantes []VarianteRequest `json:"variantes" validate:"omitempty,dive"`
}

type VarianteResponse struct {
	ID     uuid.UUID       `json:"id"`
	Nombre string          `json:"nombre"`
	Precio decimal.Decimal `json:"precio"`
}

type ProductoResponse struct {
	ID          uuid.UUID          `json:"id"`
	CategoriaID *uuid.UUID         `json:"categoria_id,omitempty"`
	Nombre      string             `json:"nombre"`
	Descripcion string             `json:"descripcion,omitempty"`
	Precio      decimal.Decimal    `json:"precio"`
	ImagenURL   string             `json:"imagen_url,omitempty"`
	EsPopular   bool               `json:"es_popular"`
	EsCombo     bool               `json:"es_combo"`
	Variantes   []VarianteResponse `json:"variantes"`
}

// ─── Menú público ────────────────────────────────────────────────────────────

// SeccionMenu is a categoría with its productos, in categoría orden.
type SeccionMenu struct {
	ID        string             `json:"id"`
	Nombre    string             `json:"nombre"`
	Icono     string             `json:"icono,omitempty"`
	Productos []ProductoResponse `json:"productos"`
}

// MenuResponse is the storefront payload. Productos whose categoría no
// longer exists are grouped under SinCategoria instead of being dropped.
type MenuResponse struct {
	Secciones    []SeccionMenu      `json:"secciones"`
	SinCategoria []ProductoResponse `json:"sin_categoria,omitempty"`
}
