package model

import (
	"time"

	"github.com/google/uuid"
)

// Categoria classifies productos on the storefront menu. Productos keep a
// plain reference (no ownership): deleting a categoria leaves its productos
// orphaned, and readers group those under "sin categoría" rather than fail.
type Categoria struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	Icono     string
	Orden     int `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default singular → plural logic for Spanish names.
func (Categoria) TableName() string { return "categorias" }
