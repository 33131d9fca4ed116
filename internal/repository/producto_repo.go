package repository

import (
	"context"

	"chichapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductoRepository interface {
	Crear(ctx context.Context, p *model.Producto) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	Listar(ctx context.Context) ([]model.Producto, error)
	Actualizar(ctx context.Context, p *model.Producto) error
	// ReemplazarVariantes swaps the full variant set of a producto.
	ReemplazarVariantes(ctx context.Context, productoID uuid.UUID, variantes []model.Variante) error
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Crear(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Preload("Variantes").First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) Listar(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).Preload("Variantes").Order("nombre ASC").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Actualizar(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Omit("Variantes").Save(p).Error
}

func (r *productoRepo) ReemplazarVariantes(ctx context.Context, productoID uuid.UUID, variantes []model.Variante) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("producto_id = ?", productoID).Delete(&model.Variante{}).Error; err != nil {
			return err
		}
		if len(variantes) == 0 {
			return nil
		}
		for i := range variantes {
			variantes[i].ProductoID = productoID
		}
		return tx.Create(&variantes).Error
	})
}

func (r *productoRepo) Eliminar(ctx context.Context, id uuid.UUID) error {
	// Hard delete — historical pedidos are unaffected because items hold
	// denormalized snapshots, never foreign keys into productos.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("producto_id = ?", id).Delete(&model.Variante{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Producto{}, "id = ?", id).Error
	})
}
