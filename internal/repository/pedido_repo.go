package repository

import (
	"context"
	"time"

	"chichapos/internal/dto"
	"chichapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PedidoRepository interface {
	// Crear persists the pedido and its items in a single transaction —
	// either the whole order lands or nothing does.
	Crear(ctx context.Context, p *model.Pedido) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	Listar(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error)
	ListarTodos(ctx context.Context) ([]model.Pedido, error)
	// ListarEntre returns non-cancelled pedidos with created_at in
	// [desde, hastaExcl). Cancelled pedidos never enter reporting.
	ListarEntre(ctx context.Context, desde, hastaExcl time.Time) ([]model.Pedido, error)
	ActualizarEstado(ctx context.Context, id uuid.UUID, estado model.EstadoPedido) error
	ActualizarEstadoPago(ctx context.Context, id uuid.UUID, estado model.EstadoPago) error
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) Crear(ctx context.Context, p *model.Pedido) error {
	// gorm writes the pedido row and its association rows inside one
	// implicit transaction.
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *pedidoRepo) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).Preload("Items").First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pedidoRepo) Listar(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error) {
	var pedidos []model.Pedido
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Pedido{})

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Fecha != "" {
		q = q.Where("DATE(created_at) = ?", filter.Fecha)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&pedidos).Error

	return pedidos, total, err
}

func (r *pedidoRepo) ListarTodos(ctx context.Context) ([]model.Pedido, error) {
	var pedidos []model.Pedido
	err := r.db.WithContext(ctx).Preload("Items").
		Order("created_at DESC").
		Find(&pedidos).Error
	return pedidos, err
}

func (r *pedidoRepo) ListarEntre(ctx context.Context, desde, hastaExcl time.Time) ([]model.Pedido, error) {
	var pedidos []model.Pedido
	err := r.db.WithContext(ctx).Preload("Items").
		Where("created_at >= ? AND created_at < ?", desde, hastaExcl).
		Where("estado <> ?", model.EstadoCancelado).
		Order("created_at ASC").
		Find(&pedidos).Error
	return pedidos, err
}

func (r *pedidoRepo) ActualizarEstado(ctx context.Context, id uuid.UUID, estado model.EstadoPedido) error {
	return r.db.WithContext(ctx).Model(&model.Pedido{}).
		Where("id = ?", id).Update("estado", estado).Error
}

func (r *pedidoRepo) ActualizarEstadoPago(ctx context.Context, id uuid.UUID, estado model.EstadoPago) error {
	return r.db.WithContext(ctx).Model(&model.Pedido{}).
		Where("id = ?", id).Update("estado_pago", estado).Error
}

func (r *pedidoRepo) Eliminar(ctx context.Context, id uuid.UUID) error {
	// Items are owned by the pedido — cascade delete both in one transaction.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pedido_id = ?", id).Delete(&model.PedidoItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Pedido{}, "id = ?", id).Error
	})
}
