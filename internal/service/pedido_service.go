package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chichapos/internal/dto"
	"chichapos/internal/infra"
	"chichapos/internal/model"
	"chichapos/internal/repository"
	"chichapos/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ErrTransicionInvalida is returned when a requested estado change violates
// the lifecycle graph (including any attempt to leave a terminal estado).
var ErrTransicionInvalida = errors.New("transición de estado no permitida")

type PedidoService interface {
	Crear(ctx context.Context, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error)
	Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error)
	Tablero(ctx context.Context) (*dto.TableroResponse, error)
	CambiarEstado(ctx context.Context, id uuid.UUID, nuevo model.EstadoPedido) error
	CambiarEstadoPago(ctx context.Context, id uuid.UUID, nuevo model.EstadoPago) error
	Eliminar(ctx context.Context, id uuid.UUID) error
	LinkWhatsapp(ctx context.Context, id uuid.UUID) (*dto.WhatsappLinkResponse, error)
}

type pedidoService struct {
	repo         repository.PedidoRepository
	productoRepo repository.ProductoRepository
	configRepo   repository.AppConfigRepository
	dispatcher   *worker.Dispatcher
	eventos      *infra.EventBus
}

func NewPedidoService(
	repo repository.PedidoRepository,
	productoRepo repository.ProductoRepository,
	configRepo repository.AppConfigRepository,
	dispatcher *worker.Dispatcher,
	eventos *infra.EventBus,
) PedidoService {
	return &pedidoService{
		repo:         repo,
		productoRepo: productoRepo,
		configRepo:   configRepo,
		dispatcher:   dispatcher,
		eventos:      eventos,
	}
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// Storefront order path. Prices are resolved server-side from the catalog and
// snapshotted into the items; MontoTotal is computed here once and never
// recomputed from live product prices. The pedido and its items are written
// in one transaction.

func (s *pedidoService) Crear(ctx context.Context, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error) {
	if len(req.Items) == 0 {
		return nil, errors.New("el pedido no tiene items")
	}

	direccion := req.Direccion
	if req.TipoEntrega == model.EntregaRecojo {
		direccion = model.DireccionRecojo
	} else if direccion == "" {
		return nil, errors.New("la dirección es obligatoria para delivery")
	}

	items, total, err := s.resolverItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	pedido := &model.Pedido{
		ClienteNombre:   req.ClienteNombre,
		ClienteTelefono: req.ClienteTelefono,
		TipoEntrega:     req.TipoEntrega,
		MetodoPago:      req.MetodoPago,
		EstadoPago:      model.PagoPendiente,
		Direccion:       direccion,
		MontoTotal:      total,
		Estado:          model.EstadoPendiente,
		Origen:          model.OrigenWeb,
		Items:           items,
	}

	if err := s.repo.Crear(ctx, pedido); err != nil {
		return nil, err
	}

	s.eventos.Publicar(ctx, "pedido.creado", pedido.ID.String())
	return pedidoToResponse(pedido), nil
}

// resolverItems turns request lines into immutable item snapshots, applying
// variant price overrides, and returns the computed total.
func (s *pedidoService) resolverItems(ctx context.Context, reqItems []dto.ItemPedidoRequest) ([]model.PedidoItem, decimal.Decimal, error) {
	items := make([]model.PedidoItem, 0, len(reqItems))
	total := decimal.Zero

	for _, item := range reqItems {
		if item.Cantidad < 1 {
			return nil, decimal.Zero, errors.New("la cantidad mínima por item es 1")
		}
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("producto_id inválido: %w", err)
		}
		p, err := s.productoRepo.ObtenerPorID(ctx, pid)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("producto %s no encontrado", item.ProductoID)
		}

		precio := p.Precio
		var varianteNombre *string
		if item.VarianteID != nil {
			vid, err := uuid.Parse(*item.VarianteID)
			if err != nil {
				return nil, decimal.Zero, fmt.Errorf("variante_id inválido: %w", err)
			}
			encontrada := false
			for _, v := range p.Variantes {
				if v.ID == vid {
					precio = v.Precio
					nombre := v.Nombre
					varianteNombre = &nombre
					encontrada = true
					break
				}
			}
			if !encontrada {
				return nil, decimal.Zero, fmt.Errorf("variante no pertenece al producto %s", p.Nombre)
			}
		}

		items = append(items, model.PedidoItem{
			ProductoNombre: p.Nombre,
			VarianteNombre: varianteNombre,
			Cantidad:       item.Cantidad,
			Precio:         precio,
		})
		total = total.Add(precio.Mul(decimal.NewFromInt(int64(item.Cantidad))))
	}
	return items, total, nil
}

// ── Lifecycle ─────────────────────────────────────────────────────────────────

// CambiarEstado validates the transition against the lifecycle graph before
// persisting. Transitions out of completed/cancelled are rejected. A
// transition into completed enqueues the customer notification job.
func (s *pedidoService) CambiarEstado(ctx context.Context, id uuid.UUID, nuevo model.EstadoPedido) error {
	pedido, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		return errors.New("pedido no encontrado")
	}

	if !model.PuedeTransicionar(pedido.Estado, nuevo) {
		return fmt.Errorf("%w: %s → %s", ErrTransicionInvalida, pedido.Estado, nuevo)
	}

	if err := s.repo.ActualizarEstado(ctx, id, nuevo); err != nil {
		return err
	}

	if nuevo == model.EstadoCompletado && s.dispatcher != nil {
		payload := worker.NotificacionJobPayload{PedidoID: id.String()}
		if err := s.dispatcher.EnqueueNotificacion(ctx, payload); err != nil {
			// Notification is best-effort; the estado change already landed
			// and the dashboard event below still fires.
			log.Warn().Err(err).Str("pedido_id", id.String()).Msg("pedido: enqueue notificación falló")
		}
	}

	s.eventos.Publicar(ctx, "pedido.estado", id.String())
	return nil
}

// CambiarEstadoPago flips the orthogonal payment flag. Marking an already
// paid pedido as paid is a no-op (idempotent, no duplicate side effects);
// reverting paid → pending is not exposed.
func (s *pedidoService) CambiarEstadoPago(ctx context.Context, id uuid.UUID, nuevo model.EstadoPago) error {
	pedido, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		return errors.New("pedido no encontrado")
	}

	if pedido.EstadoPago == nuevo {
		return nil
	}
	if pedido.EstadoPago == model.PagoPagado && nuevo == model.PagoPendiente {
		return errors.New("no se puede revertir un pago confirmado")
	}

	if err := s.repo.ActualizarEstadoPago(ctx, id, nuevo); err != nil {
		return err
	}

	s.eventos.Publicar(ctx, "pedido.pago", id.String())
	return nil
}

func (s *pedidoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.ObtenerPorID(ctx, id); err != nil {
		return errors.New("pedido no encontrado")
	}
	if err := s.repo.Eliminar(ctx, id); err != nil {
		return err
	}
	s.eventos.Publicar(ctx, "pedido.eliminado", id.String())
	return nil
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *pedidoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error) {
	pedido, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, errors.New("pedido no encontrado")
	}
	return pedidoToResponse(pedido), nil
}

func (s *pedidoService) Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	pedidos, total, err := s.repo.Listar(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.PedidoResponse, 0, len(pedidos))
	for i := range pedidos {
		data = append(data, *pedidoToResponse(&pedidos[i]))
	}
	return &dto.PedidoListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// Tablero buckets every pedido into exactly one of the three dashboard
// columns. The dashboard re-fetches this wholesale on every realtime event.
func (s *pedidoService) Tablero(ctx context.Context) (*dto.TableroResponse, error) {
	pedidos, err := s.repo.ListarTodos(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.TableroResponse{
		Pendientes: []dto.PedidoResponse{},
		Cocina:     []dto.PedidoResponse{},
		Historial:  []dto.PedidoResponse{},
	}
	for i := range pedidos {
		r := *pedidoToResponse(&pedidos[i])
		switch pedidos[i].Estado.Columna() {
		case model.ColumnaPendientes:
			resp.Pendientes = append(resp.Pendientes, r)
		case model.ColumnaCocina:
			resp.Cocina = append(resp.Cocina, r)
		default:
			resp.Historial = append(resp.Historial, r)
		}
	}
	return resp, nil
}

// LinkWhatsapp exposes the prefilled deep link for a pedido, using the
// restaurant's configured number. Delivery is the messaging app's business.
func (s *pedidoService) LinkWhatsapp(ctx context.Context, id uuid.UUID) (*dto.WhatsappLinkResponse, error) {
	pedido, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, errors.New("pedido no encontrado")
	}
	cfg, err := s.configRepo.Obtener(ctx)
	if err != nil {
		return nil, err
	}

	mensaje := infra.MensajePedido(pedido)
	return &dto.WhatsappLinkResponse{
		Link:    infra.LinkWhatsapp(cfg.WhatsappNumber, mensaje),
		Mensaje: mensaje,
	}, nil
}

// ── Mapping ───────────────────────────────────────────────────────────────────

func pedidoToResponse(p *model.Pedido) *dto.PedidoResponse {
	items := make([]dto.ItemPedidoResponse, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, dto.ItemPedidoResponse{
			ProductoNombre: item.ProductoNombre,
			VarianteNombre: item.VarianteNombre,
			Cantidad:       item.Cantidad,
			Precio:         item.Precio,
			Subtotal:       item.Precio.Mul(decimal.NewFromInt(int64(item.Cantidad))),
		})
	}
	return &dto.PedidoResponse{
		ID:              p.ID.String(),
		ClienteNombre:   p.ClienteNombre,
		ClienteTelefono: p.ClienteTelefono,
		TipoEntrega:     p.TipoEntrega,
		MetodoPago:      p.MetodoPago,
		EstadoPago:      p.EstadoPago,
		Direccion:       p.Direccion,
		MontoTotal:      p.MontoTotal,
		Estado:          p.Estado,
		Origen:          p.OrigenEfectivo(),
		Items:           items,
		CreatedAt:       p.CreatedAt.UTC().Format(time.RFC3339),
	}
}
