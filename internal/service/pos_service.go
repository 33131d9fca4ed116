package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"chichapos/internal/dto"
	"chichapos/internal/infra"
	"chichapos/internal/model"
	"chichapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var (
	ErrSesionNoEncontrada = errors.New("sesión POS no encontrada")
	ErrCarritoVacio       = errors.New("el carrito está vacío")
	// ErrCheckoutEnCurso rejects a second checkout while the first one is
	// still writing, so a double-tap can't register the venta twice.
	ErrCheckoutEnCurso = errors.New("checkout en curso para esta sesión")
)

type PosService interface {
	CrearSesion(ctx context.Context) *dto.SesionPosResponse
	Ver(ctx context.Context, sesionID string) (*dto.SesionPosResponse, error)
	AgregarItem(ctx context.Context, sesionID string, req dto.AgregarItemPosRequest) (*dto.SesionPosResponse, error)
	QuitarItem(ctx context.Context, sesionID string, req dto.AgregarItemPosRequest) (*dto.SesionPosResponse, error)
	Checkout(ctx context.Context, sesionID string, req dto.CheckoutPosRequest) (*dto.TicketResponse, error)
	CerrarSesion(ctx context.Context, sesionID string) error
}

// lineaPos is one cart line, keyed by producto+variante. Price and names are
// snapshotted when the line is first added, same as a persisted pedido item.
type lineaPos struct {
	productoID     uuid.UUID
	productoNombre string
	varianteNombre *string
	cantidad       int
	precio         decimal.Decimal
}

type sesionPos struct {
	id         string
	lineas     []lineaPos
	enCheckout bool
}

// posService keeps carts purely in memory. A venta only exists once checkout
// persists it as a pedido; a crashed server loses open carts and nothing else.
type posService struct {
	mu       sync.Mutex
	sesiones map[string]*sesionPos

	pedidoRepo   repository.PedidoRepository
	productoRepo repository.ProductoRepository
	eventos      *infra.EventBus
	ticketDir    string
}

func NewPosService(pedidoRepo repository.PedidoRepository, productoRepo repository.ProductoRepository, eventos *infra.EventBus, ticketDir string) PosService {
	return &posService{
		sesiones:     make(map[string]*sesionPos),
		pedidoRepo:   pedidoRepo,
		productoRepo: productoRepo,
		eventos:      eventos,
		ticketDir:    ticketDir,
	}
}

func (s *posService) CrearSesion(_ context.Context) *dto.SesionPosResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	ses := &sesionPos{id: uuid.NewString(), lineas: []lineaPos{}}
	s.sesiones[ses.id] = ses
	return sesionToResponse(ses)
}

func (s *posService) Ver(_ context.Context, sesionID string) (*dto.SesionPosResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ses, ok := s.sesiones[sesionID]
	if !ok {
		return nil, ErrSesionNoEncontrada
	}
	return sesionToResponse(ses), nil
}

// AgregarItem adds one unit of the producto (or variante) to the cart,
// incrementing the existing line when present.
func (s *posService) AgregarItem(ctx context.Context, sesionID string, req dto.AgregarItemPosRequest) (*dto.SesionPosResponse, error) {
	pid, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, fmt.Errorf("producto_id inválido: %w", err)
	}
	p, err := s.productoRepo.ObtenerPorID(ctx, pid)
	if err != nil {
		return nil, fmt.Errorf("producto %s no encontrado", req.ProductoID)
	}

	precio := p.Precio
	var varianteNombre *string
	if req.VarianteID != nil {
		vid, err := uuid.Parse(*req.VarianteID)
		if err != nil {
			return nil, fmt.Errorf("variante_id inválido: %w", err)
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
			return nil, fmt.Errorf("variante no pertenece al producto %s", p.Nombre)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ses, ok := s.sesiones[sesionID]
	if !ok {
		return nil, ErrSesionNoEncontrada
	}
	if ses.enCheckout {
		return nil, ErrCheckoutEnCurso
	}

	for i := range ses.lineas {
		if ses.lineas[i].productoID == pid && igualVariante(ses.lineas[i].varianteNombre, varianteNombre) {
			ses.lineas[i].cantidad++
			return sesionToResponse(ses), nil
		}
	}
	ses.lineas = append(ses.lineas, lineaPos{
		productoID:     pid,
		productoNombre: p.Nombre,
		varianteNombre: varianteNombre,
		cantidad:       1,
		precio:         precio,
	})
	return sesionToResponse(ses), nil
}

// QuitarItem removes one unit of the exact line (producto + variante); the
// line disappears when it reaches zero. Base and variant lines of the same
// producto are distinct lines and never substitute for each other.
func (s *posService) QuitarItem(ctx context.Context, sesionID string, req dto.AgregarItemPosRequest) (*dto.SesionPosResponse, error) {
	pid, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, fmt.Errorf("producto_id inválido: %w", err)
	}

	var varianteNombre *string
	if req.VarianteID != nil {
		vid, err := uuid.Parse(*req.VarianteID)
		if err != nil {
			return nil, fmt.Errorf("variante_id inválido: %w", err)
		}
		p, err := s.productoRepo.ObtenerPorID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("producto %s no encontrado", req.ProductoID)
		}
		for _, v := range p.Variantes {
			if v.ID == vid {
				nombre := v.Nombre
				varianteNombre = &nombre
				break
			}
		}
		if varianteNombre == nil {
			return nil, fmt.Errorf("variante no pertenece al producto %s", p.Nombre)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ses, ok := s.sesiones[sesionID]
	if !ok {
		return nil, ErrSesionNoEncontrada
	}
	if ses.enCheckout {
		return nil, ErrCheckoutEnCurso
	}

	for i := range ses.lineas {
		if ses.lineas[i].productoID != pid || !igualVariante(ses.lineas[i].varianteNombre, varianteNombre) {
			continue
		}
		ses.lineas[i].cantidad--
		if ses.lineas[i].cantidad <= 0 {
			ses.lineas = append(ses.lineas[:i], ses.lineas[i+1:]...)
		}
		return sesionToResponse(ses), nil
	}
	return nil, errors.New("el producto no está en el carrito")
}

// Checkout persists the cart as a completed, paid pedido with the in-person
// sentinels and generates the printable ticket. The cart is cleared only
// after the pedido lands; a failed write leaves it intact for retry.
func (s *posService) Checkout(ctx context.Context, sesionID string, req dto.CheckoutPosRequest) (*dto.TicketResponse, error) {
	s.mu.Lock()
	ses, ok := s.sesiones[sesionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSesionNoEncontrada
	}
	if ses.enCheckout {
		s.mu.Unlock()
		return nil, ErrCheckoutEnCurso
	}
	if len(ses.lineas) == 0 {
		s.mu.Unlock()
		return nil, ErrCarritoVacio
	}
	ses.enCheckout = true
	lineas := make([]lineaPos, len(ses.lineas))
	copy(lineas, ses.lineas)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		ses.enCheckout = false
		s.mu.Unlock()
	}()

	items := make([]model.PedidoItem, 0, len(lineas))
	total := decimal.Zero
	for _, l := range lineas {
		items = append(items, model.PedidoItem{
			ProductoNombre: l.productoNombre,
			VarianteNombre: l.varianteNombre,
			Cantidad:       l.cantidad,
			Precio:         l.precio,
		})
		total = total.Add(l.precio.Mul(decimal.NewFromInt(int64(l.cantidad))))
	}

	pedido := &model.Pedido{
		ClienteNombre: model.ClientePOS,
		TipoEntrega:   model.EntregaRecojo,
		MetodoPago:    req.MetodoPago,
		EstadoPago:    model.PagoPagado,
		Direccion:     model.DireccionPOS,
		MontoTotal:    total,
		Estado:        model.EstadoCompletado,
		Origen:        model.OrigenPOS,
		Items:         items,
	}
	if err := s.pedidoRepo.Crear(ctx, pedido); err != nil {
		return nil, err
	}

	s.mu.Lock()
	ses.lineas = []lineaPos{}
	s.mu.Unlock()

	s.eventos.Publicar(ctx, "pedido.creado", pedido.ID.String())

	resp := &dto.TicketResponse{Pedido: *pedidoToResponse(pedido)}
	path, err := infra.GenerarTicketPDF(pedido, s.ticketDir)
	if err != nil {
		// The venta is already registered; a printing hiccup must not roll
		// it back.
		log.Error().Err(err).Str("pedido_id", pedido.ID.String()).Msg("pos: ticket PDF falló")
		return resp, nil
	}
	resp.PDFPath = path
	return resp, nil
}

func (s *posService) CerrarSesion(_ context.Context, sesionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ses, ok := s.sesiones[sesionID]
	if !ok {
		return ErrSesionNoEncontrada
	}
	if ses.enCheckout {
		return ErrCheckoutEnCurso
	}
	delete(s.sesiones, sesionID)
	return nil
}

func igualVariante(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sesionToResponse(ses *sesionPos) *dto.SesionPosResponse {
	lineas := make([]dto.LineaPosResponse, 0, len(ses.lineas))
	total := decimal.Zero
	for _, l := range ses.lineas {
		subtotal := l.precio.Mul(decimal.NewFromInt(int64(l.cantidad)))
		lineas = append(lineas, dto.LineaPosResponse{
			ProductoID:     l.productoID.String(),
			ProductoNombre: l.productoNombre,
			VarianteNombre: l.varianteNombre,
			Cantidad:       l.cantidad,
			Precio:         l.precio,
			Subtotal:       subtotal,
		})
		total = total.Add(subtotal)
	}
	return &dto.SesionPosResponse{SesionID: ses.id, Lineas: lineas, Total: total}
}
