package tests

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"chichapos/internal/dto"
	"chichapos/internal/model"
	"chichapos/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, id string) uuid.UUID {
	t.Helper()
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	return parsed
}

// ── Stubs ─────────────────────────────────────────────────────────────────────
// In-memory repository implementations used by all service tests. They mirror
// the query semantics of the gorm repos closely enough for unit coverage.

// stubPedidoRepo is mutex-guarded so tests can race service calls against it,
// the same way concurrent requests race against postgres.
type stubPedidoRepo struct {
	mu      sync.Mutex
	pedidos map[uuid.UUID]*model.Pedido
	orden   []uuid.UUID // insertion order, stands in for created_at ASC
}

func newStubPedidoRepo() *stubPedidoRepo {
	return &stubPedidoRepo{pedidos: make(map[uuid.UUID]*model.Pedido)}
}

func (r *stubPedidoRepo) Crear(_ context.Context, p *model.Pedido) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	for i := range p.Items {
		if p.Items[i].ID == uuid.Nil {
			p.Items[i].ID = uuid.New()
		}
		p.Items[i].PedidoID = p.ID
	}
	r.pedidos[p.ID] = p
	r.orden = append(r.orden, p.ID)
	return nil
}

func (r *stubPedidoRepo) ObtenerPorID(_ context.Context, id uuid.UUID) (*model.Pedido, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pedidos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	// Hand out a clone so concurrent updates never mutate a row a caller is
	// still reading, same as rows scanned from postgres.
	clonado := *p
	return &clonado, nil
}

func (r *stubPedidoRepo) Listar(_ context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Pedido
	for _, id := range r.orden {
		p := r.pedidos[id]
		if filter.Fecha != "" && p.CreatedAt.Format("2006-01-02") != filter.Fecha {
			continue
		}
		if filter.Estado != "" && filter.Estado != "all" && string(p.Estado) != filter.Estado {
			continue
		}
		out = append(out, *p)
	}
	total := int64(len(out))
	start := (filter.Page - 1) * filter.Limit
	if start > len(out) {
		start = len(out)
	}
	end := start + filter.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (r *stubPedidoRepo) ListarTodos(_ context.Context) ([]model.Pedido, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Pedido, 0, len(r.orden))
	for _, id := range r.orden {
		out = append(out, *r.pedidos[id])
	}
	return out, nil
}

func (r *stubPedidoRepo) ListarEntre(_ context.Context, desde, hastaExcl time.Time) ([]model.Pedido, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Pedido
	for _, id := range r.orden {
		p := r.pedidos[id]
		if p.Estado == model.EstadoCancelado {
			continue
		}
		if p.CreatedAt.Before(desde) || !p.CreatedAt.Before(hastaExcl) {
			continue
		}
		out = append(out, *p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *stubPedidoRepo) ActualizarEstado(_ context.Context, id uuid.UUID, estado model.EstadoPedido) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pedidos[id]
	if !ok {
		return errors.New("not found")
	}
	p.Estado = estado
	return nil
}

func (r *stubPedidoRepo) ActualizarEstadoPago(_ context.Context, id uuid.UUID, estado model.EstadoPago) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pedidos[id]
	if !ok {
		return errors.New("not found")
	}
	p.EstadoPago = estado
	return nil
}

func (r *stubPedidoRepo) Eliminar(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pedidos[id]; !ok {
		return errors.New("not found")
	}
	delete(r.pedidos, id)
	for i, oid := range r.orden {
		if oid == id {
			r.orden = append(r.orden[:i], r.orden[i+1:]...)
			break
		}
	}
	return nil
}

var _ repository.PedidoRepository = (*stubPedidoRepo)(nil)

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) Crear(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.Variantes {
		if p.Variantes[i].ID == uuid.Nil {
			p.Variantes[i].ID = uuid.New()
		}
		p.Variantes[i].ProductoID = p.ID
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) ObtenerPorID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *stubProductoRepo) Listar(_ context.Context) ([]model.Producto, error) {
	out := make([]model.Producto, 0, len(r.productos))
	for _, p := range r.productos {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r *stubProductoRepo) Actualizar(_ context.Context, p *model.Producto) error {
	existente, ok := r.productos[p.ID]
	if !ok {
		return errors.New("not found")
	}
	variantes := existente.Variantes
	r.productos[p.ID] = p
	r.productos[p.ID].Variantes = variantes
	return nil
}

func (r *stubProductoRepo) ReemplazarVariantes(_ context.Context, productoID uuid.UUID, variantes []model.Variante) error {
	p, ok := r.productos[productoID]
	if !ok {
		return errors.New("not found")
	}
	for i := range variantes {
		if variantes[i].ID == uuid.Nil {
			variantes[i].ID = uuid.New()
		}
		variantes[i].ProductoID = productoID
	}
	p.Variantes = variantes
	return nil
}

func (r *stubProductoRepo) Eliminar(_ context.Context, id uuid.UUID) error {
	if _, ok := r.productos[id]; !ok {
		return errors.New("not found")
	}
	delete(r.productos, id)
	return nil
}

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

type stubCategoriaRepo struct {
	categorias map[uuid.UUID]*model.Categoria
}

func newStubCategoriaRepo() *stubCategoriaRepo {
	return &stubCategoriaRepo{categorias: make(map[uuid.UUID]*model.Categoria)}
}

func (r *stubCategoriaRepo) Crear(_ context.Context, c *model.Categoria) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.categorias[c.ID] = c
	return nil
}

func (r *stubCategoriaRepo) ObtenerPorID(_ context.Context, id uuid.UUID) (*model.Categoria, error) {
	c, ok := r.categorias[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (r *stubCategoriaRepo) ObtenerPorNombre(_ context.Context, nombre string) (*model.Categoria, error) {
	for _, c := range r.categorias {
		if c.Nombre == nombre {
			return c, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubCategoriaRepo) Listar(_ context.Context) ([]model.Categoria, error) {
	out := make([]model.Categoria, 0, len(r.categorias))
	for _, c := range r.categorias {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Orden != out[j].Orden {
			return out[i].Orden < out[j].Orden
		}
		return out[i].Nombre < out[j].Nombre
	})
	return out, nil
}

func (r *stubCategoriaRepo) Actualizar(_ context.Context, c *model.Categoria) error {
	if _, ok := r.categorias[c.ID]; !ok {
		return errors.New("not found")
	}
	r.categorias[c.ID] = c
	return nil
}

func (r *stubCategoriaRepo) Eliminar(_ context.Context, id uuid.UUID) error {
	if _, ok := r.categorias[id]; !ok {
		return errors.New("not found")
	}
	delete(r.categorias, id)
	return nil
}

var _ repository.CategoriaRepository = (*stubCategoriaRepo)(nil)

type stubConfigRepo struct {
	cfg *model.AppConfig
}

func newStubConfigRepo() *stubConfigRepo {
	return &stubConfigRepo{cfg: &model.AppConfig{ID: model.AppConfigID}}
}

func (r *stubConfigRepo) Obtener(_ context.Context) (*model.AppConfig, error) {
	return r.cfg, nil
}

func (r *stubConfigRepo) Patch(_ context.Context, campos map[string]interface{}) error {
	for k, v := range campos {
		switch k {
		case "logo_url":
			r.cfg.LogoURL = v.(string)
		case "whatsapp_number":
			r.cfg.WhatsappNumber = v.(string)
		case "yape_number":
			r.cfg.YapeNumber = v.(string)
		case "yape_name":
			r.cfg.YapeName = v.(string)
		case "plin_number":
			r.cfg.PlinNumber = v.(string)
		case "plin_name":
			r.cfg.PlinName = v.(string)
		case "facebook_url":
			r.cfg.FacebookURL = v.(string)
		case "instagram_url":
			r.cfg.InstagramURL = v.(string)
		case "tiktok_url":
			r.cfg.TiktokURL = v.(string)
		case "direccion":
			r.cfg.Direccion = v.(string)
		case "horario":
			r.cfg.Horario = v.(string)
		case "slide_urls":
			r.cfg.SlideURLs = v.(pq.StringArray)
		}
	}
	return nil
}

var _ repository.AppConfigRepository = (*stubConfigRepo)(nil)
