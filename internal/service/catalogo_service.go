package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"chichapos/internal/dto"
	"chichapos/internal/model"
	"chichapos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const menuCacheKey = "cache:menu"

type CatalogoService interface {
	// Categorías
	CrearCategoria(ctx context.Context, req dto.CrearCategoriaRequest) (*dto.CategoriaResponse, error)
	ListarCategorias(ctx context.Context) ([]dto.CategoriaResponse, error)
	ActualizarCategoria(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (*dto.CategoriaResponse, error)
	EliminarCategoria(ctx context.Context, id uuid.UUID) error

	// Productos
	CrearProducto(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerProducto(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	ListarProductos(ctx context.Context) ([]dto.ProductoResponse, error)
	ActualizarProducto(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	EliminarProducto(ctx context.Context, id uuid.UUID) error

	// Menú público
	Menu(ctx context.Context) (*dto.MenuResponse, error)
}

type catalogoService struct {
	categorias repository.CategoriaRepository
	productos  repository.ProductoRepository
	rdb        *redis.Client
	cacheTTL   time.Duration
}

func NewCatalogoService(categorias repository.CategoriaRepository, productos repository.ProductoRepository, rdb *redis.Client, cacheTTL time.Duration) CatalogoService {
	return &catalogoService{categorias: categorias, productos: productos, rdb: rdb, cacheTTL: cacheTTL}
}

// ── Categorías ───────────────────────────────────────────────────────────────

func (s *catalogoService) CrearCategoria(ctx context.Context, req dto.CrearCategoriaRequest) (*dto.CategoriaResponse, error) {
	if existente, _ := s.categorias.ObtenerPorNombre(ctx, req.Nombre); existente != nil {
		return nil, fmt.Errorf("ya existe una categoría %q", req.Nombre)
	}
	c := &model.Categoria{Nombre: req.Nombre, Icono: req.Icono, Orden: req.Orden}
	if err := s.categorias.Crear(ctx, c); err != nil {
		return nil, err
	}
	s.invalidarMenu(ctx)
	return categoriaToResponse(c), nil
}

func (s *catalogoService) ListarCategorias(ctx context.Context) ([]dto.CategoriaResponse, error) {
	categorias, err := s.categorias.Listar(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoriaResponse, 0, len(categorias))
	for i := range categorias {
		out = append(out, *categoriaToResponse(&categorias[i]))
	}
	return out, nil
}

func (s *catalogoService) ActualizarCategoria(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (*dto.CategoriaResponse, error) {
	c, err := s.categorias.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, errors.New("categoría no encontrada")
	}
	if req.Nombre != nil {
		c.Nombre = *req.Nombre
	}
	if req.Icono != nil {
		c.Icono = *req.Icono
	}
	if req.Orden != nil {
		c.Orden = *req.Orden
	}
	if err := s.categorias.Actualizar(ctx, c); err != nil {
		return nil, err
	}
	s.invalidarMenu(ctx)
	return categoriaToResponse(c), nil
}

// EliminarCategoria removes only the categoría. Its productos keep their
// dangling CategoriaID and surface under "sin categoría" in the menu.
func (s *catalogoService) EliminarCategoria(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categorias.ObtenerPorID(ctx, id); err != nil {
		return errors.New("categoría no encontrada")
	}
	if err := s.categorias.Eliminar(ctx, id); err != nil {
		return err
	}
	s.invalidarMenu(ctx)
	return nil
}

// ── Productos ────────────────────────────────────────────────────────────────

func (s *catalogoService) CrearProducto(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	categoriaID, err := s.resolverCategoria(ctx, req.CategoriaID)
	if err != nil {
		return nil, err
	}

	p := &model.Producto{
		CategoriaID: categoriaID,
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Precio:      req.Precio,
		ImagenURL:   req.ImagenURL,
		EsPopular:   req.EsPopular,
		EsCombo:     req.EsCombo,
	}
	for _, v := range req.Variantes {
		p.Variantes = append(p.Variantes, model.Variante{Nombre: v.Nombre, Precio: v.Precio})
	}
	if err := s.productos.Crear(ctx, p); err != nil {
		return nil, err
	}
	s.invalidarMenu(ctx)
	return productoToResponse(p), nil
}

func (s *catalogoService) ObtenerProducto(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.productos.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	return productoToResponse(p), nil
}

func (s *catalogoService) ListarProductos(ctx context.Context) ([]dto.ProductoResponse, error) {
	productos, err := s.productos.Listar(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		out = append(out, *productoToResponse(&productos[i]))
	}
	return out, nil
}

func (s *catalogoService) ActualizarProducto(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.productos.ObtenerPorID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}

	if req.CategoriaID != nil {
		categoriaID, err := s.resolverCategoria(ctx, req.CategoriaID)
		if err != nil {
			return nil, err
		}
		p.CategoriaID = categoriaID
	}
	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		p.Descripcion = *req.Descripcion
	}
	if req.Precio != nil {
		p.Precio = *req.Precio
	}
	if req.ImagenURL != nil {
		p.ImagenURL = *req.ImagenURL
	}
	if req.EsPopular != nil {
		p.EsPopular = *req.EsPopular
	}
	if req.EsCombo != nil {
		p.EsCombo = *req.EsCombo
	}

	if err := s.productos.Actualizar(ctx, p); err != nil {
		return nil, err
	}
	if req.Variantes != nil {
		variantes := make([]model.Variante, 0, len(req.Variantes))
		for _, v := range req.Variantes {
			variantes = append(variantes, model.Variante{Nombre: v.Nombre, Precio: v.Precio})
		}
		if err := s.productos.ReemplazarVariantes(ctx, id, variantes); err != nil {
			return nil, err
		}
		p, err = s.productos.ObtenerPorID(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	s.invalidarMenu(ctx)
	return productoToResponse(p), nil
}

// EliminarProducto hard-deletes the producto and its variantes. Pedido
// history is untouched because items hold snapshots, not references.
func (s *catalogoService) EliminarProducto(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productos.ObtenerPorID(ctx, id); err != nil {
		return errors.New("producto no encontrado")
	}
	if err := s.productos.Eliminar(ctx, id); err != nil {
		return err
	}
	s.invalidarMenu(ctx)
	return nil
}

func (s *catalogoService) resolverCategoria(ctx context.Context, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, fmt.Errorf("categoria_id inválido: %w", err)
	}
	if _, err := s.categorias.ObtenerPorID(ctx, id); err != nil {
		return nil, errors.New("categoría no encontrada")
	}
	return &id, nil
}

// ── Menú público ─────────────────────────────────────────────────────────────

// Menu assembles the storefront payload: categorías in orden with their
// productos, plus an extra bucket for productos whose categoría was deleted.
// The assembled payload is cached in Redis; every catalog mutation
// invalidates it.
func (s *catalogoService) Menu(ctx context.Context) (*dto.MenuResponse, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, menuCacheKey).Result(); err == nil {
			var cached dto.MenuResponse
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	categorias, err := s.categorias.Listar(ctx)
	if err != nil {
		return nil, err
	}
	productos, err := s.productos.Listar(ctx)
	if err != nil {
		return nil, err
	}

	porCategoria := make(map[uuid.UUID][]dto.ProductoResponse)
	sinCategoria := []dto.ProductoResponse{}
	conocidas := make(map[uuid.UUID]bool, len(categorias))
	for i := range categorias {
		conocidas[categorias[i].ID] = true
	}
	for i := range productos {
		r := *productoToResponse(&productos[i])
		cid := productos[i].CategoriaID
		if cid != nil && conocidas[*cid] {
			porCategoria[*cid] = append(porCategoria[*cid], r)
		} else {
			sinCategoria = append(sinCategoria, r)
		}
	}

	menu := &dto.MenuResponse{Secciones: []dto.SeccionMenu{}, SinCategoria: sinCategoria}
	for i := range categorias {
		c := &categorias[i]
		menu.Secciones = append(menu.Secciones, dto.SeccionMenu{
			ID:        c.ID.String(),
			Nombre:    c.Nombre,
			Icono:     c.Icono,
			Productos: append([]dto.ProductoResponse{}, porCategoria[c.ID]...),
		})
	}

	if s.rdb != nil {
		if data, err := json.Marshal(menu); err == nil {
			if err := s.rdb.Set(ctx, menuCacheKey, data, s.cacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("menu: cache set falló")
			}
		}
	}
	return menu, nil
}

func (s *catalogoService) invalidarMenu(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, menuCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("menu: cache invalidation falló")
	}
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func categoriaToResponse(c *model.Categoria) *dto.CategoriaResponse {
	return &dto.CategoriaResponse{ID: c.ID, Nombre: c.Nombre, Icono: c.Icono, Orden: c.Orden}
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	variantes := make([]dto.VarianteResponse, 0, len(p.Variantes))
	for _, v := range p.Variantes {
		variantes = append(variantes, dto.VarianteResponse{ID: v.ID, Nombre: v.Nombre, Precio: v.Precio})
	}
	return &dto.ProductoResponse{
		ID:          p.ID,
		CategoriaID: p.CategoriaID,
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		Precio:      p.Precio,
		ImagenURL:   p.ImagenURL,
		EsPopular:   p.EsPopular,
		EsCombo:     p.EsCombo,
		Variantes:   variantes,
	}
}
