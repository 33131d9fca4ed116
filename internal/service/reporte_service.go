package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"chichapos/internal/dto"
	"chichapos/internal/infra"
	"chichapos/internal/model"
	"chichapos/internal/repository"
	"chichapos/internal/worker"

	"github.com/shopspring/decimal"
)

// ErrRangoInvalido is returned for unparseable dates or desde > hasta.
var ErrRangoInvalido = errors.New("rango de fechas inválido")

// RangoReporte names a quick date-range preset of the dashboard.
type RangoReporte string

const (
	RangoHoy      RangoReporte = "hoy"
	RangoAyer     RangoReporte = "ayer"
	RangoUltimos7 RangoReporte = "ultimos7"
	RangoMes      RangoReporte = "mes"
)

type ReporteService interface {
	Resumen(ctx context.Context, filter dto.ReporteFilter) (*dto.ResumenReporte, error)
	ResumenRango(ctx context.Context, rango RangoReporte) (*dto.ResumenReporte, error)
	Exportar(ctx context.Context, filter dto.ReporteFilter) (*dto.ExportReporte, error)
	EnviarPorEmail(ctx context.Context, req dto.EnviarReporteRequest) error
}

type reporteService struct {
	repo       repository.PedidoRepository
	dispatcher *worker.Dispatcher
	exportDir  string
	now        func() time.Time
}

func NewReporteService(repo repository.PedidoRepository, dispatcher *worker.Dispatcher, exportDir string) ReporteService {
	return &reporteService{repo: repo, dispatcher: dispatcher, exportDir: exportDir, now: time.Now}
}

// ── Date ranges ──────────────────────────────────────────────────────────────

// RangoFechas resolves a quick preset into [desde, hasta] day-granularity
// bounds relative to now, in now's location.
func RangoFechas(rango RangoReporte, now time.Time) (time.Time, time.Time, error) {
	medianoche := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch rango {
	case RangoHoy:
		return medianoche, now, nil
	case RangoAyer:
		// Yesterday closes 1ms before today's midnight.
		return medianoche.AddDate(0, 0, -1), medianoche.Add(-time.Millisecond), nil
	case RangoUltimos7:
		return medianoche.AddDate(0, 0, -7), now, nil
	case RangoMes:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), now, nil
	}
	return time.Time{}, time.Time{}, fmt.Errorf("%w: rango %q desconocido", ErrRangoInvalido, rango)
}

// parseFilter turns the day-granularity filter into [desde 00:00, día
// siguiente a hasta 00:00) half-open bounds.
func (s *reporteService) parseFilter(filter dto.ReporteFilter) (time.Time, time.Time, error) {
	loc := s.now().Location()
	desde, err := time.ParseInLocation("2006-01-02", filter.Desde, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: desde: %v", ErrRangoInvalido, err)
	}
	hasta, err := time.ParseInLocation("2006-01-02", filter.Hasta, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: hasta: %v", ErrRangoInvalido, err)
	}
	if hasta.Before(desde) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: desde > hasta", ErrRangoInvalido)
	}
	return desde, hasta.AddDate(0, 0, 1), nil
}

// ── Aggregation ──────────────────────────────────────────────────────────────

func (s *reporteService) Resumen(ctx context.Context, filter dto.ReporteFilter) (*dto.ResumenReporte, error) {
	desde, hastaExcl, err := s.parseFilter(filter)
	if err != nil {
		return nil, err
	}
	pedidos, err := s.repo.ListarEntre(ctx, desde, hastaExcl)
	if err != nil {
		return nil, err
	}
	rep := agregarPedidos(pedidos)
	rep.Desde = filter.Desde
	rep.Hasta = filter.Hasta
	return rep, nil
}

func (s *reporteService) ResumenRango(ctx context.Context, rango RangoReporte) (*dto.ResumenReporte, error) {
	desde, hasta, err := RangoFechas(rango, s.now())
	if err != nil {
		return nil, err
	}
	// Quick ranges carry time-of-day bounds; add a nanosecond so the closing
	// instant itself stays inside the half-open query window.
	pedidos, err := s.repo.ListarEntre(ctx, desde, hasta.Add(time.Nanosecond))
	if err != nil {
		return nil, err
	}
	rep := agregarPedidos(pedidos)
	rep.Desde = desde.Format("2006-01-02")
	rep.Hasta = hasta.Format("2006-01-02")
	return rep, nil
}

// agregarPedidos computes the full aggregate over an already-filtered,
// non-cancelled pedido set.
func agregarPedidos(pedidos []model.Pedido) *dto.ResumenReporte {
	rep := &dto.ResumenReporte{
		VentasTotales:   decimal.Zero,
		CantidadPedidos: len(pedidos),
		TicketPromedio:  decimal.Zero,
		TopProductos:    []dto.ProductoTop{},
		PorMetodoPago:   []dto.MetodoPagoResumen{},
		PorOrigen:       []dto.OrigenResumen{},
	}

	type acumulado struct {
		cantidad int
		total    decimal.Decimal
	}
	porProducto := map[string]*acumulado{}
	ordenProductos := []string{} // first-seen order, the tie-break for the ranking
	porMetodo := map[model.MetodoPago]*acumulado{}
	porOrigen := map[model.OrigenPedido]*acumulado{}

	for i := range pedidos {
		p := &pedidos[i]
		rep.VentasTotales = rep.VentasTotales.Add(p.MontoTotal)

		if m, ok := porMetodo[p.MetodoPago]; ok {
			m.cantidad++
			m.total = m.total.Add(p.MontoTotal)
		} else {
			porMetodo[p.MetodoPago] = &acumulado{cantidad: 1, total: p.MontoTotal}
		}

		origen := p.OrigenEfectivo()
		if o, ok := porOrigen[origen]; ok {
			o.cantidad++
			o.total = o.total.Add(p.MontoTotal)
		} else {
			porOrigen[origen] = &acumulado{cantidad: 1, total: p.MontoTotal}
		}

		for _, item := range p.Items {
			clave := item.ProductoNombre
			if item.VarianteNombre != nil {
				clave = clave + " (" + *item.VarianteNombre + ")"
			}
			subtotal := item.Precio.Mul(decimal.NewFromInt(int64(item.Cantidad)))
			if a, ok := porProducto[clave]; ok {
				a.cantidad += item.Cantidad
				a.total = a.total.Add(subtotal)
			} else {
				porProducto[clave] = &acumulado{cantidad: item.Cantidad, total: subtotal}
				ordenProductos = append(ordenProductos, clave)
			}
		}
	}

	if len(pedidos) > 0 {
		rep.TicketPromedio = rep.VentasTotales.DivRound(decimal.NewFromInt(int64(len(pedidos))), 2)
	}

	// Rank by units sold; equal counts keep first-seen order (stable sort
	// over the insertion-ordered slice).
	sort.SliceStable(ordenProductos, func(i, j int) bool {
		return porProducto[ordenProductos[i]].cantidad > porProducto[ordenProductos[j]].cantidad
	})
	for i, clave := range ordenProductos {
		if i == 10 {
			break
		}
		a := porProducto[clave]
		rep.TopProductos = append(rep.TopProductos, dto.ProductoTop{
			Producto: clave,
			Cantidad: a.cantidad,
			Total:    a.total,
		})
	}

	// Fixed presentation order; unknown methods are simply not listed.
	for _, metodo := range []model.MetodoPago{model.MetodoYape, model.MetodoPlin, model.MetodoEfectivo} {
		if a, ok := porMetodo[metodo]; ok {
			rep.PorMetodoPago = append(rep.PorMetodoPago, dto.MetodoPagoResumen{
				Metodo:  string(metodo),
				Pedidos: a.cantidad,
				Total:   a.total,
			})
		}
	}
	for _, origen := range []model.OrigenPedido{model.OrigenWeb, model.OrigenPOS} {
		if a, ok := porOrigen[origen]; ok {
			rep.PorOrigen = append(rep.PorOrigen, dto.OrigenResumen{
				Origen:  string(origen),
				Pedidos: a.cantidad,
				Total:   a.total,
			})
		}
	}
	return rep
}

// ── Export / mail ────────────────────────────────────────────────────────────

func (s *reporteService) Exportar(ctx context.Context, filter dto.ReporteFilter) (*dto.ExportReporte, error) {
	desde, hastaExcl, err := s.parseFilter(filter)
	if err != nil {
		return nil, err
	}
	pedidos, err := s.repo.ListarEntre(ctx, desde, hastaExcl)
	if err != nil {
		return nil, err
	}
	return exportarPedidos(pedidos), nil
}

// exportarPedidos flattens pedidos into the two spreadsheet row sets.
func exportarPedidos(pedidos []model.Pedido) *dto.ExportReporte {
	rep := &dto.ExportReporte{Pedidos: []dto.FilaPedido{}, Items: []dto.FilaItem{}}
	for i := range pedidos {
		p := &pedidos[i]
		corto := cortarID(p.ID.String())
		rep.Pedidos = append(rep.Pedidos, dto.FilaPedido{
			ID:         corto,
			Fecha:      p.CreatedAt.Format("2006-01-02 15:04"),
			Cliente:    p.ClienteNombre,
			Tipo:       string(p.TipoEntrega),
			MetodoPago: string(p.MetodoPago),
			Estado:     string(p.Estado),
			EstadoPago: string(p.EstadoPago),
			Total:      p.MontoTotal,
		})
		for _, item := range p.Items {
			producto := item.ProductoNombre
			if item.VarianteNombre != nil {
				producto = producto + " (" + *item.VarianteNombre + ")"
			}
			rep.Items = append(rep.Items, dto.FilaItem{
				PedidoID:       corto,
				Producto:       producto,
				Cantidad:       item.Cantidad,
				PrecioUnitario: item.Precio,
				Subtotal:       item.Precio.Mul(decimal.NewFromInt(int64(item.Cantidad))),
			})
		}
	}
	return rep
}

func cortarID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// EnviarPorEmail writes both CSV sheets to disk and enqueues the mail job;
// the SMTP conversation happens in the worker pool behind the circuit
// breaker, never on the request path.
func (s *reporteService) EnviarPorEmail(ctx context.Context, req dto.EnviarReporteRequest) error {
	rep, err := s.Exportar(ctx, dto.ReporteFilter{Desde: req.Desde, Hasta: req.Hasta})
	if err != nil {
		return err
	}
	pedidosPath, itemsPath, err := infra.EscribirReporteCSV(s.exportDir, rep)
	if err != nil {
		return err
	}

	payload := worker.EmailJobPayload{
		ToEmail:  req.Destinatario,
		Subject:  fmt.Sprintf("Reporte de ventas %s a %s", req.Desde, req.Hasta),
		Body:     fmt.Sprintf("Adjunto el reporte de ventas del %s al %s.\n\nPedidos: %d\nVentas: S/ %s", req.Desde, req.Hasta, len(rep.Pedidos), totalExport(rep).StringFixed(2)),
		Adjuntos: []string{pedidosPath, itemsPath},
	}
	return s.dispatcher.EnqueueEmail(ctx, payload)
}

func totalExport(rep *dto.ExportReporte) decimal.Decimal {
	total := decimal.Zero
	for _, f := range rep.Pedidos {
		total = total.Add(f.Total)
	}
	return total
}
