package tests

import (
	"context"
	"sync"
	"testing"
	"time"

	"chichapos/internal/dto"
	"chichapos/internal/model"
	"chichapos/internal/service"
	"chichapos/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func setupPedidoService(t *testing.T) (service.PedidoService, *stubPedidoRepo, *stubProductoRepo) {
	t.Helper()
	pedidoRepo := newStubPedidoRepo()
	productoRepo := newStubProductoRepo()
	svc := service.NewPedidoService(pedidoRepo, productoRepo, newStubConfigRepo(), nil, nil)
	return svc, pedidoRepo, productoRepo
}

func crearCeviche(t *testing.T, productos *stubProductoRepo) *model.Producto {
	t.Helper()
	p := &model.Producto{
		Nombre: "Ceviche Clásico",
		Precio: decimal.NewFromInt(35),
		Variantes: []model.Variante{
			{Nombre: "Fuente", Precio: decimal.NewFromInt(45)},
		},
	}
	require.NoError(t, productos.Crear(context.Background(), p))
	return p
}

func crearChicha(t *testing.T, productos *stubProductoRepo) *model.Producto {
	t.Helper()
	p := &model.Producto{Nombre: "Chicha Morada 1L", Precio: decimal.NewFromInt(15)}
	require.NoError(t, productos.Crear(context.Background(), p))
	return p
}

func TestCrearPedidoCalculaTotalDesdeCatalogo(t *testing.T) {
	svc, _, productos := setupPedidoService(t)
	ceviche := crearCeviche(t, productos)
	chicha := crearChicha(t, productos)

	// 2× fuente (45) + 1× chicha (15) = 105
	resp, err := svc.Crear(context.Background(), dto.CrearPedidoRequest{
		ClienteNombre: "María Quispe",
		TipoEntrega:   model.EntregaDelivery,
		MetodoPago:    model.MetodoYape,
		Direccion:     "Av. Grau 123",
		Items: []dto.ItemPedidoRequest{
			{ProductoID: ceviche.ID.String(), VarianteID: ptr(ceviche.Variantes[0].ID.String()), Cantidad: 2},
			{ProductoID: chicha.ID.String(), Cantidad: 1},
		},
	})
	require.NoError(t, err)

	assert.True(t, resp.MontoTotal.Equal(decimal.NewFromInt(105)), "total = %s", resp.MontoTotal)
	assert.Equal(t, model.EstadoPendiente, resp.Estado)
	assert.Equal(t, model.PagoPendiente, resp.EstadoPago)
	assert.Equal(t, model.OrigenWeb, resp.Origen)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Fuente", *resp.Items[0].VarianteNombre)
	assert.True(t, resp.Items[0].Subtotal.Equal(decimal.NewFromInt(90)))

	// created_at serializes as RFC 3339 in UTC and denotes the real instant.
	creado, err := time.Parse(time.RFC3339, resp.CreatedAt)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, creado.Location())
	assert.WithinDuration(t, time.Now().UTC(), creado, time.Minute)
}

func TestCrearPedidoTotalInmuneACambiosDePrecio(t *testing.T) {
	svc, repo, productos := setupPedidoService(t)
	chicha := crearChicha(t, productos)

	resp, err := svc.Crear(context.Background(), dto.CrearPedidoRequest{
		ClienteNombre: "Luis",
		TipoEntrega:   model.EntregaRecojo,
		MetodoPago:    model.MetodoEfectivo,
		Items:         []dto.ItemPedidoRequest{{ProductoID: chicha.ID.String(), Cantidad: 2}},
	})
	require.NoError(t, err)

	// Price hike after the fact must not alter the stored pedido.
	chicha.Precio = decimal.NewFromInt(99)
	guardado, err := repo.ObtenerPorID(context.Background(), mustParse(t, resp.ID))
	require.NoError(t, err)
	assert.True(t, guardado.MontoTotal.Equal(decimal.NewFromInt(30)))
	assert.True(t, guardado.Items[0].Precio.Equal(decimal.NewFromInt(15)))
}

func TestCrearPedidoRechazaCarritoInvalido(t *testing.T) {
	svc, _, productos := setupPedidoService(t)
	chicha := crearChicha(t, productos)

	_, err := svc.Crear(context.Background(), dto.CrearPedidoRequest{
		ClienteNombre: "Ana",
		TipoEntrega:   model.EntregaRecojo,
		MetodoPago:    model.MetodoPlin,
		Items:         []dto.ItemPedidoRequest{},
	})
	assert.Error(t, err, "sin items")

	_, err = svc.Crear(context.Background(), dto.CrearPedidoRequest{
		ClienteNombre: "Ana",
		TipoEntrega:   model.EntregaRecojo,
		MetodoPago:    model.MetodoPlin,
		Items:         []dto.ItemPedidoRequest{{ProductoID: chicha.ID.String(), Cantidad: 0}},
	})
	assert.Error(t, err, "cantidad cero")
}

func TestCrearPedidoRecojoUsaDireccionSentinel(t *testing.T) {
	svc, _, productos := setupPedidoService(t)
	chicha := crearChicha(t, productos)

	resp, err := svc.Crear(context.Background(), dto.CrearPedidoRequest{
		ClienteNombre: "Rosa",
		TipoEntrega:   model.EntregaRecojo,
		MetodoPago:    model.MetodoYape,
		Direccion:     "esto se ignora",
		Items:         []dto.ItemPedidoRequest{{ProductoID: chicha.ID.String(), Cantidad: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, model.DireccionRecojo, resp.Direccion)

	_, err = svc.Crear(context.Background(), dto.CrearPedidoRequest{
		ClienteNombre: "Rosa",
		TipoEntrega:   model.EntregaDelivery,
		MetodoPago:    model.MetodoYape,
		Items:         []dto.ItemPedidoRequest{{ProductoID: chicha.ID.String(), Cantidad: 1}},
	})
	assert.Error(t, err, "delivery sin dirección")
}

// ── Ciclo de vida ────────────────────────────────────────────────────────────

func TestTransicionesDelCicloDeVida(t *testing.T) {
	casos := []struct {
		desde, hacia model.EstadoPedido
		ok           bool
	}{
		{model.EstadoPendiente, model.EstadoConfirmado, true},
		{model.EstadoConfirmado, model.EstadoListo, true},
		{model.EstadoListo, model.EstadoCompletado, true},
		{model.EstadoPendiente, model.EstadoCancelado, true},
		{model.EstadoConfirmado, model.EstadoCancelado, true},
		{model.EstadoListo, model.EstadoCancelado, true},
		{model.EstadoPendiente, model.EstadoListo, false},      // salto
		{model.EstadoPendiente, model.EstadoCompletado, false}, // salto
		{model.EstadoConfirmado, model.EstadoPendiente, false}, // retroceso
		{model.EstadoCompletado, model.EstadoCancelado, false}, // terminal
		{model.EstadoCancelado, model.EstadoPendiente, false},  // terminal
		{model.EstadoCompletado, model.EstadoCompletado, false},
	}
	for _, c := range casos {
		assert.Equal(t, c.ok, model.PuedeTransicionar(c.desde, c.hacia), "%s → %s", c.desde, c.hacia)
	}
}

func TestCambiarEstadoValidaTransicion(t *testing.T) {
	svc, repo, productos := setupPedidoService(t)
	chicha := crearChicha(t, productos)

	resp, err := svc.Crear(context.Background(), dto.CrearPedidoRequest{
		ClienteNombre: "Jorge",
		TipoEntrega:   model.EntregaRecojo,
		MetodoPago:    model.MetodoEfectivo,
		Items:         []dto.ItemPedidoRequest{{ProductoID: chicha.ID.String(), Cantidad: 1}},
	})
	require.NoError(t, err)
	id := mustParse(t, resp.ID)

	// pending → ready is a skip
	err = svc.CambiarEstado(context.Background(), id, model.EstadoListo)
	assert.ErrorIs(t, err, service.ErrTransicionInvalida)

	require.NoError(t, svc.CambiarEstado(context.Background(), id, model.EstadoConfirmado))
	require.NoError(t, svc.CambiarEstado(context.Background(), id, model.EstadoListo))
	require.NoError(t, svc.CambiarEstado(context.Background(), id, model.EstadoCompletado))

	// completed is terminal
	err = svc.CambiarEstado(context.Background(), id, model.EstadoCancelado)
	assert.ErrorIs(t, err, service.ErrTransicionInvalida)

	guardado, _ := repo.ObtenerPorID(context.Background(), id)
	assert.Equal(t, model.EstadoCompletado, guardado.Estado)
}

func TestCambiarEstadoConcurrenteUltimoGana(t *testing.T) {
	// Two operators race confirm vs cancel on the same pending pedido. The
	// column is last-write-wins: depending on interleaving both writes may
	// land, or the loser reads the winner's terminal estado and gets the
	// lifecycle rejection. Either way the pedido ends in a coherent estado
	// and never something outside the graph.
	svc, repo, productos := setupPedidoService(t)
	chicha := crearChicha(t, productos)

	resp, err := svc.Crear(context.Background(), dto.CrearPedidoRequest{
		ClienteNombre: "Rosa",
		TipoEntrega:   model.EntregaRecojo,
		MetodoPago:    model.MetodoPlin,
		Items:         []dto.ItemPedidoRequest{{ProductoID: chicha.ID.String(), Cantidad: 1}},
	})
	require.NoError(t, err)
	id := mustParse(t, resp.ID)

	var wg sync.WaitGroup
	var errConfirmar, errCancelar error
	wg.Add(2)
	go func() {
		defer wg.Done()
		errConfirmar = svc.CambiarEstado(context.Background(), id, model.EstadoConfirmado)
	}()
	go func() {
		defer wg.Done()
		errCancelar = svc.CambiarEstado(context.Background(), id, model.EstadoCancelado)
	}()
	wg.Wait()

	for _, err := range []error{errConfirmar, errCancelar} {
		if err != nil {
			assert.ErrorIs(t, err, service.ErrTransicionInvalida, "el único rechazo posible es el del ciclo de vida")
		}
	}
	assert.True(t, errConfirmar == nil || errCancelar == nil, "al menos un operador gana")

	guardado, err := repo.ObtenerPorID(context.Background(), id)
	require.NoError(t, err)
	assert.Contains(t, []model.EstadoPedido{model.EstadoConfirmado, model.EstadoCancelado}, guardado.Estado)
}

func TestCambiarEstadoCompletadoSobreviveColaCaida(t *testing.T) {
	// The customer notification is best-effort: with the job queue down the
	// transition to completed still lands and the call reports success.
	pedidoRepo := newStubPedidoRepo()
	productoRepo := newStubProductoRepo()
	caido := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = caido.Close() })
	svc := service.NewPedidoService(pedidoRepo, productoRepo, newStubConfigRepo(), worker.NewDispatcher(caido), nil)
	chicha := crearChicha(t, productoRepo)

	resp, err := svc.Crear(context.Background(), dto.CrearPedidoRequest{
		ClienteNombre: "Hugo",
		TipoEntrega:   model.EntregaRecojo,
		MetodoPago:    model.MetodoEfectivo,
		Items:         []dto.ItemPedidoRequest{{ProductoID: chicha.ID.String(), Cantidad: 1}},
	})
	require.NoError(t, err)
	id := mustParse(t, resp.ID)

	require.NoError(t, svc.CambiarEstado(context.Background(), id, model.EstadoConfirmado))
	require.NoError(t, svc.CambiarEstado(context.Background(), id, model.EstadoListo))
	require.NoError(t, svc.CambiarEstado(context.Background(), id, model.EstadoCompletado))

	guardado, err := pedidoRepo.ObtenerPorID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoCompletado, guardado.Estado)
}

func TestCambiarEstadoPagoIdempotente(t *testing.T) {
	svc, repo, productos := setupPedidoService(t)
	chicha := crearChicha(t, productos)

	resp, err := svc.Crear(context.Background(), dto.CrearPedidoRequest{
		ClienteNombre: "Pia",
		TipoEntrega:   model.EntregaRecojo,
		MetodoPago:    model.MetodoYape,
		Items:         []dto.ItemPedidoRequest{{ProductoID: chicha.ID.String(), Cantidad: 1}},
	})
	require.NoError(t, err)
	id := mustParse(t, resp.ID)

	require.NoError(t, svc.CambiarEstadoPago(context.Background(), id, model.PagoPagado))
	// Second paid mark is a silent no-op
	require.NoError(t, svc.CambiarEstadoPago(context.Background(), id, model.PagoPagado))
	// Reverting a confirmed payment is rejected
	assert.Error(t, svc.CambiarEstadoPago(context.Background(), id, model.PagoPendiente))

	guardado, _ := repo.ObtenerPorID(context.Background(), id)
	assert.Equal(t, model.PagoPagado, guardado.EstadoPago)
}

// ── Tablero ──────────────────────────────────────────────────────────────────

func TestColumnaCubreTodosLosEstados(t *testing.T) {
	assert.Equal(t, model.ColumnaPendientes, model.EstadoPendiente.Columna())
	assert.Equal(t, model.ColumnaCocina, model.EstadoConfirmado.Columna())
	assert.Equal(t, model.ColumnaCocina, model.EstadoListo.Columna())
	assert.Equal(t, model.ColumnaHistorial, model.EstadoCompletado.Columna())
	assert.Equal(t, model.ColumnaHistorial, model.EstadoCancelado.Columna())
}

func TestTableroAgrupaCadaPedidoEnUnaColumna(t *testing.T) {
	svc, repo, _ := setupPedidoService(t)

	estados := []model.EstadoPedido{
		model.EstadoPendiente, model.EstadoConfirmado, model.EstadoListo,
		model.EstadoCompletado, model.EstadoCancelado,
	}
	for _, e := range estados {
		require.NoError(t, repo.Crear(context.Background(), &model.Pedido{
			ClienteNombre: "Cliente " + string(e),
			TipoEntrega:   model.EntregaRecojo,
			MetodoPago:    model.MetodoEfectivo,
			Direccion:     model.DireccionRecojo,
			MontoTotal:    decimal.NewFromInt(10),
			Estado:        e,
		}))
	}

	tablero, err := svc.Tablero(context.Background())
	require.NoError(t, err)
	assert.Len(t, tablero.Pendientes, 1)
	assert.Len(t, tablero.Cocina, 2)
	assert.Len(t, tablero.Historial, 2)
	assert.Equal(t, 5, len(tablero.Pendientes)+len(tablero.Cocina)+len(tablero.Historial))
}

func TestOrigenEfectivoLegacy(t *testing.T) {
	// Rows written before the origen column rely on the POS sentinels.
	legacy := &model.Pedido{ClienteNombre: model.ClientePOS}
	assert.Equal(t, model.OrigenPOS, legacy.OrigenEfectivo())

	legacy = &model.Pedido{ClienteNombre: "María", Direccion: model.DireccionPOS}
	assert.Equal(t, model.OrigenPOS, legacy.OrigenEfectivo())

	web := &model.Pedido{ClienteNombre: "María", Direccion: "Av. Grau 123"}
	assert.Equal(t, model.OrigenWeb, web.OrigenEfectivo())

	marcado := &model.Pedido{ClienteNombre: model.ClientePOS, Origen: model.OrigenWeb}
	assert.Equal(t, model.OrigenWeb, marcado.OrigenEfectivo(), "explicit origen wins over sentinels")
}
