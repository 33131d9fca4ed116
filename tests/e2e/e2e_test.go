//go:build integration

package e2e

// e2e_test.go
// End-to-end integration tests for ChichaPOS using real Postgres + Redis via
// testcontainers. Run with: go test -tags integration ./tests/e2e/... -v
//
// These tests:
//   T-E2E-1: Storefront order cycle (menu → pedido → estado transitions → tablero)
//   T-E2E-2: Invalid transition rejected with 409
//   T-E2E-3: POS checkout registers a completed, paid venta
//   T-E2E-4: Reporte resumen aggregates the day's pedidos
//   T-E2E-5: Operator routes reject a bad token

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"chichapos/internal/config"
	"chichapos/internal/infra"
	"chichapos/internal/router"
	"chichapos/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

const adminToken = "e2e-token"

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("chichapos_test"),
		tcPostgres.WithUsername("chicha"),
		tcPostgres.WithPassword("chicha"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:              8000,
		Env:               "test",
		WorkerPoolSize:    1,
		DatabaseURL:       pgURL,
		RedisURL:          rdURL,
		AdminToken:        adminToken,
		TicketStoragePath: t.TempDir(),
		ExportStoragePath: t.TempDir(),
		MenuCacheTTL:      60,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	eventos := infra.NewEventBus(rdb)
	dispatcher := worker.NewDispatcher(rdb)
	smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())

	srv := httptest.NewServer(router.New(cfg, db, rdb, dispatcher, eventos, smtpCB))
	t.Cleanup(srv.Close)
	return srv
}

func crearProducto(t *testing.T, srv *httptest.Server, nombre string, precio float64) string {
	t.Helper()
	resp := do(t, srv, "POST", "/v1/productos",
		jsonBody(t, map[string]any{"nombre": nombre, "precio": precio}),
		adminToken,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &prod)
	return prod.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

// T-E2E-1: storefront order cycle.
func TestE2E_CicloDePedido(t *testing.T) {
	srv := setupTestServer(t)

	prodID := crearProducto(t, srv, "Ceviche Clásico", 35)

	// Menu is public
	menuResp := do(t, srv, "GET", "/v1/menu", nil, "")
	require.Equal(t, http.StatusOK, menuResp.StatusCode)
	menuResp.Body.Close()

	// Place a pedido from the storefront (no token)
	pedidoResp := do(t, srv, "POST", "/v1/pedidos",
		jsonBody(t, map[string]any{
			"cliente_nombre": "María Quispe",
			"tipo_entrega":   "delivery",
			"metodo_pago":    "yape",
			"direccion":      "Av. Grau 123",
			"items":          []map[string]any{{"producto_id": prodID, "cantidad": 2}},
		}),
		"",
	)
	require.Equal(t, http.StatusCreated, pedidoResp.StatusCode)
	var pedido struct {
		ID         string `json:"id"`
		Estado     string `json:"estado"`
		MontoTotal string `json:"monto_total"`
	}
	decodeJSON(t, pedidoResp, &pedido)
	assert.Equal(t, "pending", pedido.Estado)
	assert.Equal(t, "70", pedido.MontoTotal)

	// Walk the lifecycle
	for _, estado := range []string{"confirmed", "ready", "completed"} {
		resp := do(t, srv, "PATCH", "/v1/pedidos/"+pedido.ID+"/estado",
			jsonBody(t, map[string]string{"estado": estado}), adminToken)
		require.Equal(t, http.StatusNoContent, resp.StatusCode, estado)
		resp.Body.Close()
	}

	// Completed pedidos land in historial
	tableroResp := do(t, srv, "GET", "/v1/pedidos/tablero", nil, adminToken)
	require.Equal(t, http.StatusOK, tableroResp.StatusCode)
	var tablero struct {
		Pendientes []any `json:"pendientes"`
		Cocina     []any `json:"cocina"`
		Historial  []any `json:"historial"`
	}
	decodeJSON(t, tableroResp, &tablero)
	assert.Empty(t, tablero.Pendientes)
	assert.Empty(t, tablero.Cocina)
	assert.Len(t, tablero.Historial, 1)
}

// T-E2E-2: invalid transition.
func TestE2E_TransicionInvalida(t *testing.T) {
	srv := setupTestServer(t)
	prodID := crearProducto(t, srv, "Chicha Morada", 15)

	pedidoResp := do(t, srv, "POST", "/v1/pedidos",
		jsonBody(t, map[string]any{
			"cliente_nombre": "Luis",
			"tipo_entrega":   "pickup",
			"metodo_pago":    "efectivo",
			"items":          []map[string]any{{"producto_id": prodID, "cantidad": 1}},
		}),
		"",
	)
	require.Equal(t, http.StatusCreated, pedidoResp.StatusCode)
	var pedido struct {
		ID string `json:"id"`
	}
	decodeJSON(t, pedidoResp, &pedido)

	// pending → completed skips the chain
	resp := do(t, srv, "PATCH", "/v1/pedidos/"+pedido.ID+"/estado",
		jsonBody(t, map[string]string{"estado": "completed"}), adminToken)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

// T-E2E-3: POS checkout.
func TestE2E_CheckoutPos(t *testing.T) {
	srv := setupTestServer(t)
	prodID := crearProducto(t, srv, "Lomo Saltado", 28)

	sesResp := do(t, srv, "POST", "/v1/pos/sesiones", nil, adminToken)
	require.Equal(t, http.StatusCreated, sesResp.StatusCode)
	var ses struct {
		SesionID string `json:"sesion_id"`
	}
	decodeJSON(t, sesResp, &ses)

	itemResp := do(t, srv, "POST", "/v1/pos/sesiones/"+ses.SesionID+"/items",
		jsonBody(t, map[string]string{"producto_id": prodID}), adminToken)
	require.Equal(t, http.StatusOK, itemResp.StatusCode)
	itemResp.Body.Close()

	checkoutResp := do(t, srv, "POST", "/v1/pos/sesiones/"+ses.SesionID+"/checkout",
		jsonBody(t, map[string]string{"metodo_pago": "efectivo"}), adminToken)
	require.Equal(t, http.StatusCreated, checkoutResp.StatusCode)
	var ticket struct {
		Pedido struct {
			ClienteNombre string `json:"cliente_nombre"`
			Estado        string `json:"estado"`
			EstadoPago    string `json:"estado_pago"`
			Origen        string `json:"origen"`
		} `json:"pedido"`
		PDFPath string `json:"pdf_path"`
	}
	decodeJSON(t, checkoutResp, &ticket)
	assert.Equal(t, "Venta Directa Local", ticket.Pedido.ClienteNombre)
	assert.Equal(t, "completed", ticket.Pedido.Estado)
	assert.Equal(t, "paid", ticket.Pedido.EstadoPago)
	assert.Equal(t, "pos", ticket.Pedido.Origen)
	assert.NotEmpty(t, ticket.PDFPath)
}

// T-E2E-4: reporting aggregates.
func TestE2E_ReporteResumen(t *testing.T) {
	srv := setupTestServer(t)
	prodID := crearProducto(t, srv, "Arroz con Mariscos", 30)

	for i := 0; i < 2; i++ {
		resp := do(t, srv, "POST", "/v1/pedidos",
			jsonBody(t, map[string]any{
				"cliente_nombre": "Cliente",
				"tipo_entrega":   "pickup",
				"metodo_pago":    "yape",
				"items":          []map[string]any{{"producto_id": prodID, "cantidad": 1}},
			}),
			"",
		)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resResp := do(t, srv, "GET", "/v1/reportes/resumen/hoy", nil, adminToken)
	require.Equal(t, http.StatusOK, resResp.StatusCode)
	var rep struct {
		CantidadPedidos int    `json:"cantidad_pedidos"`
		VentasTotales   string `json:"ventas_totales"`
	}
	decodeJSON(t, resResp, &rep)
	assert.Equal(t, 2, rep.CantidadPedidos)
	assert.Equal(t, "60", rep.VentasTotales)
}

func TestE2E_Health(t *testing.T) {
	srv := setupTestServer(t)

	resp := do(t, srv, "GET", "/health", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var salud struct {
		OK     bool   `json:"ok"`
		DB     string `json:"db"`
		Redis  string `json:"redis"`
		SmtpCB string `json:"smtp_cb"`
	}
	decodeJSON(t, resp, &salud)
	assert.True(t, salud.OK)
	assert.Equal(t, "connected", salud.DB)
	assert.Equal(t, "connected", salud.Redis)
	assert.Equal(t, "closed", salud.SmtpCB)
}

// T-E2E-5: bad token.
func TestE2E_TokenInvalido(t *testing.T) {
	srv := setupTestServer(t)

	resp := do(t, srv, "GET", "/v1/pedidos/tablero", nil, "token-falso")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, srv, "GET", "/v1/pedidos/tablero", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
