package infra

// eventos.go — realtime change notifications for the dashboard.
// Every pedido mutation publishes onto a single Redis pub/sub channel;
// subscribed dashboards treat any event as a signal to re-fetch the full
// pedido list (a deliberate full-refresh model, not an incremental patch).

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const CanalPedidos = "pedidos:eventos"

// Evento is the payload published on CanalPedidos.
type Evento struct {
	Tipo     string    `json:"tipo"` // pedido.creado | pedido.estado | pedido.pago | pedido.eliminado | pedido.notificacion
	PedidoID string    `json:"pedido_id"`
	Dato     string    `json:"dato,omitempty"`
	Fecha    time.Time `json:"fecha"`
}

// EventBus wraps the Redis pub/sub channel. A nil *EventBus is valid and
// publishes nothing, so services can be unit-tested without Redis.
type EventBus struct {
	rdb *redis.Client
}

func NewEventBus(rdb *redis.Client) *EventBus {
	return &EventBus{rdb: rdb}
}

// Publicar emits an event; failures are logged and swallowed — realtime is
// best-effort, the dashboard can always re-fetch manually.
func (b *EventBus) Publicar(ctx context.Context, tipo, pedidoID string) {
	b.PublicarDato(ctx, tipo, pedidoID, "")
}

func (b *EventBus) PublicarDato(ctx context.Context, tipo, pedidoID, dato string) {
	if b == nil || b.rdb == nil {
		return
	}
	ev := Evento{Tipo: tipo, PedidoID: pedidoID, Dato: dato, Fecha: time.Now().UTC()}
	data, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Msg("eventos: marshal")
		return
	}
	if err := b.rdb.Publish(ctx, CanalPedidos, data).Err(); err != nil {
		log.Warn().Err(err).Str("tipo", tipo).Msg("eventos: publish failed")
	}
}

// Suscribir opens a pub/sub subscription on the pedido channel. The caller
// owns the returned subscription and must Close it.
func (b *EventBus) Suscribir(ctx context.Context) *redis.PubSub {
	return b.rdb.Subscribe(ctx, CanalPedidos)
}
