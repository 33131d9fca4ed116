package handler

import (
	"io"
	"time"

	"chichapos/internal/infra"

	"github.com/gin-gonic/gin"
)

type EventosHandler struct{ bus *infra.EventBus }

func NewEventosHandler(bus *infra.EventBus) *EventosHandler { return &EventosHandler{bus: bus} }

// Stream godoc
// @Summary      Eventos en tiempo real (SSE)
// @Description  Flujo server-sent events de mutaciones de pedidos. El dashboard re-consulta el tablero al recibir cualquier evento.
// @Tags         eventos
// @Produce      text/event-stream
// @Security     BearerAuth
// @Router       /v1/eventos [get]
func (h *EventosHandler) Stream(c *gin.Context) {
	sub := h.bus.Suscribir(c.Request.Context())
	defer sub.Close()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	mensajes := sub.Channel()
	keepalive := time.NewTicker(25 * time.Second)
	defer keepalive.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-mensajes:
			if !ok {
				return false
			}
			c.SSEvent("pedido", msg.Payload)
			return true
		case <-keepalive.C:
			// Comment frame keeps proxies from dropping the idle stream.
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
