package worker

// notificacion_worker.go
// Processes customer-notification jobs enqueued when a pedido transitions to
// completed. Builds the prefilled WhatsApp deep link and publishes it on the
// event bus; the dashboard presents the link for the operator to open —
// delivery itself stays outside the core.

import (
	"context"
	"encoding/json"
	"fmt"

	"chichapos/internal/infra"
	"chichapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NotificacionJobPayload is the job envelope sent to QueueNotificacion.
type NotificacionJobPayload struct {
	PedidoID string `json:"pedido_id"`
}

type NotificacionWorker struct {
	pedidos repository.PedidoRepository
	eventos *infra.EventBus
}

func NewNotificacionWorker(pedidos repository.PedidoRepository, eventos *infra.EventBus) *NotificacionWorker {
	return &NotificacionWorker{pedidos: pedidos, eventos: eventos}
}

// Process builds the WhatsApp link for the completed pedido.
func (w *NotificacionWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload NotificacionJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("notificacion: invalid payload: %w", err)
	}

	id, err := uuid.Parse(payload.PedidoID)
	if err != nil {
		return fmt.Errorf("notificacion: pedido_id inválido: %w", err)
	}

	pedido, err := w.pedidos.ObtenerPorID(ctx, id)
	if err != nil {
		return fmt.Errorf("notificacion: pedido %s no encontrado: %w", payload.PedidoID, err)
	}
	if pedido.ClienteTelefono == nil || *pedido.ClienteTelefono == "" {
		log.Debug().Str("pedido_id", payload.PedidoID).Msg("notificacion: pedido sin teléfono — skipping")
		return nil
	}

	mensaje := infra.MensajePedido(pedido)
	link := infra.LinkWhatsapp(*pedido.ClienteTelefono, mensaje)

	w.eventos.PublicarDato(ctx, "pedido.notificacion", pedido.ID.String(), link)
	log.Info().Str("pedido_id", payload.PedidoID).Msg("notificacion: link publicado")
	return nil
}
