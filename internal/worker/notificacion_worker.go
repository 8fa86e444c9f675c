package worker

// notificacion_worker.go
// Processes WhatsApp notification jobs from QueueNotificacion. Calls go
// through the circuit breaker so a downed gateway sidecar trips fast instead
// of stalling every worker on timeouts.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tiendapos/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NotificacionJobPayload is the job envelope sent to QueueNotificacion.
type NotificacionJobPayload struct {
	Telefono     string `json:"telefono"`
	Texto        string `json:"texto"`
	PedidoNumero string `json:"pedido_numero,omitempty"`
}

type NotificacionWorker struct {
	client *infra.WhatsAppClient
	cb     *infra.CircuitBreaker
	rdb    *redis.Client
}

func NewNotificacionWorker(client *infra.WhatsAppClient, cb *infra.CircuitBreaker, rdb *redis.Client) *NotificacionWorker {
	return &NotificacionWorker{client: client, cb: cb, rdb: rdb}
}

// Process delivers one WhatsApp message through the circuit breaker with
// exponential backoff. Exhausted retries land in the DLQ.
func (w *NotificacionWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload NotificacionJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notificacion_worker: invalid payload")
		return
	}
	if payload.Telefono == "" {
		log.Warn().Msg("notificacion_worker: empty telefono, skipping")
		return
	}

	msg := infra.MensajeWhatsApp{Telefono: payload.Telefono, Texto: payload.Texto}

	sendErr := withRetry(ctx, 3, func(attempt int) error {
		err := w.cb.Execute(func() error {
			_, err := w.client.Enviar(ctx, msg)
			return err
		})
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("pedido", payload.PedidoNumero).
				Msg("notificacion_worker: send attempt failed, retrying")
		}
		return err
	})
	if sendErr != nil {
		log.Error().Err(sendErr).Str("pedido", payload.PedidoNumero).Msg("notificacion_worker: send failed after all retries")
		SendToDLQ(ctx, w.rdb, QueueNotificacion, "notificacion", raw,
			fmt.Sprintf("whatsapp send failed after 3 retries: %v", sendErr), 3)
		return
	}
	log.Info().Str("pedido", payload.PedidoNumero).Msg("notificacion_worker: mensaje enviado")
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
