package worker

// expiracion_cron.go
// Background goroutine that sweeps pedidos stuck in Pendiente past their
// expira_en deadline and moves them to Expirado. The UPDATE is conditional on
// the source state, so a confirmation racing the sweep wins and the pedido is
// left alone.

import (
	"context"
	"fmt"
	"time"

	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	expiracionTickInterval = 30 * time.Second
	expiracionBatchSize    = 50
)

// ExpiracionCronConfig holds all dependencies for the sweep goroutine.
type ExpiracionCronConfig struct {
	PedidoRepo repository.PedidoRepository
	Dispatcher *Dispatcher
}

// StartExpiracionCron launches a background goroutine that ticks every 30s,
// expires overdue pedidos, and notifies the customer over WhatsApp.
// It respects the context for graceful shutdown.
func StartExpiracionCron(ctx context.Context, cfg ExpiracionCronConfig) {
	go func() {
		ticker := time.NewTicker(expiracionTickInterval)
		defer ticker.Stop()

		log.Info().Msg("expiracion_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("expiracion_cron: shutting down")
				return
			case <-ticker.C:
				sweepExpirados(ctx, cfg)
			}
		}
	}()
}

func sweepExpirados(ctx context.Context, cfg ExpiracionCronConfig) {
	now := time.Now()
	vencidos, err := cfg.PedidoRepo.ListPendientesVencidos(ctx, now, expiracionBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("expiracion_cron: failed to query overdue pedidos")
		return
	}
	if len(vencidos) == 0 {
		return
	}

	log.Info().Int("count", len(vencidos)).Msg("expiracion_cron: expiring overdue pedidos")

	for i := range vencidos {
		p := &vencidos[i]

		rows, err := cfg.PedidoRepo.UpdateEstadoDesde(ctx, nil, p.ID, model.EstadoPendiente, model.EstadoExpirado)
		if err != nil {
			log.Error().Err(err).Str("pedido", p.NumeroDisplay()).Msg("expiracion_cron: failed to expire pedido")
			continue
		}
		if rows == 0 {
			// Someone confirmed or cancelled it between the query and the
			// update. Nothing to do.
			continue
		}

		log.Info().
			Str("pedido", p.NumeroDisplay()).
			Time("expira_en", *p.ExpiraEn).
			Msg("expiracion_cron: pedido expirado")

		if cfg.Dispatcher != nil && p.ContactoTelefono != "" {
			payload := NotificacionJobPayload{
				Telefono: p.ContactoTelefono,
				Texto: fmt.Sprintf("Tu pedido %s ha expirado por falta de confirmación. Puedes crear uno nuevo cuando gustes.",
					p.NumeroDisplay()),
				PedidoNumero: p.NumeroDisplay(),
			}
			if err := cfg.Dispatcher.EnqueueNotificacion(ctx, payload); err != nil {
				log.Warn().Err(err).Str("pedido", p.NumeroDisplay()).Msg("expiracion_cron: failed to enqueue notification")
			}
		}
	}
}
