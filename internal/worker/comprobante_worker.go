package worker

// comprobante_worker.go
// Processes receipt jobs from QueueComprobante: renders the PDF ticket for a
// completed sale and, when the customer left an email, mails it as an
// attachment. Email delivery retries with exponential backoff; after the last
// attempt the job lands in the DLQ.

import (
	"context"
	"encoding/json"
	"fmt"

	"tiendapos/internal/infra"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ComprobanteJobPayload is the job envelope sent to QueueComprobante.
type ComprobanteJobPayload struct {
	VentaID      string  `json:"venta_id"`
	ClienteEmail *string `json:"cliente_email,omitempty"`
}

type ComprobanteWorker struct {
	ventaRepo      repository.VentaRepository
	mailer         *infra.Mailer
	rdb            *redis.Client
	pdfStoragePath string
	nombreNegocio  string
}

func NewComprobanteWorker(
	ventaRepo repository.VentaRepository,
	mailer *infra.Mailer,
	rdb *redis.Client,
	pdfStoragePath string,
	nombreNegocio string,
) *ComprobanteWorker {
	return &ComprobanteWorker{
		ventaRepo:      ventaRepo,
		mailer:         mailer,
		rdb:            rdb,
		pdfStoragePath: pdfStoragePath,
		nombreNegocio:  nombreNegocio,
	}
}

// Process handles a single comprobante job:
//  1. Fetch the Venta (with items) from DB
//  2. Render the PDF ticket
//  3. Mail it when a customer email was provided, with backoff
func (w *ComprobanteWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ComprobanteJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("comprobante_worker: invalid payload")
		return
	}

	ventaID, err := uuid.Parse(payload.VentaID)
	if err != nil {
		log.Error().Str("venta_id", payload.VentaID).Msg("comprobante_worker: invalid venta_id")
		return
	}

	venta, err := w.ventaRepo.FindByID(ctx, ventaID)
	if err != nil {
		log.Error().Err(err).Str("venta_id", payload.VentaID).Msg("comprobante_worker: venta not found")
		return
	}

	pdfPath, err := infra.GenerateTicketPDF(venta, w.nombreNegocio, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("venta_id", payload.VentaID).Msg("comprobante_worker: PDF generation failed")
		SendToDLQ(ctx, w.rdb, QueueComprobante, "comprobante", raw,
			fmt.Sprintf("PDF generation failed: %v", err), 1)
		return
	}
	log.Info().Str("pdf", pdfPath).Str("venta_id", payload.VentaID).Msg("comprobante_worker: PDF generated")

	if payload.ClienteEmail == nil || *payload.ClienteEmail == "" {
		return
	}

	subject := fmt.Sprintf("Comprobante %s — Ticket #%d", w.nombreNegocio, venta.NumeroTicket)
	body := fmt.Sprintf("Adjunto encontrarás tu comprobante de compra.\nTotal: $%s", venta.Total.StringFixed(2))

	mailErr := withRetry(ctx, 3, func(attempt int) error {
		err := w.mailer.SendComprobante(*payload.ClienteEmail, subject, body, pdfPath)
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("to", *payload.ClienteEmail).
				Msg("comprobante_worker: email attempt failed, retrying")
		}
		return err
	})
	if mailErr != nil {
		log.Error().Err(mailErr).Str("to", *payload.ClienteEmail).Msg("comprobante_worker: email failed after all retries")
		SendToDLQ(ctx, w.rdb, QueueComprobante, "comprobante", raw,
			fmt.Sprintf("email failed after 3 retries: %v", mailErr), 3)
		return
	}
	log.Info().Str("to", *payload.ClienteEmail).Msg("comprobante_worker: comprobante sent")
}
