package worker

// arqueo_worker.go
// Processes variance report jobs from QueueArqueo: renders the arqueo PDF and
// chains an email job so the supervisor gets the report attached.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"andespos/internal/infra"

	"github.com/rs/zerolog/log"
)

type ArqueoWorker struct {
	dispatcher      *Dispatcher
	storagePath     string
	supervisorEmail string
}

func NewArqueoWorker(dispatcher *Dispatcher, storagePath, supervisorEmail string) *ArqueoWorker {
	return &ArqueoWorker{dispatcher: dispatcher, storagePath: storagePath, supervisorEmail: supervisorEmail}
}

// Process renders the report and enqueues the notification email.
func (w *ArqueoWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ArqueoJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("arqueo_worker: invalid payload")
		return nil // malformed jobs are not retryable
	}

	pdfPath, err := infra.GenerateArqueoPDF(&infra.ArqueoReporte{
		SesionCajaID:  payload.SesionCajaID,
		PuntoDeVenta:  payload.PuntoDeVenta,
		MontoApertura: payload.MontoApertura,
		Teorico:       payload.Teorico,
		Contado:       payload.Contado,
		Desvio:        payload.Desvio,
		DesvioPct:     payload.DesvioPct,
		Clasificacion: payload.Clasificacion,
		CerradoEn:     time.Now(),
	}, w.storagePath)
	if err != nil {
		return fmt.Errorf("arqueo_worker: generate pdf: %w", err)
	}
	log.Info().Str("sesion_caja_id", payload.SesionCajaID).Str("pdf", pdfPath).Msg("arqueo_worker: report generated")

	if w.supervisorEmail == "" {
		log.Warn().Msg("arqueo_worker: no supervisor email configured — skipping notification")
		return nil
	}
	return w.dispatcher.EnqueueEmail(ctx, EmailJobPayload{
		ToEmail: w.supervisorEmail,
		Subject: fmt.Sprintf("Arqueo crítico — PDV %d", payload.PuntoDeVenta),
		Body: fmt.Sprintf(
			"La caja %s cerró con un desvío %s de $%s (%s%%).\nTeórico: $%s — Contado: $%s.",
			payload.SesionCajaID, payload.Clasificacion,
			payload.Desvio.StringFixed(2), payload.DesvioPct.StringFixed(2),
			payload.Teorico.StringFixed(2), payload.Contado.StringFixed(2),
		),
		PDFPath: pdfPath,
	})
}
