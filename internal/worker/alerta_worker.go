package worker

// alerta_worker.go
// Processes expiry-alert jobs from QueueAlertas: one plain-text digest mail
// per job to the configured recipient.

import (
	"context"
	"encoding/json"

	"almacenpos/internal/infra"

	"github.com/rs/zerolog/log"
)

// AlertaPayload is the job envelope sent to QueueAlertas.
type AlertaPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type AlertaWorker struct {
	mailer *infra.Mailer
}

func NewAlertaWorker(mailer *infra.Mailer) *AlertaWorker {
	return &AlertaWorker{mailer: mailer}
}

func (w *AlertaWorker) Process(_ context.Context, raw json.RawMessage) {
	var payload AlertaPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alerta_worker: invalid payload")
		return
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("alerta_worker: empty to_email — skipping")
		return
	}

	if err := w.mailer.Send(payload.ToEmail, payload.Subject, payload.Body); err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("alerta_worker: failed to send email")
		return
	}
	log.Info().Str("to", payload.ToEmail).Msg("alerta_worker: alerta enviada")
}
