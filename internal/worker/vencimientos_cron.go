package worker

// vencimientos_cron.go
// Background goroutine that scans for perishable lots close to their expiry
// date and enqueues a digest alert mail. One scan shortly after boot, then
// one per day.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"almacenpos/internal/service"

	"github.com/rs/zerolog/log"
)

const (
	vencimientosStartDelay = 1 * time.Minute
	vencimientosInterval   = 24 * time.Hour
)

// VencimientosCronConfig holds the dependencies for the expiry scan.
type VencimientosCronConfig struct {
	Inventario service.InventarioService
	Dispatcher *Dispatcher
	Dias       int
	ToEmail    string
}

// StartVencimientosCron launches the daily expiry scan. Disabled when no
// recipient is configured.
func StartVencimientosCron(ctx context.Context, cfg VencimientosCronConfig) {
	if cfg.ToEmail == "" {
		log.Info().Msg("vencimientos_cron: sin ALERTA_EMAIL configurado — deshabilitado")
		return
	}

	go func() {
		log.Info().Int("dias", cfg.Dias).Msg("vencimientos_cron: started")

		timer := time.NewTimer(vencimientosStartDelay)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("vencimientos_cron: shutting down")
				return
			case <-timer.C:
				scanVencimientos(ctx, cfg)
				timer.Reset(vencimientosInterval)
			}
		}
	}()
}

func scanVencimientos(ctx context.Context, cfg VencimientosCronConfig) {
	lotes, err := cfg.Inventario.PorVencer(ctx, cfg.Dias)
	if err != nil {
		log.Error().Err(err).Msg("vencimientos_cron: scan failed")
		return
	}
	if len(lotes) == 0 {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Lotes que vencen dentro de %d días:\n\n", cfg.Dias)
	for _, l := range lotes {
		fmt.Fprintf(&b, "- %s: %d unidades, vence %s (%d días)\n",
			l.Producto, l.Disponible, l.Vencimiento, l.DiasRestan)
	}

	payload := AlertaPayload{
		ToEmail: cfg.ToEmail,
		Subject: fmt.Sprintf("Alerta de vencimientos: %d lotes por vencer", len(lotes)),
		Body:    b.String(),
	}
	if err := cfg.Dispatcher.EnqueueAlerta(ctx, payload); err != nil {
		// Best effort: next daily tick retries.
		log.Error().Err(err).Msg("vencimientos_cron: enqueue failed")
		return
	}
	log.Info().Int("lotes", len(lotes)).Msg("vencimientos_cron: alerta encolada")
}
