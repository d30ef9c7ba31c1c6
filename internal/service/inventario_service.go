package service

import (
	"context"
	"time"

	"almacenpos/internal/domainerr"
	"almacenpos/internal/dto"
	"almacenpos/internal/model"
	"almacenpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// InventarioService owns the lot store and the stock aggregate: FIFO (PEPS)
// consumption, the stock-movement audit trail, expiry tracking, and the
// aggregate repair path.
type InventarioService interface {
	// ConsumirLotesTx walks the product's available lots oldest-intake-first
	// and decrements availability until cantidad is covered. Returns the
	// unconsumed remainder. A remainder > 0 is acceptable ONLY when the
	// caller pre-checked the stock aggregate (products predating lot
	// tracking may hold stock without lots); any other caller must treat it
	// as an invariant violation. Never creates or deletes lots.
	ConsumirLotesTx(tx *gorm.DB, productoID uuid.UUID, cantidad int) (int, error)

	// RegistrarMovimientoTx writes one audit row for a stock change.
	RegistrarMovimientoTx(tx *gorm.DB, m *model.MovimientoStock) error

	// ListarMovimientos pages through the audit trail.
	ListarMovimientos(ctx context.Context, filter repository.MovimientoStockFilter) ([]model.MovimientoStock, int64, error)

	// PorVencer lists perishable lots of active products whose expiry falls
	// within the next dias days and that still have availability.
	PorVencer(ctx context.Context, dias int) ([]dto.PorVencerResponse, error)

	// RecalcularStock overwrites the cached aggregate with the sum of lot
	// availability. Repair/back-fill path: legacy products keep whatever the
	// aggregate said until this is invoked for them.
	RecalcularStock(ctx context.Context, productoID uuid.UUID) (int, error)
}

type inventarioService struct {
	productoRepo repository.ProductoRepository
	loteRepo     repository.LoteRepository
	movRepo      repository.MovimientoStockRepository
}

func NewInventarioService(
	productoRepo repository.ProductoRepository,
	loteRepo repository.LoteRepository,
	movRepo repository.MovimientoStockRepository,
) InventarioService {
	return &inventarioService{productoRepo: productoRepo, loteRepo: loteRepo, movRepo: movRepo}
}

// ── FIFO consumption ─────────────────────────────────────────────────────────
// Primeras Entradas, Primeras Salidas: lots are consumed strictly by intake
// time ascending; equal intake time falls back to insertion order (secuencia),
// so the consumption order is deterministic and reproducible.

func (s *inventarioService) ConsumirLotesTx(tx *gorm.DB, productoID uuid.UUID, cantidad int) (int, error) {
	if cantidad <= 0 {
		return 0, domainerr.Validation("la cantidad a consumir debe ser mayor a cero")
	}

	lotes, err := s.loteRepo.FindDisponiblesTx(tx, productoID)
	if err != nil {
		return 0, err
	}

	restante := cantidad
	for _, lote := range lotes {
		if restante <= 0 {
			break
		}
		tomar := lote.CantidadDisponible
		if restante < tomar {
			tomar = restante
		}
		ok, err := s.loteRepo.DescontarTx(tx, lote.ID, tomar)
		if err != nil {
			return 0, err
		}
		if !ok {
			// The guarded update found less availability than we just read:
			// someone mutated the lot outside this transaction.
			return 0, domainerr.Invariant(
				"lote %s: descuento de %d unidades excede lo disponible", lote.ID, tomar)
		}
		restante -= tomar
	}
	return restante, nil
}

func (s *inventarioService) RegistrarMovimientoTx(tx *gorm.DB, m *model.MovimientoStock) error {
	return s.movRepo.CreateTx(tx, m)
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, filter repository.MovimientoStockFilter) ([]model.MovimientoStock, int64, error) {
	return s.movRepo.List(ctx, filter)
}

// ── Vencimientos ─────────────────────────────────────────────────────────────

func (s *inventarioService) PorVencer(ctx context.Context, dias int) ([]dto.PorVencerResponse, error) {
	if dias < 0 {
		return nil, domainerr.Validation("los días de anticipación no pueden ser negativos")
	}
	ahora := time.Now()
	limite := ahora.AddDate(0, 0, dias)

	lotes, err := s.loteRepo.PorVencer(ctx, limite)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.PorVencerResponse, 0, len(lotes))
	for _, l := range lotes {
		nombre := "[eliminado]"
		if l.Producto != nil {
			nombre = l.Producto.Nombre
		}
		resp = append(resp, dto.PorVencerResponse{
			LoteID:      l.ID.String(),
			Producto:    nombre,
			Disponible:  l.CantidadDisponible,
			Vencimiento: dto.FormatFecha(*l.Vencimiento),
			DiasRestan:  int(l.Vencimiento.Sub(ahora).Hours() / 24),
		})
	}
	return resp, nil
}

// ── Repair ───────────────────────────────────────────────────────────────────

func (s *inventarioService) RecalcularStock(ctx context.Context, productoID uuid.UUID) (int, error) {
	p, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		return 0, domainerr.NotFound("producto")
	}

	suma, err := s.loteRepo.SumDisponible(ctx, productoID)
	if err != nil {
		return 0, err
	}

	if p.StockActual != suma {
		log.Warn().
			Str("producto", p.Nombre).
			Int("stock_actual", p.StockActual).
			Int("suma_lotes", suma).
			Msg("stock desincronizado de los lotes; corrigiendo")
	}

	err = runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		return s.productoRepo.SetStockTx(tx, productoID, suma)
	})
	if err != nil {
		return 0, err
	}
	return suma, nil
}
