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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CajaService maintains the running cash-balance ledger. Every append reads
// the latest entry inside the same transaction and chains the balances, so
// saldo_anterior of each row equals saldo_nuevo of the previous one.
type CajaService interface {
	// AppendTx chains and persists one ledger entry inside the caller's
	// transaction. Fills Secuencia ordering via the DB; fills SaldoAnterior /
	// SaldoNuevo here. Monto must be positive (Tipo carries the sign) and
	// Descripcion non-empty.
	AppendTx(tx *gorm.DB, m *model.MovimientoCaja) error

	// RegistrarMovimiento appends a manual entry in its own transaction.
	RegistrarMovimiento(ctx context.Context, req dto.MovimientoCajaRequest, usuario string) (*model.MovimientoCaja, error)

	// SaldoActual returns saldo_nuevo of the latest entry, 0 on an empty
	// ledger. Always reads the chain, never a cached figure.
	SaldoActual(ctx context.Context) (decimal.Decimal, error)

	// ListarEntreFechas returns entries in the inclusive dd/mm/yyyy window.
	ListarEntreFechas(ctx context.Context, filter dto.CajaFilter) ([]model.MovimientoCaja, error)

	// EliminarMovimiento removes one row without recomputing later balances:
	// the chain downstream of the deletion keeps its original figures and the
	// invariant is intentionally broken at that point. Out-of-band correction
	// only.
	EliminarMovimiento(ctx context.Context, id uuid.UUID, usuario string) error
}

type cajaService struct {
	repo repository.CajaRepository
}

func NewCajaService(repo repository.CajaRepository) CajaService {
	return &cajaService{repo: repo}
}

func (s *cajaService) AppendTx(tx *gorm.DB, m *model.MovimientoCaja) error {
	if m.Tipo != "ingreso" && m.Tipo != "egreso" {
		return domainerr.Validation("tipo de movimiento inválido: %q", m.Tipo)
	}
	if !m.Monto.IsPositive() {
		return domainerr.Validation("el monto debe ser mayor a cero")
	}
	if m.Descripcion == "" {
		return domainerr.Validation("la descripción es obligatoria")
	}

	ultimo, err := s.repo.UltimoTx(tx)
	if err != nil {
		return err
	}

	saldoAnterior := decimal.Zero
	if ultimo != nil {
		saldoAnterior = ultimo.SaldoNuevo
	}

	m.SaldoAnterior = saldoAnterior
	if m.Tipo == "ingreso" {
		m.SaldoNuevo = saldoAnterior.Add(m.Monto)
	} else {
		m.SaldoNuevo = saldoAnterior.Sub(m.Monto)
	}
	if m.Fecha.IsZero() {
		m.Fecha = time.Now()
	}

	return s.repo.CreateTx(tx, m)
}

func (s *cajaService) RegistrarMovimiento(ctx context.Context, req dto.MovimientoCajaRequest, usuario string) (*model.MovimientoCaja, error) {
	fecha := time.Now()
	if req.Fecha != "" {
		parsed, err := dto.ParseFecha(req.Fecha)
		if err != nil {
			return nil, domainerr.Validation("fecha inválida: use dd/mm/aaaa")
		}
		fecha = parsed
	}

	categoria := req.Categoria
	if categoria == "" {
		categoria = model.CategoriaManual
	}

	m := &model.MovimientoCaja{
		Tipo:        req.Tipo,
		Categoria:   categoria,
		Descripcion: req.Descripcion,
		Monto:       req.Monto,
		Fecha:       fecha,
		Usuario:     usuario,
	}

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.AppendTx(tx, m)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *cajaService) SaldoActual(ctx context.Context) (decimal.Decimal, error) {
	var saldo decimal.Decimal
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ultimo, err := s.repo.UltimoTx(tx)
		if err != nil {
			return err
		}
		if ultimo != nil {
			saldo = ultimo.SaldoNuevo
		}
		return nil
	})
	return saldo, err
}

func (s *cajaService) ListarEntreFechas(ctx context.Context, filter dto.CajaFilter) ([]model.MovimientoCaja, error) {
	// Defaults: current month when no bounds given.
	ahora := time.Now()
	desde := time.Date(ahora.Year(), ahora.Month(), 1, 0, 0, 0, 0, ahora.Location())
	hasta := ahora

	if filter.Desde != "" {
		parsed, err := dto.ParseFecha(filter.Desde)
		if err != nil {
			return nil, domainerr.Validation("fecha 'desde' inválida: use dd/mm/aaaa")
		}
		desde = parsed
	}
	if filter.Hasta != "" {
		parsed, err := dto.ParseFecha(filter.Hasta)
		if err != nil {
			return nil, domainerr.Validation("fecha 'hasta' inválida: use dd/mm/aaaa")
		}
		hasta = parsed
	}
	if hasta.Before(desde) {
		return nil, domainerr.Validation("el rango de fechas está invertido")
	}

	return s.repo.ListBetween(ctx, desde, hasta)
}

func (s *cajaService) EliminarMovimiento(ctx context.Context, id uuid.UUID, usuario string) error {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domainerr.NotFound("movimiento de caja")
	}

	log.Warn().
		Str("movimiento_id", id.String()).
		Int64("secuencia", m.Secuencia).
		Str("monto", m.Monto.String()).
		Str("usuario", usuario).
		Msg("eliminando movimiento de caja: los saldos posteriores NO se recalculan")

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.auditarDesfase(ctx)
	return nil
}

// auditarDesfase compares the balance chain against the raw ingreso/egreso
// sums and logs the gap a deletion leaves behind. Best-effort: the row is
// already gone, so audit failures only log.
func (s *cajaService) auditarDesfase(ctx context.Context) {
	sums, err := s.repo.SumByTipo(ctx)
	if err != nil {
		log.Error().Err(err).Msg("no se pudo auditar el desfase de caja")
		return
	}
	neto := sums["ingreso"].Sub(sums["egreso"])

	saldo, err := s.SaldoActual(ctx)
	if err != nil {
		log.Error().Err(err).Msg("no se pudo auditar el desfase de caja")
		return
	}
	if !saldo.Equal(neto) {
		log.Warn().
			Str("saldo_cadena", saldo.String()).
			Str("neto_movimientos", neto.String()).
			Str("desfase", saldo.Sub(neto).String()).
			Msg("la cadena de saldos quedó desfasada de los montos netos")
	}
}
