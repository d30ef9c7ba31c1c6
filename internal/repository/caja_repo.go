package repository

import (
	"context"
	"time"

	"almacenpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CajaRepository persists the running cash-balance ledger. Rows are
// append-only; the single destructive path (Delete) exists for out-of-band
// corrections and deliberately does not touch later balances.
type CajaRepository interface {
	// CreateTx appends an entry. The caller must have filled SaldoAnterior /
	// SaldoNuevo from UltimoTx inside the same transaction.
	CreateTx(tx *gorm.DB, m *model.MovimientoCaja) error

	// UltimoTx returns the highest-secuencia entry, or nil on an empty
	// ledger. Balance computation always reads through this, never a cache.
	UltimoTx(tx *gorm.DB) (*model.MovimientoCaja, error)

	FindByID(ctx context.Context, id uuid.UUID) (*model.MovimientoCaja, error)

	// ListBetween returns entries with fecha in [desde, hasta], most recent
	// first (secuencia DESC) for display.
	ListBetween(ctx context.Context, desde, hasta time.Time) ([]model.MovimientoCaja, error)

	// SumByTipo totals monto per tipo over the whole ledger (drift audit).
	SumByTipo(ctx context.Context) (map[string]decimal.Decimal, error)

	// Delete removes a row WITHOUT recomputing subsequent balances.
	Delete(ctx context.Context, id uuid.UUID) error

	DB() *gorm.DB
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) DB() *gorm.DB { return r.db }

func (r *cajaRepo) CreateTx(tx *gorm.DB, m *model.MovimientoCaja) error {
	return tx.Create(m).Error
}

func (r *cajaRepo) UltimoTx(tx *gorm.DB) (*model.MovimientoCaja, error) {
	var m model.MovimientoCaja
	err := tx.Order("secuencia DESC").First(&m).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *cajaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.MovimientoCaja, error) {
	var m model.MovimientoCaja
	err := r.db.WithContext(ctx).First(&m, id).Error
	return &m, err
}

func (r *cajaRepo) ListBetween(ctx context.Context, desde, hasta time.Time) ([]model.MovimientoCaja, error) {
	var movs []model.MovimientoCaja
	err := r.db.WithContext(ctx).
		Where("fecha >= ? AND fecha < ?", desde, hasta.AddDate(0, 0, 1)).
		Order("secuencia DESC").
		Find(&movs).Error
	return movs, err
}

func (r *cajaRepo) SumByTipo(ctx context.Context) (map[string]decimal.Decimal, error) {
	type fila struct {
		Tipo  string
		Total decimal.Decimal
	}
	var filas []fila
	err := r.db.WithContext(ctx).Model(&model.MovimientoCaja{}).
		Select("tipo, COALESCE(SUM(monto), 0) AS total").
		Group("tipo").
		Scan(&filas).Error
	if err != nil {
		return nil, err
	}
	sums := make(map[string]decimal.Decimal, len(filas))
	for _, f := range filas {
		sums[f.Tipo] = f.Total
	}
	return sums, nil
}

func (r *cajaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.MovimientoCaja{}, id).Error
}
