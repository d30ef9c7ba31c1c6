package repository

import (
	"context"
	"time"

	"almacenpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompraFilter pages through the purchase history.
type CompraFilter struct {
	ProductoID *uuid.UUID
	Page       int
	Limit      int
}

// LoteRepository is the lot store. Lots are historical records: there is no
// delete, and the only mutation is the guarded availability decrement used by
// the FIFO engine.
type LoteRepository interface {
	CreateTx(tx *gorm.DB, l *model.Lote) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Lote, error)

	// FindDisponiblesTx returns the lots with cantidad_disponible > 0 for a
	// product, ordered fecha_ingreso ASC with secuencia ASC as tie-break —
	// the deterministic FIFO consumption order.
	FindDisponiblesTx(tx *gorm.DB, productoID uuid.UUID) ([]model.Lote, error)

	// DescontarTx decrements cantidad_disponible by amount. Returns false
	// (zero rows affected) when amount exceeds the lot's availability.
	DescontarTx(tx *gorm.DB, id uuid.UUID, amount int) (bool, error)

	// SumDisponible totals lot availability for a product (stock repair).
	SumDisponible(ctx context.Context, productoID uuid.UUID) (int, error)

	// List returns purchases denormalized with product and supplier rows.
	List(ctx context.Context, filter CompraFilter) ([]model.Lote, int64, error)

	// PorVencer returns perishable lots of active products, with remaining
	// availability, whose expiry falls on or before the limit date.
	PorVencer(ctx context.Context, limite time.Time) ([]model.Lote, error)
}

type loteRepo struct{ db *gorm.DB }

func NewLoteRepository(db *gorm.DB) LoteRepository { return &loteRepo{db: db} }

func (r *loteRepo) CreateTx(tx *gorm.DB, l *model.Lote) error {
	return tx.Create(l).Error
}

func (r *loteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Lote, error) {
	var l model.Lote
	err := r.db.WithContext(ctx).Preload("Producto").Preload("Proveedor").First(&l, id).Error
	return &l, err
}

func (r *loteRepo) FindDisponiblesTx(tx *gorm.DB, productoID uuid.UUID) ([]model.Lote, error) {
	var lotes []model.Lote
	err := tx.Where("producto_id = ? AND cantidad_disponible > 0", productoID).
		Order("fecha_ingreso ASC, secuencia ASC").
		Find(&lotes).Error
	return lotes, err
}

func (r *loteRepo) DescontarTx(tx *gorm.DB, id uuid.UUID, amount int) (bool, error) {
	res := tx.Model(&model.Lote{}).
		Where("id = ? AND cantidad_disponible >= ?", id, amount).
		Update("cantidad_disponible", gorm.Expr("cantidad_disponible - ?", amount))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *loteRepo) SumDisponible(ctx context.Context, productoID uuid.UUID) (int, error) {
	var total int
	err := r.db.WithContext(ctx).Model(&model.Lote{}).
		Where("producto_id = ? AND cantidad_disponible > 0", productoID).
		Select("COALESCE(SUM(cantidad_disponible), 0)").
		Scan(&total).Error
	return total, err
}

func (r *loteRepo) List(ctx context.Context, filter CompraFilter) ([]model.Lote, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Lote{})
	if filter.ProductoID != nil {
		q = q.Where("producto_id = ?", *filter.ProductoID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset := (page - 1) * limit

	var lotes []model.Lote
	err := q.Preload("Producto").Preload("Proveedor").
		Order("fecha_ingreso DESC, secuencia DESC").
		Offset(offset).Limit(limit).
		Find(&lotes).Error
	return lotes, total, err
}

func (r *loteRepo) PorVencer(ctx context.Context, limite time.Time) ([]model.Lote, error) {
	var lotes []model.Lote
	err := r.db.WithContext(ctx).
		Joins("JOIN productos ON productos.id = lotes.producto_id AND productos.activo = true").
		Where("lotes.perecedero = true AND lotes.cantidad_disponible > 0 AND lotes.vencimiento IS NOT NULL AND lotes.vencimiento <= ?", limite).
		Preload("Producto").
		Order("lotes.vencimiento ASC").
		Find(&lotes).Error
	return lotes, err
}
