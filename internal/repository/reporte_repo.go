package repository

import (
	"context"

	"almacenpos/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReporteRepository runs the aggregate queries behind the summary screen.
type ReporteRepository interface {
	// TotalComprado sums costo_total over every lot.
	TotalComprado(ctx context.Context) (decimal.Decimal, error)
	// TotalVendido sums sale totals, excluding voided sales.
	TotalVendido(ctx context.Context) (decimal.Decimal, error)
	// MargenBruto sums (precio_unitario − precio_costo) × cantidad over the
	// lines of non-voided sales, against the product's current cost.
	MargenBruto(ctx context.Context) (decimal.Decimal, error)
	// ValorInventario sums stock_actual × precio_costo over active products.
	ValorInventario(ctx context.Context) (decimal.Decimal, error)
}

type reporteRepo struct{ db *gorm.DB }

func NewReporteRepository(db *gorm.DB) ReporteRepository { return &reporteRepo{db: db} }

func (r *reporteRepo) TotalComprado(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Lote{}).
		Select("COALESCE(SUM(costo_total), 0)").
		Scan(&total).Error
	return total, err
}

func (r *reporteRepo) TotalVendido(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Venta{}).
		Where("estado <> ?", "anulada").
		Select("COALESCE(SUM(total), 0)").
		Scan(&total).Error
	return total, err
}

func (r *reporteRepo) MargenBruto(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM((vi.precio_unitario - p.precio_costo) * vi.cantidad), 0)
		FROM venta_items vi
		JOIN ventas v   ON v.id = vi.venta_id AND v.estado <> 'anulada'
		JOIN productos p ON p.id = vi.producto_id`).
		Scan(&total).Error
	return total, err
}

func (r *reporteRepo) ValorInventario(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("activo = true").
		Select("COALESCE(SUM(stock_actual * precio_costo), 0)").
		Scan(&total).Error
	return total, err
}
