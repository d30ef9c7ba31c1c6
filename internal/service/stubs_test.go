package service_test

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"almacenpos/internal/dto"
	"almacenpos/internal/model"
	"almacenpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs. Transactions are a no-op: the services pass a
// nil *gorm.DB through runTx, so the *Tx methods simply ignore it.

var errNotFound = errors.New("not found")

// ── Productos ────────────────────────────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
	// conMovimientos marks products that TieneMovimientos reports true for.
	conMovimientos map[uuid.UUID]bool
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{
		productos:      make(map[uuid.UUID]*model.Producto),
		conMovimientos: make(map[uuid.UUID]bool),
	}
}

func (r *stubProductoRepo) agregar(p *model.Producto) *model.Producto {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return p
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	for _, existente := range r.productos {
		if existente.Nombre == p.Nombre {
			return gorm.ErrDuplicatedKey
		}
	}
	r.agregar(p)
	return nil
}

// FindByID returns a snapshot copy, like a real read would.
func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, errNotFound
	}
	copia := *p
	return &copia, nil
}

func (r *stubProductoRepo) FindByCodigo(_ context.Context, codigo string) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.Codigo != nil && *p.Codigo == codigo && p.Activo {
			copia := *p
			return &copia, nil
		}
	}
	return nil, errNotFound
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	out := make([]model.Producto, 0, len(r.productos))
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	if _, ok := r.productos[p.ID]; !ok {
		return errNotFound
	}
	copia := *p
	r.productos[p.ID] = &copia
	return nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.productos[id]
	if !ok {
		return errNotFound
	}
	p.Activo = false
	return nil
}

func (r *stubProductoRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	p, ok := r.productos[id]
	if !ok {
		return errNotFound
	}
	p.Activo = true
	return nil
}

func (r *stubProductoRepo) HardDelete(_ context.Context, id uuid.UUID) error {
	delete(r.productos, id)
	return nil
}

func (r *stubProductoRepo) TieneMovimientos(_ context.Context, id uuid.UUID) (bool, error) {
	return r.conMovimientos[id], nil
}

func (r *stubProductoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductoRepo) IncrementarStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.productos[id]
	if !ok {
		return errNotFound
	}
	p.StockActual += delta
	return nil
}

func (r *stubProductoRepo) DescontarStockTx(_ *gorm.DB, id uuid.UUID, delta int) (bool, error) {
	p, ok := r.productos[id]
	if !ok {
		return false, errNotFound
	}
	if p.StockActual < delta {
		return false, nil
	}
	p.StockActual -= delta
	return true, nil
}

func (r *stubProductoRepo) SetStockTx(_ *gorm.DB, id uuid.UUID, stock int) error {
	p, ok := r.productos[id]
	if !ok {
		return errNotFound
	}
	p.StockActual = stock
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// ── Lotes ────────────────────────────────────────────────────────────────────

type stubLoteRepo struct {
	lotes map[uuid.UUID]*model.Lote
	seq   int64
}

func newStubLoteRepo() *stubLoteRepo {
	return &stubLoteRepo{lotes: make(map[uuid.UUID]*model.Lote)}
}

func (r *stubLoteRepo) CreateTx(_ *gorm.DB, l *model.Lote) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.seq++
	l.Secuencia = r.seq
	r.lotes[l.ID] = l
	return nil
}

func (r *stubLoteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Lote, error) {
	l, ok := r.lotes[id]
	if !ok {
		return nil, errNotFound
	}
	return l, nil
}

func (r *stubLoteRepo) FindDisponiblesTx(_ *gorm.DB, productoID uuid.UUID) ([]model.Lote, error) {
	var out []model.Lote
	for _, l := range r.lotes {
		if l.ProductoID == productoID && l.CantidadDisponible > 0 {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].FechaIngreso.Equal(out[j].FechaIngreso) {
			return out[i].FechaIngreso.Before(out[j].FechaIngreso)
		}
		return out[i].Secuencia < out[j].Secuencia
	})
	return out, nil
}

func (r *stubLoteRepo) DescontarTx(_ *gorm.DB, id uuid.UUID, amount int) (bool, error) {
	l, ok := r.lotes[id]
	if !ok {
		return false, errNotFound
	}
	if l.CantidadDisponible < amount {
		return false, nil
	}
	l.CantidadDisponible -= amount
	return true, nil
}

func (r *stubLoteRepo) SumDisponible(_ context.Context, productoID uuid.UUID) (int, error) {
	total := 0
	for _, l := range r.lotes {
		if l.ProductoID == productoID {
			total += l.CantidadDisponible
		}
	}
	return total, nil
}

func (r *stubLoteRepo) List(_ context.Context, _ repository.CompraFilter) ([]model.Lote, int64, error) {
	out := make([]model.Lote, 0, len(r.lotes))
	for _, l := range r.lotes {
		out = append(out, *l)
	}
	return out, int64(len(out)), nil
}

func (r *stubLoteRepo) PorVencer(_ context.Context, limite time.Time) ([]model.Lote, error) {
	var out []model.Lote
	for _, l := range r.lotes {
		if l.Perecedero && l.CantidadDisponible > 0 && l.Vencimiento != nil && !l.Vencimiento.After(limite) {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Vencimiento.Before(*out[j].Vencimiento) })
	return out, nil
}

var _ repository.LoteRepository = (*stubLoteRepo)(nil)

// ── Ventas ───────────────────────────────────────────────────────────────────

type stubVentaRepo struct {
	ventas map[uuid.UUID]*model.Venta
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) CreateTx(_ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	for i := range v.Items {
		if v.Items[i].ID == uuid.Nil {
			v.Items[i].ID = uuid.New()
		}
		v.Items[i].VentaID = v.ID
	}
	r.ventas[v.ID] = v
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, errNotFound
	}
	copia := *v
	return &copia, nil
}

func (r *stubVentaRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado string) error {
	v, ok := r.ventas[id]
	if !ok {
		return errNotFound
	}
	v.Estado = estado
	return nil
}

func (r *stubVentaRepo) List(_ context.Context, _ dto.VentaFilter) ([]model.Venta, int64, error) {
	out := make([]model.Venta, 0, len(r.ventas))
	for _, v := range r.ventas {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

// NextReferencia mirrors the production query: MAX(numeric suffix)+1.
func (r *stubVentaRepo) NextReferencia(_ *gorm.DB) (int, error) {
	max := 0
	for _, v := range r.ventas {
		n, err := strconv.Atoi(strings.TrimPrefix(v.Referencia, "REF"))
		if err == nil && n > max {
			max = n
		}
	}
	return max + 1, nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// ── Caja ─────────────────────────────────────────────────────────────────────

type stubCajaRepo struct {
	movimientos []model.MovimientoCaja
	seq         int64
}

func (r *stubCajaRepo) CreateTx(_ *gorm.DB, m *model.MovimientoCaja) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.seq++
	m.Secuencia = r.seq
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubCajaRepo) UltimoTx(_ *gorm.DB) (*model.MovimientoCaja, error) {
	if len(r.movimientos) == 0 {
		return nil, nil
	}
	ultimo := r.movimientos[len(r.movimientos)-1]
	return &ultimo, nil
}

func (r *stubCajaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.MovimientoCaja, error) {
	for i := range r.movimientos {
		if r.movimientos[i].ID == id {
			copia := r.movimientos[i]
			return &copia, nil
		}
	}
	return nil, errNotFound
}

func (r *stubCajaRepo) ListBetween(_ context.Context, desde, hasta time.Time) ([]model.MovimientoCaja, error) {
	var out []model.MovimientoCaja
	for _, m := range r.movimientos {
		if !m.Fecha.Before(desde) && m.Fecha.Before(hasta.AddDate(0, 0, 1)) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Secuencia > out[j].Secuencia })
	return out, nil
}

func (r *stubCajaRepo) SumByTipo(_ context.Context) (map[string]decimal.Decimal, error) {
	sums := make(map[string]decimal.Decimal)
	for _, m := range r.movimientos {
		sums[m.Tipo] = sums[m.Tipo].Add(m.Monto)
	}
	return sums, nil
}

func (r *stubCajaRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i := range r.movimientos {
		if r.movimientos[i].ID == id {
			r.movimientos = append(r.movimientos[:i], r.movimientos[i+1:]...)
			return nil
		}
	}
	return errNotFound
}

func (r *stubCajaRepo) DB() *gorm.DB { return nil }

var _ repository.CajaRepository = (*stubCajaRepo)(nil)

// ── Movimientos de stock ─────────────────────────────────────────────────────

type stubMovStockRepo struct {
	movimientos []model.MovimientoStock
}

func (r *stubMovStockRepo) CreateTx(_ *gorm.DB, m *model.MovimientoStock) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovStockRepo) List(_ context.Context, _ repository.MovimientoStockFilter) ([]model.MovimientoStock, int64, error) {
	return r.movimientos, int64(len(r.movimientos)), nil
}

var _ repository.MovimientoStockRepository = (*stubMovStockRepo)(nil)

// ── Terceros ─────────────────────────────────────────────────────────────────

type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, errNotFound
	}
	return c, nil
}

func (r *stubClienteRepo) List(_ context.Context) ([]model.Cliente, error) { return nil, nil }
func (r *stubClienteRepo) Update(_ context.Context, _ *model.Cliente) error {
	return nil
}
func (r *stubClienteRepo) SoftDelete(_ context.Context, _ uuid.UUID) error { return nil }

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

type stubProveedorRepo struct {
	proveedores map[uuid.UUID]*model.Proveedor
}

func newStubProveedorRepo() *stubProveedorRepo {
	return &stubProveedorRepo{proveedores: make(map[uuid.UUID]*model.Proveedor)}
}

func (r *stubProveedorRepo) Create(_ context.Context, p *model.Proveedor) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.proveedores[p.ID] = p
	return nil
}

func (r *stubProveedorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Proveedor, error) {
	p, ok := r.proveedores[id]
	if !ok {
		return nil, errNotFound
	}
	return p, nil
}

func (r *stubProveedorRepo) List(_ context.Context) ([]model.Proveedor, error) { return nil, nil }
func (r *stubProveedorRepo) Update(_ context.Context, _ *model.Proveedor) error {
	return nil
}
func (r *stubProveedorRepo) SoftDelete(_ context.Context, _ uuid.UUID) error { return nil }

var _ repository.ProveedorRepository = (*stubProveedorRepo)(nil)

// ── Historial de precios ─────────────────────────────────────────────────────

type stubHistorialRepo struct {
	filas []model.HistorialPrecio
}

func (r *stubHistorialRepo) Create(_ context.Context, h *model.HistorialPrecio) error {
	r.filas = append(r.filas, *h)
	return nil
}

func (r *stubHistorialRepo) ListByProducto(_ context.Context, productoID uuid.UUID) ([]model.HistorialPrecio, error) {
	var out []model.HistorialPrecio
	for _, h := range r.filas {
		if h.ProductoID == productoID {
			out = append(out, h)
		}
	}
	return out, nil
}

var _ repository.HistorialPrecioRepository = (*stubHistorialRepo)(nil)
