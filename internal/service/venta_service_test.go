package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"almacenpos/internal/config"
	"almacenpos/internal/domainerr"
	"almacenpos/internal/dto"
	"almacenpos/internal/model"
	"almacenpos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ventaFixture struct {
	svc          service.VentaService
	productoRepo *stubProductoRepo
	loteRepo     *stubLoteRepo
	ventaRepo    *stubVentaRepo
	cajaRepo     *stubCajaRepo
	movRepo      *stubMovStockRepo
}

func buildVentaSvc(cfg *config.Config) *ventaFixture {
	productoRepo := newStubProductoRepo()
	loteRepo := newStubLoteRepo()
	ventaRepo := newStubVentaRepo()
	cajaRepo := &stubCajaRepo{}
	movRepo := &stubMovStockRepo{}
	clienteRepo := newStubClienteRepo()

	inventarioSvc := service.NewInventarioService(productoRepo, loteRepo, movRepo)
	cajaSvc := service.NewCajaService(cajaRepo)
	svc := service.NewVentaService(cfg, productoRepo, ventaRepo, clienteRepo, inventarioSvc, cajaSvc)

	return &ventaFixture{
		svc: svc, productoRepo: productoRepo, loteRepo: loteRepo,
		ventaRepo: ventaRepo, cajaRepo: cajaRepo, movRepo: movRepo,
	}
}

// productoConLotes registers a product whose aggregate matches its lots.
func (f *ventaFixture) productoConLotes(t *testing.T, nombre string, precio decimal.Decimal, lotes ...int) *model.Producto {
	t.Helper()
	total := 0
	for _, n := range lotes {
		total += n
	}
	p := f.productoRepo.agregar(&model.Producto{
		Nombre:      nombre,
		PrecioCosto: precio.Div(decimal.NewFromInt(2)),
		PrecioVenta: precio,
		StockActual: total,
		Activo:      true,
	})
	base := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	for i, n := range lotes {
		crearLote(t, f.loteRepo, p.ID, n, base.Add(time.Duration(i)*24*time.Hour))
	}
	return p
}

func itemReq(p *model.Producto, cantidad int) dto.ItemVentaRequest {
	return dto.ItemVentaRequest{ProductoID: p.ID.String(), Cantidad: cantidad}
}

func TestRegistrarVentaRoundTrip(t *testing.T) {
	f := buildVentaSvc(&config.Config{})
	ctx := context.Background()

	a := f.productoConLotes(t, "Arroz", decimal.NewFromInt(10), 5)
	b := f.productoConLotes(t, "Aceite", decimal.NewFromInt(25), 4)

	venta, err := f.svc.RegistrarVenta(ctx, dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{itemReq(a, 3), itemReq(b, 2)},
	}, "cajero1")
	require.NoError(t, err)

	assert.Equal(t, "REF000001", venta.Referencia)
	assert.Equal(t, "emitida", venta.Estado)
	assert.True(t, venta.Total.Equal(decimal.NewFromInt(80)), "total = 3×10 + 2×25")
	require.Len(t, venta.Items, 2)
	assert.True(t, venta.Items[0].Subtotal.Equal(decimal.NewFromInt(30)))
	assert.True(t, venta.Items[1].Subtotal.Equal(decimal.NewFromInt(50)))

	// Agregados descontados.
	assert.Equal(t, 2, f.productoRepo.productos[a.ID].StockActual)
	assert.Equal(t, 2, f.productoRepo.productos[b.ID].StockActual)

	// Un ingreso en caja por el total.
	require.Len(t, f.cajaRepo.movimientos, 1)
	mov := f.cajaRepo.movimientos[0]
	assert.Equal(t, "ingreso", mov.Tipo)
	assert.Equal(t, model.CategoriaVenta, mov.Categoria)
	assert.True(t, mov.Monto.Equal(decimal.NewFromInt(80)))
	assert.True(t, mov.SaldoNuevo.Equal(decimal.NewFromInt(80)))

	// Una fila de auditoría por línea.
	require.Len(t, f.movRepo.movimientos, 2)
	assert.Equal(t, "venta", f.movRepo.movimientos[0].Tipo)
	assert.Equal(t, -3, f.movRepo.movimientos[0].Cantidad)
}

func TestRegistrarVentaConsumeMultiplesLotes(t *testing.T) {
	f := buildVentaSvc(&config.Config{})
	ctx := context.Background()

	p := f.productoConLotes(t, "Leche", decimal.NewFromInt(5), 4, 4)

	_, err := f.svc.RegistrarVenta(ctx, dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{itemReq(p, 6)},
	}, "cajero1")
	require.NoError(t, err)

	// Lote viejo agotado, el nuevo cede 2; agregado = suma de lotes.
	disponibles := make([]int, 0, 2)
	suma := 0
	for _, l := range f.loteRepo.lotes {
		disponibles = append(disponibles, l.CantidadDisponible)
		suma += l.CantidadDisponible
	}
	assert.ElementsMatch(t, []int{0, 2}, disponibles)
	assert.Equal(t, 2, f.productoRepo.productos[p.ID].StockActual)
	assert.Equal(t, suma, f.productoRepo.productos[p.ID].StockActual,
		"el agregado debe igualar la suma de los lotes")
}

func TestReferenciasConsecutivas(t *testing.T) {
	f := buildVentaSvc(&config.Config{})
	ctx := context.Background()

	p := f.productoConLotes(t, "Pan", decimal.NewFromInt(2), 10)

	esperadas := []string{"REF000001", "REF000002", "REF000003"}
	for _, esperada := range esperadas {
		venta, err := f.svc.RegistrarVenta(ctx, dto.RegistrarVentaRequest{
			Items: []dto.ItemVentaRequest{itemReq(p, 1)},
		}, "cajero1")
		require.NoError(t, err)
		assert.Equal(t, esperada, venta.Referencia)
	}
}

func TestRegistrarVentaStockInsuficienteNoMuta(t *testing.T) {
	f := buildVentaSvc(&config.Config{})
	ctx := context.Background()

	p := f.productoConLotes(t, "Azucar", decimal.NewFromInt(7), 2)

	_, err := f.svc.RegistrarVenta(ctx, dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{itemReq(p, 3)},
	}, "cajero1")
	require.Error(t, err)

	var ise *domainerr.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, "Azucar", ise.Producto)
	assert.Equal(t, 3, ise.Solicitado)
	assert.Equal(t, 2, ise.Disponible)

	// Nada cambió: ni venta, ni stock, ni caja, ni auditoría.
	assert.Empty(t, f.ventaRepo.ventas)
	assert.Equal(t, 2, f.productoRepo.productos[p.ID].StockActual)
	assert.Empty(t, f.cajaRepo.movimientos)
	assert.Empty(t, f.movRepo.movimientos)
}

func TestRegistrarVentaLineasRepetidasAcumulan(t *testing.T) {
	f := buildVentaSvc(&config.Config{})
	ctx := context.Background()

	p := f.productoConLotes(t, "Cafe", decimal.NewFromInt(15), 4)

	// 3 + 2 del mismo producto superan el stock aunque cada línea quepa sola.
	_, err := f.svc.RegistrarVenta(ctx, dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{itemReq(p, 3), itemReq(p, 2)},
	}, "cajero1")
	require.Error(t, err)

	var ise *domainerr.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Empty(t, f.ventaRepo.ventas)
}

func TestRegistrarVentaMismoProductoEncadenaAuditoria(t *testing.T) {
	f := buildVentaSvc(&config.Config{})
	ctx := context.Background()

	p := f.productoConLotes(t, "Yerba", decimal.NewFromInt(9), 5)

	_, err := f.svc.RegistrarVenta(ctx, dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{itemReq(p, 2), itemReq(p, 2)},
	}, "cajero1")
	require.NoError(t, err)

	// Cada fila arranca donde terminó la anterior, no en la foto inicial.
	require.Len(t, f.movRepo.movimientos, 2)
	fila1, fila2 := f.movRepo.movimientos[0], f.movRepo.movimientos[1]
	assert.Equal(t, 5, fila1.StockAnterior)
	assert.Equal(t, 3, fila1.StockNuevo)
	assert.Equal(t, 3, fila2.StockAnterior)
	assert.Equal(t, 1, fila2.StockNuevo)
	assert.Equal(t, 1, f.productoRepo.productos[p.ID].StockActual)
}

func TestRegistrarVentaCarritoVacio(t *testing.T) {
	f := buildVentaSvc(&config.Config{})

	_, err := f.svc.RegistrarVenta(context.Background(), dto.RegistrarVentaRequest{}, "cajero1")
	require.Error(t, err)
	assert.True(t, domainerr.IsValidation(err))
}

func TestRegistrarVentaPrecioManual(t *testing.T) {
	f := buildVentaSvc(&config.Config{})
	ctx := context.Background()

	p := f.productoConLotes(t, "Queso", decimal.NewFromInt(10), 5)

	descuento := decimal.NewFromFloat(8.50)
	venta, err := f.svc.RegistrarVenta(ctx, dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{{
			ProductoID:     p.ID.String(),
			Cantidad:       2,
			PrecioUnitario: &descuento,
		}},
	}, "cajero1")
	require.NoError(t, err)
	assert.True(t, venta.Total.Equal(decimal.NewFromInt(17)))
	assert.True(t, venta.Items[0].PrecioUnitario.Equal(descuento))
}

func TestRegistrarVentaProductoInactivo(t *testing.T) {
	f := buildVentaSvc(&config.Config{})

	p := f.productoConLotes(t, "Obsoleto", decimal.NewFromInt(3), 5)
	f.productoRepo.productos[p.ID].Activo = false

	_, err := f.svc.RegistrarVenta(context.Background(), dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{itemReq(p, 1)},
	}, "cajero1")
	require.Error(t, err)
	assert.True(t, domainerr.IsValidation(err))
}

func TestAnularVentaRestauraAgregadoNoLotes(t *testing.T) {
	f := buildVentaSvc(&config.Config{})
	ctx := context.Background()

	p := f.productoConLotes(t, "Fideos", decimal.NewFromInt(4), 4, 4)

	venta, err := f.svc.RegistrarVenta(ctx, dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{itemReq(p, 6)},
	}, "cajero1")
	require.NoError(t, err)

	anulada, err := f.svc.AnularVenta(ctx, venta.ID, "supervisor1")
	require.NoError(t, err)
	assert.Equal(t, "anulada", anulada.Estado)

	// El agregado vuelve; los lotes consumidos quedan consumidos.
	assert.Equal(t, 8, f.productoRepo.productos[p.ID].StockActual)
	disponibles := make([]int, 0, 2)
	for _, l := range f.loteRepo.lotes {
		disponibles = append(disponibles, l.CantidadDisponible)
	}
	assert.ElementsMatch(t, []int{0, 2}, disponibles)

	// Auditoría de la anulación.
	ultimo := f.movRepo.movimientos[len(f.movRepo.movimientos)-1]
	assert.Equal(t, "anulacion", ultimo.Tipo)
	assert.Equal(t, 6, ultimo.Cantidad)

	// Sin egreso compensatorio por defecto: solo el ingreso original.
	require.Len(t, f.cajaRepo.movimientos, 1)
}

func TestAnularVentaDobleRechazada(t *testing.T) {
	f := buildVentaSvc(&config.Config{})
	ctx := context.Background()

	p := f.productoConLotes(t, "Sal", decimal.NewFromInt(1), 3)
	venta, err := f.svc.RegistrarVenta(ctx, dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{itemReq(p, 1)},
	}, "cajero1")
	require.NoError(t, err)

	_, err = f.svc.AnularVenta(ctx, venta.ID, "supervisor1")
	require.NoError(t, err)

	_, err = f.svc.AnularVenta(ctx, venta.ID, "supervisor1")
	require.ErrorIs(t, err, domainerr.ErrVentaAnulada)

	// El stock no se restaura dos veces.
	assert.Equal(t, 3, f.productoRepo.productos[p.ID].StockActual)
}

func TestAnularVentaConEgresoConfigurado(t *testing.T) {
	f := buildVentaSvc(&config.Config{CajaEgresoAnulacion: true})
	ctx := context.Background()

	p := f.productoConLotes(t, "Te", decimal.NewFromInt(20), 5)
	venta, err := f.svc.RegistrarVenta(ctx, dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{itemReq(p, 2)},
	}, "cajero1")
	require.NoError(t, err)

	_, err = f.svc.AnularVenta(ctx, venta.ID, "supervisor1")
	require.NoError(t, err)

	require.Len(t, f.cajaRepo.movimientos, 2)
	egreso := f.cajaRepo.movimientos[1]
	assert.Equal(t, "egreso", egreso.Tipo)
	assert.Equal(t, model.CategoriaAnulacion, egreso.Categoria)
	assert.True(t, egreso.Monto.Equal(decimal.NewFromInt(40)))
	assert.True(t, egreso.SaldoNuevo.IsZero(), "el egreso compensa el ingreso original")
}

func TestAnularVentaInexistente(t *testing.T) {
	f := buildVentaSvc(&config.Config{})

	_, err := f.svc.AnularVenta(context.Background(), uuid.New(), "supervisor1")
	require.Error(t, err)
	assert.True(t, domainerr.IsNotFound(err))
}
