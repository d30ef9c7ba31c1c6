package service_test

import (
	"context"
	"testing"
	"time"

	"almacenpos/internal/domainerr"
	"almacenpos/internal/model"
	"almacenpos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildInventarioSvc() (service.InventarioService, *stubProductoRepo, *stubLoteRepo, *stubMovStockRepo) {
	productoRepo := newStubProductoRepo()
	loteRepo := newStubLoteRepo()
	movRepo := &stubMovStockRepo{}
	svc := service.NewInventarioService(productoRepo, loteRepo, movRepo)
	return svc, productoRepo, loteRepo, movRepo
}

func crearLote(t *testing.T, repo *stubLoteRepo, productoID uuid.UUID, cantidad int, ingreso time.Time) *model.Lote {
	t.Helper()
	l := &model.Lote{
		ProductoID:         productoID,
		CantidadRecibida:   cantidad,
		CantidadDisponible: cantidad,
		CostoUnitario:      decimal.NewFromInt(10),
		CostoTotal:         decimal.NewFromInt(int64(cantidad * 10)),
		FechaIngreso:       ingreso,
	}
	require.NoError(t, repo.CreateTx(nil, l))
	return l
}

func TestConsumirLotesOrdenFIFO(t *testing.T) {
	svc, _, loteRepo, _ := buildInventarioSvc()
	productoID := uuid.New()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	viejo := crearLote(t, loteRepo, productoID, 10, base)
	nuevo := crearLote(t, loteRepo, productoID, 5, base.Add(48*time.Hour))

	faltante, err := svc.ConsumirLotesTx(nil, productoID, 12)
	require.NoError(t, err)
	assert.Equal(t, 0, faltante)

	// El lote más antiguo se agota primero; el nuevo cede el resto.
	assert.Equal(t, 0, loteRepo.lotes[viejo.ID].CantidadDisponible)
	assert.Equal(t, 3, loteRepo.lotes[nuevo.ID].CantidadDisponible)
}

func TestConsumirLotesDesempatePorSecuencia(t *testing.T) {
	svc, _, loteRepo, _ := buildInventarioSvc()
	productoID := uuid.New()

	// Mismo instante de ingreso: gana la secuencia menor (orden de inserción).
	fecha := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	primero := crearLote(t, loteRepo, productoID, 4, fecha)
	segundo := crearLote(t, loteRepo, productoID, 4, fecha)

	faltante, err := svc.ConsumirLotesTx(nil, productoID, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, faltante)
	assert.Equal(t, 0, loteRepo.lotes[primero.ID].CantidadDisponible)
	assert.Equal(t, 3, loteRepo.lotes[segundo.ID].CantidadDisponible)
}

func TestConsumirLotesDevuelveFaltante(t *testing.T) {
	svc, _, loteRepo, _ := buildInventarioSvc()
	productoID := uuid.New()

	crearLote(t, loteRepo, productoID, 3, time.Now())

	// Producto legado: los lotes no cubren lo pedido y el motor lo reporta
	// sin fallar — decidir es responsabilidad del llamador.
	faltante, err := svc.ConsumirLotesTx(nil, productoID, 10)
	require.NoError(t, err)
	assert.Equal(t, 7, faltante)
}

func TestConsumirLotesCantidadInvalida(t *testing.T) {
	svc, _, _, _ := buildInventarioSvc()

	_, err := svc.ConsumirLotesTx(nil, uuid.New(), 0)
	require.Error(t, err)
	assert.True(t, domainerr.IsValidation(err))
}

func TestRecalcularStockCorrigeAgregado(t *testing.T) {
	svc, productoRepo, loteRepo, _ := buildInventarioSvc()

	p := productoRepo.agregar(&model.Producto{Nombre: "Harina", StockActual: 99, Activo: true})
	crearLote(t, loteRepo, p.ID, 10, time.Now())
	crearLote(t, loteRepo, p.ID, 5, time.Now())

	stock, err := svc.RecalcularStock(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, stock)
	assert.Equal(t, 15, productoRepo.productos[p.ID].StockActual)
}

func TestPorVencerFiltraPorVentana(t *testing.T) {
	svc, _, loteRepo, _ := buildInventarioSvc()
	productoID := uuid.New()

	pronto := time.Now().AddDate(0, 0, 3)
	lejos := time.Now().AddDate(0, 0, 30)

	l1 := crearLote(t, loteRepo, productoID, 5, time.Now())
	l1.Perecedero = true
	l1.Vencimiento = &pronto
	l1.Producto = &model.Producto{Nombre: "Yogur"}

	l2 := crearLote(t, loteRepo, productoID, 5, time.Now())
	l2.Perecedero = true
	l2.Vencimiento = &lejos

	resp, err := svc.PorVencer(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.Equal(t, "Yogur", resp[0].Producto)
	assert.Equal(t, 5, resp[0].Disponible)
}
