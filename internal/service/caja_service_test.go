package service_test

import (
	"bytes"
	"context"
	"testing"

	"almacenpos/internal/domainerr"
	"almacenpos/internal/dto"
	"almacenpos/internal/model"
	"almacenpos/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendEncadenaSaldos(t *testing.T) {
	repo := &stubCajaRepo{}
	svc := service.NewCajaService(repo)
	ctx := context.Background()

	ingreso := dto.MovimientoCajaRequest{
		Tipo: "ingreso", Categoria: model.CategoriaManual,
		Descripcion: "apertura", Monto: decimal.NewFromInt(100),
	}
	m1, err := svc.RegistrarMovimiento(ctx, ingreso, "cajero1")
	require.NoError(t, err)
	assert.True(t, m1.SaldoAnterior.IsZero(), "el primer saldo anterior debe ser 0")
	assert.True(t, m1.SaldoNuevo.Equal(decimal.NewFromInt(100)))

	egreso := dto.MovimientoCajaRequest{
		Tipo: "egreso", Categoria: model.CategoriaManual,
		Descripcion: "compra de insumos", Monto: decimal.NewFromFloat(30.50),
	}
	m2, err := svc.RegistrarMovimiento(ctx, egreso, "cajero1")
	require.NoError(t, err)

	// Invariante de la cadena: saldo_anterior(n) = saldo_nuevo(n-1).
	assert.True(t, m2.SaldoAnterior.Equal(m1.SaldoNuevo))
	assert.True(t, m2.SaldoNuevo.Equal(decimal.NewFromFloat(69.50)))

	saldo, err := svc.SaldoActual(ctx)
	require.NoError(t, err)
	assert.True(t, saldo.Equal(decimal.NewFromFloat(69.50)))
}

func TestSaldoActualLibroVacio(t *testing.T) {
	svc := service.NewCajaService(&stubCajaRepo{})

	saldo, err := svc.SaldoActual(context.Background())
	require.NoError(t, err)
	assert.True(t, saldo.IsZero())
}

func TestAppendRechazaMontoNoPositivo(t *testing.T) {
	svc := service.NewCajaService(&stubCajaRepo{})

	_, err := svc.RegistrarMovimiento(context.Background(), dto.MovimientoCajaRequest{
		Tipo: "ingreso", Categoria: model.CategoriaManual,
		Descripcion: "nada", Monto: decimal.Zero,
	}, "cajero1")
	require.Error(t, err)
	assert.True(t, domainerr.IsValidation(err))
}

func TestAppendRechazaDescripcionVacia(t *testing.T) {
	repo := &stubCajaRepo{}
	svc := service.NewCajaService(repo)

	_, err := svc.RegistrarMovimiento(context.Background(), dto.MovimientoCajaRequest{
		Tipo: "ingreso", Categoria: model.CategoriaManual,
		Descripcion: "", Monto: decimal.NewFromInt(10),
	}, "cajero1")
	require.Error(t, err)
	assert.True(t, domainerr.IsValidation(err))
	assert.Empty(t, repo.movimientos, "nada debe persistirse sin descripción")
}

func TestAppendRechazaTipoInvalido(t *testing.T) {
	svc := service.NewCajaService(&stubCajaRepo{})

	_, err := svc.RegistrarMovimiento(context.Background(), dto.MovimientoCajaRequest{
		Tipo: "transferencia", Categoria: model.CategoriaManual,
		Descripcion: "x", Monto: decimal.NewFromInt(5),
	}, "cajero1")
	require.Error(t, err)
	assert.True(t, domainerr.IsValidation(err))
}

func TestListarEntreFechasRangoInvertido(t *testing.T) {
	svc := service.NewCajaService(&stubCajaRepo{})

	_, err := svc.ListarEntreFechas(context.Background(), dto.CajaFilter{
		Desde: "10/03/2026", Hasta: "01/03/2026",
	})
	require.Error(t, err)
	assert.True(t, domainerr.IsValidation(err))
}

func TestEliminarMovimientoNoRecalculaSaldos(t *testing.T) {
	repo := &stubCajaRepo{}
	svc := service.NewCajaService(repo)
	ctx := context.Background()

	m1, err := svc.RegistrarMovimiento(ctx, dto.MovimientoCajaRequest{
		Tipo: "ingreso", Categoria: model.CategoriaManual,
		Descripcion: "a", Monto: decimal.NewFromInt(100),
	}, "admin")
	require.NoError(t, err)
	m2, err := svc.RegistrarMovimiento(ctx, dto.MovimientoCajaRequest{
		Tipo: "ingreso", Categoria: model.CategoriaManual,
		Descripcion: "b", Monto: decimal.NewFromInt(50),
	}, "admin")
	require.NoError(t, err)

	require.NoError(t, svc.EliminarMovimiento(ctx, m1.ID, "admin"))

	// La fila posterior conserva sus cifras originales: la brecha queda
	// documentada, no corregida.
	restante, err := repo.FindByID(ctx, m2.ID)
	require.NoError(t, err)
	assert.True(t, restante.SaldoAnterior.Equal(decimal.NewFromInt(100)))
	assert.True(t, restante.SaldoNuevo.Equal(decimal.NewFromInt(150)))
}

func TestEliminarMovimientoAuditaDesfase(t *testing.T) {
	var buf bytes.Buffer
	anterior := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = anterior })

	repo := &stubCajaRepo{}
	svc := service.NewCajaService(repo)
	ctx := context.Background()

	m1, err := svc.RegistrarMovimiento(ctx, dto.MovimientoCajaRequest{
		Tipo: "ingreso", Categoria: model.CategoriaManual,
		Descripcion: "a", Monto: decimal.NewFromInt(100),
	}, "admin")
	require.NoError(t, err)
	_, err = svc.RegistrarMovimiento(ctx, dto.MovimientoCajaRequest{
		Tipo: "ingreso", Categoria: model.CategoriaManual,
		Descripcion: "b", Monto: decimal.NewFromInt(50),
	}, "admin")
	require.NoError(t, err)

	require.NoError(t, svc.EliminarMovimiento(ctx, m1.ID, "admin"))

	// Chain says 150, net sums say 50: the audit names the 100 gap.
	salida := buf.String()
	assert.Contains(t, salida, "desfasada")
	assert.Contains(t, salida, `"desfase":"100"`)
}

func TestEliminarMovimientoInexistente(t *testing.T) {
	svc := service.NewCajaService(&stubCajaRepo{})

	err := svc.EliminarMovimiento(context.Background(), uuid.New(), "admin")
	require.Error(t, err)
	assert.True(t, domainerr.IsNotFound(err))
}
