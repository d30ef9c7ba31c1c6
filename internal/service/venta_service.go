package service

import (
	"context"
	"fmt"
	"time"

	"almacenpos/internal/config"
	"almacenpos/internal/domainerr"
	"almacenpos/internal/dto"
	"almacenpos/internal/model"
	"almacenpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VentaService orchestrates sales: pre-flight validation of every line, then
// document number, header, FIFO lot consumption, aggregate decrement, audit
// trail and cash ingreso — all inside one transaction. Either the whole sale
// lands or none of it does.
type VentaService interface {
	RegistrarVenta(ctx context.Context, req dto.RegistrarVentaRequest, usuario string) (*model.Venta, error)

	// AnularVenta transitions emitida → anulada: returns quantities to the
	// stock aggregate (NOT to the consumed lots) and, when configured,
	// appends a compensating cash egreso. Terminal: re-voiding fails with
	// ErrVentaAnulada.
	AnularVenta(ctx context.Context, id uuid.UUID, usuario string) (*model.Venta, error)

	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	Listar(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
}

type ventaService struct {
	cfg          *config.Config
	productoRepo repository.ProductoRepository
	ventaRepo    repository.VentaRepository
	clienteRepo  repository.ClienteRepository
	inventario   InventarioService
	caja         CajaService
}

func NewVentaService(
	cfg *config.Config,
	productoRepo repository.ProductoRepository,
	ventaRepo repository.VentaRepository,
	clienteRepo repository.ClienteRepository,
	inventario InventarioService,
	caja CajaService,
) VentaService {
	return &ventaService{
		cfg:          cfg,
		productoRepo: productoRepo,
		ventaRepo:    ventaRepo,
		clienteRepo:  clienteRepo,
		inventario:   inventario,
		caja:         caja,
	}
}

// lineaValidada is one sale line after pre-flight: resolved product, final
// unit price and rounded subtotal.
type lineaValidada struct {
	producto *model.Producto
	cantidad int
	precio   decimal.Decimal
	subtotal decimal.Decimal
}

func (s *ventaService) RegistrarVenta(ctx context.Context, req dto.RegistrarVentaRequest, usuario string) (*model.Venta, error) {
	if len(req.Items) == 0 {
		return nil, domainerr.Validation("la venta debe tener al menos un ítem")
	}

	fecha := time.Now()
	if req.Fecha != "" {
		parsed, err := dto.ParseFecha(req.Fecha)
		if err != nil {
			return nil, domainerr.Validation("fecha inválida: use dd/mm/aaaa")
		}
		fecha = parsed
	}

	var clienteID *uuid.UUID
	if req.ClienteID != nil && *req.ClienteID != "" {
		id, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, domainerr.Validation("cliente_id inválido")
		}
		if _, err := s.clienteRepo.FindByID(ctx, id); err != nil {
			return nil, domainerr.NotFound("cliente")
		}
		clienteID = &id
	}

	// Pre-flight: resolve and validate EVERY line before touching anything.
	// Repeated products accumulate against the same availability.
	lineas := make([]lineaValidada, 0, len(req.Items))
	solicitado := make(map[uuid.UUID]int, len(req.Items))
	total := decimal.Zero

	for i, item := range req.Items {
		if item.Cantidad <= 0 {
			return nil, domainerr.Validation("ítem %d: la cantidad debe ser mayor a cero", i+1)
		}
		productoID, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, domainerr.Validation("ítem %d: producto_id inválido", i+1)
		}
		producto, err := s.productoRepo.FindByID(ctx, productoID)
		if err != nil {
			return nil, domainerr.NotFound("producto")
		}
		if !producto.Activo {
			return nil, domainerr.Validation("el producto %q está inactivo", producto.Nombre)
		}

		solicitado[productoID] += item.Cantidad
		if producto.StockActual < solicitado[productoID] {
			return nil, &domainerr.InsufficientStockError{
				Producto:   producto.Nombre,
				Solicitado: solicitado[productoID],
				Disponible: producto.StockActual,
			}
		}

		precio := producto.PrecioVenta
		if item.PrecioUnitario != nil {
			if !item.PrecioUnitario.IsPositive() {
				return nil, domainerr.Validation("ítem %d: el precio debe ser mayor a cero", i+1)
			}
			precio = *item.PrecioUnitario
		}
		subtotal := precio.Mul(decimalFromInt(item.Cantidad)).Round(2)
		total = total.Add(subtotal)

		lineas = append(lineas, lineaValidada{
			producto: producto,
			cantidad: item.Cantidad,
			precio:   precio,
			subtotal: subtotal,
		})
	}

	venta := &model.Venta{
		ClienteID: clienteID,
		Fecha:     fecha,
		Total:     total,
		Estado:    "emitida",
	}

	err := runTx(ctx, s.ventaRepo.DB(), func(tx *gorm.DB) error {
		next, err := s.ventaRepo.NextReferencia(tx)
		if err != nil {
			return err
		}
		venta.Referencia = fmt.Sprintf("REF%06d", next)

		venta.Items = make([]model.VentaItem, 0, len(lineas))
		for _, l := range lineas {
			venta.Items = append(venta.Items, model.VentaItem{
				ProductoID:     l.producto.ID,
				Cantidad:       l.cantidad,
				PrecioUnitario: l.precio,
				Subtotal:       l.subtotal,
			})
		}
		if err := s.ventaRepo.CreateTx(tx, venta); err != nil {
			return err
		}

		// Running stock per product, so repeated lines of the same product
		// chain their audit rows instead of reusing the pre-flight snapshot.
		stockActual := make(map[uuid.UUID]int, len(solicitado))
		for _, l := range lineas {
			if _, visto := stockActual[l.producto.ID]; !visto {
				stockActual[l.producto.ID] = l.producto.StockActual
			}

			faltante, err := s.inventario.ConsumirLotesTx(tx, l.producto.ID, l.cantidad)
			if err != nil {
				return err
			}
			if faltante > 0 {
				// Aggregate pre-check passed but the lots fell short: the
				// product predates lot tracking. Tolerated, with a trace.
				log.Warn().
					Str("producto", l.producto.Nombre).
					Int("faltante", faltante).
					Msg("venta sobre stock sin lotes registrados")
			}

			ok, err := s.productoRepo.DescontarStockTx(tx, l.producto.ID, l.cantidad)
			if err != nil {
				return err
			}
			anterior := stockActual[l.producto.ID]
			if !ok {
				// Concurrent drain between pre-flight and here.
				return &domainerr.InsufficientStockError{
					Producto:   l.producto.Nombre,
					Solicitado: l.cantidad,
					Disponible: anterior,
				}
			}

			mov := &model.MovimientoStock{
				ProductoID:    l.producto.ID,
				Tipo:          "venta",
				Cantidad:      -l.cantidad,
				StockAnterior: anterior,
				StockNuevo:    anterior - l.cantidad,
				Motivo:        "venta " + venta.Referencia,
				ReferenciaID:  &venta.ID,
			}
			if err := s.inventario.RegistrarMovimientoTx(tx, mov); err != nil {
				return err
			}
			stockActual[l.producto.ID] = anterior - l.cantidad
		}

		ingreso := &model.MovimientoCaja{
			Tipo:         "ingreso",
			Categoria:    model.CategoriaVenta,
			Descripcion:  "Venta " + venta.Referencia,
			Monto:        total,
			Fecha:        fecha,
			Usuario:      usuario,
			ReferenciaID: &venta.ID,
		}
		return s.caja.AppendTx(tx, ingreso)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("referencia", venta.Referencia).
		Int("items", len(venta.Items)).
		Str("total", total.String()).
		Msg("venta registrada")

	return venta, nil
}

func (s *ventaService) AnularVenta(ctx context.Context, id uuid.UUID, usuario string) (*model.Venta, error) {
	venta, err := s.ventaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, domainerr.NotFound("venta")
	}
	if venta.Estado == "anulada" {
		return nil, domainerr.ErrVentaAnulada
	}

	err = runTx(ctx, s.ventaRepo.DB(), func(tx *gorm.DB) error {
		if err := s.ventaRepo.UpdateEstadoTx(tx, venta.ID, "anulada"); err != nil {
			return err
		}

		// Stock returns to the aggregate only. The lots the sale consumed
		// stay consumed: after a void the lot history no longer tells which
		// physical batch holds the returned units.
		for _, item := range venta.Items {
			if err := s.productoRepo.IncrementarStockTx(tx, item.ProductoID, item.Cantidad); err != nil {
				return err
			}

			p, err := s.productoRepo.FindByIDTx(tx, item.ProductoID)
			if err != nil {
				return err
			}
			stockAnterior := p.StockActual - item.Cantidad
			mov := &model.MovimientoStock{
				ProductoID:    item.ProductoID,
				Tipo:          "anulacion",
				Cantidad:      item.Cantidad,
				StockAnterior: stockAnterior,
				StockNuevo:    stockAnterior + item.Cantidad,
				Motivo:        "anulación " + venta.Referencia,
				ReferenciaID:  &venta.ID,
			}
			if err := s.inventario.RegistrarMovimientoTx(tx, mov); err != nil {
				return err
			}
		}

		if s.cfg != nil && s.cfg.CajaEgresoAnulacion {
			egreso := &model.MovimientoCaja{
				Tipo:         "egreso",
				Categoria:    model.CategoriaAnulacion,
				Descripcion:  "Anulación " + venta.Referencia,
				Monto:        venta.Total,
				Fecha:        time.Now(),
				Usuario:      usuario,
				ReferenciaID: &venta.ID,
			}
			if err := s.caja.AppendTx(tx, egreso); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	venta.Estado = "anulada"
	log.Info().
		Str("referencia", venta.Referencia).
		Str("usuario", usuario).
		Msg("venta anulada")

	return venta, nil
}

func (s *ventaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	venta, err := s.ventaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, domainerr.NotFound("venta")
	}
	return venta, nil
}

func (s *ventaService) Listar(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}
	return s.ventaRepo.List(ctx, filter)
}
