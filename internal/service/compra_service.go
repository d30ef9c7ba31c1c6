package service

import (
	"context"
	"fmt"
	"time"

	"almacenpos/internal/domainerr"
	"almacenpos/internal/dto"
	"almacenpos/internal/model"
	"almacenpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CompraService registers purchase intakes: one lot per purchase, the stock
// aggregate increment, the audit movement and (optionally) the cash egreso —
// all inside a single transaction.
type CompraService interface {
	RegistrarCompra(ctx context.Context, req dto.RegistrarCompraRequest, usuario string) (*model.Lote, error)
	Listar(ctx context.Context, filter repository.CompraFilter) ([]model.Lote, int64, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Lote, error)
}

type compraService struct {
	productoRepo  repository.ProductoRepository
	loteRepo      repository.LoteRepository
	proveedorRepo repository.ProveedorRepository
	inventario    InventarioService
	caja          CajaService
}

func NewCompraService(
	productoRepo repository.ProductoRepository,
	loteRepo repository.LoteRepository,
	proveedorRepo repository.ProveedorRepository,
	inventario InventarioService,
	caja CajaService,
) CompraService {
	return &compraService{
		productoRepo:  productoRepo,
		loteRepo:      loteRepo,
		proveedorRepo: proveedorRepo,
		inventario:    inventario,
		caja:          caja,
	}
}

func (s *compraService) RegistrarCompra(ctx context.Context, req dto.RegistrarCompraRequest, usuario string) (*model.Lote, error) {
	if req.Cantidad <= 0 {
		return nil, domainerr.Validation("la cantidad debe ser mayor a cero")
	}
	if !req.CostoUnitario.IsPositive() {
		return nil, domainerr.Validation("el costo unitario debe ser mayor a cero")
	}
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, domainerr.Validation("producto_id inválido")
	}

	producto, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		return nil, domainerr.NotFound("producto")
	}
	if !producto.Activo {
		return nil, domainerr.Validation("el producto %q está inactivo", producto.Nombre)
	}

	var proveedorID *uuid.UUID
	if req.ProveedorID != nil && *req.ProveedorID != "" {
		id, err := uuid.Parse(*req.ProveedorID)
		if err != nil {
			return nil, domainerr.Validation("proveedor_id inválido")
		}
		if _, err := s.proveedorRepo.FindByID(ctx, id); err != nil {
			return nil, domainerr.NotFound("proveedor")
		}
		proveedorID = &id
	}

	fecha := time.Now()
	if req.Fecha != "" {
		parsed, err := dto.ParseFecha(req.Fecha)
		if err != nil {
			return nil, domainerr.Validation("fecha inválida: use dd/mm/aaaa")
		}
		fecha = parsed
	}

	var vencimiento *time.Time
	if req.Perecedero {
		if req.Vencimiento == nil || *req.Vencimiento == "" {
			return nil, domainerr.Validation("un lote perecedero requiere fecha de vencimiento")
		}
		parsed, err := dto.ParseFecha(*req.Vencimiento)
		if err != nil {
			return nil, domainerr.Validation("vencimiento inválido: use dd/mm/aaaa")
		}
		if parsed.Before(fecha) {
			return nil, domainerr.Validation("el vencimiento no puede ser anterior al ingreso")
		}
		vencimiento = &parsed
	}

	lote := &model.Lote{
		ProductoID:         productoID,
		CantidadRecibida:   req.Cantidad,
		CantidadDisponible: req.Cantidad,
		CostoUnitario:      req.CostoUnitario,
		CostoTotal:         req.CostoUnitario.Mul(decimalFromInt(req.Cantidad)).Round(2),
		FechaIngreso:       fecha,
		ProveedorID:        proveedorID,
		NroDocumento:       req.NroDocumento,
		Perecedero:         req.Perecedero,
		Vencimiento:        vencimiento,
	}

	err = runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		if err := s.loteRepo.CreateTx(tx, lote); err != nil {
			return err
		}
		if err := s.productoRepo.IncrementarStockTx(tx, productoID, req.Cantidad); err != nil {
			return err
		}

		mov := &model.MovimientoStock{
			ProductoID:    productoID,
			Tipo:          "compra",
			Cantidad:      req.Cantidad,
			StockAnterior: producto.StockActual,
			StockNuevo:    producto.StockActual + req.Cantidad,
			Motivo:        "compra " + lote.ID.String(),
			ReferenciaID:  &lote.ID,
		}
		if err := s.inventario.RegistrarMovimientoTx(tx, mov); err != nil {
			return err
		}

		// Two-step contract: the egreso rides the same transaction only when
		// the caller asks for it; otherwise cash bookkeeping is theirs.
		if req.RegistrarEgreso {
			egreso := &model.MovimientoCaja{
				Tipo:         "egreso",
				Categoria:    model.CategoriaCompra,
				Descripcion:  fmt.Sprintf("Compra de %d × %s", req.Cantidad, producto.Nombre),
				Monto:        lote.CostoTotal,
				Fecha:        fecha,
				Usuario:      usuario,
				ReferenciaID: &lote.ID,
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

	log.Info().
		Str("producto", producto.Nombre).
		Int("cantidad", req.Cantidad).
		Str("costo_total", lote.CostoTotal.String()).
		Bool("egreso", req.RegistrarEgreso).
		Msg("compra registrada")

	lote.Producto = producto
	return lote, nil
}

func (s *compraService) Listar(ctx context.Context, filter repository.CompraFilter) ([]model.Lote, int64, error) {
	return s.loteRepo.List(ctx, filter)
}

func (s *compraService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Lote, error) {
	lote, err := s.loteRepo.FindByID(ctx, id)
	if err != nil {
		return nil, domainerr.NotFound("lote")
	}
	return lote, nil
}
