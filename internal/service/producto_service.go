package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"almacenpos/internal/domainerr"
	"almacenpos/internal/dto"
	"almacenpos/internal/model"
	"almacenpos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const precioCacheTTL = 5 * time.Minute

// ProductoService manages the catalog. The sale price is always derived —
// PrecioCosto × (1 + MargenPct/100), rounded to 2 — and every cost or margin
// change leaves an immutable HistorialPrecio row behind.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*model.Producto, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*model.Producto, error)

	// Eliminar removes the product physically only when nothing references
	// it; a product with lots or sale lines is deactivated instead.
	Eliminar(ctx context.Context, id uuid.UUID) (eliminado bool, err error)
	Reactivar(ctx context.Context, id uuid.UUID) error

	// ConsultarPrecio serves the public price-check endpoint through the
	// Redis cache; a miss falls through to the catalog and repopulates.
	ConsultarPrecio(ctx context.Context, codigo string) (*dto.ConsultaPreciosResponse, error)

	HistorialPrecios(ctx context.Context, id uuid.UUID) ([]model.HistorialPrecio, error)
}

type productoService struct {
	repo          repository.ProductoRepository
	historialRepo repository.HistorialPrecioRepository
	rdb           *redis.Client
}

func NewProductoService(
	repo repository.ProductoRepository,
	historialRepo repository.HistorialPrecioRepository,
	rdb *redis.Client,
) ProductoService {
	return &productoService{repo: repo, historialRepo: historialRepo, rdb: rdb}
}

// precioVenta derives the sale price from cost and margin percentage.
func precioVenta(costo, margenPct decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(margenPct.Div(decimal.NewFromInt(100)))
	return costo.Mul(factor).Round(2)
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*model.Producto, error) {
	if !req.PrecioCosto.IsPositive() {
		return nil, domainerr.Validation("el precio de costo debe ser mayor a cero")
	}
	if req.MargenPct.IsNegative() {
		return nil, domainerr.Validation("el margen no puede ser negativo")
	}

	p := &model.Producto{
		Codigo:      req.Codigo,
		Nombre:      req.Nombre,
		Categoria:   req.Categoria,
		PrecioCosto: req.PrecioCosto,
		MargenPct:   req.MargenPct,
		PrecioVenta: precioVenta(req.PrecioCosto, req.MargenPct),
		Activo:      true,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domainerr.Duplicate("código o nombre")
		}
		return nil, err
	}
	return p, nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domainerr.NotFound("producto")
	}
	return p, nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*model.Producto, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domainerr.NotFound("producto")
	}

	costoAntes := p.PrecioCosto
	ventaAntes := p.PrecioVenta

	if req.Codigo != nil {
		p.Codigo = req.Codigo
	}
	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Categoria != nil {
		p.Categoria = *req.Categoria
	}
	cambioPrecio := false
	if req.PrecioCosto != nil {
		if !req.PrecioCosto.IsPositive() {
			return nil, domainerr.Validation("el precio de costo debe ser mayor a cero")
		}
		p.PrecioCosto = *req.PrecioCosto
		cambioPrecio = true
	}
	if req.MargenPct != nil {
		if req.MargenPct.IsNegative() {
			return nil, domainerr.Validation("el margen no puede ser negativo")
		}
		p.MargenPct = *req.MargenPct
		cambioPrecio = true
	}
	if cambioPrecio {
		p.PrecioVenta = precioVenta(p.PrecioCosto, p.MargenPct)
	}

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domainerr.Duplicate("código o nombre")
		}
		return nil, err
	}

	if cambioPrecio && (!costoAntes.Equal(p.PrecioCosto) || !ventaAntes.Equal(p.PrecioVenta)) {
		h := &model.HistorialPrecio{
			ProductoID:   p.ID,
			CostoAntes:   costoAntes,
			CostoDespues: p.PrecioCosto,
			VentaAntes:   ventaAntes,
			VentaDespues: p.PrecioVenta,
			MargenPct:    p.MargenPct,
			Motivo:       "manual",
		}
		if err := s.historialRepo.Create(ctx, h); err != nil {
			log.Error().Err(err).Str("producto", p.Nombre).Msg("no se pudo registrar el historial de precio")
		}
	}

	s.invalidarCache(ctx, p)
	return p, nil
}

func (s *productoService) Eliminar(ctx context.Context, id uuid.UUID) (bool, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, domainerr.NotFound("producto")
	}

	tiene, err := s.repo.TieneMovimientos(ctx, id)
	if err != nil {
		return false, err
	}

	if tiene {
		// History must survive: deactivate instead of deleting.
		if err := s.repo.SoftDelete(ctx, id); err != nil {
			return false, err
		}
		s.invalidarCache(ctx, p)
		return false, nil
	}

	if err := s.repo.HardDelete(ctx, id); err != nil {
		return false, err
	}
	s.invalidarCache(ctx, p)
	return true, nil
}

func (s *productoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return domainerr.NotFound("producto")
	}
	return s.repo.Reactivar(ctx, id)
}

func (s *productoService) ConsultarPrecio(ctx context.Context, codigo string) (*dto.ConsultaPreciosResponse, error) {
	if codigo == "" {
		return nil, domainerr.Validation("código requerido")
	}

	key := "precio:" + codigo
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var resp dto.ConsultaPreciosResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.repo.FindByCodigo(ctx, codigo)
	if err != nil {
		return nil, domainerr.NotFound("producto")
	}

	resp := &dto.ConsultaPreciosResponse{
		Nombre:          p.Nombre,
		PrecioVenta:     p.PrecioVenta,
		StockDisponible: p.StockActual,
		Categoria:       p.Categoria,
	}

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, key, data, precioCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("codigo", codigo).Msg("no se pudo cachear el precio")
			}
		}
	}
	return resp, nil
}

func (s *productoService) HistorialPrecios(ctx context.Context, id uuid.UUID) ([]model.HistorialPrecio, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, domainerr.NotFound("producto")
	}
	return s.historialRepo.ListByProducto(ctx, id)
}

func (s *productoService) invalidarCache(ctx context.Context, p *model.Producto) {
	if s.rdb == nil || p.Codigo == nil {
		return
	}
	if err := s.rdb.Del(ctx, "precio:"+*p.Codigo).Err(); err != nil {
		log.Warn().Err(err).Str("codigo", *p.Codigo).Msg("no se pudo invalidar el cache de precio")
	}
}
