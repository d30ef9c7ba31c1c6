package service

import (
	"context"

	"almacenpos/internal/dto"
	"almacenpos/internal/repository"
)

// ReporteService aggregates the summary figures shown on the dashboard.
type ReporteService interface {
	Resumen(ctx context.Context) (*dto.ResumenResponse, error)
}

type reporteService struct {
	repo repository.ReporteRepository
	caja CajaService
}

func NewReporteService(repo repository.ReporteRepository, caja CajaService) ReporteService {
	return &reporteService{repo: repo, caja: caja}
}

func (s *reporteService) Resumen(ctx context.Context) (*dto.ResumenResponse, error) {
	comprado, err := s.repo.TotalComprado(ctx)
	if err != nil {
		return nil, err
	}
	vendido, err := s.repo.TotalVendido(ctx)
	if err != nil {
		return nil, err
	}
	margen, err := s.repo.MargenBruto(ctx)
	if err != nil {
		return nil, err
	}
	inventario, err := s.repo.ValorInventario(ctx)
	if err != nil {
		return nil, err
	}
	saldo, err := s.caja.SaldoActual(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.ResumenResponse{
		TotalComprado:   comprado,
		TotalVendido:    vendido,
		MargenBruto:     margen,
		ValorInventario: inventario,
		SaldoCaja:       saldo,
	}, nil
}
