package service

import (
	"context"
	"errors"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
)

type DescuentoService interface {
	Crear(ctx context.Context, req dto.CrearDescuentoRequest) (*dto.DescuentoResponse, error)
	Listar(ctx context.Context) ([]dto.DescuentoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarDescuentoRequest) (*dto.DescuentoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type descuentoService struct {
	repo repository.DescuentoRepository
}

func NewDescuentoService(repo repository.DescuentoRepository) DescuentoService {
	return &descuentoService{repo: repo}
}

func (s *descuentoService) Crear(ctx context.Context, req dto.CrearDescuentoRequest) (*dto.DescuentoResponse, error) {
	minima := req.CantidadMinima
	if minima < 1 {
		minima = 1
	}
	d := &model.Descuento{
		Nombre:         req.Nombre,
		Porcentaje:     req.Porcentaje,
		CantidadMinima: minima,
		Activo:         true,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return descuentoToResponse(d), nil
}

func (s *descuentoService) Listar(ctx context.Context) ([]dto.DescuentoResponse, error) {
	descuentos, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.DescuentoResponse, len(descuentos))
	for i := range descuentos {
		resp[i] = *descuentoToResponse(&descuentos[i])
	}
	return resp, nil
}

func (s *descuentoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarDescuentoRequest) (*dto.DescuentoResponse, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("descuento no encontrado")
	}
	if req.Nombre != "" {
		d.Nombre = req.Nombre
	}
	if req.Porcentaje != nil {
		d.Porcentaje = *req.Porcentaje
	}
	if req.CantidadMinima != nil && *req.CantidadMinima >= 1 {
		d.CantidadMinima = *req.CantidadMinima
	}
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return descuentoToResponse(d), nil
}

// Eliminar removes a discount rule entirely. Products that referenced it keep
// working: the FK nulls the reference and they sell at list price.
func (s *descuentoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func descuentoToResponse(d *model.Descuento) *dto.DescuentoResponse {
	return &dto.DescuentoResponse{
		ID:             d.ID.String(),
		Nombre:         d.Nombre,
		Porcentaje:     d.Porcentaje,
		CantidadMinima: d.CantidadMinima,
		EsMayorista:    d.EsMayorista(),
		Activo:         d.Activo,
	}
}
