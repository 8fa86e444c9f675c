package service

import (
	"context"
	"errors"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
)

type CategoriaService interface {
	Crear(ctx context.Context, req dto.CrearCategoriaRequest) (*dto.CategoriaResponse, error)
	Listar(ctx context.Context, incluirInactivas bool) ([]dto.CategoriaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (*dto.CategoriaResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type categoriaService struct {
	repo repository.CategoriaRepository
}

func NewCategoriaService(repo repository.CategoriaRepository) CategoriaService {
	return &categoriaService{repo: repo}
}

func (s *categoriaService) Crear(ctx context.Context, req dto.CrearCategoriaRequest) (*dto.CategoriaResponse, error) {
	cat := &model.Categoria{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Activo:      true,
	}
	if err := s.repo.Create(ctx, cat); err != nil {
		return nil, err
	}
	return categoriaToResponse(cat), nil
}

func (s *categoriaService) Listar(ctx context.Context, incluirInactivas bool) ([]dto.CategoriaResponse, error) {
	categorias, err := s.repo.List(ctx, incluirInactivas)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CategoriaResponse, len(categorias))
	for i := range categorias {
		resp[i] = *categoriaToResponse(&categorias[i])
	}
	return resp, nil
}

func (s *categoriaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (*dto.CategoriaResponse, error) {
	cat, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("categoria no encontrada")
	}
	if req.Nombre != "" {
		cat.Nombre = req.Nombre
	}
	if req.Descripcion != nil {
		cat.Descripcion = req.Descripcion
	}
	if err := s.repo.Update(ctx, cat); err != nil {
		return nil, err
	}
	return categoriaToResponse(cat), nil
}

func (s *categoriaService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func categoriaToResponse(c *model.Categoria) *dto.CategoriaResponse {
	return &dto.CategoriaResponse{
		ID:          c.ID.String(),
		Nombre:      c.Nombre,
		Descripcion: c.Descripcion,
		Activo:      c.Activo,
	}
}
