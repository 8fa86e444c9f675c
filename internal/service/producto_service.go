package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// catalogoCacheKey holds the serialized public catalog. The storefront polls
// it on every visit, so it is the hottest read in the system.
const (
	catalogoCacheKey = "cache:catalogo:publico"
	catalogoCacheTTL = 60 * time.Second
)

type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	// ListarPublico serves the storefront catalog: active products only,
	// cached in Redis for a short window.
	ListarPublico(ctx context.Context) ([]dto.ProductoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	repo repository.ProductoRepository
	rdb  *redis.Client
}

func NewProductoService(repo repository.ProductoRepository, rdb *redis.Client) ProductoService {
	return &productoService{repo: repo, rdb: rdb}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	p := &model.Producto{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Precio:      req.Precio,
		Stock:       req.Stock,
		ImagenURL:   req.ImagenURL,
		Activo:      true,
	}
	if req.CategoriaID != nil {
		cid, err := uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, errors.New("categoria_id invalido")
		}
		p.CategoriaID = &cid
	}
	if req.DescuentoID != nil {
		did, err := uuid.Parse(*req.DescuentoID)
		if err != nil {
			return nil, errors.New("descuento_id invalido")
		}
		p.DescuentoID = &did
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.invalidarCatalogo(ctx)
	return productoToResponse(p), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	return productoToResponse(p), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, len(productos))
	for i := range productos {
		data[i] = *productoToResponse(&productos[i])
	}
	return &dto.ProductoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productoService) ListarPublico(ctx context.Context) ([]dto.ProductoResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, catalogoCacheKey).Result(); err == nil {
			var resp []dto.ProductoResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	productos, err := s.repo.ListActivos(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProductoResponse, len(productos))
	for i := range productos {
		resp[i] = *productoToResponse(&productos[i])
	}

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, catalogoCacheKey, data, catalogoCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("producto_service: failed to cache catalogo")
			}
		}
	}
	return resp, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	if req.Nombre != "" {
		p.Nombre = req.Nombre
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}
	if req.Precio != nil {
		p.Precio = *req.Precio
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.CategoriaID != nil {
		if *req.CategoriaID == "" {
			p.CategoriaID = nil
		} else {
			cid, err := uuid.Parse(*req.CategoriaID)
			if err != nil {
				return nil, errors.New("categoria_id invalido")
			}
			p.CategoriaID = &cid
		}
	}
	if req.DescuentoID != nil {
		if *req.DescuentoID == "" {
			p.DescuentoID = nil
			p.Descuento = nil
		} else {
			did, err := uuid.Parse(*req.DescuentoID)
			if err != nil {
				return nil, errors.New("descuento_id invalido")
			}
			p.DescuentoID = &did
		}
	}
	if req.ImagenURL != nil {
		p.ImagenURL = req.ImagenURL
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidarCatalogo(ctx)
	return productoToResponse(p), nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidarCatalogo(ctx)
	return nil
}

func (s *productoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Reactivar(ctx, id); err != nil {
		return err
	}
	s.invalidarCatalogo(ctx)
	return nil
}

func (s *productoService) invalidarCatalogo(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, catalogoCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("producto_service: failed to invalidate catalogo cache")
	}
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	resp := &dto.ProductoResponse{
		ID:          p.ID.String(),
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		Precio:      p.Precio,
		Stock:       p.Stock,
		ImagenURL:   p.ImagenURL,
		Activo:      p.Activo,
	}
	if p.CategoriaID != nil {
		cid := p.CategoriaID.String()
		resp.CategoriaID = &cid
	}
	if p.Categoria != nil {
		resp.Categoria = &p.Categoria.Nombre
	}
	if p.Descuento != nil {
		resp.Descuento = descuentoToResponse(p.Descuento)
	}
	return resp
}
