package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tiendapos/internal/countdown"
	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/pricing"
	"tiendapos/internal/repository"
	"tiendapos/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrTransicionInvalida = errors.New("transicion de estado no permitida")
	// ErrEstadoCambiado means another actor moved the pedido first (double
	// click, second staff member, or the expiry sweep).
	ErrEstadoCambiado = errors.New("el pedido cambio de estado, recargue e intente de nuevo")
)

type PedidoService interface {
	Crear(ctx context.Context, origen string, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error)
	Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error)
	// Transicionar applies one state machine move. Stock is decremented on
	// confirmation and restored when a confirmed pedido is cancelled.
	Transicionar(ctx context.Context, id uuid.UUID, a int) (*dto.PedidoResponse, error)
	Cancelar(ctx context.Context, id uuid.UUID, motivo string) (*dto.PedidoResponse, error)
	// Tracking is the public lookup by order number; includes the countdown
	// payload while the pedido is still Pendiente.
	Tracking(ctx context.Context, numero int) (*dto.TrackingResponse, error)
}

type pedidoService struct {
	repo         repository.PedidoRepository
	productoRepo repository.ProductoRepository
	clienteRepo  repository.ClienteRepository
	dispatcher   *worker.Dispatcher
	ttl          time.Duration
}

func NewPedidoService(
	repo repository.PedidoRepository,
	productoRepo repository.ProductoRepository,
	clienteRepo repository.ClienteRepository,
	dispatcher *worker.Dispatcher,
	ttlMinutos int,
) PedidoService {
	return &pedidoService{
		repo:         repo,
		productoRepo: productoRepo,
		clienteRepo:  clienteRepo,
		dispatcher:   dispatcher,
		ttl:          time.Duration(ttlMinutos) * time.Minute,
	}
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// Price and discount are snapshotted into the items at creation time; later
// catalog edits never rewrite an order. Stock is NOT touched here — it is
// decremented on confirmation, so an abandoned pedido never blocks inventory.

func (s *pedidoService) Crear(ctx context.Context, origen string, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error) {
	if req.EsDomicilio {
		if req.Calle == nil || *req.Calle == "" ||
			req.NumeroExterior == nil || *req.NumeroExterior == "" ||
			req.Colonia == nil || *req.Colonia == "" {
			return nil, errors.New("pedido a domicilio requiere calle, numero exterior y colonia")
		}
	}

	// Resolve products and snapshot financials (pre-flight, outside TX)
	items := make([]model.PedidoItem, 0, len(req.Items))
	lineas := make([]pricing.Linea, 0, len(req.Items))
	nombres := make([]string, 0, len(req.Items))

	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id invalido: %w", err)
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("producto %s no encontrado", item.ProductoID)
		}
		if !p.Activo {
			return nil, fmt.Errorf("producto %s esta inactivo", p.Nombre)
		}

		linea := pricing.Linea{PrecioLista: p.Precio, Cantidad: item.Cantidad}
		if p.Descuento != nil && p.Descuento.Activo {
			linea.Regla = &pricing.Regla{
				Porcentaje:     p.Descuento.Porcentaje,
				CantidadMinima: p.Descuento.CantidadMinima,
			}
		}
		calc := pricing.CalcularLinea(linea)

		pct := decimal.Zero
		if calc.DescuentoActivo && linea.Regla != nil {
			pct = linea.Regla.Porcentaje
		}
		items = append(items, model.PedidoItem{
			ProductoID:     pid,
			Cantidad:       item.Cantidad,
			PrecioUnitario: p.Precio,
			DescuentoPct:   pct,
			Subtotal:       calc.TotalLinea,
		})
		lineas = append(lineas, linea)
		nombres = append(nombres, p.Nombre)
	}

	carrito := pricing.CalcularCarrito(lineas)

	// Web orders attach to a Cliente keyed by phone; first order creates it.
	var clienteID *uuid.UUID
	if origen == model.OrigenWeb {
		if c, err := s.clienteRepo.FindByTelefono(ctx, req.ContactoTelefono); err == nil {
			clienteID = &c.ID
		} else {
			nuevo := &model.Cliente{Nombre: req.ContactoNombre, Telefono: req.ContactoTelefono, Activo: true}
			if err := s.clienteRepo.Create(ctx, nuevo); err == nil {
				clienteID = &nuevo.ID
			}
		}
	}

	expira := time.Now().Add(s.ttl)

	var pedido model.Pedido
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		numero, err := s.repo.NextNumero(ctx, tx)
		if err != nil {
			return err
		}
		pedido = model.Pedido{
			Numero:           numero,
			Origen:           origen,
			Estado:           model.EstadoPendiente,
			ContactoNombre:   req.ContactoNombre,
			ContactoTelefono: req.ContactoTelefono,
			EsDomicilio:      req.EsDomicilio,
			Calle:            req.Calle,
			NumeroExterior:   req.NumeroExterior,
			Colonia:          req.Colonia,
			Total:            carrito.Subtotal,
			ExpiraEn:         &expira,
			ClienteID:        clienteID,
			Items:            items,
		}
		return s.repo.Create(ctx, tx, &pedido)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notificar(ctx, &pedido, fmt.Sprintf(
		"Recibimos tu pedido %s. Tienes %d minutos para confirmarlo en tienda o espera nuestra confirmacion.",
		pedido.NumeroDisplay(), int(s.ttl.Minutes())))

	resp := pedidoToResponse(&pedido)
	for i := range resp.Items {
		resp.Items[i].Producto = nombres[i]
	}
	return resp, nil
}

func (s *pedidoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("pedido no encontrado")
	}
	return pedidoToResponse(p), nil
}

func (s *pedidoService) Listar(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	pedidos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.PedidoResponse, len(pedidos))
	for i := range pedidos {
		data[i] = *pedidoToResponse(&pedidos[i])
	}
	return &dto.PedidoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── Transicionar ──────────────────────────────────────────────────────────────

func (s *pedidoService) Transicionar(ctx context.Context, id uuid.UUID, a int) (*dto.PedidoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("pedido no encontrado")
	}

	de := p.Estado
	if !model.PuedeTransicionar(de, a, p.EsDomicilio) {
		return nil, ErrTransicionInvalida
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Inventory commits at confirmation, so availability is re-checked
		// here: stock may have been sold at the mostrador since the pedido
		// was created.
		if a == model.EstadoConfirmado {
			for _, item := range p.Items {
				prod, err := s.productoRepo.FindByIDTx(tx, item.ProductoID)
				if err != nil {
					return fmt.Errorf("producto %s no encontrado", item.ProductoID)
				}
				if prod.Stock < item.Cantidad {
					return fmt.Errorf("stock insuficiente para %s (disponible: %d)", prod.Nombre, prod.Stock)
				}
			}
		}

		rows, err := s.repo.UpdateEstadoDesde(ctx, tx, id, de, a)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrEstadoCambiado
		}

		if a == model.EstadoConfirmado {
			for _, item := range p.Items {
				if err := s.productoRepo.UpdateStockTx(tx, item.ProductoID, -item.Cantidad); err != nil {
					return fmt.Errorf("error descontando stock: %w", err)
				}
			}
		}
		if a == model.EstadoCancelado && de != model.EstadoPendiente {
			for _, item := range p.Items {
				if err := s.productoRepo.UpdateStockTx(tx, item.ProductoID, item.Cantidad); err != nil {
					return fmt.Errorf("error restaurando stock: %w", err)
				}
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	p.Estado = a
	s.notificar(ctx, p, fmt.Sprintf("%s: %s", p.NumeroDisplay(), model.ConfigDeEstado(a).EtiquetaPublica))
	return pedidoToResponse(p), nil
}

func (s *pedidoService) Cancelar(ctx context.Context, id uuid.UUID, motivo string) (*dto.PedidoResponse, error) {
	resp, err := s.Transicionar(ctx, id, model.EstadoCancelado)
	if err != nil {
		return nil, err
	}
	log.Info().Str("pedido", resp.Numero).Str("motivo", motivo).Msg("pedido cancelado")
	return resp, nil
}

// ── Tracking ──────────────────────────────────────────────────────────────────

func (s *pedidoService) Tracking(ctx context.Context, numero int) (*dto.TrackingResponse, error) {
	p, err := s.repo.FindByNumero(ctx, numero)
	if err != nil {
		return nil, errors.New("pedido no encontrado")
	}

	full := pedidoToResponse(p)
	resp := &dto.TrackingResponse{
		Numero:    full.Numero,
		Estado:    full.Estado,
		Items:     full.Items,
		Total:     full.Total,
		CreatedAt: full.CreatedAt,
	}

	if p.Estado == model.EstadoPendiente && p.ExpiraEn != nil {
		r := countdown.Hasta(*p.ExpiraEn, time.Now())
		resp.Restante = &dto.RestanteResponse{
			Horas:    r.Horas,
			Minutos:  r.Minutos,
			Segundos: r.Segundos,
			Expirado: r.Expirado,
		}
	}
	return resp, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *pedidoService) notificar(ctx context.Context, p *model.Pedido, texto string) {
	if s.dispatcher == nil || p.ContactoTelefono == "" {
		return
	}
	payload := worker.NotificacionJobPayload{
		Telefono:     p.ContactoTelefono,
		Texto:        texto,
		PedidoNumero: p.NumeroDisplay(),
	}
	if err := s.dispatcher.EnqueueNotificacion(ctx, payload); err != nil {
		log.Warn().Err(err).Str("pedido", p.NumeroDisplay()).Msg("failed to enqueue notification")
	}
}

func estadoToResponse(id int) dto.EstadoResponse {
	c := model.ConfigDeEstado(id)
	return dto.EstadoResponse{
		ID:              c.ID,
		Etiqueta:        c.Etiqueta,
		EtiquetaPublica: c.EtiquetaPublica,
		Color:           c.Color,
		Icono:           c.Icono,
		Accion:          c.Accion,
		Terminal:        c.Terminal,
	}
}

func pedidoToResponse(p *model.Pedido) *dto.PedidoResponse {
	items := make([]dto.ItemPedidoResponse, 0, len(p.Items))
	for _, item := range p.Items {
		nombre := ""
		if item.Producto != nil {
			nombre = item.Producto.Nombre
		}
		precioLinea := item.PrecioUnitario.Mul(decimal.NewFromInt(int64(item.Cantidad)))
		items = append(items, dto.ItemPedidoResponse{
			Producto:        nombre,
			Cantidad:        item.Cantidad,
			PrecioUnitario:  item.PrecioUnitario,
			DescuentoPct:    item.DescuentoPct,
			Subtotal:        item.Subtotal,
			Ahorro:          precioLinea.Sub(item.Subtotal),
			DescuentoActivo: item.DescuentoPct.IsPositive(),
		})
	}

	resp := &dto.PedidoResponse{
		ID:               p.ID.String(),
		Numero:           p.NumeroDisplay(),
		Origen:           p.Origen,
		Estado:           estadoToResponse(p.Estado),
		ContactoNombre:   p.ContactoNombre,
		ContactoTelefono: p.ContactoTelefono,
		EsDomicilio:      p.EsDomicilio,
		Calle:            p.Calle,
		NumeroExterior:   p.NumeroExterior,
		Colonia:          p.Colonia,
		Items:            items,
		Total:            p.Total,
		CreatedAt:        p.CreatedAt.Format(time.RFC3339),
	}
	if p.ExpiraEn != nil {
		e := p.ExpiraEn.UTC().Format(time.RFC3339)
		resp.ExpiraEn = &e
	}
	return resp
}
