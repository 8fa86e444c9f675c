package service

import (
	"context"
	"errors"
	"fmt"
	"time"

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

type VentaService interface {
	// RegistrarVenta is the direct POS checkout. Prices and discount rules are
	// resolved server-side from the catalog; the 16% IVA overlay is applied
	// once over the discounted subtotal.
	RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	// ProcesarPedido turns a completed pedido into a sale, reusing the
	// financial snapshot frozen at order time. Idempotent per pedido.
	ProcesarPedido(ctx context.Context, usuarioID, pedidoID uuid.UUID, req dto.ProcesarPedidoRequest) (*dto.VentaResponse, error)
	AnularVenta(ctx context.Context, id uuid.UUID, motivo string) error
	ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
}

type ventaService struct {
	repo         repository.VentaRepository
	productoRepo repository.ProductoRepository
	pedidoRepo   repository.PedidoRepository
	dispatcher   *worker.Dispatcher
}

func NewVentaService(
	repo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	pedidoRepo repository.PedidoRepository,
	dispatcher *worker.Dispatcher,
) VentaService {
	return &ventaService{
		repo:         repo,
		productoRepo: productoRepo,
		pedidoRepo:   pedidoRepo,
		dispatcher:   dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── RegistrarVenta ────────────────────────────────────────────────────────────
//  1. Resolve products, compute discounted lines (pre-flight, outside TX)
//  2. Validate stock and payment sufficiency
//  3. BEGIN TX: nextval ticket, create venta+items, decrement stock
//  4. COMMIT
//  5. (async) dispatch comprobante job

func (s *ventaService) RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	type resolvedItem struct {
		productoID uuid.UUID
		nombre     string
		cantidad   int
		calc       pricing.LineaCalculada
	}

	var resolved []resolvedItem
	lineas := make([]pricing.Linea, 0, len(req.Items))

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
			return nil, fmt.Errorf("producto %s esta inactivo y no puede venderse", p.Nombre)
		}
		if p.Stock < item.Cantidad {
			return nil, fmt.Errorf("stock insuficiente para %s (disponible: %d)", p.Nombre, p.Stock)
		}

		linea := pricing.Linea{PrecioLista: p.Precio, Cantidad: item.Cantidad}
		if p.Descuento != nil && p.Descuento.Activo {
			linea.Regla = &pricing.Regla{
				Porcentaje:     p.Descuento.Porcentaje,
				CantidadMinima: p.Descuento.CantidadMinima,
			}
		}
		calc := pricing.CalcularLinea(linea)
		lineas = append(lineas, linea)
		resolved = append(resolved, resolvedItem{
			productoID: pid,
			nombre:     p.Nombre,
			cantidad:   item.Cantidad,
			calc:       calc,
		})
	}

	carrito := pricing.CalcularCarrito(lineas)
	iva := pricing.IVA(carrito.Subtotal)
	total := pricing.AplicarIVA(carrito.Subtotal)

	if req.PagoRecibido.LessThan(total) {
		return nil, errors.New("el pago recibido es insuficiente")
	}
	vuelto := req.PagoRecibido.Sub(total)

	tipo := req.TipoComprobante
	if tipo == "" {
		tipo = model.ComprobanteTicket
	}

	var venta model.Venta
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ticketNum, err := s.repo.NextTicketNumber(ctx, tx)
		if err != nil {
			return err
		}

		venta = model.Venta{
			NumeroTicket:    ticketNum,
			UsuarioID:       usuarioID,
			Subtotal:        carrito.Subtotal,
			DescuentoTotal:  carrito.AhorroTotal,
			IVA:             iva,
			Total:           total,
			TipoComprobante: tipo,
			Estado:          "completada",
		}
		for _, r := range resolved {
			venta.Items = append(venta.Items, model.VentaItem{
				ProductoID:     r.productoID,
				Cantidad:       r.cantidad,
				PrecioUnitario: r.calc.PrecioOriginal,
				DescuentoItem:  r.calc.Ahorro,
				Subtotal:       r.calc.TotalLinea,
			})
		}

		if err := s.repo.Create(ctx, tx, &venta); err != nil {
			return err
		}

		for _, r := range resolved {
			if err := s.productoRepo.UpdateStockTx(tx, r.productoID, -r.cantidad); err != nil {
				return fmt.Errorf("error descontando stock de %s: %w", r.nombre, err)
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.encolarComprobante(ctx, &venta, req.ClienteEmail)

	resp := ventaToResponse(&venta)
	resp.Vuelto = vuelto
	for i, r := range resolved {
		resp.Items[i].Producto = r.nombre
	}
	return resp, nil
}

// ── ProcesarPedido ────────────────────────────────────────────────────────────

func (s *ventaService) ProcesarPedido(ctx context.Context, usuarioID, pedidoID uuid.UUID, req dto.ProcesarPedidoRequest) (*dto.VentaResponse, error) {
	pedido, err := s.pedidoRepo.FindByID(ctx, pedidoID)
	if err != nil {
		return nil, errors.New("pedido no encontrado")
	}
	if pedido.Estado != model.EstadoCompletado {
		return nil, errors.New("solo un pedido completado puede procesarse como venta")
	}

	// Idempotency: a pedido is billed at most once.
	if existing, err := s.repo.FindByPedidoID(ctx, pedidoID); err == nil {
		return ventaToResponse(existing), nil
	}

	// Reuse the financial snapshot frozen at order time. Stock already moved
	// when the pedido was confirmed.
	subtotal := pedido.Total
	descuentoTotal := decimal.Zero
	for _, item := range pedido.Items {
		lista := item.PrecioUnitario.Mul(decimal.NewFromInt(int64(item.Cantidad)))
		descuentoTotal = descuentoTotal.Add(lista.Sub(item.Subtotal))
	}
	iva := pricing.IVA(subtotal)
	total := pricing.AplicarIVA(subtotal)

	tipo := req.TipoComprobante
	if tipo == "" {
		tipo = model.ComprobanteTicket
	}

	var venta model.Venta
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ticketNum, err := s.repo.NextTicketNumber(ctx, tx)
		if err != nil {
			return err
		}
		venta = model.Venta{
			NumeroTicket:    ticketNum,
			UsuarioID:       usuarioID,
			PedidoID:        &pedido.ID,
			Subtotal:        subtotal,
			DescuentoTotal:  descuentoTotal,
			IVA:             iva,
			Total:           total,
			TipoComprobante: tipo,
			Estado:          "completada",
		}
		for _, item := range pedido.Items {
			venta.Items = append(venta.Items, model.VentaItem{
				ProductoID:     item.ProductoID,
				Cantidad:       item.Cantidad,
				PrecioUnitario: item.PrecioUnitario,
				DescuentoItem:  item.PrecioUnitario.Mul(decimal.NewFromInt(int64(item.Cantidad))).Sub(item.Subtotal),
				Subtotal:       item.Subtotal,
			})
		}
		return s.repo.Create(ctx, tx, &venta)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("pedido", pedido.NumeroDisplay()).
		Int("ticket", venta.NumeroTicket).
		Msg("pedido procesado como venta")

	s.encolarComprobante(ctx, &venta, req.ClienteEmail)

	resp := ventaToResponse(&venta)
	for i, item := range pedido.Items {
		if item.Producto != nil {
			resp.Items[i].Producto = item.Producto.Nombre
		}
	}
	return resp, nil
}

// ── AnularVenta ───────────────────────────────────────────────────────────────

func (s *ventaService) AnularVenta(ctx context.Context, id uuid.UUID, motivo string) error {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("venta no encontrada")
	}
	if venta.Estado == "anulada" {
		return errors.New("la venta ya esta anulada")
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, item := range venta.Items {
			if err := s.productoRepo.UpdateStockTx(tx, item.ProductoID, item.Cantidad); err != nil {
				return err
			}
		}
		if err := s.repo.UpdateEstadoTx(tx, id, "anulada"); err != nil {
			return err
		}
		log.Info().Int("ticket", venta.NumeroTicket).Str("motivo", motivo).Msg("venta anulada")
		return nil
	})
}

// ListVentas returns a paginated list of sales. Default filter: today's
// completed sales.
func (s *ventaService) ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Estado == "" {
		filter.Estado = "completada"
	}
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		data = append(data, *ventaToResponse(&ventas[i]))
	}
	return &dto.VentaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *ventaService) encolarComprobante(ctx context.Context, venta *model.Venta, email *string) {
	if s.dispatcher == nil {
		return
	}
	payload := worker.ComprobanteJobPayload{VentaID: venta.ID.String(), ClienteEmail: email}
	if err := s.dispatcher.EnqueueComprobante(ctx, payload); err != nil {
		log.Warn().Err(err).Int("ticket", venta.NumeroTicket).Msg("failed to enqueue comprobante")
	}
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	items := make([]dto.ItemVentaResponse, 0, len(v.Items))
	for _, item := range v.Items {
		nombre := ""
		if item.Producto != nil {
			nombre = item.Producto.Nombre
		}
		items = append(items, dto.ItemVentaResponse{
			Producto:       nombre,
			Cantidad:       item.Cantidad,
			PrecioUnitario: item.PrecioUnitario,
			Descuento:      item.DescuentoItem,
			Subtotal:       item.Subtotal,
		})
	}
	resp := &dto.VentaResponse{
		ID:              v.ID.String(),
		NumeroTicket:    v.NumeroTicket,
		Items:           items,
		Subtotal:        v.Subtotal,
		DescuentoTotal:  v.DescuentoTotal,
		IVA:             v.IVA,
		Total:           v.Total,
		TipoComprobante: v.TipoComprobante,
		Estado:          v.Estado,
		CreatedAt:       v.CreatedAt.Format(time.RFC3339),
	}
	if v.PedidoID != nil {
		pid := v.PedidoID.String()
		resp.PedidoID = &pid
	}
	return resp
}
