package service_test

// In-memory repository stubs. All DB() methods return nil so services run
// their transaction bodies directly against the stubs.

import (
	"context"
	"errors"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func strPtr(s string) *string { return &s }

// ── stubProductoRepo ─────────────────────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return p, nil
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	out := make([]model.Producto, 0, len(r.productos))
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) ListActivos(_ context.Context) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.Activo {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.productos[id]; ok {
		p.Activo = false
	}
	return nil
}

func (r *stubProductoRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if p, ok := r.productos[id]; ok {
		p.Activo = true
	}
	return nil
}

func (r *stubProductoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductoRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.productos[id]
	if !ok {
		return errors.New("record not found")
	}
	p.Stock += delta
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// seedProducto registers an active product; desc may be nil.
func seedProducto(r *stubProductoRepo, nombre, precio string, stock int, desc *model.Descuento) *model.Producto {
	p := &model.Producto{
		ID:        uuid.New(),
		Nombre:    nombre,
		Precio:    dec(precio),
		Stock:     stock,
		Activo:    true,
		Descuento: desc,
	}
	r.productos[p.ID] = p
	return p
}

// ── stubPedidoRepo ───────────────────────────────────────────────────────────

type stubPedidoRepo struct {
	pedidos   map[uuid.UUID]*model.Pedido
	porNumero map[int]*model.Pedido
	seq       int
	// forzarRowsCero simulates losing the estado race: UpdateEstadoDesde
	// reports zero rows touched without changing anything.
	forzarRowsCero bool
}

func newStubPedidoRepo() *stubPedidoRepo {
	return &stubPedidoRepo{
		pedidos:   make(map[uuid.UUID]*model.Pedido),
		porNumero: make(map[int]*model.Pedido),
	}
}

func (r *stubPedidoRepo) Create(_ context.Context, _ *gorm.DB, p *model.Pedido) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.pedidos[p.ID] = p
	r.porNumero[p.Numero] = p
	return nil
}

func (r *stubPedidoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pedido, error) {
	p, ok := r.pedidos[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return p, nil
}

func (r *stubPedidoRepo) FindByNumero(_ context.Context, numero int) (*model.Pedido, error) {
	p, ok := r.porNumero[numero]
	if !ok {
		return nil, errors.New("record not found")
	}
	return p, nil
}

func (r *stubPedidoRepo) NextNumero(_ context.Context, _ *gorm.DB) (int, error) {
	r.seq++
	return r.seq, nil
}

func (r *stubPedidoRepo) List(_ context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error) {
	var out []model.Pedido
	for _, p := range r.pedidos {
		if filter.Estado != 0 && p.Estado != filter.Estado {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubPedidoRepo) UpdateEstadoDesde(_ context.Context, _ *gorm.DB, id uuid.UUID, de, a int) (int64, error) {
	if r.forzarRowsCero {
		return 0, nil
	}
	p, ok := r.pedidos[id]
	if !ok || p.Estado != de {
		return 0, nil
	}
	p.Estado = a
	return 1, nil
}

func (r *stubPedidoRepo) ListPendientesVencidos(_ context.Context, corte time.Time, limit int) ([]model.Pedido, error) {
	var out []model.Pedido
	for _, p := range r.pedidos {
		if p.Estado == model.EstadoPendiente && p.ExpiraEn != nil && p.ExpiraEn.Before(corte) {
			out = append(out, *p)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *stubPedidoRepo) DB() *gorm.DB { return nil }

var _ repository.PedidoRepository = (*stubPedidoRepo)(nil)

// ── stubClienteRepo ──────────────────────────────────────────────────────────

type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return c, nil
}

func (r *stubClienteRepo) FindByTelefono(_ context.Context, telefono string) (*model.Cliente, error) {
	for _, c := range r.clientes {
		if c.Telefono == telefono {
			return c, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *stubClienteRepo) List(_ context.Context, _ string, _, _ int) ([]model.Cliente, int64, error) {
	var out []model.Cliente
	for _, c := range r.clientes {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if c, ok := r.clientes[id]; ok {
		c.Activo = false
	}
	return nil
}

func (r *stubClienteRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	if c, ok := r.clientes[id]; ok {
		c.Activo = true
	}
	return nil
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

// ── stubVentaRepo ────────────────────────────────────────────────────────────

type stubVentaRepo struct {
	ventas       map[uuid.UUID]*model.Venta
	porPedido    map[uuid.UUID]*model.Venta
	ticketSeq    int
	ultimoFiltro dto.VentaFilter
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{
		ventas:    make(map[uuid.UUID]*model.Venta),
		porPedido: make(map[uuid.UUID]*model.Venta),
	}
}

func (r *stubVentaRepo) Create(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	r.ventas[v.ID] = v
	if v.PedidoID != nil {
		r.porPedido[*v.PedidoID] = v
	}
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return v, nil
}

func (r *stubVentaRepo) FindByPedidoID(_ context.Context, pedidoID uuid.UUID) (*model.Venta, error) {
	v, ok := r.porPedido[pedidoID]
	if !ok {
		return nil, errors.New("record not found")
	}
	return v, nil
}

func (r *stubVentaRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado string) error {
	v, ok := r.ventas[id]
	if !ok {
		return errors.New("record not found")
	}
	v.Estado = estado
	return nil
}

func (r *stubVentaRepo) NextTicketNumber(_ context.Context, _ *gorm.DB) (int, error) {
	r.ticketSeq++
	return r.ticketSeq, nil
}

func (r *stubVentaRepo) List(_ context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	r.ultimoFiltro = filter
	var out []model.Venta
	for _, v := range r.ventas {
		if filter.Estado != "" && filter.Estado != "all" && v.Estado != filter.Estado {
			continue
		}
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)
