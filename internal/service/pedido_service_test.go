package service_test

import (
	"context"
	"testing"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildPedidoSvc(ttlMinutos int) (service.PedidoService, *stubPedidoRepo, *stubProductoRepo, *stubClienteRepo) {
	pedidoRepo := newStubPedidoRepo()
	productoRepo := newStubProductoRepo()
	clienteRepo := newStubClienteRepo()
	svc := service.NewPedidoService(pedidoRepo, productoRepo, clienteRepo, nil, ttlMinutos)
	return svc, pedidoRepo, productoRepo, clienteRepo
}

func crearPedidoPickup(t *testing.T, svc service.PedidoService, p *model.Producto, cantidad int) *dto.PedidoResponse {
	t.Helper()
	resp, err := svc.Crear(context.Background(), model.OrigenPOS, dto.CrearPedidoRequest{
		ContactoNombre:   "Laura Mendez",
		ContactoTelefono: "5512345678",
		Items:            []dto.ItemPedidoRequest{{ProductoID: p.ID.String(), Cantidad: cantidad}},
	})
	require.NoError(t, err)
	return resp
}

func crearPedidoDomicilio(t *testing.T, svc service.PedidoService, p *model.Producto, cantidad int) *dto.PedidoResponse {
	t.Helper()
	resp, err := svc.Crear(context.Background(), model.OrigenPOS, dto.CrearPedidoRequest{
		ContactoNombre:   "Laura Mendez",
		ContactoTelefono: "5512345678",
		EsDomicilio:      true,
		Calle:            strPtr("Av. Reforma"),
		NumeroExterior:   strPtr("120"),
		Colonia:          strPtr("Centro"),
		Items:            []dto.ItemPedidoRequest{{ProductoID: p.ID.String(), Cantidad: cantidad}},
	})
	require.NoError(t, err)
	return resp
}

// ── Crear ─────────────────────────────────────────────────────────────────────

func TestCrearPedido_SnapshotDePrecios(t *testing.T) {
	svc, _, productoRepo, _ := buildPedidoSvc(30)
	desc := &model.Descuento{Nombre: "3x mayoreo", Porcentaje: dec("10"), CantidadMinima: 3, Activo: true}
	p := seedProducto(productoRepo, "Cafe 500g", "100", 10, desc)

	resp := crearPedidoPickup(t, svc, p, 3)

	assert.Equal(t, "ORD-00001", resp.Numero)
	assert.Equal(t, model.EstadoPendiente, resp.Estado.ID)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Cafe 500g", resp.Items[0].Producto)
	// List price is snapshotted, the discounted total goes in the subtotal.
	assert.True(t, resp.Items[0].PrecioUnitario.Equal(dec("100")))
	assert.True(t, resp.Items[0].DescuentoPct.Equal(dec("10")))
	assert.True(t, resp.Items[0].Subtotal.Equal(dec("270")), "subtotal = %s", resp.Items[0].Subtotal)
	assert.True(t, resp.Items[0].Ahorro.Equal(dec("30")))
	assert.True(t, resp.Items[0].DescuentoActivo)
	// Pedido totals stay pre-IVA.
	assert.True(t, resp.Total.Equal(dec("270")))
	require.NotNil(t, resp.ExpiraEn)

	// Stock does not move at creation.
	assert.Equal(t, 10, productoRepo.productos[p.ID].Stock)
}

func TestCrearPedido_DescuentoBajoMinimoNoAplica(t *testing.T) {
	svc, _, productoRepo, _ := buildPedidoSvc(30)
	desc := &model.Descuento{Nombre: "3x mayoreo", Porcentaje: dec("10"), CantidadMinima: 3, Activo: true}
	p := seedProducto(productoRepo, "Cafe 500g", "100", 10, desc)

	resp := crearPedidoPickup(t, svc, p, 2)

	assert.True(t, resp.Items[0].DescuentoPct.IsZero())
	assert.True(t, resp.Items[0].Subtotal.Equal(dec("200")))
	assert.False(t, resp.Items[0].DescuentoActivo)
}

func TestCrearPedido_DomicilioRequiereDireccion(t *testing.T) {
	svc, _, productoRepo, _ := buildPedidoSvc(30)
	p := seedProducto(productoRepo, "Azucar 1kg", "25", 10, nil)

	_, err := svc.Crear(context.Background(), model.OrigenPOS, dto.CrearPedidoRequest{
		ContactoNombre:   "Laura Mendez",
		ContactoTelefono: "5512345678",
		EsDomicilio:      true,
		Items:            []dto.ItemPedidoRequest{{ProductoID: p.ID.String(), Cantidad: 1}},
	})
	assert.ErrorContains(t, err, "domicilio")
}

func TestCrearPedido_ProductoInactivo(t *testing.T) {
	svc, _, productoRepo, _ := buildPedidoSvc(30)
	p := seedProducto(productoRepo, "Descontinuado", "50", 10, nil)
	p.Activo = false

	_, err := svc.Crear(context.Background(), model.OrigenPOS, dto.CrearPedidoRequest{
		ContactoNombre:   "Laura Mendez",
		ContactoTelefono: "5512345678",
		Items:            []dto.ItemPedidoRequest{{ProductoID: p.ID.String(), Cantidad: 1}},
	})
	assert.ErrorContains(t, err, "inactivo")
}

func TestCrearPedido_WebReutilizaClientePorTelefono(t *testing.T) {
	svc, _, productoRepo, clienteRepo := buildPedidoSvc(30)
	p := seedProducto(productoRepo, "Azucar 1kg", "25", 20, nil)

	req := dto.CrearPedidoRequest{
		ContactoNombre:   "Laura Mendez",
		ContactoTelefono: "5512345678",
		Items:            []dto.ItemPedidoRequest{{ProductoID: p.ID.String(), Cantidad: 1}},
	}
	_, err := svc.Crear(context.Background(), model.OrigenWeb, req)
	require.NoError(t, err)
	assert.Len(t, clienteRepo.clientes, 1)

	// Same phone, no duplicate cliente.
	_, err = svc.Crear(context.Background(), model.OrigenWeb, req)
	require.NoError(t, err)
	assert.Len(t, clienteRepo.clientes, 1)
}

// ── Transicionar ──────────────────────────────────────────────────────────────

func TestTransicionar_ConfirmarDescuentaStock(t *testing.T) {
	svc, pedidoRepo, productoRepo, _ := buildPedidoSvc(30)
	p := seedProducto(productoRepo, "Cafe 500g", "100", 10, nil)
	resp := crearPedidoPickup(t, svc, p, 3)

	id := uuid.MustParse(resp.ID)
	out, err := svc.Transicionar(context.Background(), id, model.EstadoConfirmado)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoConfirmado, out.Estado.ID)
	assert.Equal(t, 7, productoRepo.productos[p.ID].Stock)
	assert.Equal(t, model.EstadoConfirmado, pedidoRepo.pedidos[id].Estado)
}

func TestTransicionar_ConfirmarSinStockSuficiente(t *testing.T) {
	svc, pedidoRepo, productoRepo, _ := buildPedidoSvc(30)
	p := seedProducto(productoRepo, "Cafe 500g", "100", 10, nil)
	resp := crearPedidoPickup(t, svc, p, 5)
	id := uuid.MustParse(resp.ID)

	// The mostrador sold most of the stock while the pedido sat pendiente.
	productoRepo.productos[p.ID].Stock = 2

	_, err := svc.Transicionar(context.Background(), id, model.EstadoConfirmado)
	assert.ErrorContains(t, err, "stock insuficiente")
	assert.Equal(t, 2, productoRepo.productos[p.ID].Stock)
	assert.Equal(t, model.EstadoPendiente, pedidoRepo.pedidos[id].Estado)
}

func TestTransicionar_RecogidaSaltaEnCamino(t *testing.T) {
	svc, _, productoRepo, _ := buildPedidoSvc(30)
	p := seedProducto(productoRepo, "Cafe 500g", "100", 10, nil)
	resp := crearPedidoPickup(t, svc, p, 1)
	id := uuid.MustParse(resp.ID)

	_, err := svc.Transicionar(context.Background(), id, model.EstadoConfirmado)
	require.NoError(t, err)

	// Pickup orders never go out for delivery.
	_, err = svc.Transicionar(context.Background(), id, model.EstadoEnCamino)
	assert.ErrorIs(t, err, service.ErrTransicionInvalida)

	out, err := svc.Transicionar(context.Background(), id, model.EstadoCompletado)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoCompletado, out.Estado.ID)
}

func TestTransicionar_DomicilioPasaPorEnCamino(t *testing.T) {
	svc, _, productoRepo, _ := buildPedidoSvc(30)
	p := seedProducto(productoRepo, "Cafe 500g", "100", 10, nil)
	resp := crearPedidoDomicilio(t, svc, p, 1)
	id := uuid.MustParse(resp.ID)

	_, err := svc.Transicionar(context.Background(), id, model.EstadoConfirmado)
	require.NoError(t, err)

	// A delivery order cannot complete without dispatch.
	_, err = svc.Transicionar(context.Background(), id, model.EstadoCompletado)
	assert.ErrorIs(t, err, service.ErrTransicionInvalida)

	_, err = svc.Transicionar(context.Background(), id, model.EstadoEnCamino)
	require.NoError(t, err)
	out, err := svc.Transicionar(context.Background(), id, model.EstadoCompletado)
	require.NoError(t, err)
	assert.Equal(t, model.EstadoCompletado, out.Estado.ID)
}

func TestTransicionar_EstadoTerminalRechazado(t *testing.T) {
	svc, pedidoRepo, productoRepo, _ := buildPedidoSvc(30)
	p := seedProducto(productoRepo, "Cafe 500g", "100", 10, nil)
	resp := crearPedidoPickup(t, svc, p, 1)
	id := uuid.MustParse(resp.ID)
	pedidoRepo.pedidos[id].Estado = model.EstadoExpirado

	_, err := svc.Transicionar(context.Background(), id, model.EstadoConfirmado)
	assert.ErrorIs(t, err, service.ErrTransicionInvalida)
}

func TestTransicionar_CarreraPerdidaDevuelveEstadoCambiado(t *testing.T) {
	svc, pedidoRepo, productoRepo, _ := buildPedidoSvc(30)
	p := seedProducto(productoRepo, "Cafe 500g", "100", 10, nil)
	resp := crearPedidoPickup(t, svc, p, 3)
	id := uuid.MustParse(resp.ID)

	// Another actor (second cashier, expiry sweep) wins the UPDATE.
	pedidoRepo.forzarRowsCero = true
	_, err := svc.Transicionar(context.Background(), id, model.EstadoConfirmado)
	assert.ErrorIs(t, err, service.ErrEstadoCambiado)
	// No partial stock movement.
	assert.Equal(t, 10, productoRepo.productos[p.ID].Stock)
}

// ── Cancelar ──────────────────────────────────────────────────────────────────

func TestCancelar_DesdeConfirmadoRestauraStock(t *testing.T) {
	svc, _, productoRepo, _ := buildPedidoSvc(30)
	p := seedProducto(productoRepo, "Cafe 500g", "100", 10, nil)
	resp := crearPedidoPickup(t, svc, p, 4)
	id := uuid.MustParse(resp.ID)

	_, err := svc.Transicionar(context.Background(), id, model.EstadoConfirmado)
	require.NoError(t, err)
	assert.Equal(t, 6, productoRepo.productos[p.ID].Stock)

	out, err := svc.Cancelar(context.Background(), id, "cliente ya no lo quiere")
	require.NoError(t, err)
	assert.Equal(t, model.EstadoCancelado, out.Estado.ID)
	assert.Equal(t, 10, productoRepo.productos[p.ID].Stock)
}

func TestCancelar_DesdePendienteNoTocaStock(t *testing.T) {
	svc, _, productoRepo, _ := buildPedidoSvc(30)
	p := seedProducto(productoRepo, "Cafe 500g", "100", 10, nil)
	resp := crearPedidoPickup(t, svc, p, 4)

	_, err := svc.Cancelar(context.Background(), uuid.MustParse(resp.ID), "numero equivocado")
	require.NoError(t, err)
	// Stock never moved for a pendiente, so nothing to restore.
	assert.Equal(t, 10, productoRepo.productos[p.ID].Stock)
}

// ── Tracking ──────────────────────────────────────────────────────────────────

func TestTracking_PendienteIncluyeCuentaRegresiva(t *testing.T) {
	svc, _, productoRepo, _ := buildPedidoSvc(30)
	p := seedProducto(productoRepo, "Cafe 500g", "100", 10, nil)
	resp := crearPedidoPickup(t, svc, p, 1)

	track, err := svc.Tracking(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, resp.Numero, track.Numero)
	require.NotNil(t, track.Restante)
	assert.False(t, track.Restante.Expirado)

	// Once confirmed the countdown disappears.
	_, err = svc.Transicionar(context.Background(), uuid.MustParse(resp.ID), model.EstadoConfirmado)
	require.NoError(t, err)
	track, err = svc.Tracking(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, track.Restante)
}

func TestTracking_NumeroInexistente(t *testing.T) {
	svc, _, _, _ := buildPedidoSvc(30)
	_, err := svc.Tracking(context.Background(), 999)
	assert.ErrorContains(t, err, "no encontrado")
}
