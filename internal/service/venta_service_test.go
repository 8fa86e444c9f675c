package service_test

import (
	"context"
	"testing"
	"time"

	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildVentaSvc() (service.VentaService, *stubVentaRepo, *stubProductoRepo, *stubPedidoRepo) {
	ventaRepo := newStubVentaRepo()
	productoRepo := newStubProductoRepo()
	pedidoRepo := newStubPedidoRepo()
	svc := service.NewVentaService(ventaRepo, productoRepo, pedidoRepo, nil)
	return svc, ventaRepo, productoRepo, pedidoRepo
}

// ── RegistrarVenta ────────────────────────────────────────────────────────────

func TestRegistrarVenta_TotalesConIVA(t *testing.T) {
	svc, ventaRepo, productoRepo, _ := buildVentaSvc()
	desc := &model.Descuento{Nombre: "3x mayoreo", Porcentaje: dec("10"), CantidadMinima: 3, Activo: true}
	p := seedProducto(productoRepo, "Cafe 500g", "100", 10, desc)

	// 3 × 100 con 10% = 270; IVA 16% = 43.2; total 313.2; pago 400 → vuelto 86.8
	resp, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:        []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 3}},
		PagoRecibido: dec("400"),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.NumeroTicket)
	assert.Equal(t, "completada", resp.Estado)
	assert.Equal(t, model.ComprobanteTicket, resp.TipoComprobante)
	assert.True(t, resp.Subtotal.Equal(dec("270")), "subtotal = %s", resp.Subtotal)
	assert.True(t, resp.DescuentoTotal.Equal(dec("30")))
	assert.True(t, resp.IVA.Equal(dec("43.2")), "iva = %s", resp.IVA)
	assert.True(t, resp.Total.Equal(dec("313.2")), "total = %s", resp.Total)
	assert.True(t, resp.Vuelto.Equal(dec("86.8")), "vuelto = %s", resp.Vuelto)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Cafe 500g", resp.Items[0].Producto)
	assert.True(t, resp.Items[0].PrecioUnitario.Equal(dec("100")))
	assert.True(t, resp.Items[0].Descuento.Equal(dec("30")))

	// Direct POS sale moves stock immediately.
	assert.Equal(t, 7, productoRepo.productos[p.ID].Stock)
	assert.Len(t, ventaRepo.ventas, 1)
}

func TestRegistrarVenta_SinDescuentoBajoMinimo(t *testing.T) {
	svc, _, productoRepo, _ := buildVentaSvc()
	desc := &model.Descuento{Nombre: "3x mayoreo", Porcentaje: dec("10"), CantidadMinima: 3, Activo: true}
	p := seedProducto(productoRepo, "Cafe 500g", "100", 10, desc)

	resp, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:        []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 2}},
		PagoRecibido: dec("300"),
	})
	require.NoError(t, err)
	assert.True(t, resp.Subtotal.Equal(dec("200")))
	assert.True(t, resp.DescuentoTotal.IsZero())
	assert.True(t, resp.IVA.Equal(dec("32")))
	assert.True(t, resp.Total.Equal(dec("232")))
}

func TestRegistrarVenta_PagoInsuficiente(t *testing.T) {
	svc, ventaRepo, productoRepo, _ := buildVentaSvc()
	p := seedProducto(productoRepo, "Cafe 500g", "100", 10, nil)

	_, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:        []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 2}},
		PagoRecibido: dec("200"), // total con IVA es 232
	})
	assert.ErrorContains(t, err, "insuficiente")
	assert.Empty(t, ventaRepo.ventas)
	assert.Equal(t, 10, productoRepo.productos[p.ID].Stock)
}

func TestRegistrarVenta_StockInsuficiente(t *testing.T) {
	svc, _, productoRepo, _ := buildVentaSvc()
	p := seedProducto(productoRepo, "Cafe 500g", "100", 2, nil)

	_, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:        []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 5}},
		PagoRecibido: dec("1000"),
	})
	assert.ErrorContains(t, err, "stock insuficiente")
}

func TestRegistrarVenta_ProductoInactivo(t *testing.T) {
	svc, _, productoRepo, _ := buildVentaSvc()
	p := seedProducto(productoRepo, "Descontinuado", "100", 10, nil)
	p.Activo = false

	_, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:        []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 1}},
		PagoRecibido: dec("200"),
	})
	assert.ErrorContains(t, err, "inactivo")
}

// ── ProcesarPedido ────────────────────────────────────────────────────────────

func seedPedidoCompletado(t *testing.T, pedidoRepo *stubPedidoRepo, p *model.Producto) *model.Pedido {
	t.Helper()
	pedido := &model.Pedido{
		ID:     uuid.New(),
		Numero: 1,
		Origen: model.OrigenWeb,
		Estado: model.EstadoCompletado,
		Total:  dec("270"),
		Items: []model.PedidoItem{{
			ProductoID:     p.ID,
			Cantidad:       3,
			PrecioUnitario: dec("100"),
			DescuentoPct:   dec("10"),
			Subtotal:       dec("270"),
			Producto:       p,
		}},
		CreatedAt: time.Now(),
	}
	require.NoError(t, pedidoRepo.Create(context.Background(), nil, pedido))
	return pedido
}

func TestProcesarPedido_ReusaSnapshotYAplicaIVA(t *testing.T) {
	svc, _, productoRepo, pedidoRepo := buildVentaSvc()
	p := seedProducto(productoRepo, "Cafe 500g", "100", 7, nil)
	pedido := seedPedidoCompletado(t, pedidoRepo, p)

	resp, err := svc.ProcesarPedido(context.Background(), uuid.New(), pedido.ID, dto.ProcesarPedidoRequest{})
	require.NoError(t, err)

	require.NotNil(t, resp.PedidoID)
	assert.Equal(t, pedido.ID.String(), *resp.PedidoID)
	assert.True(t, resp.Subtotal.Equal(dec("270")))
	assert.True(t, resp.DescuentoTotal.Equal(dec("30")))
	assert.True(t, resp.IVA.Equal(dec("43.2")))
	assert.True(t, resp.Total.Equal(dec("313.2")))

	// Stock already moved at confirmation; processing must not move it again.
	assert.Equal(t, 7, productoRepo.productos[p.ID].Stock)
}

func TestProcesarPedido_RequiereCompletado(t *testing.T) {
	svc, _, productoRepo, pedidoRepo := buildVentaSvc()
	p := seedProducto(productoRepo, "Cafe 500g", "100", 10, nil)
	pedido := seedPedidoCompletado(t, pedidoRepo, p)
	pedido.Estado = model.EstadoConfirmado

	_, err := svc.ProcesarPedido(context.Background(), uuid.New(), pedido.ID, dto.ProcesarPedidoRequest{})
	assert.ErrorContains(t, err, "completado")
}

func TestProcesarPedido_Idempotente(t *testing.T) {
	svc, ventaRepo, productoRepo, pedidoRepo := buildVentaSvc()
	p := seedProducto(productoRepo, "Cafe 500g", "100", 7, nil)
	pedido := seedPedidoCompletado(t, pedidoRepo, p)

	resp1, err := svc.ProcesarPedido(context.Background(), uuid.New(), pedido.ID, dto.ProcesarPedidoRequest{})
	require.NoError(t, err)

	resp2, err := svc.ProcesarPedido(context.Background(), uuid.New(), pedido.ID, dto.ProcesarPedidoRequest{})
	require.NoError(t, err)
	assert.Equal(t, resp1.ID, resp2.ID)
	assert.Len(t, ventaRepo.ventas, 1)
}

// ── AnularVenta ───────────────────────────────────────────────────────────────

func TestAnularVenta_RestauraStock(t *testing.T) {
	svc, ventaRepo, productoRepo, _ := buildVentaSvc()
	p := seedProducto(productoRepo, "Cafe 500g", "100", 10, nil)

	resp, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:        []dto.ItemVentaRequest{{ProductoID: p.ID.String(), Cantidad: 3}},
		PagoRecibido: dec("400"),
	})
	require.NoError(t, err)
	assert.Equal(t, 7, productoRepo.productos[p.ID].Stock)

	id := uuid.MustParse(resp.ID)
	require.NoError(t, svc.AnularVenta(context.Background(), id, "error de captura"))
	assert.Equal(t, 10, productoRepo.productos[p.ID].Stock)
	assert.Equal(t, "anulada", ventaRepo.ventas[id].Estado)

	// Second annulment is rejected, stock stays put.
	err = svc.AnularVenta(context.Background(), id, "doble click")
	assert.ErrorContains(t, err, "anulada")
	assert.Equal(t, 10, productoRepo.productos[p.ID].Stock)
}

// ── ListVentas ────────────────────────────────────────────────────────────────

func TestListVentas_FiltroPorDefecto(t *testing.T) {
	svc, ventaRepo, _, _ := buildVentaSvc()

	_, err := svc.ListVentas(context.Background(), dto.VentaFilter{})
	require.NoError(t, err)
	assert.Equal(t, "completada", ventaRepo.ultimoFiltro.Estado)
	assert.Equal(t, 1, ventaRepo.ultimoFiltro.Page)
	assert.Equal(t, 50, ventaRepo.ultimoFiltro.Limit)
}
