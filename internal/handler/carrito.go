package handler

import (
	"net/http"

	"tiendapos/internal/dto"
	"tiendapos/internal/pricing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CarritoHandler quotes carts for the POS screen. Pure calculation, no side
// effects: the POS calls it on every cart change to refresh totals and the
// "cerca de descuento" nudges.
type CarritoHandler struct{}

func NewCarritoHandler() *CarritoHandler { return &CarritoHandler{} }

// Cotizar godoc
// @Summary      Cotizar carrito
// @Description  Calcula precios unitarios, totales de linea, ahorros y avisos de cercania de descuento. Tolera claves camelCase y PascalCase en las lineas. Sin efectos secundarios.
// @Tags         pos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CotizarRequest true "Lineas del carrito"
// @Success      200  {object} dto.CotizacionResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/pos/cotizar [post]
func (h *CarritoHandler) Cotizar(c *gin.Context) {
	var req dto.CotizarRequest
	if !bindAndValidate(c, &req) {
		return
	}

	umbral := pricing.UmbralCercaniaDefault
	if req.UmbralCercania != nil {
		umbral = *req.UmbralCercania
	}

	resp := dto.CotizacionResponse{
		Lineas:      make([]dto.LineaCotizada, 0, len(req.Lineas)),
		Subtotal:    decimal.Zero,
		AhorroTotal: decimal.Zero,
	}

	for _, externa := range req.Lineas {
		linea := externa.Linea()
		calc := pricing.CalcularLineaUmbral(linea, umbral)

		resp.Lineas = append(resp.Lineas, dto.LineaCotizada{
			ProductoID:       externa.ProductoID,
			Cantidad:         externa.Cantidad,
			PrecioOriginal:   calc.PrecioOriginal.Round(2),
			PrecioFinal:      calc.PrecioFinal.Round(2),
			TotalLinea:       calc.TotalLinea.Round(2),
			Ahorro:           calc.Ahorro.Round(2),
			DescuentoActivo:  calc.DescuentoActivo,
			EsMayorista:      calc.EsMayorista,
			CercaDeDescuento: calc.CercaDeDescuento,
		})
		resp.Subtotal = resp.Subtotal.Add(calc.TotalLinea)
		resp.AhorroTotal = resp.AhorroTotal.Add(calc.Ahorro)
		if externa.Cantidad > 0 {
			resp.Unidades += externa.Cantidad
		}
	}

	if req.ConIVA {
		resp.IVA = pricing.IVA(resp.Subtotal).Round(2)
		resp.Total = pricing.AplicarIVA(resp.Subtotal).Round(2)
	} else {
		resp.IVA = decimal.Zero
		resp.Total = resp.Subtotal.Round(2)
	}
	resp.Subtotal = resp.Subtotal.Round(2)
	resp.AhorroTotal = resp.AhorroTotal.Round(2)

	c.JSON(http.StatusOK, resp)
}
