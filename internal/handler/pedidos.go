package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"tiendapos/internal/apierror"
	"tiendapos/internal/dto"
	"tiendapos/internal/model"
	"tiendapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PedidosHandler struct{ svc service.PedidoService }

func NewPedidosHandler(svc service.PedidoService) *PedidosHandler {
	return &PedidosHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear pedido desde el POS
// @Description  Registra un pedido con snapshot de precios y descuentos. El stock se descuenta al confirmar, no al crear.
// @Tags         pedidos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearPedidoRequest true "Detalle del pedido"
// @Success      201  {object} dto.PedidoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/pedidos [post]
func (h *PedidosHandler) Crear(c *gin.Context) {
	var req dto.CrearPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), model.OrigenPOS, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CrearPublico is the storefront checkout: same flow, origen "web", no auth.
func (h *PedidosHandler) CrearPublico(c *gin.Context) {
	var req dto.CrearPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), model.OrigenWeb, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PedidosHandler) ObtenerPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary      Listar pedidos
// @Tags         pedidos
// @Produce      json
// @Security     BearerAuth
// @Param        estado query int    false "1..6 (0 = todos)"
// @Param        origen query string false "pos | web"
// @Param        fecha  query string false "YYYY-MM-DD"
// @Success      200 {object} dto.PedidoListResponse
// @Router       /v1/pedidos [get]
func (h *PedidosHandler) Listar(c *gin.Context) {
	var filter dto.PedidoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar pedidos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Confirmar moves Pendiente → Confirmado and decrements stock.
func (h *PedidosHandler) Confirmar(c *gin.Context) {
	h.transicionar(c, model.EstadoConfirmado)
}

// Despachar moves Confirmado → EnCamino (delivery orders only).
func (h *PedidosHandler) Despachar(c *gin.Context) {
	h.transicionar(c, model.EstadoEnCamino)
}

// Completar moves to Completado: from EnCamino for delivery, straight from
// Confirmado for pickup.
func (h *PedidosHandler) Completar(c *gin.Context) {
	h.transicionar(c, model.EstadoCompletado)
}

func (h *PedidosHandler) transicionar(c *gin.Context, a int) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Transicionar(c.Request.Context(), id, a)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrEstadoCambiado) {
			status = http.StatusConflict
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PedidosHandler) Cancelar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.CancelarPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Cancelar(c.Request.Context(), id, req.Motivo)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrEstadoCambiado) {
			status = http.StatusConflict
		}
		c.JSON(status, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Tracking godoc
// @Summary      Seguimiento publico de pedido
// @Description  Consulta por numero de orden (acepta "ORD-00050" o "50"). Incluye cuenta regresiva mientras el pedido este pendiente.
// @Tags         publico
// @Produce      json
// @Param        numero path string true "Numero de orden"
// @Success      200 {object} dto.TrackingResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/publico/pedidos/{numero} [get]
func (h *PedidosHandler) Tracking(c *gin.Context) {
	raw := strings.TrimPrefix(strings.ToUpper(c.Param("numero")), "ORD-")
	numero, err := strconv.Atoi(raw)
	if err != nil || numero < 1 {
		c.JSON(http.StatusBadRequest, apierror.New("Numero de orden invalido"))
		return
	}
	resp, err := h.svc.Tracking(c.Request.Context(), numero)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
