package handler

import (
	"net/http"

	"tiendapos/internal/apierror"
	"tiendapos/internal/dto"
	"tiendapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DescuentosHandler struct{ svc service.DescuentoService }

func NewDescuentosHandler(svc service.DescuentoService) *DescuentosHandler {
	return &DescuentosHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear regla de descuento
// @Description  Cantidad minima 1 crea una oferta directa; mayor a 1, una regla mayorista.
// @Tags         descuentos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearDescuentoRequest true "Regla de descuento"
// @Success      201  {object} dto.DescuentoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/descuentos [post]
func (h *DescuentosHandler) Crear(c *gin.Context) {
	var req dto.CrearDescuentoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *DescuentosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar descuentos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DescuentosHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarDescuentoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DescuentosHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
