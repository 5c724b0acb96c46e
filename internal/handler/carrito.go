package handler

import (
	"net/http"

	"micromercado/internal/dto"
	"micromercado/internal/service"

	"github.com/gin-gonic/gin"
)

// CarritoHandler edits the cart of the caller's session.
type CarritoHandler struct{ svc service.CarritoService }

func NewCarritoHandler(svc service.CarritoService) *CarritoHandler {
	return &CarritoHandler{svc: svc}
}

func (h *CarritoHandler) Ver(c *gin.Context) {
	resp, err := h.svc.Ver(c.Request.Context(), sesion(c))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Agregar godoc
// @Summary Agrega un producto al carrito
// @Description Una cantidad <= 0 cuenta como 1. Si el producto ya esta en el carrito se suma.
// @Tags carrito
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AgregarLineaRequest true "Linea"
// @Success 200 {object} dto.CarritoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/carrito/lineas [post]
func (h *CarritoHandler) Agregar(c *gin.Context) {
	var req dto.AgregarLineaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Agregar(c.Request.Context(), sesion(c), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarritoHandler) FijarCantidad(c *gin.Context) {
	var req dto.FijarCantidadRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.FijarCantidad(c.Request.Context(), sesion(c), c.Param("productoId"), req.Cantidad)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarritoHandler) Quitar(c *gin.Context) {
	resp, err := h.svc.Quitar(c.Request.Context(), sesion(c), c.Param("productoId"))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CarritoHandler) Vaciar(c *gin.Context) {
	resp, err := h.svc.Vaciar(c.Request.Context(), sesion(c))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
