package handler

import (
	"net/http"

	"micromercado/internal/dto"
	"micromercado/internal/service"

	"github.com/gin-gonic/gin"
)

type PedidosHandler struct{ svc service.PedidoService }

func NewPedidosHandler(svc service.PedidoService) *PedidosHandler {
	return &PedidosHandler{svc: svc}
}

// CrearPedido godoc
// @Summary Programa el carrito de la sesion como pedido para un cliente
// @Tags pedidos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearPedidoRequest true "Cliente y fecha de entrega"
// @Success 201 {object} model.Pedido
// @Failure 400 {object} apierror.APIError "Carrito vacio, cliente o fecha faltante"
// @Router /v1/pedidos [post]
func (h *PedidosHandler) CrearPedido(c *gin.Context) {
	var req dto.CrearPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearPedido(c.Request.Context(), sesion(c), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PedidosHandler) Listar(c *gin.Context) {
	var filter dto.PedidoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PedidosHandler) Obtener(c *gin.Context) {
	resp, err := h.svc.Obtener(c.Request.Context(), c.Param("id"))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Entregar godoc
// @Summary Marca un pedido pendiente como entregado
// @Tags pedidos
// @Produce json
// @Security BearerAuth
// @Param id path string true "Id de pedido"
// @Success 200 {object} model.Pedido
// @Failure 409 {object} apierror.APIError "El pedido ya fue entregado"
// @Router /v1/pedidos/{id}/entregar [patch]
func (h *PedidosHandler) Entregar(c *gin.Context) {
	resp, err := h.svc.Entregar(c.Request.Context(), c.Param("id"))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PedidosHandler) Cancelar(c *gin.Context) {
	if err := h.svc.Cancelar(c.Request.Context(), c.Param("id")); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
