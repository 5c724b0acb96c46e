package handler

import (
	"net/http"

	"micromercado/internal/dto"
	"micromercado/internal/service"

	"github.com/gin-gonic/gin"
)

type CajerosHandler struct{ svc service.CajeroService }

func NewCajerosHandler(svc service.CajeroService) *CajerosHandler {
	return &CajerosHandler{svc: svc}
}

// Crear godoc
// @Summary Alta de cajero
// @Description El registro admite como maximo MAX_CAJEROS cajeros (4 por defecto).
// @Tags cajeros
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearCajeroRequest true "Cajero"
// @Success 201 {object} dto.CajeroResponse
// @Failure 409 {object} apierror.APIError "Limite alcanzado o email duplicado"
// @Router /v1/cajeros [post]
func (h *CajerosHandler) Crear(c *gin.Context) {
	var req dto.CrearCajeroRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CajerosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CajerosHandler) Obtener(c *gin.Context) {
	resp, err := h.svc.Obtener(c.Request.Context(), c.Param("id"))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CajerosHandler) Actualizar(c *gin.Context) {
	var req dto.ActualizarCajeroRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CajerosHandler) Eliminar(c *gin.Context) {
	if err := h.svc.Eliminar(c.Request.Context(), c.Param("id")); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
