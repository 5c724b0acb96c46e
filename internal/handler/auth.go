package handler

import (
	"net/http"

	"micromercado/internal/apierror"
	"micromercado/internal/dto"
	"micromercado/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	sesiones  service.SesionService
	productos service.ProductoService
}

func NewAuthHandler(sesiones service.SesionService, productos service.ProductoService) *AuthHandler {
	return &AuthHandler{sesiones: sesiones, productos: productos}
}

// Login godoc
// @Summary Login de cajero
// @Description Abre la sesion del cajero. Un nuevo login reemplaza la sesion anterior.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credenciales"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.sesiones.Login(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary Cierra la sesion actual
// @Tags auth
// @Security BearerAuth
// @Success 204
// @Router /v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	ses := sesion(c)
	if ses == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return
	}
	if err := h.sesiones.Logout(c.Request.Context(), ses.ID); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me describes the caller's session and cart.
func (h *AuthHandler) Me(c *gin.Context) {
	ses := sesion(c)
	if ses == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return
	}
	catalogo, err := h.productos.Catalogo(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SesionResponse{
		SesionID: ses.ID,
		CajeroID: ses.Cajero.CajeroID,
		Nombre:   ses.Cajero.Nombre,
		Email:    ses.Cajero.Email,
		LoginAt:  ses.Cajero.LoginAt,
		Carrito:  service.CarritoToResponse(ses.Carrito, catalogo),
	})
}
