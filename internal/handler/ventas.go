package handler

import (
	"net/http"

	"micromercado/internal/dto"
	"micromercado/internal/service"

	"github.com/gin-gonic/gin"
)

type VentasHandler struct {
	ventas   service.VentaService
	reportes service.ReporteService
}

func NewVentasHandler(ventas service.VentaService, reportes service.ReporteService) *VentasHandler {
	return &VentasHandler{ventas: ventas, reportes: reportes}
}

// RegistrarVenta godoc
// @Summary Registra el carrito de la sesion como venta
// @Description Descuenta stock (recortando en cero), guarda la venta y vacia el carrito en una sola operacion.
// @Tags ventas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.RegistrarVentaRequest false "Tipo de pago y cliente"
// @Success 201 {object} model.Venta
// @Failure 400 {object} apierror.APIError "Carrito vacio"
// @Failure 404 {object} apierror.APIError "Producto del carrito ya no existe"
// @Router /v1/ventas [post]
func (h *VentasHandler) RegistrarVenta(c *gin.Context) {
	var req dto.RegistrarVentaRequest
	if c.Request.ContentLength != 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.ventas.RegistrarVenta(c.Request.Context(), sesion(c), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarVentas godoc
// @Summary Lista ventas, opcionalmente de un dia
// @Tags ventas
// @Produce json
// @Security BearerAuth
// @Param date query string false "YYYY-MM-DD"
// @Success 200 {array} model.Venta
// @Router /v1/ventas [get]
func (h *VentasHandler) ListarVentas(c *gin.Context) {
	var filter dto.VentaFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.reportes.ListarVentas(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VentasHandler) ObtenerVenta(c *gin.Context) {
	resp, err := h.reportes.ObtenerVenta(c.Request.Context(), c.Param("id"))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *VentasHandler) EliminarVenta(c *gin.Context) {
	if err := h.ventas.EliminarVenta(c.Request.Context(), c.Param("id")); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *VentasHandler) Ticket(c *gin.Context) {
	resp, err := h.reportes.Ticket(c.Request.Context(), c.Param("id"))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TicketPDF godoc
// @Summary Ticket de una venta en PDF
// @Tags ventas
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Id de venta"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Router /v1/ventas/{id}/ticket/pdf [get]
func (h *VentasHandler) TicketPDF(c *gin.Context) {
	id := c.Param("id")
	doc, err := h.reportes.TicketPDF(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="ticket_`+id+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}
