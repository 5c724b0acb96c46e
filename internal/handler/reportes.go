package handler

import (
	"net/http"
	"os"
	"path/filepath"

	"micromercado/internal/apierror"
	"micromercado/internal/dto"
	"micromercado/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportesHandler struct{ svc service.ReporteService }

func NewReportesHandler(svc service.ReporteService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

// Crear godoc
// @Summary Genera y guarda un reporte PDF de varias ventas
// @Description Una pagina de ticket por venta, en el orden recibido.
// @Tags reportes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearReporteRequest true "Ventas y autor"
// @Success 201 {object} model.ReporteGuardado
// @Failure 404 {object} apierror.APIError "Venta desconocida"
// @Router /v1/reportes [post]
func (h *ReportesHandler) Crear(c *gin.Context) {
	var req dto.CrearReporteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearReporte(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ReportesHandler) Listar(c *gin.Context) {
	resp, err := h.svc.ListarReportes(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportesHandler) Obtener(c *gin.Context) {
	resp, err := h.svc.ObtenerReporte(c.Request.Context(), c.Param("id"))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DescargarPDF streams the stored report document.
func (h *ReportesHandler) DescargarPDF(c *gin.Context) {
	r, err := h.svc.ObtenerReporte(c.Request.Context(), c.Param("id"))
	if err != nil {
		responderError(c, err)
		return
	}
	if _, err := os.Stat(r.PDFPath); err != nil {
		c.JSON(http.StatusNotFound, apierror.New("El PDF del reporte ya no esta disponible"))
		return
	}
	c.FileAttachment(r.PDFPath, filepath.Base(r.PDFPath))
}

func (h *ReportesHandler) Eliminar(c *gin.Context) {
	if err := h.svc.EliminarReporte(c.Request.Context(), c.Param("id")); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
