package model

import "time"

// ReporteGuardado is a generated multi-sale PDF kept for later download.
// PDFPath is the document handle: a file under PDF_STORAGE_PATH.
type ReporteGuardado struct {
	ID         string    `json:"id"`
	CreadoPor  string    `json:"createdBy"`
	FechaDesde string    `json:"firstDate"`
	FechaHasta string    `json:"lastDate"`
	PDFPath    string    `json:"pdfUrl"`
	Ventas     []string  `json:"sales"`
	CreatedAt  time.Time `json:"createdAt"`
}
