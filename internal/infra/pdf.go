package infra

// pdf.go: ticket and report rendering with go-pdf/fpdf.
// A ticket is one receipt-sized page: business header, sale metadata, item
// table, bold total and footer. A batch report is the same page repeated once
// per sale, in the order given.

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"micromercado/internal/model"

	"github.com/go-pdf/fpdf"
)

// 80mm wide thermal roll; height fits ~20 lines.
var ticketSize = fpdf.SizeType{Wd: 80, Ht: 160}

// RenderTicketsPDF renders one page per ticket and returns the PDF bytes.
func RenderTicketsPDF(tickets []model.Ticket) ([]byte, error) {
	if len(tickets) == 0 {
		return nil, fmt.Errorf("pdf: sin tickets para renderizar")
	}
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           ticketSize,
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(true, 4)
	// Core fonts are cp1252; translate UTF-8 input (ñ, ¡, accents).
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for i := range tickets {
		renderTicketPage(pdf, tr, &tickets[i])
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}

func renderTicketPage(pdf *fpdf.Fpdf, tr func(string) string, t *model.Ticket) {
	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, tr(t.Negocio), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Ticket de venta", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Metadata ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, tr("N° "+t.VentaID), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	for _, row := range [][2]string{
		{"Cliente", t.Cliente},
		{"Cajero", t.Cajero},
		{"Fecha", t.Fecha.Local().Format("02/01/2006  15:04")},
		{"Pago", t.TipoPago},
	} {
		pdf.CellFormat(contentW, 4, tr(row[0]+": "+row[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Items ────────────────────────────────────────────────────────────────
	col1 := contentW * 0.40
	col2 := contentW * 0.12
	col3 := contentW * 0.22
	col4 := contentW * 0.26

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "P. Unit", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	if t.SinDetalle {
		pdf.SetFont("Helvetica", "I", 7)
		pdf.CellFormat(contentW, 5, model.TicketSinDetalle, "", 1, "C", false, 0, "")
	}
	for _, l := range t.Lineas {
		nombre := []rune(l.Nombre)
		if len(nombre) > 20 {
			nombre = append(nombre[:19], '.')
		}
		pdf.CellFormat(col1, 5, tr(string(nombre)), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("%d", l.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+l.PrecioUnitario.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 5, "$"+l.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Total ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2+col3, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col4, 6, "$"+t.Total.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, tr("¡Gracias por su compra!"), "", 1, "C", false, 0, "")
}

// WritePDF stores doc as storagePath/name, creating the directory if needed.
// Returns the path of the written file.
func WritePDF(storagePath, name string, doc []byte) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	path := filepath.Join(storagePath, name)
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return path, nil
}
