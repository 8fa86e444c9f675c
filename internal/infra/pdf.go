package infra

// Thermal receipt-style PDF tickets using go-pdf/fpdf:
//   - Business name header
//   - Ticket number and timestamp
//   - Item table (product name, quantity, line subtotal)
//   - Discount line when any line carried a discount
//   - IVA (16%) and bold total
//
// The output file is saved to storagePath/ticket_{numero}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"tiendapos/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateTicketPDF renders an internal PDF receipt for a completed Venta.
// storagePath is the directory where the PDF will be written (created if
// needed). Returns the absolute path to the generated file.
func GenerateTicketPDF(venta *model.Venta, nombreNegocio, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("ticket_%d.pdf", venta.NumeroTicket)
	filePath := filepath.Join(storagePath, fileName)

	// 74mm × 105mm — close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, nombreNegocio, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Comprobante de Compra", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Ticket info ──────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Ticket N° %d", venta.NumeroTicket), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, venta.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	// ── Items ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(contentW*0.55, 4, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.15, 4, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(contentW*0.30, 4, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range venta.Items {
		nombre := ""
		if item.Producto != nil {
			nombre = item.Producto.Nombre
		}
		if len(nombre) > 24 {
			nombre = nombre[:24]
		}
		pdf.CellFormat(contentW*0.55, 4, nombre, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.15, 4, fmt.Sprintf("%d", item.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(contentW*0.30, 4, "$"+item.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW*0.60, 5, "Subtotal", "T", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.40, 5, "$"+venta.Subtotal.StringFixed(2), "T", 1, "R", false, 0, "")

	if venta.DescuentoTotal.IsPositive() {
		pdf.CellFormat(contentW*0.60, 5, "Descuento", "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW*0.40, 5, "-$"+venta.DescuentoTotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.CellFormat(contentW*0.60, 5, "IVA 16%", "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.40, 5, "$"+venta.IVA.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW*0.60, 7, "TOTAL", "T", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.40, 7, "$"+venta.Total.StringFixed(2), "T", 1, "R", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, "¡Gracias por su compra!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
