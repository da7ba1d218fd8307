package infra

// pdf.go — arqueo report generation using go-pdf/fpdf.
// One A5 page per cierre de caja: session header, per-type movement totals,
// theoretical vs counted amounts and the variance classification.

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// ArqueoReporte carries everything the report needs, already computed.
type ArqueoReporte struct {
	SesionCajaID  string
	PuntoDeVenta  int
	MontoApertura decimal.Decimal
	Totales       map[string]decimal.Decimal
	Teorico       decimal.Decimal
	Contado       decimal.Decimal
	Desvio        decimal.Decimal
	DesvioPct     decimal.Decimal
	Clasificacion string
	CerradoEn     time.Time
}

// GenerateArqueoPDF writes the report to storagePath/arqueo_{sesion}.pdf and
// returns the absolute path.
func GenerateArqueoPDF(rep *ArqueoReporte, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("arqueo_%s.pdf", rep.SesionCajaID))

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "AndesPOS", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Arqueo de Caja", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Sesión %s — PDV %d", rep.SesionCajaID, rep.PuntoDeVenta), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, rep.CerradoEn.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(3)

	col1 := contentW * 0.6
	col2 := contentW * 0.4

	// ── Movements by type ────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 5, "Movimiento", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Total", "B", 1, "R", false, 0, "")

	tipos := make([]string, 0, len(rep.Totales))
	for tipo := range rep.Totales {
		tipos = append(tipos, tipo)
	}
	sort.Strings(tipos)

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(col1, 5, "apertura", "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "$"+rep.MontoApertura.StringFixed(2), "", 1, "R", false, 0, "")
	for _, tipo := range tipos {
		pdf.CellFormat(col1, 5, tipo, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, "$"+rep.Totales[tipo].StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(3)

	// ── Reconciliation ───────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(col1, 6, "Saldo teórico:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "$"+rep.Teorico.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(col1, 6, "Monto contado:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "$"+rep.Contado.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(col1, 7, "Desvío:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 7, fmt.Sprintf("$%s (%s%%)", rep.Desvio.StringFixed(2), rep.DesvioPct.StringFixed(2)), "", 1, "R", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 8, "Clasificación: "+rep.Clasificacion, "1", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
