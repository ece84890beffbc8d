package infra

// pdf.go — stock report generation using go-pdf/fpdf.
// Produces an A4 listing of the chapas currently in stock: id, material,
// supplier, available/initial area, location, plus a totals footer.

import (
	"bytes"
	"fmt"
	"time"

	"github.com/MaikonGithub/QualiCam/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerateEstoquePDF renders the current stock report and returns the PDF
// bytes, ready to be streamed to the client.
func GenerateEstoquePDF(chapas []model.Chapa) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	// Core fonts are cp1252 — accented material names need the translator.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, tr("Relatório de Estoque - Marmoraria"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, time.Now().Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	// ── Table header ─────────────────────────────────────────────────────────
	colID := contentW * 0.10
	colMat := contentW * 0.26
	colForn := contentW * 0.20
	colArea := contentW * 0.16
	colIni := contentW * 0.14
	colLoc := contentW * 0.14

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(colID, 6, "ID", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colMat, 6, "Material", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colForn, 6, "Fornecedor", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colArea, 6, tr("Área disp. (m²)"), "B", 0, "R", false, 0, "")
	pdf.CellFormat(colIni, 6, tr("Área inicial"), "B", 0, "R", false, 0, "")
	pdf.CellFormat(colLoc, 6, "Local", "B", 1, "L", false, 0, "")

	// ── Rows ─────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	totalDisp := decimal.Zero
	totalIni := decimal.Zero
	for _, c := range chapas {
		material := []rune(c.NomeMaterial)
		if len(material) > 28 {
			material = append(material[:27], '…')
		}
		pdf.CellFormat(colID, 5, fmt.Sprintf("%d", c.IDChapa), "", 0, "L", false, 0, "")
		pdf.CellFormat(colMat, 5, tr(string(material)), "", 0, "L", false, 0, "")
		pdf.CellFormat(colForn, 5, tr(c.Fornecedor), "", 0, "L", false, 0, "")
		pdf.CellFormat(colArea, 5, c.AreaDisponivel.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(colIni, 5, c.AreaLiquidaInicial.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(colLoc, 5, tr(c.Localizacao), "", 1, "L", false, 0, "")
		totalDisp = totalDisp.Add(c.AreaDisponivel)
		totalIni = totalIni.Add(c.AreaLiquidaInicial)
	}

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.Ln(2)
	pdf.Line(12, pdf.GetY(), pageW-12, pdf.GetY())
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colID+colMat+colForn, 6,
		fmt.Sprintf("%d chapas em estoque", len(chapas)), "", 0, "L", false, 0, "")
	pdf.CellFormat(colArea, 6, totalDisp.StringFixed(2), "", 0, "R", false, 0, "")
	pdf.CellFormat(colIni, 6, totalIni.StringFixed(2), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render report: %w", err)
	}
	return buf.Bytes(), nil
}
