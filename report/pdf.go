package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pointMM  = 25.4 / 72
	margin   = 20.0
	cellPad  = 1.5
	fontName = "Helvetica"
)

type rgb struct{ r, g, b int }

var (
	darkBlue   = rgb{0, 0, 139}
	darkGreen  = rgb{0, 100, 0}
	whiteSmoke = rgb{245, 245, 245}
	beige      = rgb{245, 245, 220}
	lightGrey  = rgb{211, 211, 211}
	black      = rgb{0, 0, 0}
)

type tableStyle struct {
	header, body         rgb
	headerSize, bodySize float64
	grid                 float64
}

var tableStyles = map[TableTheme]tableStyle{
	ThemeSummary: {header: darkBlue, body: beige, headerSize: 12, bodySize: 10, grid: 0.35},
	ThemePage:    {header: darkGreen, body: lightGrey, headerSize: 10, bodySize: 9, grid: 0.18},
}

// pdfWriter draws blocks onto an A4 page flow.
type pdfWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// WritePDF renders doc as an A4 PDF to w.
func WritePDF(doc Document, w io.Writer) error {
	pw := newPDFWriter(doc.Title)
	for _, b := range doc.Blocks {
		pw.block(b)
	}
	if err := pw.pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pw.pdf.Output(w)
}

// SavePDF writes doc to path, creating parent directories as needed.
func SavePDF(doc Document, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	if err := WritePDF(doc, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newPDFWriter(docTitle string) *pdfWriter {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(docTitle, true)
	pdf.SetCreator("cro-ux-auditor", true)
	pdf.SetCreationDate(time.Now())
	pdf.AddPage()
	return &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (w *pdfWriter) color(c rgb) {
	w.pdf.SetTextColor(c.r, c.g, c.b)
}

func (w *pdfWriter) contentWidth() float64 {
	pageW, _ := w.pdf.GetPageSize()
	left, _, right, _ := w.pdf.GetMargins()
	return pageW - left - right
}

func (w *pdfWriter) block(b Block) {
	switch b.Kind {
	case BlockTitle:
		w.text(b.Text, "B", 24, darkBlue, "C")
		w.pdf.Ln(30 * pointMM)
	case BlockHeading:
		w.pdf.Ln(20 * pointMM)
		w.text(b.Text, "B", 16, darkBlue, "L")
		w.pdf.Ln(12 * pointMM)
	case BlockSubheading:
		w.pdf.Ln(15 * pointMM)
		w.text(b.Text, "B", 14, darkGreen, "L")
		w.pdf.Ln(8 * pointMM)
	case BlockParagraph:
		w.paragraph(b)
	case BlockTable:
		w.table(b)
	case BlockSpacer:
		w.pdf.Ln(b.Space * pointMM)
	case BlockPageBreak:
		w.pdf.AddPage()
	}
}

func (w *pdfWriter) text(s, style string, size float64, c rgb, align string) {
	w.pdf.SetFont(fontName, style, size)
	w.color(c)
	w.pdf.MultiCell(0, size*pointMM*1.3, w.tr(s), "", align, false)
}

func (w *pdfWriter) paragraph(b Block) {
	const size = 11
	lineH := size * pointMM * 1.3
	w.color(black)

	switch {
	case b.Label != "":
		w.pdf.SetFont(fontName, "B", size)
		label := w.tr(b.Label + " ")
		w.pdf.CellFormat(w.pdf.GetStringWidth(label), lineH, label, "", 0, "L", false, 0, "")
		w.pdf.SetFont(fontName, "", size)
		w.pdf.MultiCell(0, lineH, w.tr(b.Text), "", "L", false)
	case b.Style == StyleBullet:
		w.pdf.SetFont(fontName, "", size)
		x := w.pdf.GetX()
		w.pdf.CellFormat(5, lineH, w.tr("•"), "", 0, "L", false, 0, "")
		w.pdf.MultiCell(0, lineH, w.tr(b.Text), "", "J", false)
		w.pdf.SetX(x)
	case b.Style == StyleBold:
		w.pdf.SetFont(fontName, "B", size)
		w.pdf.MultiCell(0, lineH, w.tr(b.Text), "", "J", false)
	default:
		w.pdf.SetFont(fontName, "", size)
		w.pdf.MultiCell(0, lineH, w.tr(b.Text), "", "J", false)
	}
	w.pdf.Ln(6 * pointMM)
}

func (w *pdfWriter) table(b Block) {
	if len(b.Rows) == 0 {
		return
	}
	style := tableStyles[b.Theme]
	widths := w.columnWidths(b)

	w.pdf.SetLineWidth(style.grid)
	w.pdf.SetDrawColor(black.r, black.g, black.b)
	for i, row := range b.Rows {
		if i == 0 {
			w.pdf.SetFont(fontName, "B", style.headerSize)
			w.pdf.SetFillColor(style.header.r, style.header.g, style.header.b)
			w.color(whiteSmoke)
			w.row(row, widths, style.headerSize*pointMM*1.3)
			continue
		}
		w.pdf.SetFont(fontName, "", style.bodySize)
		w.pdf.SetFillColor(style.body.r, style.body.g, style.body.b)
		w.color(black)
		w.row(row, widths, style.bodySize*pointMM*1.3)
	}
}

// columnWidths uses the block widths when they fit the page and otherwise
// scales them down proportionally.
func (w *pdfWriter) columnWidths(b Block) []float64 {
	cols := len(b.Rows[0])
	widths := make([]float64, cols)
	var sum float64
	for i := range widths {
		if i < len(b.Widths) {
			widths[i] = b.Widths[i]
		}
		sum += widths[i]
	}
	avail := w.contentWidth()
	if sum == 0 {
		for i := range widths {
			widths[i] = avail / float64(cols)
		}
		return widths
	}
	if sum > avail {
		for i := range widths {
			widths[i] *= avail / sum
		}
	}
	return widths
}

// row draws one table row, growing its height to fit the tallest cell.
func (w *pdfWriter) row(cells []string, widths []float64, lineH float64) {
	lines := 1
	for i, cell := range cells {
		if i >= len(widths) {
			break
		}
		if n := len(w.pdf.SplitLines([]byte(w.tr(cell)), widths[i]-2*cellPad)); n > lines {
			lines = n
		}
	}
	h := float64(lines)*lineH + 2*cellPad

	_, pageH := w.pdf.GetPageSize()
	_, _, _, bottom := w.pdf.GetMargins()
	if w.pdf.GetY()+h > pageH-bottom {
		w.pdf.AddPage()
	}

	left, y := w.pdf.GetXY()
	x := left
	for i, cell := range cells {
		if i >= len(widths) {
			break
		}
		w.pdf.Rect(x, y, widths[i], h, "FD")
		w.pdf.SetXY(x+cellPad, y+cellPad)
		w.pdf.MultiCell(widths[i]-2*cellPad, lineH, w.tr(cell), "", "L", false)
		x += widths[i]
	}
	w.pdf.SetXY(left, y+h)
}
