package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"

	"moneymate/internal/core"
	"moneymate/internal/report"
)

const (
	pdfMargin       = 14.0
	pdfFooterHeight = 20.0
	pdfHeadHeight   = 9.0
	pdfRowHeight    = 7.0
	pdfNoteLimit    = 40
)

type rgb struct{ r, g, b int }

var (
	colorBlue   = rgb{59, 130, 246}
	colorGreen  = rgb{34, 197, 94}
	colorRed    = rgb{239, 68, 68}
	colorSlate  = rgb{100, 116, 139}
	colorInk    = rgb{30, 41, 59}
	colorBody   = rgb{51, 51, 51}
	colorMuted  = rgb{100, 100, 100}
	colorStripe = rgb{248, 250, 252}
	colorLine   = rgb{229, 231, 235}
	colorWhite  = rgb{255, 255, 255}
	colorFooter = rgb{245, 245, 245}
)

type pdfColumn struct {
	title string
	width float64
	align string
	bold  bool
}

type pdfCell struct {
	text  string
	color rgb
}

type pdfDoc struct {
	*fpdf.Fpdf
	tr     func(string) string
	pageW  float64
	pageH  float64
	bottom float64
}

func (d *pdfDoc) fill(c rgb) { d.SetFillColor(c.r, c.g, c.b) }
func (d *pdfDoc) ink(c rgb)  { d.SetTextColor(c.r, c.g, c.b) }
func (d *pdfDoc) draw(c rgb) { d.SetDrawColor(c.r, c.g, c.b) }

// textRight writes s so that it ends at x.
func (d *pdfDoc) textRight(x, y float64, s string) {
	s = d.tr(s)
	d.Text(x-d.GetStringWidth(s), y, s)
}

// fit shortens s with an ellipsis until it fits in w.
func (d *pdfDoc) fit(s string, w float64) string {
	if d.GetStringWidth(s) <= w {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && d.GetStringWidth(string(runes)+"...") > w {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

// WritePDF renders r as an A4 portrait document. Output is stable for a
// given report, including its GeneratedAt.
func WritePDF(w io.Writer, r *report.Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(r.GeneratedAt)
	pdf.SetModificationDate(r.GeneratedAt)
	pdf.SetTitle(r.Title+" Financial Report", true)
	pdf.SetCreator(r.Title, true)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("")

	d := &pdfDoc{Fpdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	d.pageW, d.pageH = pdf.GetPageSize()
	d.bottom = d.pageH - pdfFooterHeight - 4

	pdf.SetFooterFunc(func() { d.footer(r.Title) })
	pdf.AddPage()

	y := d.header(r)
	y = d.summaryBand(r, y)
	if len(r.Transactions) > 0 {
		y = d.transactionTable(r, y)
	}
	if len(r.Summary.PerCategory) > 0 {
		d.categoryTable(r, y)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func (d *pdfDoc) header(r *report.Report) float64 {
	d.fill(colorBlue)
	d.Rect(0, 0, d.pageW, 35, "F")

	d.ink(colorWhite)
	d.SetFont("Helvetica", "", 10)
	d.Text(pdfMargin+2, 18, "$")
	d.SetFont("Helvetica", "B", 22)
	d.Text(pdfMargin+12, 18, d.tr(r.Title))
	d.SetFont("Helvetica", "", 10)
	d.Text(pdfMargin+12, 26, "Financial Report")

	d.SetFont("Helvetica", "", 9)
	d.textRight(d.pageW-pdfMargin, 18, displayPeriod(r))
	d.textRight(d.pageW-pdfMargin, 26, "Generated: "+r.GeneratedAt.UTC().Format("Jan 2, 2006"))
	return 45
}

func (d *pdfDoc) footer(title string) {
	d.fill(colorFooter)
	d.Rect(0, d.pageH-pdfFooterHeight, d.pageW, pdfFooterHeight, "F")
	d.SetFont("Helvetica", "", 8)
	d.ink(colorMuted)
	d.Text(pdfMargin, d.pageH-10, d.tr(title+" - Your Personal Finance Companion"))
	d.textRight(d.pageW-pdfMargin, d.pageH-10, "Page "+strconv.Itoa(d.PageNo())+" of {nb}")
}

func (d *pdfDoc) summaryBand(r *report.Report, y float64) float64 {
	s := r.Summary
	d.fill(colorStripe)
	d.RoundedRect(pdfMargin, y, d.pageW-2*pdfMargin, 50, 3, "1234", "F")

	d.SetFont("Helvetica", "B", 12)
	d.ink(colorInk)
	d.Text(pdfMargin+8, y+12, "Financial Summary")

	netColor := colorGreen
	if s.NetBalance.Cents < 0 {
		netColor = colorRed
	}
	items := []struct {
		label, value string
		color        rgb
	}{
		{"Total Income", FormatUSD(s.TotalIncome), colorGreen},
		{"Total Expenses", FormatUSD(s.TotalExpenses), colorRed},
		{"Net Balance", FormatUSD(s.NetBalance), netColor},
		{"Transactions", strconv.Itoa(s.TransactionCount), colorBlue},
	}

	boxW := (d.pageW - 2*pdfMargin - 32) / 4
	boxY := y + 22
	d.SetLineWidth(0.2)
	for i, it := range items {
		x := pdfMargin + 8 + float64(i)*(boxW+8)
		d.fill(colorWhite)
		d.draw(colorLine)
		d.RoundedRect(x, boxY, boxW, 22, 2, "1234", "FD")

		d.SetFont("Helvetica", "", 8)
		d.ink(colorMuted)
		d.Text(x+4, boxY+8, it.label)
		d.SetFont("Helvetica", "B", 11)
		d.ink(it.color)
		d.Text(x+4, boxY+17, it.value)
	}
	return y + 60
}

// sectionTitle writes a bold heading, moving to a new page first when the
// heading and one row would not fit.
func (d *pdfDoc) sectionTitle(y float64, title, aside string) float64 {
	if y+8+pdfHeadHeight+pdfRowHeight > d.bottom {
		d.AddPage()
		y = pdfMargin + 6
	}
	d.SetFont("Helvetica", "B", 12)
	d.ink(colorInk)
	d.Text(pdfMargin, y, title)
	if aside != "" {
		d.SetFont("Helvetica", "", 9)
		d.ink(colorMuted)
		d.textRight(d.pageW-pdfMargin, y, aside)
	}
	return y + 4
}

func (d *pdfDoc) tableHead(cols []pdfColumn, y float64, c rgb) float64 {
	d.SetXY(pdfMargin, y)
	d.SetFont("Helvetica", "B", 9)
	d.fill(c)
	d.ink(colorWhite)
	d.draw(colorLine)
	d.SetLineWidth(0.1)
	for _, col := range cols {
		d.CellFormat(col.width, pdfHeadHeight, col.title, "1", 0, "L", true, 0, "")
	}
	return y + pdfHeadHeight
}

// table draws rows under a head that repeats after every page break.
func (d *pdfDoc) table(cols []pdfColumn, rows [][]pdfCell, y float64, head rgb) float64 {
	y = d.tableHead(cols, y, head)
	for i, row := range rows {
		if y+pdfRowHeight > d.bottom {
			d.AddPage()
			y = d.tableHead(cols, pdfMargin, head)
		}
		d.SetXY(pdfMargin, y)
		stripe := colorWhite
		if i%2 == 1 {
			stripe = colorStripe
		}
		for j, col := range cols {
			style := ""
			if col.bold {
				style = "B"
			}
			d.SetFont("Helvetica", style, 8)
			d.fill(stripe)
			d.ink(row[j].color)
			txt := d.fit(d.tr(row[j].text), col.width-2)
			d.CellFormat(col.width, pdfRowHeight, txt, "1", 0, col.align, true, 0, "")
		}
		y += pdfRowHeight
	}
	return y
}

func typeColor(t core.Type) rgb {
	if t == core.Income {
		return colorGreen
	}
	return colorRed
}

func (d *pdfDoc) transactionTable(r *report.Report, y float64) float64 {
	maxNote := 11
	for _, t := range r.Transactions {
		note := t.Note
		if note == "" {
			note = "-"
		}
		maxNote = max(maxNote, len([]rune(note)))
	}
	descW := min(max(float64(maxNote)*1.5, 40), 70)
	tableW := d.pageW - 2*pdfMargin
	cols := []pdfColumn{
		{"Date", 24, "L", false},
		{"Type", 18, "C", false},
		{"Category", tableW - 24 - 18 - descW - 28, "L", false},
		{"Description", descW, "L", false},
		{"Amount", 28, "R", true},
	}

	rows := make([][]pdfCell, 0, len(r.Transactions))
	for _, t := range r.Transactions {
		note := t.Note
		if note == "" {
			note = "-"
		}
		if runes := []rune(note); len(runes) > pdfNoteLimit {
			note = string(runes[:pdfNoteLimit]) + "..."
		}
		sign := "+"
		if t.Type() == core.Expense {
			sign = "-"
		}
		c := typeColor(t.Type())
		rows = append(rows, []pdfCell{
			{displayDate(t.Date), colorBody},
			{t.Type().Label(), c},
			{t.Category.Label(), colorBody},
			{note, colorBody},
			{sign + FormatUSD(t.Amount), c},
		})
	}

	y = d.sectionTitle(y, "Transaction Details", fmt.Sprintf("%d transactions", len(r.Transactions)))
	return d.table(cols, rows, y, colorBlue) + 15
}

func (d *pdfDoc) categoryTable(r *report.Report, y float64) float64 {
	cols := []pdfColumn{
		{"Category", 50, "L", false},
		{"Type", 25, "C", false},
		{"Count", 20, "C", false},
		{"Total Amount", 35, "R", true},
	}
	var rows [][]pdfCell
	for _, row := range r.Summary.CategoryRows() {
		rows = append(rows, []pdfCell{
			{row.Label, colorBody},
			{row.Type.Label(), typeColor(row.Type)},
			{strconv.Itoa(row.Count), colorBody},
			{FormatUSD(row.Amount), colorBlue},
		})
	}
	y = d.sectionTitle(y, "Category Breakdown", "")
	return d.table(cols, rows, y, colorSlate)
}
