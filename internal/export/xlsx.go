package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"moneymate/internal/report"
)

// WriteXLSX renders the report workbook as an .xlsx file.
func WriteXLSX(w io.Writer, r *report.Report) error {
	return WriteWorkbookXLSX(w, BuildWorkbook(r))
}

// WriteWorkbookXLSX writes an already built workbook.
func WriteWorkbookXLSX(w io.Writer, wb *Workbook) error {
	f := excelize.NewFile()
	defer f.Close()

	styles, err := newXLSXStyles(f)
	if err != nil {
		return err
	}

	for i, sh := range wb.Sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.Name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			return fmt.Errorf("add sheet %s: %w", sh.Name, err)
		}
		if err := writeSheet(f, sh, styles); err != nil {
			return fmt.Errorf("sheet %s: %w", sh.Name, err)
		}
	}
	f.SetActiveSheet(0)

	created := wb.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z")
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:    wb.Title + " Financial Report",
		Creator:  wb.Title,
		Created:  created,
		Modified: created,
	}); err != nil {
		return fmt.Errorf("set doc props: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

type xlsxStyles struct {
	bold      int
	money     int
	boldMoney int
}

func newXLSXStyles(f *excelize.File) (xlsxStyles, error) {
	format := MoneyFormat
	var (
		s   xlsxStyles
		err error
	)
	if s.bold, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return s, fmt.Errorf("bold style: %w", err)
	}
	if s.money, err = f.NewStyle(&excelize.Style{CustomNumFmt: &format}); err != nil {
		return s, fmt.Errorf("money style: %w", err)
	}
	if s.boldMoney, err = f.NewStyle(&excelize.Style{CustomNumFmt: &format, Font: &excelize.Font{Bold: true}}); err != nil {
		return s, fmt.Errorf("bold money style: %w", err)
	}
	return s, nil
}

func writeSheet(f *excelize.File, sh Sheet, st xlsxStyles) error {
	for i, w := range sh.ColWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sh.Name, col, col, w); err != nil {
			return err
		}
	}
	for r, row := range sh.Rows {
		for c, cell := range row {
			if cell.Kind == KindText && cell.Text == "" {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			var v any
			switch cell.Kind {
			case KindInt:
				v = cell.Int
			case KindMoney:
				v = cell.Money.Float64()
			default:
				v = cell.Text
			}
			if err := f.SetCellValue(sh.Name, ref, v); err != nil {
				return err
			}
			style := 0
			switch {
			case cell.Kind == KindMoney && cell.Bold:
				style = st.boldMoney
			case cell.Kind == KindMoney:
				style = st.money
			case cell.Bold:
				style = st.bold
			}
			if style != 0 {
				if err := f.SetCellStyle(sh.Name, ref, ref, style); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
