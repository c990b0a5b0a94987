// Package excel renderiza tablas de reporte a XLSX con excelize.
package excel

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/meli-sync-admin/internal/application/report"
)

const (
	sheetName = "Reporte"
	// firstTableRow fila del encabezado de la tabla (las anteriores llevan título y subtítulo).
	firstTableRow = 4
	maxColWidth   = 60.0
)

var _ report.Renderer = (*ExcelizeRenderer)(nil)

// ExcelizeRenderer implementa report.Renderer generando un libro de una hoja.
type ExcelizeRenderer struct{}

// NewExcelizeRenderer construye el renderizador.
func NewExcelizeRenderer() *ExcelizeRenderer { return &ExcelizeRenderer{} }

// Format devuelve report.FormatXLSX.
func (r *ExcelizeRenderer) Format() report.Format { return report.FormatXLSX }

// Render genera el XLSX: título, subtítulo, encabezado, filas y pie.
func (r *ExcelizeRenderer) Render(ctx context.Context, t *report.Table) ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("excel: renombrar hoja: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14, Color: "2D3277"}})
	if err != nil {
		return nil, fmt.Errorf("excel: estilo: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"2D3277"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("excel: estilo: %w", err)
	}
	footerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: []excelize.Border{{Type: "top", Color: "2D3277", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("excel: estilo: %w", err)
	}

	if err := f.SetCellValue(sheetName, "A1", t.Title); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", "A1", titleStyle); err != nil {
		return nil, fmt.Errorf("excel: estilo título: %w", err)
	}
	if err := f.SetCellValue(sheetName, "A2", t.Subtitle); err != nil {
		return nil, err
	}

	widths := make([]int, len(t.Columns))
	rowIdx := firstTableRow
	if err := writeRow(f, rowIdx, t.Headers(), widths); err != nil {
		return nil, err
	}
	if err := styleRow(f, rowIdx, len(t.Columns), headerStyle); err != nil {
		return nil, err
	}
	for i, cells := range t.Rows {
		if i%500 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		rowIdx++
		if err := writeRow(f, rowIdx, cells, widths); err != nil {
			return nil, err
		}
	}
	rowIdx++
	if err := writeRow(f, rowIdx, t.Footer, widths); err != nil {
		return nil, err
	}
	if err := styleRow(f, rowIdx, len(t.Columns), footerStyle); err != nil {
		return nil, err
	}

	// Autofiltro sobre encabezado y datos; el pie queda fuera.
	filterFrom, _ := excelize.CoordinatesToCellName(1, firstTableRow)
	filterTo, _ := excelize.CoordinatesToCellName(len(t.Columns), firstTableRow+len(t.Rows))
	if err := f.AutoFilter(sheetName, filterFrom+":"+filterTo, nil); err != nil {
		return nil, fmt.Errorf("excel: autofiltro: %w", err)
	}

	for i, w := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		width := float64(w) + 2
		if width > maxColWidth {
			width = maxColWidth
		}
		if err := f.SetColWidth(sheetName, name, name, width); err != nil {
			return nil, fmt.Errorf("excel: ancho columna %s: %w", name, err)
		}
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze: true, YSplit: firstTableRow, TopLeftCell: fmt.Sprintf("A%d", firstTableRow+1), ActivePane: "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("excel: inmovilizar encabezado: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, rowIdx int, values []string, widths []int) error {
	cell, err := excelize.CoordinatesToCellName(1, rowIdx)
	if err != nil {
		return err
	}
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
		if n := utf8.RuneCountInString(v); n > widths[i] {
			widths[i] = n
		}
	}
	if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
		return fmt.Errorf("excel: fila %d: %w", rowIdx, err)
	}
	return nil
}

func styleRow(f *excelize.File, rowIdx, cols, style int) error {
	from, _ := excelize.CoordinatesToCellName(1, rowIdx)
	to, _ := excelize.CoordinatesToCellName(cols, rowIdx)
	return f.SetCellStyle(sheetName, from, to, style)
}
