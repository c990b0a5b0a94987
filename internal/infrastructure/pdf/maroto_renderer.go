// Package pdf renderiza tablas de reporte a PDF con Maroto v2.
//
// Layout de la página A4 horizontal:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + subtítulo   │  Fecha de generación        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: encabezado con fondo + una fila por registro         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PIE: total de registros y totales por columna               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/meli-sync-admin/internal/application/report"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 45, Green: 50, Blue: 119}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorZebra   = &props.Color{Red: 242, Green: 242, Blue: 247}
)

const gridSize = 12

var _ report.Renderer = (*MarotoRenderer)(nil)

// ── Renderer ──────────────────────────────────────────────────────────────────

// MarotoRenderer implementa report.Renderer usando Maroto v2.
type MarotoRenderer struct {
	author string
}

// NewMarotoRenderer construye el renderizador. author queda en los metadatos del PDF.
func NewMarotoRenderer(author string) *MarotoRenderer { return &MarotoRenderer{author: author} }

// Format devuelve report.FormatPDF.
func (r *MarotoRenderer) Format() report.Format { return report.FormatPDF }

// Render genera el PDF y devuelve sus bytes.
func (r *MarotoRenderer) Render(ctx context.Context, t *report.Table) ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(t.Title, true).
		WithAuthor(r.author, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(t))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	widths := columnWidths(t.Columns)
	m.AddRows(tableHeaderRow(t.Columns, widths))
	for i, cells := range t.Rows {
		if i%200 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		m.AddRows(bodyRow(t.Columns, widths, cells, i%2 == 1))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow(t.Columns, widths, t.Footer))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + subtítulo (izq) y fecha de generación (der).
func headerRow(t *report.Table) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(t.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(t.Subtitle, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+t.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla con fondo de color primario.
func tableHeaderRow(cols []report.Column, widths []int) core.Row {
	cells := make([]core.Col, len(cols))
	for i, c := range cols {
		cells[i] = col.New(widths[i]).Add(text.New(c.Title, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: toAlign(c.Align),
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(cells...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// bodyRow: una fila por registro; las impares con fondo alternado.
func bodyRow(cols []report.Column, widths []int, values []string, zebra bool) core.Row {
	cells := make([]core.Col, len(cols))
	for i, c := range cols {
		cells[i] = col.New(widths[i]).Add(text.New(values[i], props.Text{
			Size: 8, Align: toAlign(c.Align), Top: 1, Left: 1, Right: 1,
		}))
	}
	r := row.New(6).Add(cells...)
	if zebra {
		r.WithStyle(&props.Cell{BackgroundColor: colorZebra})
	}
	return r
}

// footerRow: totales en negrita.
func footerRow(cols []report.Column, widths []int, values []string) core.Row {
	cells := make([]core.Col, len(cols))
	for i, c := range cols {
		cells[i] = col.New(widths[i]).Add(text.New(values[i], props.Text{
			Style: fontstyle.Bold, Size: 8, Align: toAlign(c.Align),
			Color: colorPrimary, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(cells...)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func toAlign(a report.Align) align.Type {
	switch a {
	case report.AlignCenter:
		return align.Center
	case report.AlignRight:
		return align.Right
	}
	return align.Left
}

// columnWidths ajusta los anchos relativos para que sumen exactamente 12 (grilla de Maroto).
// Sin anchos declarados se reparte en partes iguales.
func columnWidths(cols []report.Column) []int {
	out := make([]int, len(cols))
	sum := 0
	for i, c := range cols {
		w := c.Width
		if w <= 0 {
			w = 1
		}
		out[i] = w
		sum += w
	}
	if sum == gridSize || len(cols) == 0 {
		return out
	}
	// Escalar y repartir el resto en la columna más ancha.
	total := 0
	widest := 0
	for i := range out {
		out[i] = out[i] * gridSize / sum
		if out[i] < 1 {
			out[i] = 1
		}
		total += out[i]
		if out[i] > out[widest] {
			widest = i
		}
	}
	out[widest] += gridSize - total
	if out[widest] < 1 {
		out[widest] = 1
	}
	return out
}
