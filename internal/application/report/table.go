// Package report arma tablas exportables a partir de los datos del backend y
// define el contrato de los renderizadores (PDF, Excel, CSV).
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/meli-sync-admin/internal/domain"
)

// Format formato de exportación.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ParseFormat valida el formato; vacío equivale a PDF.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatPDF, nil
	case FormatPDF, FormatXLSX, FormatCSV:
		return f, nil
	}
	return "", fmt.Errorf("%w: formato %q (pdf, xlsx o csv)", domain.ErrInvalidInput, s)
}

// ContentType tipo MIME del documento.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatCSV:
		return "text/csv; charset=windows-1252"
	}
	return "application/pdf"
}

// Align alineación de una columna.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Column encabezado de columna. Width es el ancho relativo en la grilla de 12 del PDF.
type Column struct {
	Title string
	Width int
	Align Align
}

// Table documento tabular listo para renderizar: encabezado, una fila por registro y pie.
type Table struct {
	Name        string // nombre del reporte (stock, sales...)
	Title       string
	Subtitle    string
	Columns     []Column
	Rows        [][]string
	Footer      []string
	Total       decimal.Decimal // monto total, si aplica (bitácora de exportaciones)
	GeneratedAt time.Time
}

// RowCount filas del documento: encabezado + registros + pie.
func (t *Table) RowCount() int {
	return len(t.Rows) + 2
}

// Validate verifica que filas y pie tengan tantas celdas como columnas.
func (t *Table) Validate() error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("report: tabla %q sin columnas", t.Name)
	}
	for i, r := range t.Rows {
		if len(r) != len(t.Columns) {
			return fmt.Errorf("report: fila %d tiene %d celdas, se esperaban %d", i, len(r), len(t.Columns))
		}
	}
	if len(t.Footer) != len(t.Columns) {
		return fmt.Errorf("report: pie con %d celdas, se esperaban %d", len(t.Footer), len(t.Columns))
	}
	return nil
}

// Headers títulos de las columnas.
func (t *Table) Headers() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Title
	}
	return out
}

// Filename nombre sugerido del archivo: <nombre>_<AAAAMMDD-HHMM>.<ext>.
func (t *Table) Filename(f Format) string {
	return fmt.Sprintf("%s_%s.%s", t.Name, t.GeneratedAt.Format("20060102-1504"), f)
}

// Renderer convierte una Table en los bytes del documento.
type Renderer interface {
	Format() Format
	Render(ctx context.Context, t *Table) ([]byte, error)
}

// Registry renderizadores disponibles por formato.
type Registry struct {
	renderers map[Format]Renderer
}

// NewRegistry registra los renderizadores recibidos.
func NewRegistry(rs ...Renderer) *Registry {
	reg := &Registry{renderers: make(map[Format]Renderer, len(rs))}
	for _, r := range rs {
		reg.renderers[r.Format()] = r
	}
	return reg
}

// Get devuelve el renderizador del formato.
func (r *Registry) Get(f Format) (Renderer, error) {
	rr, ok := r.renderers[f]
	if !ok {
		return nil, fmt.Errorf("%w: formato %s no disponible", domain.ErrInvalidInput, f)
	}
	return rr, nil
}
