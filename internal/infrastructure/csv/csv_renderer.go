// Package csv renderiza tablas de reporte a CSV en Windows-1252 con separador ";",
// el formato que abre directo la planilla en equipos con configuración regional en español.
package csv

import (
	"bytes"
	"context"
	stdcsv "encoding/csv"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/meli-sync-admin/internal/application/report"
)

// Separator separador de campos.
const Separator = ';'

var _ report.Renderer = (*Renderer)(nil)

// Renderer implementa report.Renderer para CSV.
type Renderer struct{}

// NewRenderer construye el renderizador.
func NewRenderer() *Renderer { return &Renderer{} }

// Format devuelve report.FormatCSV.
func (r *Renderer) Format() report.Format { return report.FormatCSV }

// Render escribe encabezado, filas y pie. Los caracteres sin equivalente en Windows-1252 se reemplazan.
func (r *Renderer) Render(ctx context.Context, t *report.Table) ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := transform.NewWriter(&buf, encoder())
	w := stdcsv.NewWriter(enc)
	w.Comma = Separator
	w.UseCRLF = true

	if err := w.Write(t.Headers()); err != nil {
		return nil, fmt.Errorf("csv: encabezado: %w", err)
	}
	for i, row := range t.Rows {
		if i%1000 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("csv: fila %d: %w", i, err)
		}
	}
	if err := w.Write(t.Footer); err != nil {
		return nil, fmt.Errorf("csv: pie: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("csv: codificar: %w", err)
	}
	return buf.Bytes(), nil
}

func encoder() transform.Transformer {
	return encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
}
