package csv

import (
	"bytes"
	"context"
	stdcsv "encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/meli-sync-admin/internal/application/report"
	"github.com/jhoicas/meli-sync-admin/internal/domain/entity"
)

func decode(t *testing.T, raw []byte) [][]string {
	t.Helper()
	r := stdcsv.NewReader(transform.NewReader(bytes.NewReader(raw), charmap.Windows1252.NewDecoder()))
	r.Comma = Separator
	records, err := r.ReadAll()
	require.NoError(t, err)
	return records
}

func TestRender_FilasYCodificacion(t *testing.T) {
	now := time.Now()
	list := []entity.StockMovement{
		{SKU: "A-1", Title: "Camión de juguete", Quantity: 4, Reference: "OC-1", Date: now},
		{SKU: "B-2", Title: "Pantalón; talla M", Quantity: 1, Reference: "OC-2", Date: now},
	}
	tbl := report.MovementsTable(entity.MovementReception, report.Period{From: now, To: now}, list, now)

	raw, err := NewRenderer().Render(context.Background(), tbl)
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "ó", "se espera Windows-1252, no UTF-8")

	records := decode(t, raw)
	assert.Len(t, records, len(list)+2)
	assert.Equal(t, tbl.Headers(), records[0])
	assert.Equal(t, "Camión de juguete", records[1][2])
	assert.Equal(t, "Pantalón; talla M", records[2][2])
	assert.Equal(t, "Total registros: 2", records[3][0])
}

func TestRender_CaracterFueraDeCharset(t *testing.T) {
	tbl := report.ProductsTable([]entity.Product{{ID: "MLC1", Title: "Taza 😀", Currency: "CLP"}}, time.Now())
	raw, err := NewRenderer().Render(context.Background(), tbl)
	require.NoError(t, err)
	assert.Len(t, decode(t, raw), 3)
}
