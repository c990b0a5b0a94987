package excel

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/meli-sync-admin/internal/application/report"
	"github.com/jhoicas/meli-sync-admin/internal/domain/entity"
)

func TestRender_FilasEncabezadoYPie(t *testing.T) {
	now := time.Now()
	sales := []entity.Sale{
		{ID: "2000001", Status: "paid", Currency: "CLP", TotalAmount: decimal.NewFromInt(12990), Items: []entity.SaleItem{{Quantity: 1}}},
		{ID: "2000002", Status: "paid", Currency: "CLP", TotalAmount: decimal.NewFromInt(25980), Items: []entity.SaleItem{{Quantity: 2}}},
		{ID: "2000003", Status: "paid", Currency: "CLP", TotalAmount: decimal.NewFromInt(7990), Items: []entity.SaleItem{{Quantity: 1}}},
	}
	tbl := report.SalesTable(report.Period{From: now.AddDate(0, 0, -7), To: now}, sales, now)

	out, err := NewExcelizeRenderer().Render(context.Background(), tbl)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)

	table := rows[firstTableRow-1:]
	assert.Len(t, table, len(sales)+2)
	assert.Equal(t, tbl.Headers(), table[0])
	assert.Equal(t, "2000002", table[2][1])
	assert.Equal(t, "Total registros: 3", table[len(table)-1][0])
	assert.Equal(t, "Ventas", rows[0][0])
}

func TestRender_SinFilas(t *testing.T) {
	tbl := report.StockTable("1", nil, time.Now())
	out, err := NewExcelizeRenderer().Render(context.Background(), tbl)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.Len(t, rows[firstTableRow-1:], 2)
}

func TestRender_AutofiltroSobreEncabezadoYDatos(t *testing.T) {
	now := time.Now()
	records := []entity.StockRecord{
		{SKU: "SKU-1", Title: "Polera", Quantity: 4},
		{SKU: "SKU-2", Title: "Gorro", Quantity: 1},
	}
	tbl := report.StockTable("1", records, now)

	out, err := NewExcelizeRenderer().Render(context.Background(), tbl)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	var filter *excelize.DefinedName
	for _, dn := range f.GetDefinedName() {
		if dn.Name == "_xlnm._FilterDatabase" {
			filter = &dn
			break
		}
	}
	require.NotNil(t, filter, "el libro debe tener autofiltro")
	assert.Contains(t, filter.RefersTo, sheetName)
	assert.Contains(t, filter.RefersTo, "$4:")
	assert.Contains(t, filter.RefersTo, "$6")

	panes, err := f.GetPanes(sheetName)
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
}
