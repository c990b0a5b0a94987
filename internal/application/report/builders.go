package report

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/meli-sync-admin/internal/domain/entity"
)

// Nombres de reporte aceptados por la exportación.
const (
	ReportStock      = "stock"
	ReportReceptions = "receptions"
	ReportDespachos  = "despachos"
	ReportSales      = "sales"
	ReportShipments  = "shipments"
	ReportProducts   = "products"
)

// Period rango del reporte (solo para el subtítulo).
type Period struct {
	From time.Time
	To   time.Time
}

func (p Period) String() string {
	return fmt.Sprintf("Período: %s al %s", Date(p.From), Date(p.To))
}

var shipmentStatusLabels = map[string]string{
	"pending":       "Pendiente",
	"handling":      "En preparación",
	"ready_to_ship": "Listo para despacho",
	"shipped":       "En camino",
	"delivered":     "Entregado",
	"not_delivered": "No entregado",
	"cancelled":     "Cancelado",
}

var productStatusLabels = map[string]string{
	entity.ProductActive:      "Activa",
	entity.ProductPaused:      "Pausada",
	entity.ProductClosed:      "Finalizada",
	entity.ProductUnderReview: "En revisión",
}

func label(m map[string]string, status string) string {
	if l, ok := m[status]; ok {
		return l
	}
	return status
}

// recordsFooter pie con el conteo en la primera celda y extra alineado a las últimas columnas.
func recordsFooter(n, cols int, extra ...string) []string {
	f := make([]string, cols)
	f[0] = "Total registros: " + Integer(int64(n))
	if len(extra) >= cols {
		extra = extra[len(extra)-cols+1:]
	}
	copy(f[cols-len(extra):], extra)
	return f
}

// StockTable existencias de una bodega.
func StockTable(warehouse string, records []entity.StockRecord, now time.Time) *Table {
	t := &Table{
		Name:     ReportStock,
		Title:    "Stock por bodega",
		Subtitle: "Bodega: " + warehouse,
		Columns: []Column{
			{Title: "SKU", Width: 2},
			{Title: "Producto", Width: 5},
			{Title: "Cantidad", Width: 2, Align: AlignRight},
			{Title: "Reservado", Width: 1, Align: AlignRight},
			{Title: "Disponible", Width: 2, Align: AlignRight},
		},
		Rows:        make([][]string, 0, len(records)),
		GeneratedAt: now,
	}
	units, available := 0, 0
	for _, r := range records {
		units += r.Quantity
		available += r.Available()
		t.Rows = append(t.Rows, []string{
			r.SKU, r.Title,
			Integer(int64(r.Quantity)), Integer(int64(r.Reserved)), Integer(int64(r.Available())),
		})
	}
	t.Footer = recordsFooter(len(records), len(t.Columns), Integer(int64(units)), "", Integer(int64(available)))
	return t
}

// MovementsTable recepciones o despachos del período.
func MovementsTable(kind string, p Period, list []entity.StockMovement, now time.Time) *Table {
	name, title := ReportReceptions, "Recepciones de inventario"
	if kind == entity.MovementDespacho {
		name, title = ReportDespachos, "Despachos de inventario"
	}
	t := &Table{
		Name:     name,
		Title:    title,
		Subtitle: p.String(),
		Columns: []Column{
			{Title: "Fecha", Width: 2, Align: AlignCenter},
			{Title: "SKU", Width: 2},
			{Title: "Producto", Width: 4},
			{Title: "Bodega", Width: 1},
			{Title: "Referencia", Width: 2},
			{Title: "Cantidad", Width: 1, Align: AlignRight},
		},
		Rows:        make([][]string, 0, len(list)),
		GeneratedAt: now,
	}
	units := 0
	for _, m := range list {
		units += m.Quantity
		t.Rows = append(t.Rows, []string{
			Date(m.Date), m.SKU, m.Title, m.WarehouseID, m.Reference, Integer(int64(m.Quantity)),
		})
	}
	t.Footer = recordsFooter(len(list), len(t.Columns), Integer(int64(units)))
	return t
}

// SalesTable órdenes del período. El pie suma por moneda (la primera en orden alfabético
// queda en la columna de total; el resto se agrega al texto).
func SalesTable(p Period, sales []entity.Sale, now time.Time) *Table {
	t := &Table{
		Name:     ReportSales,
		Title:    "Ventas",
		Subtitle: p.String(),
		Columns: []Column{
			{Title: "Fecha", Width: 2, Align: AlignCenter},
			{Title: "Orden", Width: 2},
			{Title: "Comprador", Width: 2},
			{Title: "Estado", Width: 2},
			{Title: "Unidades", Width: 1, Align: AlignRight},
			{Title: "Total", Width: 3, Align: AlignRight},
		},
		Rows:        make([][]string, 0, len(sales)),
		GeneratedAt: now,
	}
	totals := map[string]decimal.Decimal{}
	units := 0
	for _, s := range sales {
		units += s.Units()
		if s.Status != "cancelled" {
			totals[s.Currency] = totals[s.Currency].Add(s.TotalAmount)
		}
		t.Rows = append(t.Rows, []string{
			Date(s.Date), s.ID, s.BuyerNickname, s.Status,
			Integer(int64(s.Units())), Money(s.TotalAmount, s.Currency),
		})
	}

	currencies := make([]string, 0, len(totals))
	for c := range totals {
		currencies = append(currencies, c)
	}
	sort.Strings(currencies)
	total := ""
	for i, c := range currencies {
		if i > 0 {
			total += " / "
		}
		total += c + " " + Money(totals[c], c)
	}
	if len(currencies) == 1 {
		t.Total = totals[currencies[0]]
	}
	t.Footer = recordsFooter(len(sales), len(t.Columns), Integer(int64(units)), total)
	return t
}

// ShipmentsTable envíos del período.
func ShipmentsTable(p Period, list []entity.Shipment, now time.Time) *Table {
	t := &Table{
		Name:     ReportShipments,
		Title:    "Envíos",
		Subtitle: p.String(),
		Columns: []Column{
			{Title: "Fecha", Width: 2, Align: AlignCenter},
			{Title: "Envío", Width: 2},
			{Title: "Orden", Width: 2},
			{Title: "Estado", Width: 2},
			{Title: "Seguimiento", Width: 2},
			{Title: "Ciudad", Width: 2},
		},
		Rows:        make([][]string, 0, len(list)),
		GeneratedAt: now,
	}
	delivered := 0
	for _, s := range list {
		if s.Status == "delivered" {
			delivered++
		}
		t.Rows = append(t.Rows, []string{
			Date(s.CreatedAt), s.ID, s.OrderID, label(shipmentStatusLabels, s.Status), s.TrackingNumber, s.ReceiverCity,
		})
	}
	t.Footer = recordsFooter(len(list), len(t.Columns), "Entregados: "+strconv.Itoa(delivered))
	return t
}

// ProductsTable publicaciones del vendedor.
func ProductsTable(list []entity.Product, now time.Time) *Table {
	t := &Table{
		Name:  ReportProducts,
		Title: "Publicaciones",
		Columns: []Column{
			{Title: "Publicación", Width: 2},
			{Title: "SKU", Width: 2},
			{Title: "Título", Width: 4},
			{Title: "Estado", Width: 1},
			{Title: "Precio", Width: 2, Align: AlignRight},
			{Title: "Disponible", Width: 1, Align: AlignRight},
		},
		Rows:        make([][]string, 0, len(list)),
		GeneratedAt: now,
	}
	units := 0
	for _, p := range list {
		units += p.AvailableQuantity
		t.Rows = append(t.Rows, []string{
			p.ID, p.SKU, p.Title, label(productStatusLabels, p.Status),
			Money(p.Price, p.Currency), Integer(int64(p.AvailableQuantity)),
		})
	}
	t.Footer = recordsFooter(len(list), len(t.Columns), Integer(int64(units)))
	return t
}
