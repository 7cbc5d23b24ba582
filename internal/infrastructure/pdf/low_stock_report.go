// Package pdf genera el reporte imprimible de productos con stock bajo.
//
// Layout de la página A4 horizontal:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + fecha de generación │ total de productos  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Producto | Ubicación | Stock | Mín | Estado│
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: agotados / críticos / valor del stock             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventory-predictor/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorCritical = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// LowStockReport genera el PDF de productos en o bajo el mínimo usando Maroto v2.
type LowStockReport struct {
	title string
}

// NewLowStockReport construye el generador.
func NewLowStockReport(appName string) *LowStockReport {
	return &LowStockReport{title: appName}
}

// Generate devuelve los bytes del PDF. Una lista vacía produce el reporte con la tabla vacía.
func (g *LowStockReport) Generate(_ context.Context, items []*entity.InventoryItem, generatedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Low stock report", true).
		WithAuthor(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.title, generatedAt, len(items)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range itemRows(items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(items))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(appName string, at time.Time, count int) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("LOW STOCK REPORT", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(appName+" · "+at.UTC().Format("2006-01-02 15:04 UTC"), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New(fmt.Sprintf("%d products", count), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 4,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Code", 1, align.Left),
		h("Product", 3, align.Left),
		h("Location", 2, align.Left),
		h("Stock", 1, align.Right),
		h("Minimum", 1, align.Right),
		h("Status", 2, align.Center),
		h("Days left", 1, align.Right),
		h("Supplier", 1, align.Left),
	)
}

func itemRows(items []*entity.InventoryItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		statusText := props.Text{Size: 8, Align: align.Center, Top: 1}
		if it.Status.IsCritical() {
			statusText.Style = fontstyle.Bold
			statusText.Color = colorCritical
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(it.ProductCode, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(it.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(it.Location, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(quantity(it.CurrentStock)+" "+it.Unit, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(quantity(it.MinimumStock), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(string(it.Status), statusText)),
			col.New(1).Add(text.New(daysLeft(it.DaysOfStockRemaining), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(nonEmpty(it.Supplier, "—"), props.Text{Size: 8, Top: 1, Left: 1})),
		))
	}
	return result
}

func summaryRow(items []*entity.InventoryItem) core.Row {
	var outOfStock, critical int
	value := decimal.Zero
	for _, it := range items {
		switch it.Status {
		case entity.StockStatusOutOfStock:
			outOfStock++
		case entity.StockStatusCriticallyLow:
			critical++
		}
		value = value.Add(it.StockValue())
	}
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	val := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(label("Out of stock:"), label("Critically low:"), label("Stock value:")),
		col.New(3).Add(val(fmt.Sprint(outOfStock)), val(fmt.Sprint(critical)), val(value.StringFixed(2))),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// quantity sin ceros decimales de relleno: 12.500 -> 12.5
func quantity(d decimal.Decimal) string {
	return d.String()
}

func daysLeft(d decimal.NullDecimal) string {
	if !d.Valid {
		return "—"
	}
	return d.Decimal.StringFixed(1)
}
