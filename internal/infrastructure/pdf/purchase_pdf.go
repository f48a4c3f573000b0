// Package pdf genera la representación imprimible de una factura de compra
// (orden para el proveedor), usando Maroto v2.
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
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/restostock-api/internal/application/usecase"
	"github.com/jhoicas/restostock-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// PurchasePDFGenerator implementa usecase.PurchasePDFGenerator usando
// Maroto v2.
type PurchasePDFGenerator struct{}

var _ usecase.PurchasePDFGenerator = (*PurchasePDFGenerator)(nil)

// NewPurchasePDFGenerator construye el generador.
func NewPurchasePDFGenerator() *PurchasePDFGenerator { return &PurchasePDFGenerator{} }

// GeneratePurchasePDF genera el PDF y devuelve sus bytes.
func (g *PurchasePDFGenerator) GeneratePurchasePDF(
	_ context.Context,
	inv *entity.PurchaseInvoice,
	restaurant *entity.Restaurant,
	supplier *entity.Supplier,
	lines []usecase.PurchaseLineForPDF,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura de Compra", true).
		WithAuthor(restaurant.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(inv, restaurant))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(supplierRow(supplier))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, l := range lines {
		m.AddRows(tableLineRow(l))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(inv)...)

	if inv.Status == entity.PurchaseStatusVoid {
		m.AddRows(voidRow(inv))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: restaurante (izq) y número + fecha (der).
func headerRow(inv *entity.PurchaseInvoice, restaurant *entity.Restaurant) core.Row {
	numero := inv.InvoiceNo
	if numero == "" {
		numero = inv.ID[:8]
	}
	return row.New(16).Add(
		col.New(7).Add(
			text.New(restaurant.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("FACTURA DE COMPRA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(numero, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New(inv.InvoiceDate.Format("02/01/2006"), props.Text{
				Size: 9, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

// supplierRow datos del proveedor.
func supplierRow(s *entity.Supplier) core.Row {
	contacto := s.Phone
	if s.Email != "" {
		if contacto != "" {
			contacto += " · "
		}
		contacto += s.Email
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("PROVEEDOR: "+s.Name, props.Text{Style: fontstyle.Bold, Size: 9, Top: 1}),
			text.New(contacto, props.Text{Size: 8, Top: 6, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	header := props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}
	return row.New(7).Add(
		col.New(5).Add(text.New("Insumo", header)),
		col.New(2).Add(text.New("Cantidad", headerAlignedRight())),
		col.New(2).Add(text.New("Costo Unit.", headerAlignedRight())),
		col.New(3).Add(text.New("Total", headerAlignedRight())),
	)
}

func headerAlignedRight() props.Text {
	return props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1, Align: align.Right}
}

func tableLineRow(l usecase.PurchaseLineForPDF) core.Row {
	cell := props.Text{Size: 8, Top: 1}
	right := props.Text{Size: 8, Top: 1, Align: align.Right}
	return row.New(6).Add(
		col.New(5).Add(text.New(l.ItemName, cell)),
		col.New(2).Add(text.New(l.Line.Qty.String()+" "+l.Unit, right)),
		col.New(2).Add(text.New(l.Line.UnitCost.StringFixed(2), right)),
		col.New(3).Add(text.New(l.Line.LineTotal.StringFixed(2), right)),
	)
}

func totalsRows(inv *entity.PurchaseInvoice) []core.Row {
	label := props.Text{Size: 8, Align: align.Right, Color: colorGray, Top: 1}
	value := props.Text{Size: 8, Align: align.Right, Top: 1}
	total := props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 1}
	return []core.Row{
		row.New(5).Add(
			col.New(9).Add(text.New("Subtotal:", label)),
			col.New(3).Add(text.New(inv.Subtotal.StringFixed(2), value)),
		),
		row.New(5).Add(
			col.New(9).Add(text.New("Descuento:", label)),
			col.New(3).Add(text.New(inv.Discount.StringFixed(2), value)),
		),
		row.New(5).Add(
			col.New(9).Add(text.New("Impuesto:", label)),
			col.New(3).Add(text.New(inv.Tax.StringFixed(2), value)),
		),
		row.New(7).Add(
			col.New(9).Add(text.New("TOTAL:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1})),
			col.New(3).Add(text.New(inv.Total.StringFixed(2), total)),
		),
	}
}

// voidRow leyenda de anulación.
func voidRow(inv *entity.PurchaseInvoice) core.Row {
	leyenda := "ANULADA"
	if inv.VoidReason != "" {
		leyenda += ": " + inv.VoidReason
	}
	return row.New(8).Add(
		col.New(12).Add(
			text.New(leyenda, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Center,
				Color: &props.Color{Red: 180, Green: 30, Blue: 30}, Top: 2,
			}),
		),
	)
}
