// Package pdf implementa la generación de la remisión de una orden de
// producción externa: el documento que acompaña los materiales enviados
// al armador y que este firma al recibirlos.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Taller + N° Remisión │ Fecha + Estado              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ARMADOR: Nombre / Tel / Dirección                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA MATERIALES: Cant | SKU | Descripción                 │
//	│  TABLA SALIDA ESPERADA: Cant | SKU | Producto               │
//	│  TABLA PASOS: Paso | Cant | Precio Unit.                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FIRMAS: Entrega / Recibe                                   │
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
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	apporders "github.com/jhoicas/Taller-api/internal/application/orders"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa orders.DispatchPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

var _ apporders.DispatchPDFGenerator = (*MarotoPDFGenerator)(nil)

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateDispatchPDF genera la remisión y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateDispatchPDF(
	_ context.Context,
	order *entity.ExternalOrder,
	armador *entity.Armador,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Remisión de materiales", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(armadorRow(armador))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Materiales enviados
	m.AddRows(sectionTitleRow("MATERIALES ENVIADOS"))
	m.AddRows(materialsHeaderRow())
	for _, r := range materialRows(order.Items) {
		m.AddRows(r)
	}

	// Salida esperada
	m.AddRows(line.NewRow(2))
	m.AddRows(sectionTitleRow("PRODUCTO ESPERADO"))
	m.AddRows(materialsHeaderRow())
	for _, r := range outputRows(order.Outputs) {
		m.AddRows(r)
	}

	// Pasos de armado (informativos)
	if len(order.Steps) > 0 {
		m.AddRows(line.NewRow(2))
		m.AddRows(sectionTitleRow("PASOS DE ARMADO"))
		for _, r := range stepRows(order.Steps) {
			m.AddRows(r)
		}
	}

	// Bloque de firmas
	m.AddRows(line.NewRow(6))
	m.AddRows(signaturesRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + N° de orden (izq) y fecha + estado (der).
func headerRow(order *entity.ExternalOrder) core.Row {
	fecha := order.CreatedAt.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New("REMISIÓN DE MATERIALES", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Orden: "+order.ID, props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Fecha: "+fecha, props.Text{
				Size: 9, Align: align.Right, Top: 2,
			}),
			text.New("Estado: "+order.Status, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 9,
				Color: colorPrimary,
			}),
		),
	)
}

// armadorRow: datos del armador que recibe los materiales.
func armadorRow(armador *entity.Armador) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("ARMADOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(armador.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Tel: %s   |   Dirección: %s",
				nonEmpty(armador.Phone, "—"),
				nonEmpty(armador.Address, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func sectionTitleRow(title string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
		}),
	))
}

// materialsHeaderRow: cabecera compartida por materiales y salida esperada.
func materialsHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorGray, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(
		h("Cant.", 2, align.Center),
		h("SKU", 3, align.Left),
		h("Descripción", 7, align.Left),
	)
}

// materialRows: una fila por material enviado.
func materialRows(items []*entity.OrderItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, item := range items {
		sku, name := item.ProductID, ""
		if item.Product != nil {
			sku, name = item.Product.SKU, item.Product.Name
		}
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(
				item.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(sku, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(7).Add(text.New(name, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
		))
	}
	return result
}

// outputRows: una fila por producto esperado de vuelta.
func outputRows(outputs []*entity.OrderOutput) []core.Row {
	result := make([]core.Row, 0, len(outputs))
	for _, out := range outputs {
		sku, name := out.ProductID, ""
		if out.Product != nil {
			sku, name = out.Product.SKU, out.Product.Name
		}
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(
				out.ExpectedQty.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(sku, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(7).Add(text.New(name, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
		))
	}
	return result
}

// stepRows: pasos de armado con su precio unitario pactado.
func stepRows(steps []*entity.AssemblyStep) []core.Row {
	result := make([]core.Row, 0, len(steps))
	for _, step := range steps {
		result = append(result, row.New(6).Add(
			col.New(7).Add(text.New(step.WorkName, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(
				step.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(
				"$"+formatMoney(step.UnitPrice.StringFixed(0)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// signaturesRow: líneas de firma para quien entrega y quien recibe.
func signaturesRow() core.Row {
	sig := func(label string) core.Col {
		return col.New(5).Add(
			text.New("_____________________________", props.Text{
				Size: 9, Align: align.Center, Top: 8,
			}),
			text.New(label, props.Text{
				Size: 8, Align: align.Center, Top: 14, Color: colorGray,
			}),
		)
	}
	return row.New(20).Add(
		col.New(1),
		sig("Entrega (taller)"),
		sig("Recibe (armador)"),
		col.New(1),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
