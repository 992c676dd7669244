// Package pdf implementa la generación del comprobante PDF de un pedido.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Almacén  │  N° Pedido + Estado + Fecha             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + Tel + Saldo                              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción (lote o set) | Precio | Subtotal │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Total / Pagado / Saldo pendiente (ambas monedas)  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

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
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-ventas/internal/application/orders"
	"github.com/tu-usuario/almacen-ventas/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReceiptGenerator implementa orders.ReceiptGenerator usando Maroto v2.
type MarotoReceiptGenerator struct {
	companyName string
}

// NewMarotoReceiptGenerator construye el generador.
func NewMarotoReceiptGenerator(companyName string) *MarotoReceiptGenerator {
	return &MarotoReceiptGenerator{companyName: companyName}
}

var _ orders.ReceiptGenerator = (*MarotoReceiptGenerator)(nil)

// GenerateOrderReceipt genera el PDF del pedido y devuelve sus bytes.
func (g *MarotoReceiptGenerator) GenerateOrderReceipt(
	_ context.Context,
	order *entity.Order,
	customer *entity.Customer,
	lots map[string]*entity.StockLot,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de pedido", true).
		WithAuthor(g.companyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(order, g.companyName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range productRows(order, lots) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(order))

	if len(order.Payments) > 0 {
		m.AddRows(line.NewRow(2))
		for _, r := range paymentRows(order.Payments) {
			m.AddRows(r)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre del almacén (izq) y N° de pedido + estado + fecha (der).
func headerRow(order *entity.Order, companyName string) core.Row {
	fecha := order.CreatedAt.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(companyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Comprobante de pedido", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("PEDIDO "+shortID(order.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Estado: "+stateLabel(order.State), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

// customerRow: datos del cliente y su saldo actual.
func customerRow(customer *entity.Customer) core.Row {
	saldo := "al día"
	if customer.Payment.IsNegative() {
		saldo = "debe $" + customer.Payment.Neg().StringFixed(2)
	} else if customer.Payment.IsPositive() {
		saldo = "a favor $" + customer.Payment.StringFixed(2)
	}

	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(customer.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Tel: %s   |   Saldo: %s",
				nonEmpty(customer.Phone, "—"), saldo,
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de productos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 6, align.Left),
		h("Precio", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

// productRows: una fila por entrada; los sets con precio de paquete muestran
// sus miembros como sublíneas sin importe propio.
func productRows(order *entity.Order, lots map[string]*entity.StockLot) []core.Row {
	var result []core.Row
	for i := range order.Products {
		p := &order.Products[i]
		if p.IsSet() {
			result = append(result, setRow(p))
			for _, it := range p.Items {
				result = append(result, memberRow(&it, lots, p.PriceSet.GreaterThan(decimal.Zero)))
			}
			continue
		}
		it := p.Items[0]
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				it.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(6).Add(text.New(
				lotDescription(it.LotID, lots),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				"$"+it.Price.Sub(it.Sale).StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				"$"+it.Price.Sub(it.Sale).Mul(it.Quantity).StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// setRow: línea cabecera de un set, con su subtotal (precio de paquete o suma
// de miembros).
func setRow(p *entity.ProductEntry) core.Row {
	name := nonEmpty(p.NameSet, "Set")
	qty := "1"
	price := ""
	if p.PriceSet.GreaterThan(decimal.Zero) {
		qty = p.QuantitySet.String()
		price = "$" + p.PriceSet.Sub(p.SaleSet).StringFixed(2)
	}
	return row.New(7).Add(
		col.New(1).Add(text.New(qty, props.Text{
			Size: 8, Align: align.Center, Top: 1, Style: fontstyle.Bold,
		})),
		col.New(6).Add(text.New(name, props.Text{
			Size: 8, Align: align.Left, Top: 1, Left: 1, Style: fontstyle.Bold,
		})),
		col.New(2).Add(text.New(price, props.Text{
			Size: 8, Align: align.Right, Top: 1, Right: 1,
		})),
		col.New(3).Add(text.New("$"+p.Total().StringFixed(2), props.Text{
			Size: 8, Align: align.Right, Top: 1, Right: 1, Style: fontstyle.Bold,
		})),
	)
}

// memberRow: sublínea de un miembro del set. Si el set tiene precio de
// paquete los importes por miembro no aplican.
func memberRow(it *entity.OrderItem, lots map[string]*entity.StockLot, packaged bool) core.Row {
	subtotal := ""
	if !packaged {
		subtotal = "$" + it.Price.Sub(it.Sale).Mul(it.Quantity).StringFixed(2)
	}
	return row.New(6).Add(
		col.New(1).Add(text.New(it.Quantity.String(), props.Text{
			Size: 7.5, Align: align.Center, Top: 1, Color: colorGray,
		})),
		col.New(6).Add(text.New("· "+lotDescription(it.LotID, lots), props.Text{
			Size: 7.5, Align: align.Left, Top: 1, Left: 3, Color: colorGray,
		})),
		col.New(2),
		col.New(3).Add(text.New(subtotal, props.Text{
			Size: 7.5, Align: align.Right, Top: 1, Right: 1, Color: colorGray,
		})),
	)
}

// totalsRow: total, pagado y saldo pendiente en moneda base y de despliegue.
func totalsRow(order *entity.Order) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	paid := orders.Paid(order.TotalPrice, order.Payment)
	remaining := orders.Remaining(order.Payment)

	return row.New(26).Add(
		col.New(3),
		col.New(4).Add(
			label("Total:"),
			label("Pagado:"),
			grandLabel("SALDO PENDIENTE:"),
		),
		col.New(5).Add(
			value(bothCurrencies(order.TotalPrice, order.ExchangeRate)),
			value(bothCurrencies(paid, order.ExchangeRate)),
			grandValue(bothCurrencies(remaining, order.ExchangeRate)),
		),
	)
}

// paymentRows: historial de pagos del pedido.
func paymentRows(payments []entity.PaymentRecord) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("PAGOS REGISTRADOS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}
	for _, p := range payments {
		desc := fmt.Sprintf("%s  %s  %s",
			p.DatePaid.Format("02/01/2006"),
			paymentTypeLabel(p.Type),
			nonEmpty(p.PaymentMethod, "—"),
		)
		rows = append(rows, row.New(5).Add(
			col.New(8).Add(text.New(desc, props.Text{
				Size: 7.5, Top: 1, Left: 2, Color: colorGray,
			})),
			col.New(4).Add(text.New("$"+p.SignedBase().StringFixed(2), props.Text{
				Size: 7.5, Align: align.Right, Top: 1, Right: 1,
			})),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

// lotDescription arma la descripción legible de un lote: item, calidad,
// estilo, color y pulgadas.
func lotDescription(lotID string, lots map[string]*entity.StockLot) string {
	lot, ok := lots[lotID]
	if !ok {
		return lotID
	}
	parts := []string{lot.Item, lot.Quality, lot.Style, lot.Color}
	desc := make([]string, 0, 5)
	for _, p := range parts {
		if p != "" {
			desc = append(desc, p)
		}
	}
	if lot.Inches > 0 {
		desc = append(desc, strconv.Itoa(lot.Inches)+`"`)
	}
	return strings.Join(desc, " ")
}

// bothCurrencies formatea un monto base junto a su equivalente en moneda de
// despliegue cuando la tasa difiere de 1.
func bothCurrencies(base, rate decimal.Decimal) string {
	s := "$" + base.StringFixed(2)
	if !rate.Equal(decimal.NewFromInt(1)) && rate.GreaterThan(decimal.Zero) {
		s += "  (" + base.Mul(rate).StringFixed(2) + ")"
	}
	return s
}

func stateLabel(state string) string {
	switch state {
	case entity.OrderStateQuote:
		return "Cotización"
	case entity.OrderStateConfirmed:
		return "Confirmado"
	case entity.OrderStateEdited:
		return "Editado"
	case entity.OrderStateReverted:
		return "Revertido"
	}
	return state
}

func paymentTypeLabel(t string) string {
	if t == entity.PaymentTypeRefund {
		return "Reembolso"
	}
	return "Pago"
}

// shortID recorta un UUID a su primer bloque para mostrarlo como número de
// pedido.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return strings.ToUpper(id[:i])
	}
	return id
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
