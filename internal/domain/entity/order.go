package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de un pedido.
const (
	OrderStateQuote     = "quote"     // cotización, sin stock reservado
	OrderStateConfirmed = "confirmed" // stock reservado, saldo aplicado al cliente
	OrderStateEdited    = "edited"    // confirmado y editado después
	OrderStateReverted  = "reverted"  // terminal: stock liberado, saldo revertido
)

// Eventos que disparan transiciones del ciclo de vida.
const (
	OrderEventConfirm = "confirm"
	OrderEventRevert  = "revert"
	OrderEventPay     = "pay"
	OrderEventEdit    = "edit"
)

// transitions: tabla estado × evento → permitido. Las transiciones ilegales
// se rechazan antes de cualquier efecto secundario.
var transitions = map[string]map[string]bool{
	OrderStateQuote: {
		OrderEventConfirm: true,
		OrderEventPay:     true, // confirma implícitamente primero
		OrderEventEdit:    true,
	},
	OrderStateConfirmed: {
		OrderEventRevert: true,
		OrderEventPay:    true,
		OrderEventEdit:   true,
	},
	OrderStateEdited: {
		OrderEventConfirm: true,
		OrderEventRevert:  true,
		OrderEventPay:     true,
		OrderEventEdit:    true,
	},
	OrderStateReverted: {}, // terminal
}

// CanTransition indica si el evento está permitido desde el estado dado.
func CanTransition(state, event string) bool {
	return transitions[state][event]
}

// IsConfirmedFamily indica si el pedido tiene stock reservado y saldo
// aplicado al cliente (confirmed o edited).
func IsConfirmedFamily(state string) bool {
	return state == OrderStateConfirmed || state == OrderStateEdited
}

// Tipos de registro de pago.
const (
	PaymentTypeCustomerPaid = "customer-paid"
	PaymentTypeRefund       = "refund"
)

// OrderItem es una línea vendible dentro de un ProductEntry: referencia al
// lote más el precio/descuento resueltos al componer, con las banderas de
// override manual que los fijan frente a recálculos de nivel de precio.
type OrderItem struct {
	LotID       string          `json:"id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Sale        decimal.Decimal `json:"sale"`
	CustomPrice bool            `json:"customPrice"`
	CustomSale  bool            `json:"customSale"`
}

// ProductEntry es la forma canónica persistida de una entrada del pedido:
// un ítem suelto (Items con un elemento, campos de set en cero) o un set
// (≥2 ítems y opcionalmente precio de paquete propio).
type ProductEntry struct {
	NameSet     string          `json:"nameSet,omitempty"`
	PriceSet    decimal.Decimal `json:"priceSet"`
	QuantitySet decimal.Decimal `json:"quantitySet"`
	SaleSet     decimal.Decimal `json:"saleSet"`
	IsCalcSet   bool            `json:"isCalcSet"` // espejo de PriceSet > 0
	Items       []OrderItem     `json:"items"`
}

// IsSet indica si la entrada agrupa varios ítems (un set tiene siempre ≥2).
func (p *ProductEntry) IsSet() bool {
	return len(p.Items) > 1
}

// Total devuelve el aporte de la entrada al total del pedido: si es un set
// con precio de paquete (>0), (priceSet - saleSet) * quantitySet reemplaza
// la suma de los ítems; en caso contrario suma (price - sale) * quantity
// por ítem.
func (p *ProductEntry) Total() decimal.Decimal {
	if p.IsSet() && p.PriceSet.GreaterThan(decimal.Zero) {
		return p.PriceSet.Sub(p.SaleSet).Mul(p.QuantitySet)
	}
	total := decimal.Zero
	for _, it := range p.Items {
		total = total.Add(it.Price.Sub(it.Sale).Mul(it.Quantity))
	}
	return total
}

// PaymentRecord es un pago o reembolso registrado sobre un pedido.
// Amount está en moneda de despliegue; AmountBase en moneda base (la que
// afecta los saldos).
type PaymentRecord struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"` // customer-paid | refund
	ExchangeRate  decimal.Decimal `json:"exchangeRate"`
	Amount        decimal.Decimal `json:"amount"`
	AmountBase    decimal.Decimal `json:"amountBase"`
	PaymentMethod string          `json:"paymentMethod"`
	DatePaid      time.Time       `json:"datePaid"`
	Note          string          `json:"note"`
}

// SignedBase devuelve el delta firmado del pago sobre los saldos en moneda
// base: positivo para customer-paid, negativo para refund.
func (p *PaymentRecord) SignedBase() decimal.Decimal {
	if p.Type == PaymentTypeRefund {
		return p.AmountBase.Neg()
	}
	return p.AmountBase
}

// Order representa un pedido persistido con su lista canónica de productos
// y su historial de pagos. Payment acumula el efecto exacto del pedido sobre
// el saldo del cliente (-totalPrice al confirmar, ± pagos), de modo que la
// reversión resta ese valor registrado en lugar de recomputarlo.
type Order struct {
	ID           string
	CustomerID   string
	State        string
	ExchangeRate decimal.Decimal // 1 unidad base → N unidades de despliegue
	TotalPrice   decimal.Decimal
	Payment      decimal.Decimal // saldo firmado: negativo = el cliente debe
	Note         string
	Products     []ProductEntry
	Payments     []PaymentRecord
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ComputeTotal suma el aporte de todas las entradas de producto.
func ComputeTotal(products []ProductEntry) decimal.Decimal {
	total := decimal.Zero
	for i := range products {
		total = total.Add(products[i].Total())
	}
	return total
}

// QuantitiesByLot acumula la cantidad reservada por lote en la lista de
// productos (un lote aparece a lo sumo una vez por pedido, pero se suma por
// robustez).
func QuantitiesByLot(products []ProductEntry) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for i := range products {
		for _, it := range products[i].Items {
			out[it.LotID] = out[it.LotID].Add(it.Quantity)
		}
	}
	return out
}
