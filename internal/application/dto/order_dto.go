package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-ventas/internal/domain/entity"
)

// OrderItemPayload línea de producto en el payload de un pedido. Los nombres
// de campo son el contrato de intercambio con los clientes del API.
type OrderItemPayload struct {
	LotID       string          `json:"id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Sale        decimal.Decimal `json:"sale"`
	CustomPrice bool            `json:"customPrice"`
	CustomSale  bool            `json:"customSale"`
}

// ProductEntryPayload entrada de producto: suelta (un ítem, campos de set en
// cero) o set (≥2 ítems; isCalcSet refleja priceSet > 0).
type ProductEntryPayload struct {
	NameSet     string             `json:"nameSet,omitempty"`
	PriceSet    decimal.Decimal    `json:"priceSet"`
	QuantitySet decimal.Decimal    `json:"quantitySet"`
	SaleSet     decimal.Decimal    `json:"saleSet"`
	IsCalcSet   bool               `json:"isCalcSet"`
	Items       []OrderItemPayload `json:"items"`
}

// CreateOrderRequest payload de envío de un pedido (cotización).
type CreateOrderRequest struct {
	ExchangeRate decimal.Decimal       `json:"exchangeRate"`
	CustomerID   string                `json:"customer"`
	Note         string                `json:"note"`
	Products     []ProductEntryPayload `json:"products"`
}

// UpdateOrderRequest reemplaza productos/cliente/tasa/nota de un pedido
// existente. Un campo nil no se toca.
type UpdateOrderRequest struct {
	ExchangeRate *decimal.Decimal      `json:"exchangeRate"`
	CustomerID   *string               `json:"customer"`
	Note         *string               `json:"note"`
	Products     []ProductEntryPayload `json:"products"`
}

// RevertOrderRequest nota opcional de la reversión.
type RevertOrderRequest struct {
	Note string `json:"note"`
}

// PaymentRequest registro de pago sin id (el servidor lo asigna).
type PaymentRequest struct {
	Type          string          `json:"type"` // customer-paid | refund
	ExchangeRate  decimal.Decimal `json:"exchangeRate"`
	Amount        decimal.Decimal `json:"amount"`     // moneda de despliegue
	AmountBase    decimal.Decimal `json:"amountBase"` // moneda base
	PaymentMethod string          `json:"paymentMethod"`
	DatePaid      time.Time       `json:"datePaid"`
	Note          string          `json:"note"`
}

// PaymentResponse registro de pago persistido.
type PaymentResponse struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	ExchangeRate  decimal.Decimal `json:"exchangeRate"`
	Amount        decimal.Decimal `json:"amount"`
	AmountBase    decimal.Decimal `json:"amountBase"`
	PaymentMethod string          `json:"paymentMethod"`
	DatePaid      time.Time       `json:"datePaid"`
	Note          string          `json:"note"`
}

// OrderResponse salida completa de un pedido, con el desglose derivado
// pagado/restante.
type OrderResponse struct {
	ID           string                `json:"id"`
	CustomerID   string                `json:"customer"`
	CustomerName string                `json:"customerName,omitempty"`
	State        string                `json:"state"`
	ExchangeRate decimal.Decimal       `json:"exchangeRate"`
	TotalPrice   decimal.Decimal       `json:"totalPrice"`
	Payment      decimal.Decimal       `json:"payment"`
	Paid         decimal.Decimal       `json:"paid"`
	Remaining    decimal.Decimal       `json:"remaining"`
	Note         string                `json:"note"`
	Products     []ProductEntryPayload `json:"products"`
	Payments     []PaymentResponse     `json:"payments"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

// OrderListResponse lista paginada de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"pagination"`
}

// ToEntity convierte el payload a la entrada canónica del dominio,
// normalizando isCalcSet a partir de priceSet.
func (p ProductEntryPayload) ToEntity() entity.ProductEntry {
	items := make([]entity.OrderItem, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, entity.OrderItem{
			LotID:       it.LotID,
			Quantity:    it.Quantity,
			Price:       it.Price,
			Sale:        it.Sale,
			CustomPrice: it.CustomPrice,
			CustomSale:  it.CustomSale,
		})
	}
	return entity.ProductEntry{
		NameSet:     p.NameSet,
		PriceSet:    p.PriceSet,
		QuantitySet: p.QuantitySet,
		SaleSet:     p.SaleSet,
		IsCalcSet:   p.PriceSet.GreaterThan(decimal.Zero),
		Items:       items,
	}
}

// ProductEntriesToEntity convierte la lista completa de payloads.
func ProductEntriesToEntity(in []ProductEntryPayload) []entity.ProductEntry {
	out := make([]entity.ProductEntry, 0, len(in))
	for _, p := range in {
		out = append(out, p.ToEntity())
	}
	return out
}

// ProductEntryFromEntity convierte la entrada canónica a payload de salida.
func ProductEntryFromEntity(p entity.ProductEntry) ProductEntryPayload {
	items := make([]OrderItemPayload, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, OrderItemPayload{
			LotID:       it.LotID,
			Quantity:    it.Quantity,
			Price:       it.Price,
			Sale:        it.Sale,
			CustomPrice: it.CustomPrice,
			CustomSale:  it.CustomSale,
		})
	}
	return ProductEntryPayload{
		NameSet:     p.NameSet,
		PriceSet:    p.PriceSet,
		QuantitySet: p.QuantitySet,
		SaleSet:     p.SaleSet,
		IsCalcSet:   p.IsCalcSet,
		Items:       items,
	}
}
