package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de artículo de un lote (extensiones de cabello).
const (
	ItemWeft    = "WEFT"
	ItemClosure = "CLOSURE"
	ItemFrontal = "FRONTAL"
)

// Calidades con orden fijo para artículos WEFT.
const (
	QualitySDD         = "SDD"
	QualityDD          = "DD"
	QualityVIP         = "VIP"
	QualitySingleDonor = "SINGLEDONOR"
)

// StockLot representa un lote de almacén: atributos del producto, cantidades
// y precios por nivel (alto/bajo). La cantidad disponible nunca se guarda,
// siempre se deriva de total - ocupado.
type StockLot struct {
	ID                string
	Item              string // WEFT, CLOSURE, FRONTAL
	Quality           string
	Style             string
	Color             string
	Inches            int
	TotalAmount       decimal.Decimal
	AmountOccupied    decimal.Decimal // reservado por pedidos confirmados
	PriceHigh         decimal.Decimal
	PriceLow          decimal.Decimal
	Sale              decimal.Decimal // descuento, solo aplica al nivel alto
	UnitOfCalculation string          // unidad de venta (gramos, piezas, bundles)
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// AmountAvailable devuelve la cantidad libre para vender (total - ocupado).
func (l *StockLot) AmountAvailable() decimal.Decimal {
	return l.TotalAmount.Sub(l.AmountOccupied)
}
