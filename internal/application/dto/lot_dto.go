package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateLotRequest entrada para registrar un lote (ingreso de stock).
type CreateLotRequest struct {
	Item              string          `json:"item"`
	Quality           string          `json:"quality"`
	Style             string          `json:"style"`
	Color             string          `json:"color"`
	Inches            int             `json:"inches"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	PriceHigh         decimal.Decimal `json:"priceHigh"`
	PriceLow          decimal.Decimal `json:"priceLow"`
	Sale              decimal.Decimal `json:"sale"`
	UnitOfCalculation string          `json:"unitOfCalculation"`
}

// UpdateLotRequest entrada para actualizar atributos/precios de un lote.
// No toca cantidades; para eso está AddStockRequest.
type UpdateLotRequest struct {
	Item              *string          `json:"item"`
	Quality           *string          `json:"quality"`
	Style             *string          `json:"style"`
	Color             *string          `json:"color"`
	Inches            *int             `json:"inches"`
	PriceHigh         *decimal.Decimal `json:"priceHigh"`
	PriceLow          *decimal.Decimal `json:"priceLow"`
	Sale              *decimal.Decimal `json:"sale"`
	UnitOfCalculation *string          `json:"unitOfCalculation"`
}

// AddStockRequest suma cantidad al total del lote (reposición).
type AddStockRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// LotResponse salida de un lote. AmountAvailable siempre derivado.
type LotResponse struct {
	ID                string          `json:"id"`
	Item              string          `json:"item"`
	Quality           string          `json:"quality"`
	Style             string          `json:"style"`
	Color             string          `json:"color"`
	Inches            int             `json:"inches"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	AmountOccupied    decimal.Decimal `json:"amountOccupied"`
	AmountAvailable   decimal.Decimal `json:"amountAvailable"`
	PriceHigh         decimal.Decimal `json:"priceHigh"`
	PriceLow          decimal.Decimal `json:"priceLow"`
	Sale              decimal.Decimal `json:"sale"`
	UnitOfCalculation string          `json:"unitOfCalculation"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// LotListResponse lista paginada de lotes (ordenada para presentación).
type LotListResponse struct {
	Items []LotResponse `json:"items"`
	Page  PageResponse  `json:"pagination"`
}
