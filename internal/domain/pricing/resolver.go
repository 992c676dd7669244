package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-ventas/internal/domain/entity"
)

// Tier es el nivel de precio seleccionado para un pedido.
type Tier string

const (
	TierHigh Tier = "high"
	TierLow  Tier = "low"
)

// Resolve deriva precio unitario y descuento de un lote según el nivel.
// Solo el nivel alto lleva descuento; el bajo siempre lo deja en cero.
// Función pura, asume campos del lote presentes y no negativos.
func Resolve(lot *entity.StockLot, tier Tier) (price, sale decimal.Decimal) {
	if tier == TierLow {
		return lot.PriceLow, decimal.Zero
	}
	return lot.PriceHigh, lot.Sale
}
