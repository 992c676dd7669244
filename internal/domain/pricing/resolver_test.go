package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/almacen-ventas/internal/domain/entity"
	"github.com/tu-usuario/almacen-ventas/internal/domain/pricing"
)

func buildTestLot() *entity.StockLot {
	return &entity.StockLot{
		ID:        "lot-1",
		Item:      entity.ItemWeft,
		Quality:   entity.QualitySDD,
		PriceHigh: decimal.NewFromInt(120),
		PriceLow:  decimal.NewFromInt(95),
		Sale:      decimal.NewFromInt(10),
	}
}

// TestResolve_NivelAlto verifica que el nivel alto usa el precio alto y
// arrastra el descuento del lote.
func TestResolve_NivelAlto(t *testing.T) {
	lot := buildTestLot()

	price, sale := pricing.Resolve(lot, pricing.TierHigh)

	assert.True(t, price.Equal(decimal.NewFromInt(120)), "el precio debe ser PriceHigh")
	assert.True(t, sale.Equal(decimal.NewFromInt(10)), "el descuento debe ser el del lote")
}

// TestResolve_NivelBajoSinDescuento verifica que el nivel bajo usa el precio
// bajo y nunca lleva descuento, aunque el lote tenga uno definido.
func TestResolve_NivelBajoSinDescuento(t *testing.T) {
	lot := buildTestLot()

	price, sale := pricing.Resolve(lot, pricing.TierLow)

	assert.True(t, price.Equal(decimal.NewFromInt(95)), "el precio debe ser PriceLow")
	assert.True(t, sale.IsZero(), "el nivel bajo siempre deja el descuento en cero")
}

// TestResolve_LoteSinDescuento con Sale en cero ambos niveles devuelven cero.
func TestResolve_LoteSinDescuento(t *testing.T) {
	lot := buildTestLot()
	lot.Sale = decimal.Zero

	_, saleHigh := pricing.Resolve(lot, pricing.TierHigh)
	_, saleLow := pricing.Resolve(lot, pricing.TierLow)

	assert.True(t, saleHigh.IsZero())
	assert.True(t, saleLow.IsZero())
}
