package composer_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/almacen-ventas/internal/application/composer"
	"github.com/tu-usuario/almacen-ventas/internal/domain/entity"
	"github.com/tu-usuario/almacen-ventas/internal/domain/pricing"
)

func buildLot(id string, high, low, sale int64) *entity.StockLot {
	return &entity.StockLot{
		ID:        id,
		Item:      entity.ItemWeft,
		Quality:   entity.QualitySDD,
		PriceHigh: decimal.NewFromInt(high),
		PriceLow:  decimal.NewFromInt(low),
		Sale:      decimal.NewFromInt(sale),
	}
}

func dec(n int64) *decimal.Decimal {
	d := decimal.NewFromInt(n)
	return &d
}

// ──────────────────────────────────────────────────────────────────────────────
// Selección de lotes
// ──────────────────────────────────────────────────────────────────────────────

// TestSelectLot_ResuelvePrecioPorNivel al seleccionar, la entrada nace con
// cantidad cero y precio/descuento del nivel vigente.
func TestSelectLot_ResuelvePrecioPorNivel(t *testing.T) {
	d := composer.NewDraft(pricing.TierHigh)
	e := d.SelectLot(buildLot("a", 120, 95, 10))

	require.NotNil(t, e)
	assert.True(t, e.Quantity.IsZero(), "la cantidad inicial debe ser cero")
	assert.True(t, e.Price.Equal(decimal.NewFromInt(120)))
	assert.True(t, e.Sale.Equal(decimal.NewFromInt(10)))
}

// TestSelectLot_DuplicadoNoOp un lote ya presente (suelto o en set) no se
// vuelve a agregar.
func TestSelectLot_DuplicadoNoOp(t *testing.T) {
	d := composer.NewDraft(pricing.TierHigh)
	lot := buildLot("a", 120, 95, 0)

	first := d.SelectLot(lot)
	second := d.SelectLot(lot)

	require.NotNil(t, first)
	assert.Nil(t, second, "seleccionar dos veces el mismo lote debe ser no-op")
	assert.Len(t, d.Entries(), 1)
}

// TestDeselectLot_DisuelveSetConMenosDeDosMiembros quitar un lote de un set
// de 2 disuelve el set y el miembro restante vuelve a suelto.
func TestDeselectLot_DisuelveSetConMenosDeDosMiembros(t *testing.T) {
	d := composer.NewDraft(pricing.TierHigh)
	a := d.SelectLot(buildLot("a", 100, 80, 0))
	b := d.SelectLot(buildLot("b", 200, 150, 0))
	require.NotNil(t, d.CreateSet([]string{a.ID, b.ID}))

	d.DeselectLot("a")

	assert.Empty(t, d.Sets(), "el set de 2 debe disolverse al quitar un miembro")
	require.Len(t, d.Entries(), 1)
	assert.Equal(t, "b", d.Entries()[0].Lot.ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Sets
// ──────────────────────────────────────────────────────────────────────────────

// TestCreateSet_RequiereDosEntradas con menos de 2 ids válidos no se crea
// nada y el borrador queda intacto.
func TestCreateSet_RequiereDosEntradas(t *testing.T) {
	d := composer.NewDraft(pricing.TierHigh)
	a := d.SelectLot(buildLot("a", 100, 80, 0))

	assert.Nil(t, d.CreateSet([]string{a.ID}))
	assert.Nil(t, d.CreateSet([]string{a.ID, "no-existe"}))
	assert.Len(t, d.Entries(), 1)
	assert.Empty(t, d.Sets())
}

// TestCreateSet_HeredaMenorOrderIndex el set conserva la posición visual del
// miembro más antiguo.
func TestCreateSet_HeredaMenorOrderIndex(t *testing.T) {
	d := composer.NewDraft(pricing.TierHigh)
	a := d.SelectLot(buildLot("a", 100, 80, 0))
	b := d.SelectLot(buildLot("b", 200, 150, 0))
	c := d.SelectLot(buildLot("c", 300, 250, 0))

	s := d.CreateSet([]string{b.ID, c.ID})

	require.NotNil(t, s)
	assert.Equal(t, b.OrderIndex, s.OrderIndex)
	assert.Greater(t, s.OrderIndex, a.OrderIndex)
}

// TestProducts_OrdenCanonico la lista canónica intercala sueltas y sets por
// orderIndex: [a, set(b,c), d] sale en ese orden aunque el set se haya
// creado al final.
func TestProducts_OrdenCanonico(t *testing.T) {
	d := composer.NewDraft(pricing.TierHigh)
	a := d.SelectLot(buildLot("a", 100, 80, 0))
	b := d.SelectLot(buildLot("b", 200, 150, 0))
	c := d.SelectLot(buildLot("c", 300, 250, 0))
	dd := d.SelectLot(buildLot("d", 400, 350, 0))
	_ = a
	_ = dd
	require.NotNil(t, d.CreateSet([]string{b.ID, c.ID}))

	products := d.Products()

	require.Len(t, products, 3)
	assert.Equal(t, "a", products[0].Items[0].LotID)
	assert.True(t, products[1].IsSet())
	assert.Equal(t, "b", products[1].Items[0].LotID)
	assert.Equal(t, "c", products[1].Items[1].LotID)
	assert.Equal(t, "d", products[2].Items[0].LotID)
}

// TestDissolveSet_RecrearEquivale disolver y volver a agrupar los mismos
// miembros produce la misma lista canónica de lotes.
func TestDissolveSet_RecrearEquivale(t *testing.T) {
	d := composer.NewDraft(pricing.TierHigh)
	a := d.SelectLot(buildLot("a", 100, 80, 0))
	b := d.SelectLot(buildLot("b", 200, 150, 0))
	s := d.CreateSet([]string{a.ID, b.ID})
	require.NotNil(t, s)
	before := d.Products()

	d.DissolveSet(s.ID)
	require.Empty(t, d.Sets())
	require.Len(t, d.Entries(), 2)
	s2 := d.CreateSet([]string{a.ID, b.ID})
	require.NotNil(t, s2)
	after := d.Products()

	require.Len(t, after, len(before))
	assert.Equal(t, before[0].Items[0].LotID, after[0].Items[0].LotID)
	assert.Equal(t, before[0].Items[1].LotID, after[0].Items[1].LotID)
}

// TestProducts_SetMarcaIsCalcSet isCalcSet refleja priceSet > 0.
func TestProducts_SetMarcaIsCalcSet(t *testing.T) {
	d := composer.NewDraft(pricing.TierHigh)
	a := d.SelectLot(buildLot("a", 100, 80, 0))
	b := d.SelectLot(buildLot("b", 200, 150, 0))
	s := d.CreateSet([]string{a.ID, b.ID})
	require.NotNil(t, s)

	sinPrecio := d.Products()
	assert.False(t, sinPrecio[0].IsCalcSet)

	require.True(t, d.UpdateSet(s.ID, composer.SetUpdate{PriceSet: dec(500)}))
	conPrecio := d.Products()
	assert.True(t, conPrecio[0].IsCalcSet)
	assert.True(t, conPrecio[0].PriceSet.Equal(decimal.NewFromInt(500)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Cambio de nivel de precio y overrides
// ──────────────────────────────────────────────────────────────────────────────

// TestSwitchTier_RecalculaPrecios al pasar al nivel bajo cada entrada toma
// PriceLow y descuento cero.
func TestSwitchTier_RecalculaPrecios(t *testing.T) {
	d := composer.NewDraft(pricing.TierHigh)
	e := d.SelectLot(buildLot("a", 120, 95, 10))

	d.SwitchTier(pricing.TierLow)

	assert.True(t, e.Price.Equal(decimal.NewFromInt(95)))
	assert.True(t, e.Sale.IsZero())
}

// TestSwitchTier_RespetaOverrides un precio editado a mano queda fijado y
// sobrevive cualquier cambio de nivel; el descuento no editado sí se
// recalcula.
func TestSwitchTier_RespetaOverrides(t *testing.T) {
	d := composer.NewDraft(pricing.TierHigh)
	e := d.SelectLot(buildLot("a", 120, 95, 10))
	require.True(t, d.UpdateEntry(e.ID, composer.EntryUpdate{Price: dec(111)}))

	d.SwitchTier(pricing.TierLow)

	assert.True(t, e.Price.Equal(decimal.NewFromInt(111)), "el override manual no debe recalcularse")
	assert.True(t, e.Sale.IsZero(), "el descuento sin override sí se recalcula")
}

// TestSwitchTier_IdaYVueltaRestauraNoEditados alto → bajo → alto restaura
// precio y descuento originales de los campos no fijados.
func TestSwitchTier_IdaYVueltaRestauraNoEditados(t *testing.T) {
	d := composer.NewDraft(pricing.TierHigh)
	e := d.SelectLot(buildLot("a", 120, 95, 10))
	m := d.SelectLot(buildLot("b", 200, 150, 20))
	s := d.CreateSet([]string{e.ID, m.ID})
	require.NotNil(t, s)
	require.True(t, d.UpdateSetMember(s.ID, m.ID, composer.EntryUpdate{Sale: dec(5)}))

	d.SwitchTier(pricing.TierLow)
	d.SwitchTier(pricing.TierHigh)

	assert.True(t, e.Price.Equal(decimal.NewFromInt(120)))
	assert.True(t, e.Sale.Equal(decimal.NewFromInt(10)))
	assert.True(t, m.Price.Equal(decimal.NewFromInt(200)))
	assert.True(t, m.Sale.Equal(decimal.NewFromInt(5)), "el descuento fijado del miembro debe sobrevivir el doble cambio")
}

// ──────────────────────────────────────────────────────────────────────────────
// Reconstrucción desde la lista canónica
// ──────────────────────────────────────────────────────────────────────────────

// TestFromProducts_ReconstruyeBorrador reabrir un pedido conserva sueltas,
// sets, overrides y orden.
func TestFromProducts_ReconstruyeBorrador(t *testing.T) {
	lotA := buildLot("a", 100, 80, 0)
	lotB := buildLot("b", 200, 150, 0)
	lotC := buildLot("c", 300, 250, 0)
	lots := map[string]*entity.StockLot{"a": lotA, "b": lotB, "c": lotC}

	d := composer.NewDraft(pricing.TierHigh)
	a := d.SelectLot(lotA)
	b := d.SelectLot(lotB)
	c := d.SelectLot(lotC)
	require.True(t, d.UpdateEntry(a.ID, composer.EntryUpdate{Quantity: dec(4), Price: dec(90)}))
	require.True(t, d.UpdateEntry(b.ID, composer.EntryUpdate{Quantity: dec(1)}))
	require.True(t, d.UpdateEntry(c.ID, composer.EntryUpdate{Quantity: dec(2)}))
	require.NotNil(t, d.CreateSet([]string{b.ID, c.ID}))
	products := d.Products()

	rebuilt := composer.FromProducts(products, pricing.TierHigh, lots)

	require.Len(t, rebuilt.Entries(), 1)
	require.Len(t, rebuilt.Sets(), 1)
	e := rebuilt.Entries()[0]
	assert.Equal(t, "a", e.Lot.ID)
	assert.True(t, e.CustomPrice, "el override debe sobrevivir el viaje por persistencia")
	assert.True(t, e.Price.Equal(decimal.NewFromInt(90)))

	again := rebuilt.Products()
	require.Len(t, again, len(products))
	for i := range products {
		assert.Equal(t, products[i].Items[0].LotID, again[i].Items[0].LotID, "posición %d", i)
	}
}

// TestFromProducts_OmiteLotesInexistentes un lote ya eliminado del catálogo
// se omite; si el set queda con menos de 2, se disuelve.
func TestFromProducts_OmiteLotesInexistentes(t *testing.T) {
	lotA := buildLot("a", 100, 80, 0)
	lots := map[string]*entity.StockLot{"a": lotA}
	products := []entity.ProductEntry{
		{
			NameSet:     "Set",
			QuantitySet: decimal.NewFromInt(1),
			Items: []entity.OrderItem{
				{LotID: "a", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(100)},
				{LotID: "borrado", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(50)},
			},
		},
	}

	d := composer.FromProducts(products, pricing.TierHigh, lots)

	assert.Empty(t, d.Sets())
	require.Len(t, d.Entries(), 1)
	assert.Equal(t, "a", d.Entries()[0].Lot.ID)
}
