package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/almacen-ventas/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tabla de transiciones
// ──────────────────────────────────────────────────────────────────────────────

// TestCanTransition_Cotizacion una cotización acepta confirmar, pagar y
// editar, pero no revertir (no hay nada reservado que liberar).
func TestCanTransition_Cotizacion(t *testing.T) {
	assert.True(t, entity.CanTransition(entity.OrderStateQuote, entity.OrderEventConfirm))
	assert.True(t, entity.CanTransition(entity.OrderStateQuote, entity.OrderEventPay))
	assert.True(t, entity.CanTransition(entity.OrderStateQuote, entity.OrderEventEdit))
	assert.False(t, entity.CanTransition(entity.OrderStateQuote, entity.OrderEventRevert))
}

// TestCanTransition_Confirmado un pedido confirmado acepta revertir, pagar y
// editar; confirmarlo de nuevo no está permitido.
func TestCanTransition_Confirmado(t *testing.T) {
	assert.True(t, entity.CanTransition(entity.OrderStateConfirmed, entity.OrderEventRevert))
	assert.True(t, entity.CanTransition(entity.OrderStateConfirmed, entity.OrderEventPay))
	assert.True(t, entity.CanTransition(entity.OrderStateConfirmed, entity.OrderEventEdit))
	assert.False(t, entity.CanTransition(entity.OrderStateConfirmed, entity.OrderEventConfirm))
}

// TestCanTransition_RevertidoEsTerminal sobre un pedido revertido no se
// permite ningún evento.
func TestCanTransition_RevertidoEsTerminal(t *testing.T) {
	for _, event := range []string{
		entity.OrderEventConfirm,
		entity.OrderEventRevert,
		entity.OrderEventPay,
		entity.OrderEventEdit,
	} {
		assert.False(t, entity.CanTransition(entity.OrderStateReverted, event),
			"reverted debe rechazar el evento %s", event)
	}
}

func TestIsConfirmedFamily(t *testing.T) {
	assert.True(t, entity.IsConfirmedFamily(entity.OrderStateConfirmed))
	assert.True(t, entity.IsConfirmedFamily(entity.OrderStateEdited))
	assert.False(t, entity.IsConfirmedFamily(entity.OrderStateQuote))
	assert.False(t, entity.IsConfirmedFamily(entity.OrderStateReverted))
}

// ──────────────────────────────────────────────────────────────────────────────
// Totales
// ──────────────────────────────────────────────────────────────────────────────

func item(lotID string, qty, price, sale int64) entity.OrderItem {
	return entity.OrderItem{
		LotID:    lotID,
		Quantity: decimal.NewFromInt(qty),
		Price:    decimal.NewFromInt(price),
		Sale:     decimal.NewFromInt(sale),
	}
}

// TestProductEntryTotal_ItemSuelto una entrada de un ítem aporta
// (price - sale) * quantity.
func TestProductEntryTotal_ItemSuelto(t *testing.T) {
	p := entity.ProductEntry{
		QuantitySet: decimal.NewFromInt(1),
		Items:       []entity.OrderItem{item("a", 4, 100, 10)},
	}
	assert.True(t, p.Total().Equal(decimal.NewFromInt(360)), "(100-10)*4 = 360")
	assert.False(t, p.IsSet())
}

// TestProductEntryTotal_SetConPrecioDePaquete cuando el set tiene precio de
// paquete (>0), este reemplaza la suma de los miembros.
func TestProductEntryTotal_SetConPrecioDePaquete(t *testing.T) {
	p := entity.ProductEntry{
		NameSet:     "Set",
		PriceSet:    decimal.NewFromInt(500),
		SaleSet:     decimal.NewFromInt(50),
		QuantitySet: decimal.NewFromInt(2),
		IsCalcSet:   true,
		Items: []entity.OrderItem{
			item("a", 3, 100, 0),
			item("b", 1, 200, 0),
		},
	}
	assert.True(t, p.IsSet())
	assert.True(t, p.Total().Equal(decimal.NewFromInt(900)), "(500-50)*2 = 900, no la suma de ítems")
}

// TestProductEntryTotal_SetSinPrecioDePaquete sin precio de paquete el total
// del set es la suma de sus miembros.
func TestProductEntryTotal_SetSinPrecioDePaquete(t *testing.T) {
	p := entity.ProductEntry{
		NameSet:     "Set",
		QuantitySet: decimal.NewFromInt(1),
		Items: []entity.OrderItem{
			item("a", 3, 100, 0),
			item("b", 1, 200, 50),
		},
	}
	assert.True(t, p.Total().Equal(decimal.NewFromInt(450)), "3*100 + 1*(200-50) = 450")
}

func TestComputeTotal_SumaEntradas(t *testing.T) {
	products := []entity.ProductEntry{
		{QuantitySet: decimal.NewFromInt(1), Items: []entity.OrderItem{item("a", 2, 100, 0)}},
		{QuantitySet: decimal.NewFromInt(1), Items: []entity.OrderItem{item("b", 1, 50, 10)}},
	}
	assert.True(t, entity.ComputeTotal(products).Equal(decimal.NewFromInt(240)))
}

// TestQuantitiesByLot acumula cantidades por lote a través de entradas y
// sets.
func TestQuantitiesByLot(t *testing.T) {
	products := []entity.ProductEntry{
		{QuantitySet: decimal.NewFromInt(1), Items: []entity.OrderItem{item("a", 2, 100, 0)}},
		{NameSet: "Set", QuantitySet: decimal.NewFromInt(1), Items: []entity.OrderItem{
			item("b", 3, 100, 0),
			item("a", 1, 100, 0),
		}},
	}
	qty := entity.QuantitiesByLot(products)
	assert.True(t, qty["a"].Equal(decimal.NewFromInt(3)))
	assert.True(t, qty["b"].Equal(decimal.NewFromInt(3)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Pagos
// ──────────────────────────────────────────────────────────────────────────────

// TestPaymentRecordSignedBase un pago del cliente suma; un reembolso resta.
func TestPaymentRecordSignedBase(t *testing.T) {
	pago := entity.PaymentRecord{Type: entity.PaymentTypeCustomerPaid, AmountBase: decimal.NewFromInt(100)}
	reembolso := entity.PaymentRecord{Type: entity.PaymentTypeRefund, AmountBase: decimal.NewFromInt(40)}

	assert.True(t, pago.SignedBase().Equal(decimal.NewFromInt(100)))
	assert.True(t, reembolso.SignedBase().Equal(decimal.NewFromInt(-40)))
}
