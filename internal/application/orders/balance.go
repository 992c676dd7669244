package orders

import "github.com/shopspring/decimal"

// Remaining deriva lo que el cliente aún debe del pedido desde el saldo
// firmado: max(0, -payment). Un saldo positivo (sobrepago) deja restante en
// cero.
func Remaining(payment decimal.Decimal) decimal.Decimal {
	if payment.IsNegative() {
		return payment.Neg()
	}
	return decimal.Zero
}

// Paid deriva lo ya cubierto del total: totalPrice - remaining. Nunca se
// almacena; siempre se deriva, de modo que paid + remaining == totalPrice
// mientras el saldo sea ≤ 0.
func Paid(totalPrice, payment decimal.Decimal) decimal.Decimal {
	return totalPrice.Sub(Remaining(payment))
}
