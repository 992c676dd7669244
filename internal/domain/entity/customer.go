package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente con su saldo acumulado entre pedidos.
// Payment sigue la convención de saldo firmado: negativo = el cliente debe,
// positivo = el cliente tiene crédito a favor, cero = al día.
type Customer struct {
	ID        string
	Name      string
	Phone     string
	Payment   decimal.Decimal
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
