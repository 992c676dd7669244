package orders

import (
	"context"

	"github.com/tu-usuario/almacen-ventas/internal/domain/entity"
	"github.com/tu-usuario/almacen-ventas/internal/domain/repository"
)

// TxRunner ejecuta el callback con repos atados a una misma transacción.
// Cada transición del ciclo de vida (confirmar, revertir, pagar, editar) es
// una unidad atómica: o se aplican todos sus efectos sobre stock y saldos, o
// ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		lotRepo repository.LotRepository,
		customerRepo repository.CustomerRepository,
		orderRepo repository.OrderRepository,
	) error) error
}

// ReceiptGenerator genera el comprobante PDF de un pedido.
type ReceiptGenerator interface {
	GenerateOrderReceipt(ctx context.Context, order *entity.Order, customer *entity.Customer, lots map[string]*entity.StockLot) ([]byte, error)
}
