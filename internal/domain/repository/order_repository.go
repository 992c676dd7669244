package repository

import "github.com/tu-usuario/almacen-ventas/internal/domain/entity"

// OrderRepository define el puerto para pedidos, su lista canónica de
// productos y su historial de pagos.
type OrderRepository interface {
	Create(order *entity.Order) error
	// GetByID devuelve el pedido con productos y pagos cargados.
	GetByID(id string) (*entity.Order, error)
	// GetForUpdate bloquea la cabecera del pedido durante una transición.
	GetForUpdate(id string) (*entity.Order, error)
	List(limit, offset int) ([]*entity.Order, int, error)
	ListByCustomer(customerID string, limit, offset int) ([]*entity.Order, int, error)
	Update(order *entity.Order) error
	AddPayment(orderID string, payment *entity.PaymentRecord) error
}
