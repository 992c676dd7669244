package repository

import "github.com/tu-usuario/almacen-ventas/internal/domain/entity"

// CustomerRepository define el puerto para clientes y su saldo acumulado.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	// GetForUpdate bloquea la fila del cliente (el saldo se ajusta en la
	// misma transacción que el stock).
	GetForUpdate(id string) (*entity.Customer, error)
	List(limit, offset int) ([]*entity.Customer, int, error)
	Update(customer *entity.Customer) error
	UpdatePayment(customer *entity.Customer) error
	Delete(id string) error
}
