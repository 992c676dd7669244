package repository

import "github.com/tu-usuario/almacen-ventas/internal/domain/entity"

// UserRepository define el puerto para usuarios (auth).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
}
