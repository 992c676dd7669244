package repository

import "github.com/tu-usuario/almacen-ventas/internal/domain/entity"

// LotRepository define el puerto para consultar y actualizar lotes de stock.
// Las mutaciones de cantidades ocupadas se usan dentro de transacciones para
// garantizar consistencia (GetForUpdate bloquea la fila).
type LotRepository interface {
	Create(lot *entity.StockLot) error
	GetByID(id string) (*entity.StockLot, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.StockLot, error)
	List(limit, offset int) ([]*entity.StockLot, int, error)
	Update(lot *entity.StockLot) error
	// UpdateAmounts persiste solo total/ocupado (camino caliente de confirmar/revertir).
	UpdateAmounts(lot *entity.StockLot) error
	Delete(id string) error
}
