package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/almacen-ventas/internal/domain/entity"
	"github.com/tu-usuario/almacen-ventas/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación de LotRepository sobre PostgreSQL (usable con pool
// o tx).
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

const lotColumns = `id, item, quality, style, color, inches, total_amount, amount_occupied,
	price_high, price_low, sale, unit_of_calculation, created_at, updated_at`

// Create persiste un lote nuevo.
func (r *LotRepo) Create(lot *entity.StockLot) error {
	query := `
		INSERT INTO stock_lots (` + lotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		lot.ID, lot.Item, lot.Quality, lot.Style, lot.Color, lot.Inches,
		lot.TotalAmount, lot.AmountOccupied, lot.PriceHigh, lot.PriceLow,
		lot.Sale, lot.UnitOfCalculation, lot.CreatedAt, lot.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID. Devuelve nil sin error si no existe.
func (r *LotRepo) GetByID(id string) (*entity.StockLot, error) {
	query := `SELECT ` + lotColumns + ` FROM stock_lots WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get lot")
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE).
func (r *LotRepo) GetForUpdate(id string) (*entity.StockLot, error) {
	query := `SELECT ` + lotColumns + ` FROM stock_lots WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get lot for update")
}

// List lista lotes con paginación y total.
func (r *LotRepo) List(limit, offset int) ([]*entity.StockLot, int, error) {
	query := `SELECT ` + lotColumns + ` FROM stock_lots ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLot
	for rows.Next() {
		var l entity.StockLot
		if err := scanLot(rows, &l); err != nil {
			return nil, 0, fmt.Errorf("scan lot: %w", err)
		}
		list = append(list, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT count(*) FROM stock_lots`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count lots: %w", err)
	}
	return list, total, nil
}

// Update actualiza atributos y precios del lote.
func (r *LotRepo) Update(lot *entity.StockLot) error {
	query := `
		UPDATE stock_lots
		SET item = $2, quality = $3, style = $4, color = $5, inches = $6,
			price_high = $7, price_low = $8, sale = $9, unit_of_calculation = $10,
			updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		lot.ID, lot.Item, lot.Quality, lot.Style, lot.Color, lot.Inches,
		lot.PriceHigh, lot.PriceLow, lot.Sale, lot.UnitOfCalculation, lot.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update lot: %w", err)
	}
	return nil
}

// UpdateAmounts persiste solo total y ocupado (camino caliente de
// confirmar/revertir/reponer).
func (r *LotRepo) UpdateAmounts(lot *entity.StockLot) error {
	query := `
		UPDATE stock_lots
		SET total_amount = $2, amount_occupied = $3, updated_at = $4
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		lot.ID, lot.TotalAmount, lot.AmountOccupied, lot.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update lot amounts: %w", err)
	}
	return nil
}

// Delete elimina un lote por ID.
func (r *LotRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM stock_lots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lot: %w", err)
	}
	return nil
}

func (r *LotRepo) scanOne(row pgx.Row, op string) (*entity.StockLot, error) {
	var l entity.StockLot
	if err := scanLot(row, &l); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &l, nil
}

func scanLot(row pgx.Row, l *entity.StockLot) error {
	return row.Scan(
		&l.ID, &l.Item, &l.Quality, &l.Style, &l.Color, &l.Inches,
		&l.TotalAmount, &l.AmountOccupied, &l.PriceHigh, &l.PriceLow,
		&l.Sale, &l.UnitOfCalculation, &l.CreatedAt, &l.UpdatedAt,
	)
}
