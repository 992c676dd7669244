package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/almacen-ventas/internal/domain/entity"
	"github.com/tu-usuario/almacen-ventas/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository (usable con pool o tx). La
// lista canónica de productos se guarda como JSONB en la cabecera (es un
// documento ordenado, nunca se consulta por línea); los pagos van en tabla
// propia porque sí se listan y suman por separado.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, customer_id, state, exchange_rate, total_price, payment, note, products, created_at, updated_at`

// Create persiste la cabecera del pedido con su lista canónica de
// productos.
func (r *OrderRepo) Create(order *entity.Order) error {
	products, err := json.Marshal(order.Products)
	if err != nil {
		return fmt.Errorf("marshal products: %w", err)
	}
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.q.Exec(context.Background(), query,
		order.ID, order.CustomerID, order.State, order.ExchangeRate,
		order.TotalPrice, order.Payment, order.Note, products,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene el pedido con productos y pagos cargados. Devuelve nil sin
// error si no existe.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.getOne(query, id, "get order")
}

// GetForUpdate obtiene el pedido bloqueando la cabecera (SELECT FOR UPDATE).
func (r *OrderRepo) GetForUpdate(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	return r.getOne(query, id, "get order for update")
}

// List lista pedidos (más recientes primero) con paginación y total.
func (r *OrderRepo) List(limit, offset int) ([]*entity.Order, int, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.list(query, `SELECT count(*) FROM orders`, []any{limit, offset}, nil)
}

// ListByCustomer lista los pedidos de un cliente.
func (r *OrderRepo) ListByCustomer(customerID string, limit, offset int) ([]*entity.Order, int, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE customer_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(query, `SELECT count(*) FROM orders WHERE customer_id = $1`, []any{customerID, limit, offset}, []any{customerID})
}

// Update reescribe la cabecera y la lista de productos del pedido.
func (r *OrderRepo) Update(order *entity.Order) error {
	products, err := json.Marshal(order.Products)
	if err != nil {
		return fmt.Errorf("marshal products: %w", err)
	}
	query := `
		UPDATE orders
		SET customer_id = $2, state = $3, exchange_rate = $4, total_price = $5,
			payment = $6, note = $7, products = $8, updated_at = $9
		WHERE id = $1`
	_, err = r.q.Exec(context.Background(), query,
		order.ID, order.CustomerID, order.State, order.ExchangeRate,
		order.TotalPrice, order.Payment, order.Note, products, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

// AddPayment agrega un registro de pago al historial del pedido.
func (r *OrderRepo) AddPayment(orderID string, payment *entity.PaymentRecord) error {
	query := `
		INSERT INTO order_payments (id, order_id, type, exchange_rate, amount, amount_base, payment_method, date_paid, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		payment.ID, orderID, payment.Type, payment.ExchangeRate,
		payment.Amount, payment.AmountBase, payment.PaymentMethod,
		payment.DatePaid, payment.Note,
	)
	if err != nil {
		return fmt.Errorf("insert order payment: %w", err)
	}
	return nil
}

func (r *OrderRepo) getOne(query, id, op string) (*entity.Order, error) {
	order, err := scanOrder(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	payments, err := r.paymentsFor(order.ID)
	if err != nil {
		return nil, err
	}
	order.Payments = payments
	return order, nil
}

func (r *OrderRepo) list(query, countQuery string, args, countArgs []any) ([]*entity.Order, int, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for _, order := range list {
		payments, err := r.paymentsFor(order.ID)
		if err != nil {
			return nil, 0, err
		}
		order.Payments = payments
	}
	var total int
	if err := r.q.QueryRow(context.Background(), countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	return list, total, nil
}

func (r *OrderRepo) paymentsFor(orderID string) ([]entity.PaymentRecord, error) {
	query := `
		SELECT id, type, exchange_rate, amount, amount_base, payment_method, date_paid, note
		FROM order_payments WHERE order_id = $1 ORDER BY date_paid, id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order payments: %w", err)
	}
	defer rows.Close()
	var payments []entity.PaymentRecord
	for rows.Next() {
		var p entity.PaymentRecord
		if err := rows.Scan(&p.ID, &p.Type, &p.ExchangeRate, &p.Amount, &p.AmountBase, &p.PaymentMethod, &p.DatePaid, &p.Note); err != nil {
			return nil, fmt.Errorf("scan order payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var products []byte
	if err := row.Scan(
		&o.ID, &o.CustomerID, &o.State, &o.ExchangeRate, &o.TotalPrice,
		&o.Payment, &o.Note, &products, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(products) > 0 {
		if err := json.Unmarshal(products, &o.Products); err != nil {
			return nil, fmt.Errorf("unmarshal products: %w", err)
		}
	}
	return &o, nil
}
