package orders_test

import (
	"context"

	"github.com/tu-usuario/almacen-ventas/internal/domain/entity"
	"github.com/tu-usuario/almacen-ventas/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para los tests del ciclo de vida. Guardan por valor y el
// TxRunner falso toma un snapshot antes de cada callback: si el callback
// falla, restaura el snapshot — mismo contrato observable que la transacción
// PostgreSQL real.
// ──────────────────────────────────────────────────────────────────────────────

type memDB struct {
	lots      map[string]entity.StockLot
	customers map[string]entity.Customer
	orders    map[string]entity.Order
	payments  map[string][]entity.PaymentRecord
}

func newMemDB() *memDB {
	return &memDB{
		lots:      make(map[string]entity.StockLot),
		customers: make(map[string]entity.Customer),
		orders:    make(map[string]entity.Order),
		payments:  make(map[string][]entity.PaymentRecord),
	}
}

func (db *memDB) clone() *memDB {
	c := newMemDB()
	for k, v := range db.lots {
		c.lots[k] = v
	}
	for k, v := range db.customers {
		c.customers[k] = v
	}
	for k, v := range db.orders {
		v.Products = append([]entity.ProductEntry(nil), v.Products...)
		c.orders[k] = v
	}
	for k, v := range db.payments {
		c.payments[k] = append([]entity.PaymentRecord(nil), v...)
	}
	return c
}

func (db *memDB) restore(snap *memDB) {
	db.lots = snap.lots
	db.customers = snap.customers
	db.orders = snap.orders
	db.payments = snap.payments
}

// ── Lotes ─────────────────────────────────────────────────────────────────────

type memLotRepo struct{ db *memDB }

var _ repository.LotRepository = (*memLotRepo)(nil)

func (r *memLotRepo) Create(lot *entity.StockLot) error {
	r.db.lots[lot.ID] = *lot
	return nil
}

func (r *memLotRepo) GetByID(id string) (*entity.StockLot, error) {
	l, ok := r.db.lots[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *memLotRepo) GetForUpdate(id string) (*entity.StockLot, error) {
	return r.GetByID(id)
}

func (r *memLotRepo) List(limit, offset int) ([]*entity.StockLot, int, error) {
	out := make([]*entity.StockLot, 0, len(r.db.lots))
	for id := range r.db.lots {
		l := r.db.lots[id]
		out = append(out, &l)
	}
	return out, len(out), nil
}

func (r *memLotRepo) Update(lot *entity.StockLot) error {
	r.db.lots[lot.ID] = *lot
	return nil
}

func (r *memLotRepo) UpdateAmounts(lot *entity.StockLot) error {
	r.db.lots[lot.ID] = *lot
	return nil
}

func (r *memLotRepo) Delete(id string) error {
	delete(r.db.lots, id)
	return nil
}

// ── Clientes ──────────────────────────────────────────────────────────────────

type memCustomerRepo struct{ db *memDB }

var _ repository.CustomerRepository = (*memCustomerRepo)(nil)

func (r *memCustomerRepo) Create(c *entity.Customer) error {
	r.db.customers[c.ID] = *c
	return nil
}

func (r *memCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	c, ok := r.db.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *memCustomerRepo) GetForUpdate(id string) (*entity.Customer, error) {
	return r.GetByID(id)
}

func (r *memCustomerRepo) List(limit, offset int) ([]*entity.Customer, int, error) {
	out := make([]*entity.Customer, 0, len(r.db.customers))
	for id := range r.db.customers {
		c := r.db.customers[id]
		out = append(out, &c)
	}
	return out, len(out), nil
}

func (r *memCustomerRepo) Update(c *entity.Customer) error {
	r.db.customers[c.ID] = *c
	return nil
}

func (r *memCustomerRepo) UpdatePayment(c *entity.Customer) error {
	r.db.customers[c.ID] = *c
	return nil
}

func (r *memCustomerRepo) Delete(id string) error {
	delete(r.db.customers, id)
	return nil
}

// ── Pedidos ───────────────────────────────────────────────────────────────────

type memOrderRepo struct{ db *memDB }

var _ repository.OrderRepository = (*memOrderRepo)(nil)

func (r *memOrderRepo) Create(o *entity.Order) error {
	stored := *o
	stored.Products = append([]entity.ProductEntry(nil), o.Products...)
	r.db.orders[o.ID] = stored
	return nil
}

func (r *memOrderRepo) GetByID(id string) (*entity.Order, error) {
	o, ok := r.db.orders[id]
	if !ok {
		return nil, nil
	}
	o.Products = append([]entity.ProductEntry(nil), o.Products...)
	o.Payments = append([]entity.PaymentRecord(nil), r.db.payments[id]...)
	return &o, nil
}

func (r *memOrderRepo) GetForUpdate(id string) (*entity.Order, error) {
	return r.GetByID(id)
}

func (r *memOrderRepo) List(limit, offset int) ([]*entity.Order, int, error) {
	out := make([]*entity.Order, 0, len(r.db.orders))
	for id := range r.db.orders {
		o, _ := r.GetByID(id)
		out = append(out, o)
	}
	return out, len(out), nil
}

func (r *memOrderRepo) ListByCustomer(customerID string, limit, offset int) ([]*entity.Order, int, error) {
	all, _, _ := r.List(limit, offset)
	out := make([]*entity.Order, 0, len(all))
	for _, o := range all {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, len(out), nil
}

func (r *memOrderRepo) Update(o *entity.Order) error {
	stored := *o
	stored.Products = append([]entity.ProductEntry(nil), o.Products...)
	stored.Payments = nil
	r.db.orders[o.ID] = stored
	return nil
}

func (r *memOrderRepo) AddPayment(orderID string, payment *entity.PaymentRecord) error {
	r.db.payments[orderID] = append(r.db.payments[orderID], *payment)
	return nil
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

type memTxRunner struct{ db *memDB }

func (t *memTxRunner) Run(_ context.Context, fn func(
	lotRepo repository.LotRepository,
	customerRepo repository.CustomerRepository,
	orderRepo repository.OrderRepository,
) error) error {
	snap := t.db.clone()
	err := fn(&memLotRepo{db: t.db}, &memCustomerRepo{db: t.db}, &memOrderRepo{db: t.db})
	if err != nil {
		t.db.restore(snap)
	}
	return err
}
