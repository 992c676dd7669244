// Package orders implementa el ciclo de vida de pedidos: cotización,
// confirmación con reserva de stock, pagos, edición y reversión. Las
// transiciones se validan contra la tabla de estados del dominio antes de
// tocar nada, y cada una corre dentro de una transacción (TxRunner) con
// bloqueo de filas, de modo que un chequeo de disponibilidad fallido no deja
// ningún estado intermedio observable.
package orders

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-ventas/internal/application/dto"
	"github.com/tu-usuario/almacen-ventas/internal/domain"
	"github.com/tu-usuario/almacen-ventas/internal/domain/entity"
	"github.com/tu-usuario/almacen-ventas/internal/domain/repository"
)

// UseCase casos de uso del ciclo de vida de pedidos.
type UseCase struct {
	txRunner     TxRunner
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	lotRepo      repository.LotRepository
	receipts     ReceiptGenerator
}

// NewUseCase construye el caso de uso. Los repos recibidos van atados al
// pool (lecturas y creación); las transiciones usan los repos transaccionales
// que entrega el TxRunner.
func NewUseCase(
	txRunner TxRunner,
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	lotRepo repository.LotRepository,
	receipts ReceiptGenerator,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		lotRepo:      lotRepo,
		receipts:     receipts,
	}
}

// CreateOrder guarda una cotización: valida, calcula el total de la lista
// canónica y persiste con estado quote. No reserva stock ni toca saldos.
func (uc *UseCase) CreateOrder(ctx context.Context, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	products := dto.ProductEntriesToEntity(in.Products)
	if err := validateOrderInput(in.CustomerID, in.ExchangeRate, products); err != nil {
		return nil, err
	}
	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.lotsExist(products); err != nil {
		return nil, err
	}

	now := time.Now()
	order := &entity.Order{
		ID:           uuid.New().String(),
		CustomerID:   in.CustomerID,
		State:        entity.OrderStateQuote,
		ExchangeRate: in.ExchangeRate,
		TotalPrice:   entity.ComputeTotal(products),
		Payment:      decimal.Zero,
		Note:         in.Note,
		Products:     products,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.orderRepo.Create(order); err != nil {
		return nil, err
	}
	return uc.toResponse(order, customer.Name), nil
}

// Confirm reserva el stock de todos los lotes del pedido y aplica el total
// al saldo del cliente. Permitido desde quote o edited; si algún lote no
// tiene disponible suficiente, la transacción completa se revierte y nada
// queda reservado (un reintento no puede duplicar la reserva).
func (uc *UseCase) Confirm(ctx context.Context, orderID string) (*dto.OrderResponse, error) {
	var order *entity.Order
	err := uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		customerRepo repository.CustomerRepository,
		orderRepo repository.OrderRepository,
	) error {
		var err error
		order, err = lockOrder(orderRepo, orderID, entity.OrderEventConfirm)
		if err != nil {
			return err
		}
		if order.State == entity.OrderStateQuote {
			if err := applyConfirmEffects(lotRepo, customerRepo, order); err != nil {
				return err
			}
		}
		// Desde edited el stock y el saldo ya están aplicados; solo cambia
		// el estado.
		order.State = entity.OrderStateConfirmed
		order.UpdatedAt = time.Now()
		return orderRepo.Update(order)
	})
	if err != nil {
		return nil, err
	}
	return uc.respondWithCustomer(order)
}

// AddPayment registra un pago o reembolso. Solo permitido con el pedido
// confirmado o editado; sobre una cotización primero se confirma
// implícitamente (con todos sus efectos) y después se registra el pago. El
// delta firmado en moneda base se aplica al saldo del pedido y se espeja en
// el del cliente dentro de la misma transacción.
func (uc *UseCase) AddPayment(ctx context.Context, orderID string, in dto.PaymentRequest) (*dto.OrderResponse, error) {
	rec, err := buildPaymentRecord(in)
	if err != nil {
		return nil, err
	}
	var order *entity.Order
	err = uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		customerRepo repository.CustomerRepository,
		orderRepo repository.OrderRepository,
	) error {
		var err error
		order, err = lockOrder(orderRepo, orderID, entity.OrderEventPay)
		if err != nil {
			return err
		}
		if order.State == entity.OrderStateQuote {
			if err := applyConfirmEffects(lotRepo, customerRepo, order); err != nil {
				return err
			}
			order.State = entity.OrderStateConfirmed
		}
		if err := orderRepo.AddPayment(order.ID, rec); err != nil {
			return err
		}
		order.Payments = append(order.Payments, *rec)
		delta := rec.SignedBase()
		order.Payment = order.Payment.Add(delta)
		if err := shiftCustomerBalance(customerRepo, order.CustomerID, delta); err != nil {
			return err
		}
		order.UpdatedAt = time.Now()
		return orderRepo.Update(order)
	})
	if err != nil {
		return nil, err
	}
	return uc.respondWithCustomer(order)
}

// Revert libera todo el stock reservado y revierte el efecto acumulado del
// pedido sobre el saldo del cliente, restando exactamente el valor
// registrado en Order.Payment (no se recomputa desde el historial). Estado
// final reverted, terminal: confirmar, pagar o revertir de nuevo falla.
func (uc *UseCase) Revert(ctx context.Context, orderID string, in dto.RevertOrderRequest) (*dto.OrderResponse, error) {
	var order *entity.Order
	err := uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		customerRepo repository.CustomerRepository,
		orderRepo repository.OrderRepository,
	) error {
		var err error
		order, err = lockOrder(orderRepo, orderID, entity.OrderEventRevert)
		if err != nil {
			return err
		}
		release := negateQuantities(entity.QuantitiesByLot(order.Products))
		if err := applyStockDeltas(lotRepo, release); err != nil {
			return err
		}
		// El saldo del cliente vuelve a lo que sería si el pedido nunca
		// hubiera existido.
		if err := shiftCustomerBalance(customerRepo, order.CustomerID, order.Payment.Neg()); err != nil {
			return err
		}
		order.State = entity.OrderStateReverted
		if in.Note != "" {
			order.Note = in.Note
		}
		order.UpdatedAt = time.Now()
		return orderRepo.Update(order)
	})
	if err != nil {
		return nil, err
	}
	return uc.respondWithCustomer(order)
}

// Edit reemplaza lista de productos, cliente, tasa de cambio y/o nota de un
// pedido no revertido. Si el pedido ya tenía stock reservado, aplica el
// delta por lote entre la lista vieja y la nueva de forma atómica (liberar
// lo viejo, reservar lo nuevo); si la nueva reserva no alcanza, el edit
// completo se rechaza y el pedido conserva su lista y su stock previos.
// Un pedido confirmado editado pasa a edited; una cotización editada sigue
// siendo cotización.
func (uc *UseCase) Edit(ctx context.Context, orderID string, in dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	var newProducts []entity.ProductEntry
	if in.Products != nil {
		newProducts = dto.ProductEntriesToEntity(in.Products)
		if err := validateProducts(newProducts); err != nil {
			return nil, err
		}
		if err := uc.lotsExist(newProducts); err != nil {
			return nil, err
		}
	}
	if in.ExchangeRate != nil && !in.ExchangeRate.GreaterThan(decimal.Zero) {
		return nil, domain.ErrValidation
	}
	var order *entity.Order
	err := uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		customerRepo repository.CustomerRepository,
		orderRepo repository.OrderRepository,
	) error {
		var err error
		order, err = lockOrder(orderRepo, orderID, entity.OrderEventEdit)
		if err != nil {
			return err
		}
		wasReserved := entity.IsConfirmedFamily(order.State)
		oldQty := entity.QuantitiesByLot(order.Products)
		oldTotal := order.TotalPrice
		oldCustomerID := order.CustomerID
		oldEffect := order.Payment

		if in.CustomerID != nil {
			if *in.CustomerID == "" {
				return domain.ErrValidation
			}
			target, err := customerRepo.GetByID(*in.CustomerID)
			if err != nil {
				return err
			}
			if target == nil {
				return domain.ErrNotFound
			}
			order.CustomerID = *in.CustomerID
		}
		if in.ExchangeRate != nil {
			order.ExchangeRate = *in.ExchangeRate
		}
		if in.Note != nil {
			order.Note = *in.Note
		}
		if newProducts != nil {
			order.Products = newProducts
			order.TotalPrice = entity.ComputeTotal(newProducts)
		}

		if wasReserved {
			// Delta de stock entre lista vieja y nueva, en una sola pasada.
			deltas := diffQuantities(oldQty, entity.QuantitiesByLot(order.Products))
			if err := applyStockDeltas(lotRepo, deltas); err != nil {
				return err
			}
			// Ajuste del efecto sobre saldos: el pedido pasa a deber el
			// nuevo total manteniendo los pagos ya registrados.
			deltaTotal := order.TotalPrice.Sub(oldTotal)
			order.Payment = order.Payment.Sub(deltaTotal)
			if order.CustomerID != oldCustomerID {
				if err := shiftCustomerBalance(customerRepo, oldCustomerID, oldEffect.Neg()); err != nil {
					return err
				}
				if err := shiftCustomerBalance(customerRepo, order.CustomerID, order.Payment); err != nil {
					return err
				}
			} else if !deltaTotal.IsZero() {
				if err := shiftCustomerBalance(customerRepo, order.CustomerID, deltaTotal.Neg()); err != nil {
					return err
				}
			}
			order.State = entity.OrderStateEdited
		}
		order.UpdatedAt = time.Now()
		return orderRepo.Update(order)
	})
	if err != nil {
		return nil, err
	}
	return uc.respondWithCustomer(order)
}

// GetOrder obtiene un pedido con productos, pagos y desglose derivado.
func (uc *UseCase) GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return uc.respondWithCustomer(order)
}

// ListOrders lista pedidos con paginación; customerID opcional filtra por
// cliente.
func (uc *UseCase) ListOrders(ctx context.Context, customerID string, page dto.PageRequest) (*dto.OrderListResponse, error) {
	page.DefaultPage()
	var (
		list  []*entity.Order
		total int
		err   error
	)
	if customerID != "" {
		list, total, err = uc.orderRepo.ListByCustomer(customerID, page.Limit, page.Offset)
	} else {
		list, total, err = uc.orderRepo.List(page.Limit, page.Offset)
	}
	if err != nil {
		return nil, err
	}
	resp := &dto.OrderListResponse{
		Items: make([]dto.OrderResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}
	for _, o := range list {
		resp.Items = append(resp.Items, *uc.toResponse(o, ""))
	}
	return resp, nil
}

// Receipt genera el comprobante PDF del pedido.
func (uc *UseCase) Receipt(ctx context.Context, orderID string) ([]byte, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	customer, err := uc.customerRepo.GetByID(order.CustomerID)
	if err != nil {
		return nil, err
	}
	lots := make(map[string]*entity.StockLot)
	for lotID := range entity.QuantitiesByLot(order.Products) {
		lot, err := uc.lotRepo.GetByID(lotID)
		if err != nil {
			return nil, err
		}
		if lot != nil {
			lots[lotID] = lot
		}
	}
	return uc.receipts.GenerateOrderReceipt(ctx, order, customer, lots)
}

// ── Efectos de transición ─────────────────────────────────────────────────────

// lockOrder bloquea el pedido y valida la transición contra la tabla de
// estados antes de cualquier efecto.
func lockOrder(orderRepo repository.OrderRepository, orderID, event string) (*entity.Order, error) {
	order, err := orderRepo.GetForUpdate(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if !entity.CanTransition(order.State, event) {
		return nil, domain.ErrInvalidTransition
	}
	return order, nil
}

// applyConfirmEffects reserva el stock de la lista de productos y aplica
// -totalPrice al saldo del pedido, espejado en el cliente. Solo se invoca en
// la primera confirmación (estado quote).
func applyConfirmEffects(
	lotRepo repository.LotRepository,
	customerRepo repository.CustomerRepository,
	order *entity.Order,
) error {
	if err := applyStockDeltas(lotRepo, entity.QuantitiesByLot(order.Products)); err != nil {
		return err
	}
	order.Payment = order.Payment.Sub(order.TotalPrice)
	return shiftCustomerBalance(customerRepo, order.CustomerID, order.TotalPrice.Neg())
}

// applyStockDeltas aplica deltas de ocupación por lote (positivo = reservar,
// negativo = liberar) en orden determinista, con bloqueo de fila. Si un
// delta positivo excede el disponible retorna ErrInsufficientStock; la
// transacción del caller revierte lo ya aplicado.
func applyStockDeltas(lotRepo repository.LotRepository, deltas map[string]decimal.Decimal) error {
	ids := make([]string, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Strings(ids) // orden estable de bloqueo
	for _, id := range ids {
		delta := deltas[id]
		if delta.IsZero() {
			continue
		}
		lot, err := lotRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.ErrNotFound
		}
		if delta.GreaterThan(decimal.Zero) && lot.AmountAvailable().LessThan(delta) {
			return domain.ErrInsufficientStock
		}
		lot.AmountOccupied = lot.AmountOccupied.Add(delta)
		lot.UpdatedAt = time.Now()
		if err := lotRepo.UpdateAmounts(lot); err != nil {
			return err
		}
	}
	return nil
}

// shiftCustomerBalance suma el delta firmado al saldo del cliente con
// bloqueo de fila.
func shiftCustomerBalance(customerRepo repository.CustomerRepository, customerID string, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	customer, err := customerRepo.GetForUpdate(customerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return domain.ErrNotFound
	}
	customer.Payment = customer.Payment.Add(delta)
	customer.UpdatedAt = time.Now()
	return customerRepo.UpdatePayment(customer)
}

// ── Validación y helpers ──────────────────────────────────────────────────────

func validateOrderInput(customerID string, exchangeRate decimal.Decimal, products []entity.ProductEntry) error {
	if customerID == "" {
		return domain.ErrValidation
	}
	if !exchangeRate.GreaterThan(decimal.Zero) {
		return domain.ErrValidation
	}
	return validateProducts(products)
}

// validateProducts rechaza antes de cualquier mutación: lista vacía,
// cantidades ≤ 0 y sets con menos de 2 miembros.
func validateProducts(products []entity.ProductEntry) error {
	if len(products) == 0 {
		return domain.ErrValidation
	}
	for i := range products {
		p := &products[i]
		if len(p.Items) == 0 {
			return domain.ErrValidation
		}
		claimsSet := p.NameSet != "" || p.IsCalcSet || p.PriceSet.GreaterThan(decimal.Zero)
		if (claimsSet || len(p.Items) > 1) && len(p.Items) < 2 {
			return domain.ErrValidation
		}
		for _, it := range p.Items {
			if it.LotID == "" || !it.Quantity.GreaterThan(decimal.Zero) {
				return domain.ErrValidation
			}
		}
	}
	return nil
}

// lotsExist verifica que cada lote referenciado exista (lectura, fuera de la
// transacción de transición).
func (uc *UseCase) lotsExist(products []entity.ProductEntry) error {
	for lotID := range entity.QuantitiesByLot(products) {
		lot, err := uc.lotRepo.GetByID(lotID)
		if err != nil {
			return err
		}
		if lot == nil {
			return domain.ErrNotFound
		}
	}
	return nil
}

func negateQuantities(in map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(in))
	for id, q := range in {
		out[id] = q.Neg()
	}
	return out
}

// diffQuantities devuelve nuevo - viejo por lote (liberaciones y reservas en
// un solo mapa).
func diffQuantities(before, after map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(before)+len(after))
	for id, q := range after {
		out[id] = q
	}
	for id, q := range before {
		out[id] = out[id].Sub(q)
	}
	return out
}

func (uc *UseCase) respondWithCustomer(order *entity.Order) (*dto.OrderResponse, error) {
	name := ""
	if customer, _ := uc.customerRepo.GetByID(order.CustomerID); customer != nil {
		name = customer.Name
	}
	return uc.toResponse(order, name), nil
}

func (uc *UseCase) toResponse(order *entity.Order, customerName string) *dto.OrderResponse {
	products := make([]dto.ProductEntryPayload, 0, len(order.Products))
	for _, p := range order.Products {
		products = append(products, dto.ProductEntryFromEntity(p))
	}
	payments := make([]dto.PaymentResponse, 0, len(order.Payments))
	for _, p := range order.Payments {
		payments = append(payments, dto.PaymentResponse{
			ID:            p.ID,
			Type:          p.Type,
			ExchangeRate:  p.ExchangeRate,
			Amount:        p.Amount,
			AmountBase:    p.AmountBase,
			PaymentMethod: p.PaymentMethod,
			DatePaid:      p.DatePaid,
			Note:          p.Note,
		})
	}
	remaining := Remaining(order.Payment)
	return &dto.OrderResponse{
		ID:           order.ID,
		CustomerID:   order.CustomerID,
		CustomerName: customerName,
		State:        order.State,
		ExchangeRate: order.ExchangeRate,
		TotalPrice:   order.TotalPrice,
		Payment:      order.Payment,
		Paid:         Paid(order.TotalPrice, order.Payment),
		Remaining:    remaining,
		Note:         order.Note,
		Products:     products,
		Payments:     payments,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
}

func buildPaymentRecord(in dto.PaymentRequest) (*entity.PaymentRecord, error) {
	if in.Type != entity.PaymentTypeCustomerPaid && in.Type != entity.PaymentTypeRefund {
		return nil, domain.ErrValidation
	}
	amountBase := in.AmountBase
	if amountBase.IsZero() && in.ExchangeRate.GreaterThan(decimal.Zero) {
		amountBase = in.Amount.Div(in.ExchangeRate)
	}
	if !amountBase.GreaterThan(decimal.Zero) {
		return nil, domain.ErrValidation
	}
	datePaid := in.DatePaid
	if datePaid.IsZero() {
		datePaid = time.Now()
	}
	return &entity.PaymentRecord{
		ID:            uuid.New().String(),
		Type:          in.Type,
		ExchangeRate:  in.ExchangeRate,
		Amount:        in.Amount,
		AmountBase:    amountBase,
		PaymentMethod: in.PaymentMethod,
		DatePaid:      datePaid,
		Note:          in.Note,
	}, nil
}
