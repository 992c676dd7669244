// Package composer mantiene el borrador en memoria de un pedido: entradas
// sueltas y sets, con las invariantes de composición (un lote a lo sumo una
// vez, sets de ≥2 miembros, orden estable por índice monotónico).
//
// El borrador es de un solo actor: transformaciones síncronas en memoria,
// sin bloqueo. La única representación que sale hacia persistencia es la
// lista canónica de Products().
package composer

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-ventas/internal/domain/entity"
	"github.com/tu-usuario/almacen-ventas/internal/domain/pricing"
)

// Entry es una entrada suelta del borrador: referencia al lote más
// cantidad, precio y descuento. CustomPrice/CustomSale marcan overrides
// manuales que quedan fijados frente a recálculos por cambio de nivel.
type Entry struct {
	ID          string
	Lot         *entity.StockLot
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	Sale        decimal.Decimal
	CustomPrice bool
	CustomSale  bool
	OrderIndex  int
}

// Set agrupa ≥2 entradas bajo un nombre y, opcionalmente, un precio de
// paquete propio (PriceSet > 0 reemplaza la suma de los miembros).
type Set struct {
	ID          string
	Name        string
	PriceSet    decimal.Decimal
	SaleSet     decimal.Decimal
	QuantitySet decimal.Decimal
	OrderIndex  int
	Items       []*Entry
}

// DefaultSetName nombre inicial de un set recién creado.
const DefaultSetName = "Set"

// EntryUpdate campos parciales para actualizar una entrada. Un puntero no
// nulo se aplica; Price y Sale además fijan la bandera custom
// correspondiente.
type EntryUpdate struct {
	Quantity *decimal.Decimal
	Price    *decimal.Decimal
	Sale     *decimal.Decimal
}

// SetUpdate campos parciales para actualizar un set.
type SetUpdate struct {
	Name        *string
	PriceSet    *decimal.Decimal
	SaleSet     *decimal.Decimal
	QuantitySet *decimal.Decimal
}

// Draft es el borrador de un pedido en composición.
type Draft struct {
	tier      pricing.Tier
	nextIndex int
	entries   []*Entry // sueltas
	sets      []*Set
}

// NewDraft crea un borrador vacío con el nivel de precio inicial.
func NewDraft(tier pricing.Tier) *Draft {
	return &Draft{tier: tier}
}

// Tier devuelve el nivel de precio vigente del borrador.
func (d *Draft) Tier() pricing.Tier { return d.tier }

// Entries devuelve las entradas sueltas (orden de inserción).
func (d *Draft) Entries() []*Entry { return d.entries }

// Sets devuelve los sets del borrador.
func (d *Draft) Sets() []*Set { return d.sets }

// SelectLot agrega una entrada suelta para el lote con cantidad cero y
// precio/descuento resueltos por el nivel vigente. Si el lote ya está en el
// borrador (suelto o dentro de un set) no hace nada: un lote aparece a lo
// sumo una vez por borrador.
func (d *Draft) SelectLot(lot *entity.StockLot) *Entry {
	if d.containsLot(lot.ID) {
		return nil
	}
	price, sale := pricing.Resolve(lot, d.tier)
	e := &Entry{
		ID:         uuid.New().String(),
		Lot:        lot,
		Quantity:   decimal.Zero,
		Price:      price,
		Sale:       sale,
		OrderIndex: d.nextIndex,
	}
	d.nextIndex++
	d.entries = append(d.entries, e)
	return e
}

// DeselectLot quita el lote del borrador: elimina la entrada suelta si
// existe y lo remueve de cada set que lo contenga. Un set que quede con
// menos de 2 miembros se disuelve y sus miembros restantes vuelven a ser
// entradas sueltas conservando su orderIndex.
func (d *Draft) DeselectLot(lotID string) {
	for i, e := range d.entries {
		if e.Lot.ID == lotID {
			d.entries = append(d.entries[:i], d.entries[i+1:]...)
			break
		}
	}
	remaining := d.sets[:0]
	for _, s := range d.sets {
		items := s.Items[:0]
		for _, m := range s.Items {
			if m.Lot.ID != lotID {
				items = append(items, m)
			}
		}
		s.Items = items
		if len(s.Items) < 2 {
			d.entries = append(d.entries, s.Items...)
			continue // set disuelto
		}
		remaining = append(remaining, s)
	}
	d.sets = remaining
}

// UpdateEntry fusiona los campos dados en una entrada suelta. Asignar Price
// o Sale marca CustomPrice/CustomSale, lo que fija el campo frente a futuros
// cambios de nivel de precio.
func (d *Draft) UpdateEntry(entryID string, upd EntryUpdate) bool {
	for _, e := range d.entries {
		if e.ID == entryID {
			applyEntryUpdate(e, upd)
			return true
		}
	}
	return false
}

func applyEntryUpdate(e *Entry, upd EntryUpdate) {
	if upd.Quantity != nil {
		e.Quantity = *upd.Quantity
	}
	if upd.Price != nil {
		e.Price = *upd.Price
		e.CustomPrice = true
	}
	if upd.Sale != nil {
		e.Sale = *upd.Sale
		e.CustomSale = true
	}
}

// CreateSet mueve ≥2 entradas sueltas a un set nuevo. Con menos de 2 ids
// válidos (o ids que no son entradas sueltas) no hace nada. El set hereda el
// menor orderIndex de sus miembros para conservar la posición visual.
func (d *Draft) CreateSet(entryIDs []string) *Set {
	if len(entryIDs) < 2 {
		return nil
	}
	byID := make(map[string]*Entry, len(d.entries))
	for _, e := range d.entries {
		byID[e.ID] = e
	}
	members := make([]*Entry, 0, len(entryIDs))
	seen := make(map[string]bool, len(entryIDs))
	for _, id := range entryIDs {
		e, ok := byID[id]
		if !ok || seen[id] {
			return nil
		}
		seen[id] = true
		members = append(members, e)
	}
	minIndex := members[0].OrderIndex
	for _, m := range members[1:] {
		if m.OrderIndex < minIndex {
			minIndex = m.OrderIndex
		}
	}
	kept := d.entries[:0]
	for _, e := range d.entries {
		if !seen[e.ID] {
			kept = append(kept, e)
		}
	}
	d.entries = kept
	s := &Set{
		ID:          uuid.New().String(),
		Name:        DefaultSetName,
		PriceSet:    decimal.Zero,
		SaleSet:     decimal.Zero,
		QuantitySet: decimal.NewFromInt(1),
		OrderIndex:  minIndex,
		Items:       members,
	}
	d.sets = append(d.sets, s)
	return s
}

// DissolveSet devuelve todos los miembros a entradas sueltas y elimina el
// set.
func (d *Draft) DissolveSet(setID string) {
	for i, s := range d.sets {
		if s.ID == setID {
			d.entries = append(d.entries, s.Items...)
			d.sets = append(d.sets[:i], d.sets[i+1:]...)
			return
		}
	}
}

// UpdateSet fusiona campos parciales del set (nombre, precio de paquete,
// descuento y cantidad del paquete).
func (d *Draft) UpdateSet(setID string, upd SetUpdate) bool {
	s := d.findSet(setID)
	if s == nil {
		return false
	}
	if upd.Name != nil {
		s.Name = *upd.Name
	}
	if upd.PriceSet != nil {
		s.PriceSet = *upd.PriceSet
	}
	if upd.SaleSet != nil {
		s.SaleSet = *upd.SaleSet
	}
	if upd.QuantitySet != nil {
		s.QuantitySet = *upd.QuantitySet
	}
	return true
}

// UpdateSetMember aplica la misma regla de override que UpdateEntry sobre un
// miembro del set.
func (d *Draft) UpdateSetMember(setID, entryID string, upd EntryUpdate) bool {
	s := d.findSet(setID)
	if s == nil {
		return false
	}
	for _, m := range s.Items {
		if m.ID == entryID {
			applyEntryUpdate(m, upd)
			return true
		}
	}
	return false
}

// RemoveSetMember quita un miembro del set; el miembro vuelve a ser entrada
// suelta. Si el set queda con menos de 2 miembros se disuelve completo.
func (d *Draft) RemoveSetMember(setID, entryID string) {
	for i, s := range d.sets {
		if s.ID != setID {
			continue
		}
		for j, m := range s.Items {
			if m.ID == entryID {
				s.Items = append(s.Items[:j], s.Items[j+1:]...)
				d.entries = append(d.entries, m)
				break
			}
		}
		if len(s.Items) < 2 {
			d.entries = append(d.entries, s.Items...)
			d.sets = append(d.sets[:i], d.sets[i+1:]...)
		}
		return
	}
}

// SwitchTier recalcula precios y descuentos de todas las entradas (sueltas y
// miembros de sets) desde el lote, respetando los overrides manuales: un
// campo con custom=true no se toca. Pasar al nivel bajo pone el descuento en
// cero salvo que esté fijado.
func (d *Draft) SwitchTier(tier pricing.Tier) {
	d.tier = tier
	recalc := func(e *Entry) {
		price, sale := pricing.Resolve(e.Lot, tier)
		if !e.CustomPrice {
			e.Price = price
		}
		if !e.CustomSale {
			e.Sale = sale
		}
	}
	for _, e := range d.entries {
		recalc(e)
	}
	for _, s := range d.sets {
		for _, m := range s.Items {
			recalc(m)
		}
	}
}

// Products fusiona entradas sueltas y sets en la lista canónica ordenada por
// orderIndex ascendente: cada entrada suelta se convierte en un ProductEntry
// de un solo ítem y cada set en un ProductEntry con sus miembros en orden de
// inserción (no se reordenan). Esta es la única representación que se envía
// a persistencia.
func (d *Draft) Products() []entity.ProductEntry {
	type slot struct {
		index int
		entry entity.ProductEntry
	}
	slots := make([]slot, 0, len(d.entries)+len(d.sets))
	for _, e := range d.entries {
		slots = append(slots, slot{
			index: e.OrderIndex,
			entry: entity.ProductEntry{
				QuantitySet: decimal.NewFromInt(1),
				Items:       []entity.OrderItem{toOrderItem(e)},
			},
		})
	}
	for _, s := range d.sets {
		items := make([]entity.OrderItem, 0, len(s.Items))
		for _, m := range s.Items {
			items = append(items, toOrderItem(m))
		}
		slots = append(slots, slot{
			index: s.OrderIndex,
			entry: entity.ProductEntry{
				NameSet:     s.Name,
				PriceSet:    s.PriceSet,
				QuantitySet: s.QuantitySet,
				SaleSet:     s.SaleSet,
				IsCalcSet:   s.PriceSet.GreaterThan(decimal.Zero),
				Items:       items,
			},
		})
	}
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].index < slots[j].index })
	out := make([]entity.ProductEntry, len(slots))
	for i, s := range slots {
		out[i] = s.entry
	}
	return out
}

// FromProducts reconstruye un borrador desde la lista canónica de un pedido
// persistido (reabrir para editar). El orden visual guardado se conserva:
// cada entrada recibe orderIndex por posición. Los lotes se resuelven por id
// desde el catálogo dado; las entradas cuyo lote ya no existe se omiten.
func FromProducts(products []entity.ProductEntry, tier pricing.Tier, lots map[string]*entity.StockLot) *Draft {
	d := NewDraft(tier)
	for _, p := range products {
		if p.IsSet() {
			members := make([]*Entry, 0, len(p.Items))
			for _, it := range p.Items {
				if e := fromOrderItem(it, lots, d); e != nil {
					members = append(members, e)
				}
			}
			if len(members) < 2 {
				d.entries = append(d.entries, members...)
				continue
			}
			d.sets = append(d.sets, &Set{
				ID:          uuid.New().String(),
				Name:        p.NameSet,
				PriceSet:    p.PriceSet,
				SaleSet:     p.SaleSet,
				QuantitySet: p.QuantitySet,
				OrderIndex:  members[0].OrderIndex,
				Items:       members,
			})
			continue
		}
		for _, it := range p.Items {
			if e := fromOrderItem(it, lots, d); e != nil {
				d.entries = append(d.entries, e)
			}
		}
	}
	return d
}

func (d *Draft) containsLot(lotID string) bool {
	for _, e := range d.entries {
		if e.Lot.ID == lotID {
			return true
		}
	}
	for _, s := range d.sets {
		for _, m := range s.Items {
			if m.Lot.ID == lotID {
				return true
			}
		}
	}
	return false
}

func (d *Draft) findSet(setID string) *Set {
	for _, s := range d.sets {
		if s.ID == setID {
			return s
		}
	}
	return nil
}

func toOrderItem(e *Entry) entity.OrderItem {
	return entity.OrderItem{
		LotID:       e.Lot.ID,
		Quantity:    e.Quantity,
		Price:       e.Price,
		Sale:        e.Sale,
		CustomPrice: e.CustomPrice,
		CustomSale:  e.CustomSale,
	}
}

func fromOrderItem(it entity.OrderItem, lots map[string]*entity.StockLot, d *Draft) *Entry {
	lot, ok := lots[it.LotID]
	if !ok {
		return nil
	}
	e := &Entry{
		ID:          uuid.New().String(),
		Lot:         lot,
		Quantity:    it.Quantity,
		Price:       it.Price,
		Sale:        it.Sale,
		CustomPrice: it.CustomPrice,
		CustomSale:  it.CustomSale,
		OrderIndex:  d.nextIndex,
	}
	d.nextIndex++
	return e
}
