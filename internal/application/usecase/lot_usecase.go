package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/almacen-ventas/internal/application/dto"
	"github.com/tu-usuario/almacen-ventas/internal/domain"
	"github.com/tu-usuario/almacen-ventas/internal/domain/entity"
	"github.com/tu-usuario/almacen-ventas/internal/domain/repository"
	"github.com/tu-usuario/almacen-ventas/internal/domain/sorting"
)

// LotUseCase operaciones de catálogo sobre lotes de stock: ingreso,
// reposición, listado ordenado para el picker, actualización y baja.
type LotUseCase struct {
	lotRepo repository.LotRepository
}

// NewLotUseCase construye el caso de uso.
func NewLotUseCase(lotRepo repository.LotRepository) *LotUseCase {
	return &LotUseCase{lotRepo: lotRepo}
}

// Create registra un lote nuevo (ingreso de stock). Cantidad ocupada inicia
// en cero.
func (uc *LotUseCase) Create(in dto.CreateLotRequest) (*dto.LotResponse, error) {
	if in.Item == "" || in.Quality == "" {
		return nil, domain.ErrValidation
	}
	if in.TotalAmount.IsNegative() || in.PriceHigh.IsNegative() || in.PriceLow.IsNegative() || in.Sale.IsNegative() {
		return nil, domain.ErrValidation
	}
	now := time.Now()
	lot := &entity.StockLot{
		ID:                uuid.New().String(),
		Item:              in.Item,
		Quality:           in.Quality,
		Style:             in.Style,
		Color:             in.Color,
		Inches:            in.Inches,
		TotalAmount:       in.TotalAmount,
		AmountOccupied:    decimal.Zero,
		PriceHigh:         in.PriceHigh,
		PriceLow:          in.PriceLow,
		Sale:              in.Sale,
		UnitOfCalculation: in.UnitOfCalculation,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.lotRepo.Create(lot); err != nil {
		return nil, err
	}
	return toLotResponse(lot), nil
}

// AddStock suma cantidad al total del lote (reposición). No toca lo
// ocupado.
func (uc *LotUseCase) AddStock(id string, in dto.AddStockRequest) (*dto.LotResponse, error) {
	if !in.Amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrValidation
	}
	lot, err := uc.lotRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	lot.TotalAmount = lot.TotalAmount.Add(in.Amount)
	lot.UpdatedAt = time.Now()
	if err := uc.lotRepo.UpdateAmounts(lot); err != nil {
		return nil, err
	}
	return toLotResponse(lot), nil
}

// List devuelve la página de lotes ordenada para presentación (agrupación
// por frecuencia + ranking de calidad). El orden es solo de despliegue.
func (uc *LotUseCase) List(page dto.PageRequest) (*dto.LotListResponse, error) {
	page.DefaultPage()
	lots, total, err := uc.lotRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	sorted := sorting.SortLots(lots)
	resp := &dto.LotListResponse{
		Items: make([]dto.LotResponse, 0, len(sorted)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}
	for _, l := range sorted {
		resp.Items = append(resp.Items, *toLotResponse(l))
	}
	return resp, nil
}

// GetByID obtiene un lote.
func (uc *LotUseCase) GetByID(id string) (*dto.LotResponse, error) {
	lot, err := uc.lotRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	return toLotResponse(lot), nil
}

// Update actualiza atributos y precios del lote (no cantidades).
func (uc *LotUseCase) Update(id string, in dto.UpdateLotRequest) (*dto.LotResponse, error) {
	lot, err := uc.lotRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.ErrNotFound
	}
	if in.Item != nil {
		lot.Item = *in.Item
	}
	if in.Quality != nil {
		lot.Quality = *in.Quality
	}
	if in.Style != nil {
		lot.Style = *in.Style
	}
	if in.Color != nil {
		lot.Color = *in.Color
	}
	if in.Inches != nil {
		lot.Inches = *in.Inches
	}
	if in.PriceHigh != nil {
		lot.PriceHigh = *in.PriceHigh
	}
	if in.PriceLow != nil {
		lot.PriceLow = *in.PriceLow
	}
	if in.Sale != nil {
		lot.Sale = *in.Sale
	}
	if in.UnitOfCalculation != nil {
		lot.UnitOfCalculation = *in.UnitOfCalculation
	}
	lot.UpdatedAt = time.Now()
	if err := uc.lotRepo.Update(lot); err != nil {
		return nil, err
	}
	return toLotResponse(lot), nil
}

// Delete elimina un lote. Rechazado mientras tenga stock reservado por
// pedidos confirmados.
func (uc *LotUseCase) Delete(id string) error {
	lot, err := uc.lotRepo.GetByID(id)
	if err != nil {
		return err
	}
	if lot == nil {
		return domain.ErrNotFound
	}
	if lot.AmountOccupied.GreaterThan(decimal.Zero) {
		return domain.ErrLotOccupied
	}
	return uc.lotRepo.Delete(id)
}

func toLotResponse(l *entity.StockLot) *dto.LotResponse {
	return &dto.LotResponse{
		ID:                l.ID,
		Item:              l.Item,
		Quality:           l.Quality,
		Style:             l.Style,
		Color:             l.Color,
		Inches:            l.Inches,
		TotalAmount:       l.TotalAmount,
		AmountOccupied:    l.AmountOccupied,
		AmountAvailable:   l.AmountAvailable(),
		PriceHigh:         l.PriceHigh,
		PriceLow:          l.PriceLow,
		Sale:              l.Sale,
		UnitOfCalculation: l.UnitOfCalculation,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}
}
