package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/application/production"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. Stock solo lo mutan las
// operaciones del motor; el stock inicial se registra como ADJUSTMENT_IN
// para que el libro y la caché nazcan consistentes.
type ProductUseCase struct {
	repo     repository.ProductRepository
	txRunner production.TxRunner
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, txRunner production.TxRunner) *ProductUseCase {
	return &ProductUseCase{repo: repo, txRunner: txRunner}
}

// Create crea un producto. Si InitialStock > 0, el alta del stock queda en
// el libro como ADJUSTMENT_IN dentro de la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest, actorID string) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" || !entity.ValidProductType(in.Type) {
		return nil, domain.ErrInvalidInput
	}
	if in.InitialStock.LessThan(decimal.Zero) || in.MinStock.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetBySKU(in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Type:        in.Type,
		Stock:       decimal.Zero,
		MinStock:    in.MinStock,
		Price:       in.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		_ repository.ProductComponentRepository,
		_ repository.AssemblyWorkRepository,
	) error {
		if err := productRepo.Create(product); err != nil {
			return err
		}
		if !in.InitialStock.GreaterThan(decimal.Zero) {
			return nil
		}
		mov := &entity.InventoryMovement{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			Type:      entity.MovementTypeAdjustmentIn,
			Quantity:  in.InitialStock,
			ActorID:   actorID,
			Note:      "Stock inicial",
			CreatedAt: now,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		product.Stock = in.InitialStock
		return productRepo.UpdateStock(product.ID, in.InitialStock)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
	}
	return toProductResponse(product), nil
}

// Update actualiza campos editables. No toca Stock (se maneja vía movimientos).
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.MinStock != nil {
		if in.MinStock.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.MinStock = *in.MinStock
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación, opcionalmente por tipo.
func (uc *ProductUseCase) List(productType string, limit, offset int) (*dto.ProductListResponse, error) {
	if productType != "" && !entity.ValidProductType(productType) {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.repo.List(productType, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un producto. Falla con ErrConflict si tiene movimientos
// u otras referencias (el libro nunca pierde historia).
func (uc *ProductUseCase) Delete(id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	return uc.repo.Delete(id)
}

// ListLowStock lista productos con stock por debajo de su umbral.
func (uc *ProductUseCase) ListLowStock() ([]dto.ProductResponse, error) {
	list, err := uc.repo.ListLowStock()
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Type:        p.Type,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
