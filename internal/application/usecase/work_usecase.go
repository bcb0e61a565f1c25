package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// WorkUseCase gestiona trabajos de armado y su asociación con productos.
type WorkUseCase struct {
	works    repository.AssemblyWorkRepository
	products repository.ProductRepository
}

// NewWorkUseCase construye el caso de uso.
func NewWorkUseCase(works repository.AssemblyWorkRepository, products repository.ProductRepository) *WorkUseCase {
	return &WorkUseCase{works: works, products: products}
}

// Create crea una definición de trabajo de armado.
func (uc *WorkUseCase) Create(in dto.CreateWorkRequest) (*dto.WorkResponse, error) {
	if in.Name == "" || in.UnitPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	work := &entity.AssemblyWork{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		UnitPrice:   in.UnitPrice,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.works.CreateWork(work); err != nil {
		return nil, err
	}
	return toWorkResponse(work), nil
}

// List lista trabajos de armado con paginación.
func (uc *WorkUseCase) List(limit, offset int) ([]dto.WorkResponse, error) {
	list, err := uc.works.ListWorks(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WorkResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWorkResponse(w))
	}
	return items, nil
}

// Attach asocia un trabajo a un producto con la cantidad por unidad.
func (uc *WorkUseCase) Attach(productID string, in dto.AttachWorkRequest) error {
	if productID == "" || in.WorkID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	product, err := uc.products.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	work, err := uc.works.GetWorkByID(in.WorkID)
	if err != nil {
		return err
	}
	if work == nil {
		return fmt.Errorf("trabajo %s: %w", in.WorkID, domain.ErrNotFound)
	}
	return uc.works.AttachToProduct(&entity.ProductWork{
		ID:        uuid.New().String(),
		ProductID: productID,
		WorkID:    in.WorkID,
		Quantity:  in.Quantity,
		CreatedAt: time.Now(),
		Work:      work,
	})
}

// ListByProduct lista los trabajos asociados a un producto.
func (uc *WorkUseCase) ListByProduct(productID string) ([]dto.ProductWorkResponse, error) {
	links, err := uc.works.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductWorkResponse, 0, len(links))
	for _, pw := range links {
		item := dto.ProductWorkResponse{
			ID:       pw.ID,
			WorkID:   pw.WorkID,
			Quantity: pw.Quantity,
		}
		if pw.Work != nil {
			item.Name = pw.Work.Name
			item.UnitPrice = pw.Work.UnitPrice
		}
		items = append(items, item)
	}
	return items, nil
}

// Detach elimina una asociación producto-trabajo.
func (uc *WorkUseCase) Detach(id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	return uc.works.DetachFromProduct(id)
}

func toWorkResponse(w *entity.AssemblyWork) *dto.WorkResponse {
	return &dto.WorkResponse{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		UnitPrice:   w.UnitPrice,
	}
}
