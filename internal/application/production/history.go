package production

import (
	"time"

	"github.com/jhoicas/Taller-api/internal/application/dto"
	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// HistoryUseCase expone el libro de movimientos en modo lectura: listado
// global, por producto y por grupo de evento. No escribe nada.
type HistoryUseCase struct {
	movRepo repository.InventoryMovementRepository
}

// NewHistoryUseCase construye el caso de uso con un repositorio atado al pool.
func NewHistoryUseCase(movRepo repository.InventoryMovementRepository) *HistoryUseCase {
	return &HistoryUseCase{movRepo: movRepo}
}

// List lista movimientos globales, del más reciente al más antiguo.
func (uc *HistoryUseCase) List(limit, offset int) ([]dto.MovementResponse, error) {
	movements, err := uc.movRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		items = append(items, toMovementResponse(m))
	}
	return items, nil
}

// ListByProduct lista los movimientos de un producto, acotados por fecha si
// se indica.
func (uc *HistoryUseCase) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]dto.MovementResponse, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	movements, err := uc.movRepo.ListByProduct(productID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		items = append(items, toMovementResponse(m))
	}
	return items, nil
}

// ListByEvent lista los movimientos de un grupo de evento en orden de creación.
func (uc *HistoryUseCase) ListByEvent(eventID string) ([]dto.MovementResponse, error) {
	if eventID == "" {
		return nil, domain.ErrInvalidInput
	}
	movements, err := uc.movRepo.ListByEvent(eventID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		items = append(items, toMovementResponse(m))
	}
	return items, nil
}
