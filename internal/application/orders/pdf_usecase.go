package orders

import (
	"context"
	"fmt"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// DispatchPDFGenerator genera la remisión imprimible de una orden: el
// documento que acompaña los materiales enviados al armador.
type DispatchPDFGenerator interface {
	GenerateDispatchPDF(ctx context.Context, order *entity.ExternalOrder, armador *entity.Armador) ([]byte, error)
}

// PDFUseCase genera la remisión (PDF) de una orden de producción externa.
type PDFUseCase struct {
	orderRepo   repository.ExternalOrderRepository
	armadorRepo repository.ArmadorRepository
	generator   DispatchPDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando sus dependencias.
func NewPDFUseCase(
	orderRepo repository.ExternalOrderRepository,
	armadorRepo repository.ArmadorRepository,
	generator DispatchPDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		orderRepo:   orderRepo,
		armadorRepo: armadorRepo,
		generator:   generator,
	}
}

// DownloadDispatchPDF recupera la orden con su detalle y genera la remisión.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la orden no existe.
func (uc *PDFUseCase) DownloadDispatchPDF(ctx context.Context, orderID string) (pdfBytes []byte, filename string, err error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener orden: %w", err)
	}
	if order == nil {
		return nil, "", domain.ErrNotFound
	}

	armador, err := uc.armadorRepo.GetByID(order.ArmadorID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener armador: %w", err)
	}
	if armador == nil {
		return nil, "", domain.ErrNotFound
	}

	pdfBytes, err = uc.generator.GenerateDispatchPDF(ctx, order, armador)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("remision_%s.pdf", order.ID)
	return pdfBytes, filename, nil
}
