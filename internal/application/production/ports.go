package production

import (
	"context"

	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad: si fn devuelve error
// no queda aplicada ninguna escritura del flujo.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		productRepo repository.ProductRepository,
		componentRepo repository.ProductComponentRepository,
		workRepo repository.AssemblyWorkRepository,
	) error) error
}
