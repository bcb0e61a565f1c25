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

// ComponentUseCase gestiona las aristas del BOM. La aciclicidad se garantiza
// aquí, al crear la arista: el resolutor recursivo no lleva guarda de ciclos.
type ComponentUseCase struct {
	components repository.ProductComponentRepository
	products   repository.ProductRepository
}

// NewComponentUseCase construye el caso de uso.
func NewComponentUseCase(components repository.ProductComponentRepository, products repository.ProductRepository) *ComponentUseCase {
	return &ComponentUseCase{components: components, products: products}
}

// Add agrega la arista productID → componentID. Rechaza auto-referencias,
// materias primas como padre, y aristas que cerrarían un ciclo (el producto
// es alcanzable descendiendo desde el componente).
func (uc *ComponentUseCase) Add(productID string, in dto.AddComponentRequest) (*dto.ComponentResponse, error) {
	if productID == "" || in.ComponentID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if productID == in.ComponentID {
		return nil, fmt.Errorf("un producto no puede ser su propio componente: %w", domain.ErrInvalidInput)
	}
	product, err := uc.products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	if product.Type == entity.ProductTypeRawMaterial {
		return nil, &domain.WrongProductTypeError{
			ProductID: product.ID, SKU: product.SKU,
			Got: product.Type, Want: entity.ProductTypePreAssembled + " o " + entity.ProductTypeFinished,
		}
	}
	component, err := uc.products.GetByID(in.ComponentID)
	if err != nil {
		return nil, err
	}
	if component == nil {
		return nil, fmt.Errorf("componente %s: %w", in.ComponentID, domain.ErrNotFound)
	}

	reachable, err := uc.reachable(in.ComponentID, productID)
	if err != nil {
		return nil, err
	}
	if reachable {
		return nil, fmt.Errorf("%s → %s: %w", product.SKU, component.SKU, domain.ErrCyclicComponent)
	}

	edge := &entity.ProductComponent{
		ID:          uuid.New().String(),
		ProductID:   productID,
		ComponentID: in.ComponentID,
		Quantity:    in.Quantity,
		CreatedAt:   time.Now(),
		Component:   component,
	}
	if err := uc.components.Create(edge); err != nil {
		return nil, err
	}
	return toComponentResponse(edge), nil
}

// List lista las aristas directas del producto.
func (uc *ComponentUseCase) List(productID string) ([]dto.ComponentResponse, error) {
	edges, err := uc.components.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ComponentResponse, 0, len(edges))
	for _, e := range edges {
		items = append(items, *toComponentResponse(e))
	}
	return items, nil
}

// Remove elimina una arista por ID.
func (uc *ComponentUseCase) Remove(edgeID string) error {
	edge, err := uc.components.GetByID(edgeID)
	if err != nil {
		return err
	}
	if edge == nil {
		return fmt.Errorf("arista %s: %w", edgeID, domain.ErrNotFound)
	}
	return uc.components.Delete(edgeID)
}

// reachable hace DFS descendente desde fromID buscando targetID.
func (uc *ComponentUseCase) reachable(fromID, targetID string) (bool, error) {
	visited := map[string]bool{}
	stack := []string{fromID}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if current == targetID {
			return true, nil
		}
		if visited[current] {
			continue
		}
		visited[current] = true
		edges, err := uc.components.ListByProduct(current)
		if err != nil {
			return false, err
		}
		for _, e := range edges {
			stack = append(stack, e.ComponentID)
		}
	}
	return false, nil
}

func toComponentResponse(e *entity.ProductComponent) *dto.ComponentResponse {
	resp := &dto.ComponentResponse{
		ID:          e.ID,
		ComponentID: e.ComponentID,
		Quantity:    e.Quantity,
	}
	if e.Component != nil {
		resp.SKU = e.Component.SKU
		resp.Name = e.Component.Name
		resp.Type = e.Component.Type
		resp.Stock = e.Component.Stock
	}
	return resp
}
