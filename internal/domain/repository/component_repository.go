package repository

import "github.com/jhoicas/Taller-api/internal/domain/entity"

// ProductComponentRepository define el puerto para las aristas del BOM.
// ListByProduct devuelve las aristas con Component precargado, en el orden
// de creación (la resolución del BOM exige orden determinista).
type ProductComponentRepository interface {
	Create(edge *entity.ProductComponent) error
	GetByID(id string) (*entity.ProductComponent, error)
	ListByProduct(productID string) ([]*entity.ProductComponent, error)
	// ListByComponent devuelve las aristas donde el producto aparece como
	// componente; lo usa el chequeo de aciclicidad al crear aristas.
	ListByComponent(componentID string) ([]*entity.ProductComponent, error)
	Delete(id string) error
}
