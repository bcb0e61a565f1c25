package repository

import "github.com/jhoicas/Taller-api/internal/domain/entity"

// AssemblyWorkRepository define el puerto para trabajos de armado y su
// asociación con productos. ListByProduct devuelve las asociaciones con
// Work precargado, en orden de creación.
type AssemblyWorkRepository interface {
	CreateWork(work *entity.AssemblyWork) error
	GetWorkByID(id string) (*entity.AssemblyWork, error)
	ListWorks(limit, offset int) ([]*entity.AssemblyWork, error)
	AttachToProduct(pw *entity.ProductWork) error
	ListByProduct(productID string) ([]*entity.ProductWork, error)
	DetachFromProduct(id string) error
}
