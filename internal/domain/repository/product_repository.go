package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetForUpdate bloquea la fila (SELECT FOR UPDATE); usarlo dentro de una
// transacción para toda mutación de stock.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	GetForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateStock(productID string, stock decimal.Decimal) error
	List(productType string, limit, offset int) ([]*entity.Product, error)
	ListLowStock() ([]*entity.Product, error)
	Delete(id string) error
}
