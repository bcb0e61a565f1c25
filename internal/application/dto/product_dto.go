package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest crea un producto. InitialStock opcional: si es mayor
// que cero se registra como movimiento ADJUSTMENT_IN inicial.
type CreateProductRequest struct {
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Type         string          `json:"type"` // RAW_MATERIAL, PRE_ASSEMBLED, FINISHED
	MinStock     decimal.Decimal `json:"min_stock"`
	Price        decimal.Decimal `json:"price"`
	InitialStock decimal.Decimal `json:"initial_stock"`
}

// UpdateProductRequest actualiza campos editables. Stock no se toca aquí:
// solo lo mutan las operaciones que escriben movimientos.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	MinStock    *decimal.Decimal `json:"min_stock"`
	Price       *decimal.Decimal `json:"price"`
}

// ProductResponse representación de salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Type        string          `json:"type"`
	Stock       decimal.Decimal `json:"stock"`
	MinStock    decimal.Decimal `json:"min_stock"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse listado paginado.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// AddComponentRequest agrega una arista producto → componente al BOM.
type AddComponentRequest struct {
	ComponentID string          `json:"component_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// ComponentResponse arista del BOM con el componente resuelto.
type ComponentResponse struct {
	ID          string          `json:"id"`
	ComponentID string          `json:"component_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	Stock       decimal.Decimal `json:"stock"`
}

// CreateWorkRequest crea una definición de trabajo de armado.
type CreateWorkRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// WorkResponse representación de salida de un trabajo de armado.
type WorkResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// ProductWorkResponse asociación producto-trabajo con el trabajo resuelto.
type ProductWorkResponse struct {
	ID        string          `json:"id"`
	WorkID    string          `json:"work_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// AttachWorkRequest asocia un trabajo de armado a un producto.
type AttachWorkRequest struct {
	WorkID   string          `json:"work_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// CreateArmadorRequest crea un armador externo.
type CreateArmadorRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// ArmadorResponse representación de salida de un armador.
type ArmadorResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Active  bool   `json:"active"`
}
