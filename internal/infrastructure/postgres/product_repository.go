package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, name, description, type, stock, min_stock, price, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, sku, name, description, type, stock, min_stock, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.SKU, product.Name, product.Description, product.Type,
		product.Stock, product.MinStock, product.Price, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.getOne(`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetBySKU obtiene un producto por SKU.
func (r *ProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	return r.getOne(`SELECT `+productColumns+` FROM products WHERE sku = $1`, sku)
}

// GetForUpdate obtiene un producto bloqueando su fila (SELECT FOR UPDATE).
// Usar solo dentro de una transacción; toda mutación de stock pasa por aquí.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.getOne(`SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductRepo) getOne(query string, arg any) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&p.ID, &p.SKU, &p.Name, &p.Description, &p.Type,
		&p.Stock, &p.MinStock, &p.Price, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// Update actualiza los datos catálogo del producto. No toca Stock (se maneja vía movimientos).
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, description = $3, min_stock = $4, price = $5, updated_at = $6
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Description, product.MinStock, product.Price, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateStock fija el stock del producto (usado por el motor de inventario dentro de tx).
func (r *ProductRepo) UpdateStock(productID string, stock decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET stock = $2, updated_at = now() WHERE id = $1`,
		productID, stock,
	)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	return nil
}

// List lista productos con paginación, filtrando por tipo si se indica.
func (r *ProductRepo) List(productType string, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	args := []any{}
	if productType != "" {
		query += ` WHERE type = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, productType, limit, offset)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// ListLowStock lista productos cuyo stock está en o bajo su umbral mínimo.
func (r *ProductRepo) ListLowStock() ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE stock <= min_stock ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// Delete elimina un producto. Falla con ErrConflict si tiene movimientos o aristas que lo referencian.
func (r *ProductRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProducts(rows pgx.Rows) ([]*entity.Product, error) {
	var products []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(
			&p.ID, &p.SKU, &p.Name, &p.Description, &p.Type,
			&p.Stock, &p.MinStock, &p.Price, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}
