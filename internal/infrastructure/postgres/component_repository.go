package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.ProductComponentRepository = (*ProductComponentRepo)(nil)

// ProductComponentRepo implementación del puerto ProductComponentRepository sobre PostgreSQL.
type ProductComponentRepo struct {
	q Querier
}

func NewProductComponentRepository(q Querier) *ProductComponentRepo {
	return &ProductComponentRepo{q: q}
}

// Create persiste una arista producto → componente. Duplicar el mismo par viola
// el UNIQUE (product_id, component_id) y devuelve ErrDuplicate.
func (r *ProductComponentRepo) Create(edge *entity.ProductComponent) error {
	query := `
		INSERT INTO product_components (id, product_id, component_id, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		edge.ID, edge.ProductID, edge.ComponentID, edge.Quantity, edge.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product component: %w", err)
	}
	return nil
}

// GetByID obtiene una arista por ID, con el componente precargado.
func (r *ProductComponentRepo) GetByID(id string) (*entity.ProductComponent, error) {
	query := `
		SELECT pc.id, pc.product_id, pc.component_id, pc.quantity, pc.created_at,
		       p.id, p.sku, p.name, p.description, p.type, p.stock, p.min_stock, p.price, p.created_at, p.updated_at
		FROM product_components pc
		JOIN products p ON p.id = pc.component_id
		WHERE pc.id = $1`
	row := r.q.QueryRow(context.Background(), query, id)
	edge, err := scanComponentEdge(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product component: %w", err)
	}
	return edge, nil
}

// ListByProduct lista las aristas de un producto con el componente precargado,
// en orden de creación. El orden es parte del contrato: la resolución del
// árbol de componentes debe ser determinista.
func (r *ProductComponentRepo) ListByProduct(productID string) ([]*entity.ProductComponent, error) {
	query := `
		SELECT pc.id, pc.product_id, pc.component_id, pc.quantity, pc.created_at,
		       p.id, p.sku, p.name, p.description, p.type, p.stock, p.min_stock, p.price, p.created_at, p.updated_at
		FROM product_components pc
		JOIN products p ON p.id = pc.component_id
		WHERE pc.product_id = $1
		ORDER BY pc.created_at ASC`
	return r.listEdges(query, productID)
}

// ListByComponent lista las aristas donde el producto figura como componente.
func (r *ProductComponentRepo) ListByComponent(componentID string) ([]*entity.ProductComponent, error) {
	query := `
		SELECT pc.id, pc.product_id, pc.component_id, pc.quantity, pc.created_at,
		       p.id, p.sku, p.name, p.description, p.type, p.stock, p.min_stock, p.price, p.created_at, p.updated_at
		FROM product_components pc
		JOIN products p ON p.id = pc.component_id
		WHERE pc.component_id = $1
		ORDER BY pc.created_at ASC`
	return r.listEdges(query, componentID)
}

// Delete elimina una arista por ID.
func (r *ProductComponentRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM product_components WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product component: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductComponentRepo) listEdges(query string, arg any) ([]*entity.ProductComponent, error) {
	rows, err := r.q.Query(context.Background(), query, arg)
	if err != nil {
		return nil, fmt.Errorf("list product components: %w", err)
	}
	defer rows.Close()

	var edges []*entity.ProductComponent
	for rows.Next() {
		edge, err := scanComponentEdge(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product component: %w", err)
		}
		edges = append(edges, edge)
	}
	return edges, rows.Err()
}

func scanComponentEdge(row pgx.Row) (*entity.ProductComponent, error) {
	var edge entity.ProductComponent
	var comp entity.Product
	err := row.Scan(
		&edge.ID, &edge.ProductID, &edge.ComponentID, &edge.Quantity, &edge.CreatedAt,
		&comp.ID, &comp.SKU, &comp.Name, &comp.Description, &comp.Type,
		&comp.Stock, &comp.MinStock, &comp.Price, &comp.CreatedAt, &comp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	edge.Component = &comp
	return &edge, nil
}
