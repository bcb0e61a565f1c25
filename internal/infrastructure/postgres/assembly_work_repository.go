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

var _ repository.AssemblyWorkRepository = (*AssemblyWorkRepo)(nil)

// AssemblyWorkRepo implementación del puerto AssemblyWorkRepository sobre PostgreSQL.
type AssemblyWorkRepo struct {
	q Querier
}

func NewAssemblyWorkRepository(q Querier) *AssemblyWorkRepo {
	return &AssemblyWorkRepo{q: q}
}

// CreateWork persiste una definición de trabajo de armado.
func (r *AssemblyWorkRepo) CreateWork(work *entity.AssemblyWork) error {
	query := `
		INSERT INTO assembly_works (id, name, description, unit_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		work.ID, work.Name, work.Description, work.UnitPrice, work.CreatedAt, work.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert assembly work: %w", err)
	}
	return nil
}

// GetWorkByID obtiene un trabajo de armado por ID.
func (r *AssemblyWorkRepo) GetWorkByID(id string) (*entity.AssemblyWork, error) {
	query := `
		SELECT id, name, description, unit_price, created_at, updated_at
		FROM assembly_works WHERE id = $1`
	var w entity.AssemblyWork
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&w.ID, &w.Name, &w.Description, &w.UnitPrice, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get assembly work: %w", err)
	}
	return &w, nil
}

// ListWorks lista trabajos de armado con paginación.
func (r *AssemblyWorkRepo) ListWorks(limit, offset int) ([]*entity.AssemblyWork, error) {
	query := `
		SELECT id, name, description, unit_price, created_at, updated_at
		FROM assembly_works ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list assembly works: %w", err)
	}
	defer rows.Close()

	var works []*entity.AssemblyWork
	for rows.Next() {
		var w entity.AssemblyWork
		if err := rows.Scan(&w.ID, &w.Name, &w.Description, &w.UnitPrice, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan assembly work: %w", err)
		}
		works = append(works, &w)
	}
	return works, rows.Err()
}

// AttachToProduct asocia un trabajo de armado a un producto.
func (r *AssemblyWorkRepo) AttachToProduct(pw *entity.ProductWork) error {
	query := `
		INSERT INTO product_works (id, product_id, work_id, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		pw.ID, pw.ProductID, pw.WorkID, pw.Quantity, pw.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("attach work to product: %w", err)
	}
	return nil
}

// ListByProduct lista las asociaciones de trabajos de un producto con el
// trabajo precargado, en orden de creación.
func (r *AssemblyWorkRepo) ListByProduct(productID string) ([]*entity.ProductWork, error) {
	query := `
		SELECT pw.id, pw.product_id, pw.work_id, pw.quantity, pw.created_at,
		       w.id, w.name, w.description, w.unit_price, w.created_at, w.updated_at
		FROM product_works pw
		JOIN assembly_works w ON w.id = pw.work_id
		WHERE pw.product_id = $1
		ORDER BY pw.created_at ASC`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list product works: %w", err)
	}
	defer rows.Close()

	var links []*entity.ProductWork
	for rows.Next() {
		var pw entity.ProductWork
		var w entity.AssemblyWork
		if err := rows.Scan(
			&pw.ID, &pw.ProductID, &pw.WorkID, &pw.Quantity, &pw.CreatedAt,
			&w.ID, &w.Name, &w.Description, &w.UnitPrice, &w.CreatedAt, &w.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product work: %w", err)
		}
		pw.Work = &w
		links = append(links, &pw)
	}
	return links, rows.Err()
}

// DetachFromProduct elimina una asociación producto-trabajo por ID.
func (r *AssemblyWorkRepo) DetachFromProduct(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM product_works WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("detach product work: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
