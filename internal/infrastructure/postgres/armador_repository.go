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

var _ repository.ArmadorRepository = (*ArmadorRepo)(nil)

// ArmadorRepo implementación del puerto ArmadorRepository sobre PostgreSQL.
type ArmadorRepo struct {
	q Querier
}

func NewArmadorRepository(q Querier) *ArmadorRepo {
	return &ArmadorRepo{q: q}
}

func (r *ArmadorRepo) Create(armador *entity.Armador) error {
	query := `
		INSERT INTO armadores (id, name, phone, address, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		armador.ID, armador.Name, armador.Phone, armador.Address, armador.Active,
		armador.CreatedAt, armador.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert armador: %w", err)
	}
	return nil
}

func (r *ArmadorRepo) GetByID(id string) (*entity.Armador, error) {
	query := `
		SELECT id, name, phone, address, active, created_at, updated_at
		FROM armadores WHERE id = $1`
	var a entity.Armador
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&a.ID, &a.Name, &a.Phone, &a.Address, &a.Active, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get armador: %w", err)
	}
	return &a, nil
}

func (r *ArmadorRepo) List(limit, offset int) ([]*entity.Armador, error) {
	query := `
		SELECT id, name, phone, address, active, created_at, updated_at
		FROM armadores ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list armadores: %w", err)
	}
	defer rows.Close()

	var armadores []*entity.Armador
	for rows.Next() {
		var a entity.Armador
		if err := rows.Scan(&a.ID, &a.Name, &a.Phone, &a.Address, &a.Active, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan armador: %w", err)
		}
		armadores = append(armadores, &a)
	}
	return armadores, rows.Err()
}

func (r *ArmadorRepo) Update(armador *entity.Armador) error {
	query := `
		UPDATE armadores SET name = $2, phone = $3, address = $4, active = $5, updated_at = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		armador.ID, armador.Name, armador.Phone, armador.Address, armador.Active, armador.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update armador: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
