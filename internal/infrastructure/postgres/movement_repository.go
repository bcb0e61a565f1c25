package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Taller-api/internal/domain"
	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

const movementColumns = `id, product_id, type, quantity, actor_id, note, event_id, reversal_of_movement_id, reversed_by_movement_id, created_at`

// InventoryMovementRepo implementación del puerto InventoryMovementRepository sobre PostgreSQL.
// El libro es append-only: no hay UPDATE de campos de negocio ni DELETE; la única
// mutación es SetReversedBy, en la misma transacción que inserta la reversa.
type InventoryMovementRepo struct {
	q Querier
}

func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento.
func (r *InventoryMovementRepo) Create(movement *entity.InventoryMovement) error {
	query := `
		INSERT INTO inventory_movements (id, product_id, type, quantity, actor_id, note, event_id, reversal_of_movement_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.Type, movement.Quantity,
		movement.ActorID, movement.Note, movement.EventID, movement.ReversalOfID, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *InventoryMovementRepo) GetByID(id string) (*entity.InventoryMovement, error) {
	return r.getOne(`SELECT `+movementColumns+` FROM inventory_movements WHERE id = $1`, id)
}

// GetForUpdate obtiene un movimiento bloqueando su fila, para que dos reversas
// concurrentes del mismo movimiento no puedan aplicarse ambas.
func (r *InventoryMovementRepo) GetForUpdate(id string) (*entity.InventoryMovement, error) {
	return r.getOne(`SELECT `+movementColumns+` FROM inventory_movements WHERE id = $1 FOR UPDATE`, id)
}

func (r *InventoryMovementRepo) getOne(query string, arg any) (*entity.InventoryMovement, error) {
	row := r.q.QueryRow(context.Background(), query, arg)
	m, err := scanMovementRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByEvent lista los movimientos de un grupo de evento en orden de creación.
func (r *InventoryMovementRepo) ListByEvent(eventID string) ([]*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE event_id = $1 ORDER BY created_at ASC, id ASC`
	return r.list(query, eventID)
}

// ListByEventForUpdate lista los movimientos de un grupo bloqueando sus filas.
// La reversa de grupo es todo-o-nada; el lock cubre el grupo completo.
func (r *InventoryMovementRepo) ListByEventForUpdate(eventID string) ([]*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE event_id = $1 ORDER BY created_at ASC, id ASC FOR UPDATE`
	return r.list(query, eventID)
}

// SetReversedBy marca un movimiento como reversado apuntando a su reversa.
// Falla con ErrAlreadyReversed si ya tenía reversa (guarda contra carreras).
func (r *InventoryMovementRepo) SetReversedBy(movementID, reversalID string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE inventory_movements SET reversed_by_movement_id = $2 WHERE id = $1 AND reversed_by_movement_id IS NULL`,
		movementID, reversalID,
	)
	if err != nil {
		return fmt.Errorf("set reversed by: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrAlreadyReversed
	}
	return nil
}

// ListByProduct lista los movimientos de un producto, opcionalmente acotados
// por fecha, del más reciente al más antiguo.
func (r *InventoryMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE product_id = $1`
	args := []any{productID}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(` AND created_at >= $%d`, len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(` AND created_at <= $%d`, len(args))
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	return r.list(query, args...)
}

// List lista movimientos globales con paginación, del más reciente al más antiguo.
func (r *InventoryMovementRepo) List(limit, offset int) ([]*entity.InventoryMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	return r.list(query, limit, offset)
}

func (r *InventoryMovementRepo) list(query string, args ...any) ([]*entity.InventoryMovement, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var movements []*entity.InventoryMovement
	for rows.Next() {
		m, err := scanMovementRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

func scanMovementRow(row pgx.Row) (*entity.InventoryMovement, error) {
	var m entity.InventoryMovement
	err := row.Scan(
		&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.ActorID, &m.Note,
		&m.EventID, &m.ReversalOfID, &m.ReversedByID, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
