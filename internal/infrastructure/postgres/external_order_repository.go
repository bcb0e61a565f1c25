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

var _ repository.ExternalOrderRepository = (*ExternalOrderRepo)(nil)

const orderColumns = `id, armador_id, status, delivery_person_id, pickup_person_id, notes, is_discrepancy, expected_at, created_at, updated_at`

// ExternalOrderRepo implementación del puerto ExternalOrderRepository sobre PostgreSQL.
type ExternalOrderRepo struct {
	q Querier
}

func NewExternalOrderRepository(q Querier) *ExternalOrderRepo {
	return &ExternalOrderRepo{q: q}
}

// Create persiste la orden con sus items, salidas esperadas y pasos de armado.
// Llamar dentro de una transacción: las filas hijas no tienen sentido sin la cabecera.
func (r *ExternalOrderRepo) Create(order *entity.ExternalOrder) error {
	ctx := context.Background()
	query := `
		INSERT INTO external_orders (id, armador_id, status, delivery_person_id, pickup_person_id, notes, is_discrepancy, expected_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.ArmadorID, order.Status, order.DeliveryPersonID, order.PickupPersonID,
		order.Notes, order.IsDiscrepancy, order.ExpectedAt, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert external order: %w", err)
	}
	for _, item := range order.Items {
		_, err := r.q.Exec(ctx,
			`INSERT INTO external_order_items (id, order_id, product_id, quantity) VALUES ($1, $2, $3, $4)`,
			item.ID, item.OrderID, item.ProductID, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	for _, out := range order.Outputs {
		_, err := r.q.Exec(ctx,
			`INSERT INTO external_order_outputs (id, order_id, product_id, expected_qty, received_qty) VALUES ($1, $2, $3, $4, $5)`,
			out.ID, out.OrderID, out.ProductID, out.ExpectedQty, out.ReceivedQty,
		)
		if err != nil {
			return fmt.Errorf("insert order output: %w", err)
		}
	}
	for _, step := range order.Steps {
		_, err := r.q.Exec(ctx,
			`INSERT INTO external_order_steps (id, order_id, work_id, work_name, quantity, unit_price) VALUES ($1, $2, $3, $4, $5, $6)`,
			step.ID, step.OrderID, step.WorkID, step.WorkName, step.Quantity, step.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("insert order step: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la orden con su detalle completo.
func (r *ExternalOrderRepo) GetByID(id string) (*entity.ExternalOrder, error) {
	return r.getOne(`SELECT `+orderColumns+` FROM external_orders WHERE id = $1`, id)
}

// GetForUpdate obtiene la orden bloqueando la cabecera (SELECT FOR UPDATE).
// Junto con la re-validación de estado dentro de la tx, impide transiciones concurrentes.
func (r *ExternalOrderRepo) GetForUpdate(id string) (*entity.ExternalOrder, error) {
	return r.getOne(`SELECT `+orderColumns+` FROM external_orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *ExternalOrderRepo) getOne(query string, id string) (*entity.ExternalOrder, error) {
	var o entity.ExternalOrder
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.ArmadorID, &o.Status, &o.DeliveryPersonID, &o.PickupPersonID,
		&o.Notes, &o.IsDiscrepancy, &o.ExpectedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get external order: %w", err)
	}
	if err := r.loadDetail(&o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *ExternalOrderRepo) loadDetail(order *entity.ExternalOrder) error {
	ctx := context.Background()

	itemsQuery := `
		SELECT i.id, i.order_id, i.product_id, i.quantity,
		       p.id, p.sku, p.name, p.description, p.type, p.stock, p.min_stock, p.price, p.created_at, p.updated_at
		FROM external_order_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.order_id = $1
		ORDER BY i.id ASC`
	rows, err := r.q.Query(ctx, itemsQuery, order.ID)
	if err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.OrderItem
		var p entity.Product
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.Quantity,
			&p.ID, &p.SKU, &p.Name, &p.Description, &p.Type, &p.Stock, &p.MinStock, &p.Price, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		item.Product = &p
		order.Items = append(order.Items, &item)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	outputsQuery := `
		SELECT o.id, o.order_id, o.product_id, o.expected_qty, o.received_qty,
		       p.id, p.sku, p.name, p.description, p.type, p.stock, p.min_stock, p.price, p.created_at, p.updated_at
		FROM external_order_outputs o
		JOIN products p ON p.id = o.product_id
		WHERE o.order_id = $1
		ORDER BY o.id ASC`
	rows, err = r.q.Query(ctx, outputsQuery, order.ID)
	if err != nil {
		return fmt.Errorf("list order outputs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var out entity.OrderOutput
		var p entity.Product
		if err := rows.Scan(
			&out.ID, &out.OrderID, &out.ProductID, &out.ExpectedQty, &out.ReceivedQty,
			&p.ID, &p.SKU, &p.Name, &p.Description, &p.Type, &p.Stock, &p.MinStock, &p.Price, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return fmt.Errorf("scan order output: %w", err)
		}
		out.Product = &p
		order.Outputs = append(order.Outputs, &out)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	stepsQuery := `
		SELECT id, order_id, work_id, work_name, quantity, unit_price
		FROM external_order_steps WHERE order_id = $1 ORDER BY id ASC`
	rows, err = r.q.Query(ctx, stepsQuery, order.ID)
	if err != nil {
		return fmt.Errorf("list order steps: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var step entity.AssemblyStep
		if err := rows.Scan(&step.ID, &step.OrderID, &step.WorkID, &step.WorkName, &step.Quantity, &step.UnitPrice); err != nil {
			return fmt.Errorf("scan order step: %w", err)
		}
		order.Steps = append(order.Steps, &step)
	}
	return rows.Err()
}

// Update persiste la cabecera: estado, personas asignadas, bitácora y discrepancia.
// Items, salidas y pasos son inmutables después de Create (salvo received_qty).
func (r *ExternalOrderRepo) Update(order *entity.ExternalOrder) error {
	query := `
		UPDATE external_orders
		SET status = $2, delivery_person_id = $3, pickup_person_id = $4, notes = $5, is_discrepancy = $6, expected_at = $7, updated_at = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		order.ID, order.Status, order.DeliveryPersonID, order.PickupPersonID,
		order.Notes, order.IsDiscrepancy, order.ExpectedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update external order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateOutputReceived fija la cantidad recibida de una salida esperada.
func (r *ExternalOrderRepo) UpdateOutputReceived(outputID string, received decimal.Decimal) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE external_order_outputs SET received_qty = $2 WHERE id = $1`,
		outputID, received,
	)
	if err != nil {
		return fmt.Errorf("update output received: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista órdenes (cabecera con detalle), filtrando por estado si se indica.
func (r *ExternalOrderRepo) List(status string, limit, offset int) ([]*entity.ExternalOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM external_orders`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		args = append(args, status, limit, offset)
	} else {
		query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list external orders: %w", err)
	}
	defer rows.Close()

	var orders []*entity.ExternalOrder
	for rows.Next() {
		var o entity.ExternalOrder
		if err := rows.Scan(
			&o.ID, &o.ArmadorID, &o.Status, &o.DeliveryPersonID, &o.PickupPersonID,
			&o.Notes, &o.IsDiscrepancy, &o.ExpectedAt, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan external order: %w", err)
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for _, o := range orders {
		if err := r.loadDetail(o); err != nil {
			return nil, err
		}
	}
	return orders, nil
}
