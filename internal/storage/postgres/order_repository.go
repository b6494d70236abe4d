package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jcmicro/order-service/internal/domain"
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

func (r *orderRepository) Create(ctx context.Context, order domain.Order) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO orders (
			id, user_id, product_id, qty, status, stock_synced, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		order.ID, order.UserID, order.ProductID, order.Qty,
		string(order.Status), order.StockSynced, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOrderExists
		}
		return fmt.Errorf("insert order: %w", err)
	}

	return nil
}

func (r *orderRepository) Get(ctx context.Context, id string) (domain.Order, error) {
	var order domain.Order
	var status string

	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, product_id, qty, status, stock_synced, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, id).Scan(
		&order.ID, &order.UserID, &order.ProductID, &order.Qty,
		&status, &order.StockSynced, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}
	order.Status = domain.OrderStatus(status)

	return order, nil
}

func (r *orderRepository) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, product_id, qty, status, stock_synced, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		var order domain.Order
		var status string
		if err := rows.Scan(
			&order.ID, &order.UserID, &order.ProductID, &order.Qty,
			&status, &order.StockSynced, &order.CreatedAt, &order.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		order.Status = domain.OrderStatus(status)
		result = append(result, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}

	return result, nil
}

func (r *orderRepository) Save(ctx context.Context, order domain.Order) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET qty = $2, status = $3, stock_synced = $4, updated_at = $5
		WHERE id = $1
	`,
		order.ID, order.Qty, string(order.Status), order.StockSynced, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete order rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// isUniqueViolation проверяет нарушение уникального ограничения (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ domain.OrderRepository = (*orderRepository)(nil)
