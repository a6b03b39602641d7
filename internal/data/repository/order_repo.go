package repository

import (
	"context"
	"errors"
	"fmt"

	"order-upload/internal/data/entity"
	"order-upload/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	FindByOrderNumber(ctx context.Context, orderNumber string) (*entity.Order, error)
	FindAll(ctx context.Context, search string) ([]*entity.Order, error)
	// MarkUploaded performs the pending -> uploaded transition as one
	// conditional write. It returns (nil, nil) when no pending order with
	// that number exists.
	MarkUploaded(ctx context.Context, orderNumber string, upload entity.OrderUpload) (*entity.Order, error)
	// DeleteUploaded removes the order only if it is uploaded and reports
	// whether a row was removed.
	DeleteUploaded(ctx context.Context, orderNumber string) (bool, error)
}

type orderRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOrderRepository(db database.PgxIface, log *zap.Logger) OrderRepository {
	return &orderRepository{
		db:  db,
		log: log.With(zap.String("repository", "order")),
	}
}

const orderColumns = `id, order_number, COALESCE(video_url, ''), COALESCE(image_url, ''),
		       COALESCE(song_request, ''), has_uploaded, created_at, updated_at`

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	query := `
		INSERT INTO orders (order_number)
		VALUES ($1)
		RETURNING ` + orderColumns

	created, err := scanOrder(r.db.QueryRow(ctx, query, order.OrderNumber))
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("create order %s: %w", order.OrderNumber, ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create order", zap.Error(err), zap.String("order_number", order.OrderNumber))
		return fmt.Errorf("create order %s: %w", order.OrderNumber, err)
	}
	if created == nil {
		return fmt.Errorf("create order %s: no row returned", order.OrderNumber)
	}

	*order = *created
	return nil
}

func (r *orderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1`

	order, err := scanOrder(r.db.QueryRow(ctx, query, orderNumber))
	if err != nil {
		r.log.Error("Failed to find order", zap.Error(err), zap.String("order_number", orderNumber))
		return nil, fmt.Errorf("find order %s: %w", orderNumber, err)
	}
	return order, nil
}

// FindAll lists orders in insertion order. A non-empty search keeps orders
// whose number contains it, ignoring case.
func (r *orderRepository) FindAll(ctx context.Context, search string) ([]*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE $1::text = '' OR strpos(lower(order_number), lower($1::text)) > 0
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, search)
	if err != nil {
		r.log.Error("Failed to list orders", zap.Error(err), zap.String("search", search))
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*entity.Order, 0)
	for rows.Next() {
		var o entity.Order
		if err := scanOrderInto(rows, &o); err != nil {
			r.log.Error("Failed to scan order row", zap.Error(err))
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, &o)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) MarkUploaded(ctx context.Context, orderNumber string, upload entity.OrderUpload) (*entity.Order, error) {
	query := `
		UPDATE orders
		SET video_url = $2, image_url = $3, song_request = $4,
		    has_uploaded = TRUE, updated_at = NOW()
		WHERE order_number = $1 AND has_uploaded = FALSE
		RETURNING ` + orderColumns

	order, err := scanOrder(r.db.QueryRow(ctx, query,
		orderNumber,
		upload.VideoURL,
		upload.ImageURL,
		upload.SongRequest,
	))
	if err != nil {
		r.log.Error("Failed to mark order uploaded", zap.Error(err), zap.String("order_number", orderNumber))
		return nil, fmt.Errorf("mark order %s uploaded: %w", orderNumber, err)
	}
	return order, nil
}

func (r *orderRepository) DeleteUploaded(ctx context.Context, orderNumber string) (bool, error) {
	query := `DELETE FROM orders WHERE order_number = $1 AND has_uploaded = TRUE`

	result, err := r.db.Exec(ctx, query, orderNumber)
	if err != nil {
		r.log.Error("Failed to delete order", zap.Error(err), zap.String("order_number", orderNumber))
		return false, fmt.Errorf("delete order %s: %w", orderNumber, err)
	}

	return result.RowsAffected() > 0, nil
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := scanOrderInto(row, &o)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func scanOrderInto(row pgx.Row, o *entity.Order) error {
	return row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.VideoURL,
		&o.ImageURL,
		&o.SongRequest,
		&o.HasUploaded,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
}
