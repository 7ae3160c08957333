package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"xpom-logistics/internal/models"
)

// RepositoryInterface defines the contract for the order repository.
type RepositoryInterface interface {
	Create(ctx context.Context, order *models.Order, initialComment string) (*models.Order, error)
	TrackingNumberExists(ctx context.Context, trackingNumber string) (bool, error)
	FindByID(ctx context.Context, orderID int64) (*models.Order, error)
	FindByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Order, error)
	ListHistory(ctx context.Context, orderID int64) ([]*models.OrderStatusHistory, error)
	ListByCustomerID(ctx context.Context, customerID int64, page, limit int) ([]*models.Order, int, error)
	List(ctx context.Context, filter models.OrderFilter, page, limit int) ([]*models.Order, int, error)
	Update(ctx context.Context, orderID int64, req models.AdminUpdateOrderRequest, history *models.OrderStatusHistory) (*models.Order, error)
	ClaimForCustomer(ctx context.Context, customerID int64, phone string) (int64, error)
}

// Repository implements RepositoryInterface on top of pgx.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new order repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const orderColumns = `
	id, tracking_number,
	customer_name, customer_phone, customer_email, customer_id,
	order_type,
	pickup_address, pickup_contact, pickup_phone,
	delivery_address, delivery_contact, delivery_phone,
	cargo_description, cargo_weight, cargo_volume, cargo_dimensions,
	status, price, driver_id, internal_comments,
	created_at, updated_at, pickup_date, delivery_date`

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID, &o.TrackingNumber,
		&o.CustomerName, &o.CustomerPhone, &o.CustomerEmail, &o.CustomerID,
		&o.OrderType,
		&o.PickupAddress, &o.PickupContact, &o.PickupPhone,
		&o.DeliveryAddress, &o.DeliveryContact, &o.DeliveryPhone,
		&o.CargoDescription, &o.CargoWeight, &o.CargoVolume, &o.CargoDimensions,
		&o.Status, &o.Price, &o.DriverID, &o.InternalComments,
		&o.CreatedAt, &o.UpdatedAt, &o.PickupDate, &o.DeliveryDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}
	return &o, nil
}

// Create inserts a new order together with its initial status-history row.
// Both writes commit as one transaction; the unique constraint on
// tracking_number is the final guard against concurrent collisions.
func (r *Repository) Create(ctx context.Context, order *models.Order, initialComment string) (*models.Order, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("repository.CreateOrder.Begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO orders (
			tracking_number,
			customer_name, customer_phone, customer_email, customer_id,
			order_type,
			pickup_address, pickup_contact, pickup_phone,
			delivery_address, delivery_contact, delivery_phone,
			cargo_description, cargo_weight, cargo_volume, cargo_dimensions,
			status
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		RETURNING ` + orderColumns

	row := tx.QueryRow(ctx, query,
		order.TrackingNumber,
		order.CustomerName, order.CustomerPhone, order.CustomerEmail, order.CustomerID,
		order.OrderType,
		order.PickupAddress, order.PickupContact, order.PickupPhone,
		order.DeliveryAddress, order.DeliveryContact, order.DeliveryPhone,
		order.CargoDescription, order.CargoWeight, order.CargoVolume, order.CargoDimensions,
		models.StatusNew,
	)
	created, err := scanOrder(row)
	if err != nil {
		return nil, fmt.Errorf("repository.CreateOrder: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO order_status_history (order_id, status, comment, changed_by_id)
		VALUES ($1, $2, $3, $4)`,
		created.ID, models.StatusNew, initialComment, created.CustomerID,
	)
	if err != nil {
		return nil, fmt.Errorf("repository.CreateOrder.History: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository.CreateOrder.Commit: %w", err)
	}
	return created, nil
}

// TrackingNumberExists is the uniqueness read-check used by the generator.
func (r *Repository) TrackingNumberExists(ctx context.Context, trackingNumber string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM orders WHERE tracking_number = $1)`,
		trackingNumber,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("repository.TrackingNumberExists: %w", err)
	}
	return exists, nil
}

// FindByID retrieves a single order by its internal ID.
func (r *Repository) FindByID(ctx context.Context, orderID int64) (*models.Order, error) {
	row := r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	return order, nil
}

// FindByTrackingNumber retrieves a single order by its public identifier.
func (r *Repository) FindByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Order, error) {
	row := r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE tracking_number = $1`, trackingNumber)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByTrackingNumber: %w", err)
	}
	return order, nil
}

// ListHistory returns the append-only audit trail, oldest first.
func (r *Repository) ListHistory(ctx context.Context, orderID int64) ([]*models.OrderStatusHistory, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, status, comment, changed_by_id, created_at
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY created_at ASC, id ASC`, orderID)
	if err != nil {
		return nil, fmt.Errorf("repository.ListHistory.Query: %w", err)
	}
	defer rows.Close()

	var out []*models.OrderStatusHistory
	for rows.Next() {
		var h models.OrderStatusHistory
		if err := rows.Scan(&h.ID, &h.OrderID, &h.Status, &h.Comment, &h.ChangedByID, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("repository.ListHistory.Scan: %w", err)
		}
		out = append(out, &h)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("repository.ListHistory.Rows: %w", rows.Err())
	}
	return out, nil
}

// ListByCustomerID retrieves a customer's orders with pagination.
func (r *Repository) ListByCustomerID(ctx context.Context, customerID int64, page, limit int) ([]*models.Order, int, error) {
	offset := (page - 1) * limit
	rows, err := r.db.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, customerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("repository.ListByCustomerID.Query: %w", err)
	}
	defer rows.Close()

	var out []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repository.ListByCustomerID.Scan: %w", err)
		}
		out = append(out, order)
	}

	var total int
	err = r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE customer_id = $1`, customerID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("repository.ListByCustomerID.Count: %w", err)
	}
	return out, total, nil
}

func filterClauses(filter models.OrderFilter) (string, []interface{}) {
	var where []string
	var args []interface{}
	argIdx := 1

	if filter.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.OrderType != nil {
		where = append(where, fmt.Sprintf("order_type = $%d", argIdx))
		args = append(args, *filter.OrderType)
		argIdx++
	}
	if filter.From != nil {
		where = append(where, fmt.Sprintf("created_at >= $%d", argIdx))
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		where = append(where, fmt.Sprintf("created_at <= $%d", argIdx))
		args = append(args, *filter.To)
		argIdx++
	}

	if len(where) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

// List retrieves orders for staff with optional status/type/date filters.
func (r *Repository) List(ctx context.Context, filter models.OrderFilter, page, limit int) ([]*models.Order, int, error) {
	whereSQL, args := filterClauses(filter)
	offset := (page - 1) * limit

	query := fmt.Sprintf(`SELECT %s FROM orders%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		orderColumns, whereSQL, len(args)+1, len(args)+2)

	rows, err := r.db.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("repository.ListOrders.Query: %w", err)
	}
	defer rows.Close()

	var out []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repository.ListOrders.Scan: %w", err)
		}
		out = append(out, order)
	}

	var total int
	err = r.db.QueryRow(ctx, "SELECT COUNT(*) FROM orders"+whereSQL, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("repository.ListOrders.Count: %w", err)
	}
	return out, total, nil
}

// Update applies a partial admin edit. When history is non-nil the audit row
// is appended in the same transaction, so a failed write leaves neither the
// order nor the trail half-changed.
func (r *Repository) Update(ctx context.Context, orderID int64, req models.AdminUpdateOrderRequest, history *models.OrderStatusHistory) (*models.Order, error) {
	var setClauses []string
	var args []interface{}
	argIdx := 1

	if req.Status != nil {
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *req.Status)
		argIdx++
	}
	if req.ClearPrice {
		setClauses = append(setClauses, "price = NULL")
	} else if req.Price != nil {
		setClauses = append(setClauses, fmt.Sprintf("price = $%d", argIdx))
		args = append(args, *req.Price)
		argIdx++
	}
	if req.DriverID != nil {
		if *req.DriverID == 0 {
			// 0 is the "unassigned" sentinel.
			setClauses = append(setClauses, "driver_id = NULL")
		} else {
			setClauses = append(setClauses, fmt.Sprintf("driver_id = $%d", argIdx))
			args = append(args, *req.DriverID)
			argIdx++
		}
	}
	if req.InternalComments != nil {
		setClauses = append(setClauses, fmt.Sprintf("internal_comments = $%d", argIdx))
		args = append(args, *req.InternalComments)
		argIdx++
	}
	if req.PickupDate != nil {
		setClauses = append(setClauses, fmt.Sprintf("pickup_date = $%d", argIdx))
		args = append(args, *req.PickupDate)
		argIdx++
	}
	if req.DeliveryDate != nil {
		setClauses = append(setClauses, fmt.Sprintf("delivery_date = $%d", argIdx))
		args = append(args, *req.DeliveryDate)
		argIdx++
	}

	if len(setClauses) == 0 {
		return r.FindByID(ctx, orderID)
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argIdx))
	args = append(args, time.Now())
	argIdx++

	args = append(args, orderID) // WHERE clause

	query := fmt.Sprintf(`UPDATE orders SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argIdx, orderColumns)

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("repository.UpdateOrder.Begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, query, args...)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.UpdateOrder: %w", err)
	}

	if history != nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_status_history (order_id, status, comment, changed_by_id)
			VALUES ($1, $2, $3, $4)`,
			orderID, history.Status, history.Comment, history.ChangedByID,
		)
		if err != nil {
			return nil, fmt.Errorf("repository.UpdateOrder.History: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("repository.UpdateOrder.Commit: %w", err)
	}
	return order, nil
}

// ClaimForCustomer links guest orders created with the given phone number to
// a freshly registered account. Returns the number of claimed orders.
func (r *Repository) ClaimForCustomer(ctx context.Context, customerID int64, phone string) (int64, error) {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE orders
		SET customer_id = $1, updated_at = NOW()
		WHERE customer_phone = $2 AND customer_id IS NULL`,
		customerID, phone)
	if err != nil {
		return 0, fmt.Errorf("repository.ClaimForCustomer: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
