package drivers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"xpom-logistics/internal/models"
)

// RepositoryInterface defines the contract for driver data operations.
type RepositoryInterface interface {
	Create(ctx context.Context, req models.CreateDriverRequest) (*models.Driver, error)
	FindByID(ctx context.Context, driverID int64) (*models.Driver, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Driver, error)
	Update(ctx context.Context, driverID int64, req models.UpdateDriverRequest) (*models.Driver, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const driverColumns = `id, full_name, phone, vehicle_number, is_active, created_at`

func scanDriver(row pgx.Row) (*models.Driver, error) {
	var d models.Driver
	err := row.Scan(&d.ID, &d.FullName, &d.Phone, &d.VehicleNumber, &d.IsActive, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repository) Create(ctx context.Context, req models.CreateDriverRequest) (*models.Driver, error) {
	query := `
		INSERT INTO drivers (full_name, phone, vehicle_number)
		VALUES ($1, $2, $3)
		RETURNING ` + driverColumns

	driver, err := scanDriver(r.db.QueryRow(ctx, query, req.FullName, req.Phone, req.VehicleNumber))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.ErrConflict
		}
		return nil, fmt.Errorf("repository.CreateDriver: %w", err)
	}
	return driver, nil
}

func (r *Repository) FindByID(ctx context.Context, driverID int64) (*models.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE id = $1`

	driver, err := scanDriver(r.db.QueryRow(ctx, query, driverID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindDriverByID: %w", err)
	}
	return driver, nil
}

func (r *Repository) List(ctx context.Context, activeOnly bool) ([]*models.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY full_name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("repository.ListDrivers: %w", err)
	}
	defer rows.Close()

	var drivers []*models.Driver
	for rows.Next() {
		driver, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.ListDrivers scan: %w", err)
		}
		drivers = append(drivers, driver)
	}
	return drivers, rows.Err()
}

func (r *Repository) Update(ctx context.Context, driverID int64, req models.UpdateDriverRequest) (*models.Driver, error) {
	var setClauses []string
	var args []interface{}
	argID := 1

	addClause := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if req.FullName != nil {
		addClause("full_name", *req.FullName)
	}
	if req.Phone != nil {
		addClause("phone", *req.Phone)
	}
	if req.VehicleNumber != nil {
		addClause("vehicle_number", *req.VehicleNumber)
	}
	if req.IsActive != nil {
		addClause("is_active", *req.IsActive)
	}

	if len(setClauses) == 0 {
		return r.FindByID(ctx, driverID)
	}

	query := fmt.Sprintf(
		`UPDATE drivers SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argID, driverColumns,
	)
	args = append(args, driverID)

	driver, err := scanDriver(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.UpdateDriver: %w", err)
	}
	return driver, nil
}
