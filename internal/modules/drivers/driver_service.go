package drivers

import (
	"context"
	"fmt"

	"xpom-logistics/internal/models"
)

// ServiceInterface defines the contract for the driver service.
type ServiceInterface interface {
	CreateDriver(ctx context.Context, req models.CreateDriverRequest) (*models.Driver, error)
	FindByID(ctx context.Context, driverID int64) (*models.Driver, error)
	ListDrivers(ctx context.Context, activeOnly bool) ([]*models.Driver, error)
	UpdateDriver(ctx context.Context, driverID int64, req models.UpdateDriverRequest) (*models.Driver, error)
	DeactivateDriver(ctx context.Context, driverID int64) (*models.Driver, error)
}

type Service struct {
	repo RepositoryInterface
}

func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateDriver(ctx context.Context, req models.CreateDriverRequest) (*models.Driver, error) {
	return s.repo.Create(ctx, req)
}

func (s *Service) FindByID(ctx context.Context, driverID int64) (*models.Driver, error) {
	return s.repo.FindByID(ctx, driverID)
}

func (s *Service) ListDrivers(ctx context.Context, activeOnly bool) ([]*models.Driver, error) {
	return s.repo.List(ctx, activeOnly)
}

func (s *Service) UpdateDriver(ctx context.Context, driverID int64, req models.UpdateDriverRequest) (*models.Driver, error) {
	driver, err := s.repo.Update(ctx, driverID, req)
	if err != nil {
		return nil, fmt.Errorf("service.UpdateDriver: %w", err)
	}
	return driver, nil
}

// DeactivateDriver soft-deletes: the row stays so historical orders keep
// their driver name, but the driver disappears from assignment lists.
func (s *Service) DeactivateDriver(ctx context.Context, driverID int64) (*models.Driver, error) {
	inactive := false
	return s.repo.Update(ctx, driverID, models.UpdateDriverRequest{IsActive: &inactive})
}
