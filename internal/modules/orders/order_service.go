package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"xpom-logistics/internal/cache"
	"xpom-logistics/internal/models"
	"xpom-logistics/pkg/email"
	"xpom-logistics/pkg/notify"
	"xpom-logistics/pkg/tracknum"
)

// DriverStore is the slice of the drivers module the order workflow needs
// to validate assignments.
type DriverStore interface {
	FindByID(ctx context.Context, driverID int64) (*models.Driver, error)
}

// ServiceInterface defines the contract for the order service.
type ServiceInterface interface {
	CreateOrder(ctx context.Context, req models.CreateOrderRequest, customerID *int64) (*models.Order, error)
	TrackByNumber(ctx context.Context, trackingNumber string) (*models.TrackingView, error)
	ListCustomerOrders(ctx context.Context, customerID int64, page, limit int) ([]*models.Order, int, error)
	ListOrders(ctx context.Context, filter models.OrderFilter, page, limit int) ([]*models.Order, int, error)
	GetOrder(ctx context.Context, orderID int64) (*models.Order, []*models.OrderStatusHistory, error)
	UpdateOrder(ctx context.Context, orderID, actorID int64, req models.AdminUpdateOrderRequest) (*models.Order, error)
}

// Service implements the order workflow.
type Service struct {
	repo     RepositoryInterface
	drivers  DriverStore
	notifier notify.ServiceInterface

	// Customer emails are optional; both may be nil.
	emailer   email.ServiceInterface
	templates *email.TemplateManager

	// Tracking lookups are cached best-effort; cache may be nil.
	cache        cache.BytesCache
	trackingTTL  time.Duration
	clientOrigin string

	now func() time.Time
}

// NewService creates a new order service.
func NewService(
	repo RepositoryInterface,
	drivers DriverStore,
	notifier notify.ServiceInterface,
	emailer email.ServiceInterface,
	templates *email.TemplateManager,
	c cache.BytesCache,
	trackingTTL time.Duration,
	clientOrigin string,
) *Service {
	return &Service{
		repo:         repo,
		drivers:      drivers,
		notifier:     notifier,
		emailer:      emailer,
		templates:    templates,
		cache:        c,
		trackingTTL:  trackingTTL,
		clientOrigin: clientOrigin,
		now:          time.Now,
	}
}

const createdComment = "Заявка создана"

// CreateOrder assigns a tracking number, persists the order with its initial
// history row, and dispatches the staff notification. The notification is
// best-effort and never fails the creation.
func (s *Service) CreateOrder(ctx context.Context, req models.CreateOrderRequest, customerID *int64) (*models.Order, error) {
	trackingNumber, err := tracknum.Generate(ctx, req.OrderType, s.now(), s.repo.TrackingNumberExists)
	if err != nil {
		return nil, fmt.Errorf("service.CreateOrder: %w", err)
	}

	order := &models.Order{
		TrackingNumber:   trackingNumber,
		CustomerName:     req.CustomerName,
		CustomerPhone:    req.CustomerPhone,
		CustomerEmail:    req.CustomerEmail,
		CustomerID:       customerID,
		OrderType:        req.OrderType,
		PickupAddress:    req.PickupAddress,
		PickupContact:    req.PickupContact,
		PickupPhone:      req.PickupPhone,
		DeliveryAddress:  req.DeliveryAddress,
		DeliveryContact:  req.DeliveryContact,
		DeliveryPhone:    req.DeliveryPhone,
		CargoDescription: req.CargoDescription,
		CargoWeight:      req.CargoWeight,
		CargoVolume:      req.CargoVolume,
		CargoDimensions:  req.CargoDimensions,
	}

	created, err := s.repo.Create(ctx, order, createdComment)
	if err != nil {
		return nil, fmt.Errorf("service.CreateOrder: %w", err)
	}

	if err := s.notifier.NotifyOrderCreated(ctx, created); err != nil {
		log.Printf("Failed to send Telegram notification for %s: %v", created.TrackingNumber, err)
	}
	s.sendOrderEmail(ctx, created, nil)

	return created, nil
}

// TrackByNumber resolves the public tracking view. Input is normalized the
// way the original form did it (trimmed, upper-cased). The redis cache sits
// in front of the database; any cache trouble falls through to a DB read.
func (s *Service) TrackByNumber(ctx context.Context, trackingNumber string) (*models.TrackingView, error) {
	trackingNumber = strings.ToUpper(strings.TrimSpace(trackingNumber))
	if trackingNumber == "" {
		return nil, models.ErrNotFound
	}

	if s.cache != nil && s.trackingTTL > 0 {
		if b, ok, err := s.cache.Get(ctx, trackingKey(trackingNumber)); err == nil && ok {
			var view models.TrackingView
			if json.Unmarshal(b, &view) == nil {
				return &view, nil
			}
		}
	}

	order, err := s.repo.FindByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}
	history, err := s.repo.ListHistory(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("service.TrackByNumber: %w", err)
	}

	view := buildTrackingView(order, history)

	if s.cache != nil && s.trackingTTL > 0 {
		if b, err := json.Marshal(view); err == nil {
			_ = s.cache.Set(ctx, trackingKey(trackingNumber), b, s.trackingTTL)
		}
	}
	return view, nil
}

// ListCustomerOrders retrieves a customer's own orders.
func (s *Service) ListCustomerOrders(ctx context.Context, customerID int64, page, limit int) ([]*models.Order, int, error) {
	orders, total, err := s.repo.ListByCustomerID(ctx, customerID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("service.ListCustomerOrders: %w", err)
	}
	return orders, total, nil
}

// ListOrders lists orders for staff with optional filters.
func (s *Service) ListOrders(ctx context.Context, filter models.OrderFilter, page, limit int) ([]*models.Order, int, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, 0, models.ErrInvalidStatus
	}
	return s.repo.List(ctx, filter, page, limit)
}

// GetOrder retrieves one order and its full audit trail for staff.
func (s *Service) GetOrder(ctx context.Context, orderID int64) (*models.Order, []*models.OrderStatusHistory, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	history, err := s.repo.ListHistory(ctx, orderID)
	if err != nil {
		return nil, nil, fmt.Errorf("service.GetOrder: %w", err)
	}
	return order, history, nil
}

// UpdateOrder applies a staff edit. A status change appends exactly one
// history row (in the same transaction as the field updates); setting the
// same status again is a no-op on the trail. DriverID 0 clears the
// assignment; any other value must point at an active driver.
func (s *Service) UpdateOrder(ctx context.Context, orderID, actorID int64, req models.AdminUpdateOrderRequest) (*models.Order, error) {
	current, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if req.Status != nil && !req.Status.Valid() {
		return nil, models.ErrInvalidStatus
	}
	if req.DriverID != nil && *req.DriverID != 0 {
		driver, err := s.drivers.FindByID(ctx, *req.DriverID)
		if err != nil || !driver.IsActive {
			return nil, models.ErrDriverNotAvailable
		}
	}

	var history *models.OrderStatusHistory
	statusChanged := req.Status != nil && *req.Status != current.Status
	if statusChanged {
		comment := fmt.Sprintf("Статус изменен с '%s' на '%s'", current.Status.Label(), req.Status.Label())
		if req.StatusComment != nil && *req.StatusComment != "" {
			comment = *req.StatusComment
		}
		history = &models.OrderStatusHistory{
			OrderID:     orderID,
			Status:      *req.Status,
			Comment:     &comment,
			ChangedByID: &actorID,
		}
	}

	updated, err := s.repo.Update(ctx, orderID, req, history)
	if err != nil {
		return nil, fmt.Errorf("service.UpdateOrder: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, trackingKey(updated.TrackingNumber))
	}

	if statusChanged {
		if err := s.notifier.NotifyStatusChanged(ctx, updated, current.Status, updated.Status); err != nil {
			log.Printf("Failed to send status notification for %s: %v", updated.TrackingNumber, err)
		}
		s.sendOrderEmail(ctx, updated, &current.Status)
	}

	return updated, nil
}

// sendOrderEmail emails the customer about creation (oldStatus nil) or a
// status change. Best-effort: errors are logged and swallowed.
func (s *Service) sendOrderEmail(ctx context.Context, order *models.Order, oldStatus *models.OrderStatus) {
	if s.emailer == nil || s.templates == nil || order.CustomerEmail == nil || *order.CustomerEmail == "" {
		return
	}

	data := email.OrderEmailData{
		CustomerName:   order.CustomerName,
		TrackingNumber: order.TrackingNumber,
		StatusLabel:    order.Status.Label(),
		TrackingURL:    fmt.Sprintf("%s/track/%s", s.clientOrigin, order.TrackingNumber),
	}

	var subject, html string
	var err error
	if oldStatus == nil {
		subject = fmt.Sprintf("Заявка %s принята", order.TrackingNumber)
		html, err = s.templates.GenerateOrderCreatedHTML(data)
	} else {
		data.OldStatusLabel = oldStatus.Label()
		subject = fmt.Sprintf("Заявка %s: %s", order.TrackingNumber, order.Status.Label())
		html, err = s.templates.GenerateStatusChangedHTML(data)
	}
	if err != nil {
		log.Printf("Failed to render email for %s: %v", order.TrackingNumber, err)
		return
	}

	plain := fmt.Sprintf("Заявка %s. Статус: %s. %s", order.TrackingNumber, order.Status.Label(), data.TrackingURL)
	if err := s.emailer.SendEmail(ctx, *order.CustomerEmail, subject, plain, html); err != nil {
		log.Printf("Failed to email customer for %s: %v", order.TrackingNumber, err)
	}
}

func buildTrackingView(order *models.Order, history []*models.OrderStatusHistory) *models.TrackingView {
	view := &models.TrackingView{
		TrackingNumber:  order.TrackingNumber,
		Status:          order.Status,
		StatusLabel:     order.Status.Label(),
		OrderType:       order.OrderType,
		OrderTypeLabel:  order.OrderType.Label(),
		CustomerName:    order.CustomerName,
		PickupAddress:   order.PickupAddress,
		DeliveryAddress: order.DeliveryAddress,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
		PickupDate:      order.PickupDate,
		DeliveryDate:    order.DeliveryDate,
	}
	for _, h := range history {
		view.History = append(view.History, models.TrackingViewEvent{
			Status:      h.Status,
			StatusLabel: h.Status.Label(),
			Comment:     h.Comment,
			CreatedAt:   h.CreatedAt,
		})
	}
	return view
}

func trackingKey(trackingNumber string) string {
	return fmt.Sprintf("order:%s:tracking", trackingNumber)
}
