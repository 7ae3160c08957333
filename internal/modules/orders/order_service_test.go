package orders

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"xpom-logistics/internal/models"
)

// memRepo is an in-memory RepositoryInterface for service tests.
type memRepo struct {
	nextID    int64
	orders    map[int64]*models.Order
	history   []*models.OrderStatusHistory
	createErr error
	updateErr error
}

func newMemRepo() *memRepo {
	return &memRepo{nextID: 1, orders: map[int64]*models.Order{}}
}

func (m *memRepo) Create(ctx context.Context, order *models.Order, initialComment string) (*models.Order, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	o := *order
	o.ID = m.nextID
	m.nextID++
	o.Status = models.StatusNew
	o.CreatedAt = time.Now().UTC()
	o.UpdatedAt = o.CreatedAt
	m.orders[o.ID] = &o
	comment := initialComment
	m.history = append(m.history, &models.OrderStatusHistory{
		OrderID: o.ID, Status: models.StatusNew, Comment: &comment, ChangedByID: o.CustomerID, CreatedAt: o.CreatedAt,
	})
	return &o, nil
}

func (m *memRepo) TrackingNumberExists(ctx context.Context, tn string) (bool, error) {
	for _, o := range m.orders {
		if o.TrackingNumber == tn {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) FindByID(ctx context.Context, id int64) (*models.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memRepo) FindByTrackingNumber(ctx context.Context, tn string) (*models.Order, error) {
	for _, o := range m.orders {
		if o.TrackingNumber == tn {
			cp := *o
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memRepo) ListHistory(ctx context.Context, orderID int64) ([]*models.OrderStatusHistory, error) {
	var out []*models.OrderStatusHistory
	for _, h := range m.history {
		if h.OrderID == orderID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *memRepo) ListByCustomerID(ctx context.Context, customerID int64, page, limit int) ([]*models.Order, int, error) {
	var out []*models.Order
	for _, o := range m.orders {
		if o.CustomerID != nil && *o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, len(out), nil
}

func (m *memRepo) List(ctx context.Context, filter models.OrderFilter, page, limit int) ([]*models.Order, int, error) {
	var out []*models.Order
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out, len(out), nil
}

func (m *memRepo) Update(ctx context.Context, orderID int64, req models.AdminUpdateOrderRequest, history *models.OrderStatusHistory) (*models.Order, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	o, ok := m.orders[orderID]
	if !ok {
		return nil, models.ErrNotFound
	}
	if req.Status != nil {
		o.Status = *req.Status
	}
	if req.ClearPrice {
		o.Price = nil
	} else if req.Price != nil {
		o.Price = req.Price
	}
	if req.DriverID != nil {
		if *req.DriverID == 0 {
			o.DriverID = nil
		} else {
			o.DriverID = req.DriverID
		}
	}
	o.UpdatedAt = time.Now().UTC()
	if history != nil {
		h := *history
		h.CreatedAt = o.UpdatedAt
		m.history = append(m.history, &h)
	}
	cp := *o
	return &cp, nil
}

func (m *memRepo) ClaimForCustomer(ctx context.Context, customerID int64, phone string) (int64, error) {
	var n int64
	for _, o := range m.orders {
		if o.CustomerID == nil && o.CustomerPhone == phone {
			id := customerID
			o.CustomerID = &id
			n++
		}
	}
	return n, nil
}

type fakeDrivers struct {
	byID map[int64]*models.Driver
}

func (f *fakeDrivers) FindByID(ctx context.Context, id int64) (*models.Driver, error) {
	d, ok := f.byID[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return d, nil
}

type fakeNotifier struct {
	created       int
	statusChanged int
	lastOld       models.OrderStatus
	lastNew       models.OrderStatus
	err           error
}

func (f *fakeNotifier) NotifyOrderCreated(ctx context.Context, order *models.Order) error {
	f.created++
	return f.err
}

func (f *fakeNotifier) NotifyStatusChanged(ctx context.Context, order *models.Order, oldStatus, newStatus models.OrderStatus) error {
	f.statusChanged++
	f.lastOld = oldStatus
	f.lastNew = newStatus
	return f.err
}

type fakeCache struct {
	m       map[string][]byte
	deleted []string
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, ok := c.m[key]
	return b, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.m[key] = value
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.deleted = append(c.deleted, key)
	delete(c.m, key)
	return nil
}

func newTestService(repo RepositoryInterface, drivers DriverStore, n *fakeNotifier, c *fakeCache) *Service {
	var ttl time.Duration
	if c != nil {
		ttl = time.Minute
	}
	svc := NewService(repo, drivers, n, nil, nil, nil, ttl, "http://localhost:5173")
	if c != nil {
		svc.cache = c
	}
	return svc
}

func createReq() models.CreateOrderRequest {
	return models.CreateOrderRequest{
		CustomerName:     "Иван Петров",
		CustomerPhone:    "87012345678",
		OrderType:        models.TypeLocal,
		PickupAddress:    "Астана, ул. Абая 1",
		DeliveryAddress:  "Астана, пр. Республики 15",
		CargoDescription: "Документы",
	}
}

var trackNumRe = regexp.MustCompile(`^AST-\d{4}-\d{3}$`)

func TestCreateOrder_assignsTrackingNumberAndInitialHistory(t *testing.T) {
	repo := newMemRepo()
	n := &fakeNotifier{}
	s := newTestService(repo, &fakeDrivers{}, n, nil)

	order, err := s.CreateOrder(context.Background(), createReq(), nil)
	require.NoError(t, err)
	require.Regexp(t, trackNumRe, order.TrackingNumber)
	require.Equal(t, models.StatusNew, order.Status)
	require.False(t, order.CreatedAt.IsZero())

	history, err := repo.ListHistory(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, models.StatusNew, history[0].Status)

	require.Equal(t, 1, n.created)
}

func TestCreateOrder_intercityPrefix(t *testing.T) {
	repo := newMemRepo()
	s := newTestService(repo, &fakeDrivers{}, &fakeNotifier{}, nil)

	req := createReq()
	req.OrderType = models.TypeIntercity
	order, err := s.CreateOrder(context.Background(), req, nil)
	require.NoError(t, err)
	require.Regexp(t, `^KZ-\d{4}-\d{3}$`, order.TrackingNumber)
}

func TestCreateOrder_notifierFailureDoesNotFailCreation(t *testing.T) {
	repo := newMemRepo()
	n := &fakeNotifier{err: errors.New("telegram down")}
	s := newTestService(repo, &fakeDrivers{}, n, nil)

	order, err := s.CreateOrder(context.Background(), createReq(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, order.TrackingNumber)
}

func TestCreateOrder_persistFailureReturnsError(t *testing.T) {
	repo := newMemRepo()
	repo.createErr = errors.New("db down")
	n := &fakeNotifier{}
	s := newTestService(repo, &fakeDrivers{}, n, nil)

	_, err := s.CreateOrder(context.Background(), createReq(), nil)
	require.Error(t, err)
	require.Equal(t, 0, n.created) // no notification for a failed creation
}

func TestUpdateOrder_statusChangeAppendsExactlyOneHistoryRow(t *testing.T) {
	repo := newMemRepo()
	n := &fakeNotifier{}
	s := newTestService(repo, &fakeDrivers{}, n, nil)

	order, err := s.CreateOrder(context.Background(), createReq(), nil)
	require.NoError(t, err)

	confirmed := models.StatusConfirmed
	_, err = s.UpdateOrder(context.Background(), order.ID, 42, models.AdminUpdateOrderRequest{Status: &confirmed})
	require.NoError(t, err)

	history, _ := repo.ListHistory(context.Background(), order.ID)
	require.Len(t, history, 2) // creation row + the change
	last := history[len(history)-1]
	require.Equal(t, models.StatusConfirmed, last.Status)
	require.NotNil(t, last.Comment)
	require.Contains(t, *last.Comment, "Новая заявка")
	require.Contains(t, *last.Comment, "Подтверждена")
	require.Equal(t, int64(42), *last.ChangedByID)

	require.Equal(t, 1, n.statusChanged)
	require.Equal(t, models.StatusNew, n.lastOld)
	require.Equal(t, models.StatusConfirmed, n.lastNew)
}

func TestUpdateOrder_sameStatusIsNoopOnHistory(t *testing.T) {
	repo := newMemRepo()
	n := &fakeNotifier{}
	s := newTestService(repo, &fakeDrivers{}, n, nil)

	order, err := s.CreateOrder(context.Background(), createReq(), nil)
	require.NoError(t, err)

	same := models.StatusNew
	_, err = s.UpdateOrder(context.Background(), order.ID, 42, models.AdminUpdateOrderRequest{Status: &same})
	require.NoError(t, err)

	history, _ := repo.ListHistory(context.Background(), order.ID)
	require.Len(t, history, 1)
	require.Equal(t, 0, n.statusChanged)
}

func TestUpdateOrder_driverValidation(t *testing.T) {
	repo := newMemRepo()
	drivers := &fakeDrivers{byID: map[int64]*models.Driver{
		5: {ID: 5, FullName: "Асел Нурланова", IsActive: true},
		6: {ID: 6, FullName: "Бывший", IsActive: false},
	}}
	s := newTestService(repo, drivers, &fakeNotifier{}, nil)

	order, err := s.CreateOrder(context.Background(), createReq(), nil)
	require.NoError(t, err)

	active := int64(5)
	updated, err := s.UpdateOrder(context.Background(), order.ID, 1, models.AdminUpdateOrderRequest{DriverID: &active})
	require.NoError(t, err)
	require.Equal(t, int64(5), *updated.DriverID)

	inactive := int64(6)
	_, err = s.UpdateOrder(context.Background(), order.ID, 1, models.AdminUpdateOrderRequest{DriverID: &inactive})
	require.ErrorIs(t, err, models.ErrDriverNotAvailable)

	missing := int64(99)
	_, err = s.UpdateOrder(context.Background(), order.ID, 1, models.AdminUpdateOrderRequest{DriverID: &missing})
	require.ErrorIs(t, err, models.ErrDriverNotAvailable)

	// 0 is the "unassigned" sentinel and skips the driver lookup.
	clear := int64(0)
	updated, err = s.UpdateOrder(context.Background(), order.ID, 1, models.AdminUpdateOrderRequest{DriverID: &clear})
	require.NoError(t, err)
	require.Nil(t, updated.DriverID)
}

func TestUpdateOrder_clearPriceNullsASetPrice(t *testing.T) {
	repo := newMemRepo()
	s := newTestService(repo, &fakeDrivers{}, &fakeNotifier{}, nil)

	order, err := s.CreateOrder(context.Background(), createReq(), nil)
	require.NoError(t, err)

	price := 1500.0
	updated, err := s.UpdateOrder(context.Background(), order.ID, 1, models.AdminUpdateOrderRequest{Price: &price})
	require.NoError(t, err)
	require.Equal(t, 1500.0, *updated.Price)

	// The admin form submits an empty price as a clear, not as "keep".
	updated, err = s.UpdateOrder(context.Background(), order.ID, 1, models.AdminUpdateOrderRequest{ClearPrice: true})
	require.NoError(t, err)
	require.Nil(t, updated.Price)

	// ClearPrice wins when both are sent.
	updated, err = s.UpdateOrder(context.Background(), order.ID, 1, models.AdminUpdateOrderRequest{Price: &price, ClearPrice: true})
	require.NoError(t, err)
	require.Nil(t, updated.Price)
}

func TestTrackByNumber_cacheHitSkipsRepo(t *testing.T) {
	repo := newMemRepo()
	c := &fakeCache{m: map[string][]byte{}}
	s := newTestService(repo, &fakeDrivers{}, &fakeNotifier{}, c)

	order, err := s.CreateOrder(context.Background(), createReq(), nil)
	require.NoError(t, err)

	// First lookup fills the cache.
	view, err := s.TrackByNumber(context.Background(), order.TrackingNumber)
	require.NoError(t, err)
	require.Equal(t, "Новая заявка", view.StatusLabel)
	require.Len(t, c.m, 1)

	// Drop the backing store; a second lookup must come from cache.
	repo.orders = map[int64]*models.Order{}
	view, err = s.TrackByNumber(context.Background(), order.TrackingNumber)
	require.NoError(t, err)
	require.Equal(t, order.TrackingNumber, view.TrackingNumber)
}

func TestTrackByNumber_normalizesInput(t *testing.T) {
	repo := newMemRepo()
	s := newTestService(repo, &fakeDrivers{}, &fakeNotifier{}, nil)

	order, err := s.CreateOrder(context.Background(), createReq(), nil)
	require.NoError(t, err)

	lower := "  " + order.TrackingNumber + "  "
	view, err := s.TrackByNumber(context.Background(), lower)
	require.NoError(t, err)
	require.Equal(t, order.TrackingNumber, view.TrackingNumber)

	_, err = s.TrackByNumber(context.Background(), "AST-2026-UNKNOWN")
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdateOrder_invalidatesTrackingCache(t *testing.T) {
	repo := newMemRepo()
	c := &fakeCache{m: map[string][]byte{}}
	s := newTestService(repo, &fakeDrivers{}, &fakeNotifier{}, c)

	order, err := s.CreateOrder(context.Background(), createReq(), nil)
	require.NoError(t, err)

	_, err = s.TrackByNumber(context.Background(), order.TrackingNumber)
	require.NoError(t, err)
	require.Len(t, c.m, 1)

	confirmed := models.StatusConfirmed
	_, err = s.UpdateOrder(context.Background(), order.ID, 1, models.AdminUpdateOrderRequest{Status: &confirmed})
	require.NoError(t, err)
	require.Empty(t, c.m)

	view, err := s.TrackByNumber(context.Background(), order.TrackingNumber)
	require.NoError(t, err)
	require.Equal(t, "Подтверждена", view.StatusLabel)
}

// Full lifecycle: create a local order, track it, assign a driver, deliver.
func TestOrderLifecycle(t *testing.T) {
	repo := newMemRepo()
	drivers := &fakeDrivers{byID: map[int64]*models.Driver{
		3: {ID: 3, FullName: "Дамир", IsActive: true},
	}}
	n := &fakeNotifier{}
	s := newTestService(repo, drivers, n, nil)

	order, err := s.CreateOrder(context.Background(), createReq(), nil)
	require.NoError(t, err)
	require.Nil(t, order.Price)

	view, err := s.TrackByNumber(context.Background(), order.TrackingNumber)
	require.NoError(t, err)
	require.Equal(t, "Новая заявка", view.StatusLabel)

	driverID := int64(3)
	_, err = s.UpdateOrder(context.Background(), order.ID, 7, models.AdminUpdateOrderRequest{DriverID: &driverID})
	require.NoError(t, err)

	delivered := models.StatusDelivered
	final, err := s.UpdateOrder(context.Background(), order.ID, 7, models.AdminUpdateOrderRequest{Status: &delivered})
	require.NoError(t, err)
	require.Equal(t, models.StatusDelivered, final.Status)

	history, _ := repo.ListHistory(context.Background(), order.ID)
	require.Len(t, history, 2) // creation + delivery; the driver assignment adds none
}
