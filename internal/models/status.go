package models

// OrderStatus is the closed set of workflow states an order moves through.
// The happy path is new -> confirmed -> in_progress -> delivered; cancelled
// is reachable from any non-terminal state.
type OrderStatus string

const (
	StatusNew        OrderStatus = "new"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusInProgress OrderStatus = "in_progress"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// OrderType distinguishes city deliveries from intercity transportation.
type OrderType string

const (
	TypeLocal     OrderType = "local"
	TypeIntercity OrderType = "intercity"
)

// AllStatuses lists every status in workflow order; reports iterate it to
// produce a stable status distribution.
var AllStatuses = []OrderStatus{
	StatusNew, StatusConfirmed, StatusInProgress, StatusDelivered, StatusCancelled,
}

var statusLabels = map[OrderStatus]string{
	StatusNew:        "Новая заявка",
	StatusConfirmed:  "Подтверждена",
	StatusInProgress: "В процессе доставки",
	StatusDelivered:  "Доставлена",
	StatusCancelled:  "Отменена",
}

var typeLabels = map[OrderType]string{
	TypeLocal:     "Доставка по Астане",
	TypeIntercity: "Межгородская перевозка",
}

func (s OrderStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the customer-facing Russian label; an unknown value falls
// back to the raw string.
func (s OrderStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func (t OrderType) Valid() bool {
	_, ok := typeLabels[t]
	return ok
}

func (t OrderType) Label() string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return string(t)
}
