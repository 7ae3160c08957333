package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"xpom-logistics/internal/models"
)

func testOrder() *models.Order {
	email := "client@example.kz"
	return &models.Order{
		ID:               1,
		TrackingNumber:   "AST-2026-042",
		CustomerName:     "Иван Петров",
		CustomerPhone:    "87012345678",
		CustomerEmail:    &email,
		OrderType:        models.TypeLocal,
		PickupAddress:    "Астана, ул. Абая 1",
		DeliveryAddress:  "Астана, пр. Республики 15",
		CargoDescription: "Документы",
		Status:           models.StatusNew,
		CreatedAt:        time.Date(2026, 8, 30, 10, 30, 0, 0, time.UTC),
		UpdatedAt:        time.Date(2026, 8, 30, 10, 30, 0, 0, time.UTC),
	}
}

func TestNotifyOrderCreated_sendsMessage(t *testing.T) {
	var gotPath string
	var gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, r.ParseForm())
		gotText = r.PostFormValue("text")
		require.Equal(t, "-100200", r.PostFormValue("chat_id"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("token123", "-100200")
	n.baseURL = srv.URL

	require.NoError(t, n.NotifyOrderCreated(context.Background(), testOrder()))
	require.Equal(t, "/bottoken123/sendMessage", gotPath)
	require.Contains(t, gotText, "AST-2026-042")
	require.Contains(t, gotText, "Иван Петров")
	require.Contains(t, gotText, "Доставка по Астане")
}

func TestNotifyStatusChanged_includesBothLabels(t *testing.T) {
	var gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotText = r.PostFormValue("text")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("token123", "-100200")
	n.baseURL = srv.URL

	err := n.NotifyStatusChanged(context.Background(), testOrder(), models.StatusNew, models.StatusConfirmed)
	require.NoError(t, err)
	require.Contains(t, gotText, "Новая заявка")
	require.Contains(t, gotText, "Подтверждена")
}

func TestNotify_unconfiguredIsNoop(t *testing.T) {
	n := NewTelegramNotifier("", "")
	require.NoError(t, n.NotifyOrderCreated(context.Background(), testOrder()))
	require.NoError(t, n.NotifyStatusChanged(context.Background(), testOrder(), models.StatusNew, models.StatusCancelled))
}

func TestNotify_non200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("token123", "-100200")
	n.baseURL = srv.URL

	require.Error(t, n.NotifyOrderCreated(context.Background(), testOrder()))
}
