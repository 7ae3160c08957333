// Package notify delivers best-effort staff notifications about orders to a
// Telegram channel. Failures are reported to the caller for logging but must
// never block or roll back the operation that triggered them.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"xpom-logistics/internal/models"
	"xpom-logistics/pkg/utils"
)

// ServiceInterface is the dispatcher contract consumed by the order service.
type ServiceInterface interface {
	NotifyOrderCreated(ctx context.Context, order *models.Order) error
	NotifyStatusChanged(ctx context.Context, order *models.Order, oldStatus, newStatus models.OrderStatus) error
}

// TelegramNotifier posts Markdown messages to the Telegram Bot API.
type TelegramNotifier struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
}

// NewTelegramNotifier creates a notifier. With an empty token or chat ID it
// degrades to a silent no-op so the service runs without a configured bot.
func NewTelegramNotifier(botToken, chatID string) *TelegramNotifier {
	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  "https://api.telegram.org",
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *TelegramNotifier) configured() bool {
	return n.botToken != "" && n.chatID != ""
}

func (n *TelegramNotifier) NotifyOrderCreated(ctx context.Context, order *models.Order) error {
	if !n.configured() {
		return nil
	}

	var b strings.Builder
	b.WriteString("🆕 *Новая заявка XPOM-KZ*\n\n")
	fmt.Fprintf(&b, "📋 *Номер:* `%s`\n", order.TrackingNumber)
	fmt.Fprintf(&b, "👤 *Клиент:* %s\n", order.CustomerName)
	fmt.Fprintf(&b, "📞 *Телефон:* %s\n", utils.FormatPhone(order.CustomerPhone))
	fmt.Fprintf(&b, "📧 *Email:* %s\n\n", orEmpty(order.CustomerEmail, "Не указан"))
	fmt.Fprintf(&b, "🚚 *Тип заказа:* %s\n\n", order.OrderType.Label())
	fmt.Fprintf(&b, "📍 *Забор:* %s\n", order.PickupAddress)
	fmt.Fprintf(&b, "📍 *Доставка:* %s\n\n", order.DeliveryAddress)
	fmt.Fprintf(&b, "📦 *Груз:* %s\n", order.CargoDescription)
	fmt.Fprintf(&b, "⚖️ *Вес:* %s кг\n", formatWeight(order.CargoWeight))
	fmt.Fprintf(&b, "📏 *Габариты:* %s\n\n", orEmpty(order.CargoDimensions, "Не указаны"))
	fmt.Fprintf(&b, "🕐 *Создана:* %s\n", order.CreatedAt.Format(utils.DateTimeLayout))

	return n.sendMessage(ctx, b.String())
}

func (n *TelegramNotifier) NotifyStatusChanged(ctx context.Context, order *models.Order, oldStatus, newStatus models.OrderStatus) error {
	if !n.configured() {
		return nil
	}

	var b strings.Builder
	b.WriteString("🔄 *Обновление статуса заказа*\n\n")
	fmt.Fprintf(&b, "📋 *Номер:* `%s`\n", order.TrackingNumber)
	fmt.Fprintf(&b, "👤 *Клиент:* %s\n\n", order.CustomerName)
	b.WriteString("📊 *Статус изменен:*\n")
	fmt.Fprintf(&b, "❌ Было: %s\n", oldStatus.Label())
	fmt.Fprintf(&b, "✅ Стало: %s\n\n", newStatus.Label())
	fmt.Fprintf(&b, "🕐 *Обновлено:* %s\n", order.UpdatedAt.Format(utils.DateTimeLayout))

	return n.sendMessage(ctx, b.String())
}

func (n *TelegramNotifier) sendMessage(ctx context.Context, text string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)

	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", text)
	form.Set("parse_mode", "Markdown")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("notify.sendMessage: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify.sendMessage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("notify.sendMessage: telegram returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

func orEmpty(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

func formatWeight(w *float64) string {
	if w == nil {
		return "Не указан"
	}
	return fmt.Sprintf("%g", *w)
}
