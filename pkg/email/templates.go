package email

import (
	"bytes"
	"html/template"
	"log"
)

// TemplateManager holds the parsed email templates.
type TemplateManager struct {
	OrderCreatedTmpl  *template.Template
	StatusChangedTmpl *template.Template
}

// NewTemplateManager parses all email templates at startup.
func NewTemplateManager() (*TemplateManager, error) {
	createdTmpl, err := template.New("orderCreated").Parse(orderCreatedTemplate)
	if err != nil {
		return nil, err
	}

	statusTmpl, err := template.New("statusChanged").Parse(statusChangedTemplate)
	if err != nil {
		return nil, err
	}

	log.Println("Email templates parsed successfully.")
	return &TemplateManager{
		OrderCreatedTmpl:  createdTmpl,
		StatusChangedTmpl: statusTmpl,
	}, nil
}

// OrderEmailData holds the dynamic data for the order emails.
type OrderEmailData struct {
	CustomerName   string
	TrackingNumber string
	StatusLabel    string
	OldStatusLabel string
	TrackingURL    string
}

// GenerateOrderCreatedHTML executes the order-created template.
func (tm *TemplateManager) GenerateOrderCreatedHTML(data OrderEmailData) (string, error) {
	var body bytes.Buffer
	if err := tm.OrderCreatedTmpl.Execute(&body, data); err != nil {
		return "", err
	}
	return body.String(), nil
}

// GenerateStatusChangedHTML executes the status-changed template.
func (tm *TemplateManager) GenerateStatusChangedHTML(data OrderEmailData) (string, error) {
	var body bytes.Buffer
	if err := tm.StatusChangedTmpl.Execute(&body, data); err != nil {
		return "", err
	}
	return body.String(), nil
}

// --- HTML Template Definitions ---

const orderCreatedTemplate = `
<!DOCTYPE html>
<html>
<head>
	<title>Заявка принята</title>
</head>
<body style="font-family: Arial, sans-serif;">
	<h2>Здравствуйте, {{.CustomerName}}!</h2>
	<p>Ваша заявка на доставку принята. Номер для отслеживания:</p>
	<p><strong>{{.TrackingNumber}}</strong></p>
	<p>Текущий статус: {{.StatusLabel}}.</p>
	<p><a href="{{.TrackingURL}}">Отследить заявку</a></p>
</body>
</html>
`

const statusChangedTemplate = `
<!DOCTYPE html>
<html>
<head>
	<title>Статус заявки обновлён</title>
</head>
<body style="font-family: Arial, sans-serif;">
	<h2>Здравствуйте, {{.CustomerName}}!</h2>
	<p>Статус заявки <strong>{{.TrackingNumber}}</strong> изменился:</p>
	<p>{{.OldStatusLabel}} &rarr; <strong>{{.StatusLabel}}</strong></p>
	<p><a href="{{.TrackingURL}}">Отследить заявку</a></p>
</body>
</html>
`
