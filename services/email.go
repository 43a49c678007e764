package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"strings"
	texttemplate "text/template"

	"printshop_app_go/config"
	"printshop_app_go/models"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	// In development mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		log.Printf("Email logged successfully (test mode - not actually sent)")
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}

	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %v", err)
	}

	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// logEmailToConsole logs email details to console in test mode
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\nEMAIL (Test Mode - Not Actually Sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("\n--- HTML BODY (first 500 chars) ---\n%s...", truncate(email.HTMLBody, 500))
	log.Printf("%s\n", separator)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

// SendEmailAsync sends an email in a goroutine so callers never wait on the provider
func SendEmailAsync(cfg *config.Config, email *Email) {
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}

	go func(cfg *config.Config, email *Email) {
		if err := SendEmail(cfg, email); err != nil {
			log.Printf("Error sending async email: %v", err)
		}
	}(cfg, emailCopy)
}

// OrderReadyEmailData contains data for the order ready email
type OrderReadyEmailData struct {
	CustomerName string
	OrderNumber  int64
	PickupDate   string
	PickupTime   string
	ShopName     string
}

var orderReadyHTML = template.Must(template.New("order_ready_html").Parse(`<p>Hi {{.CustomerName}},</p>
<p>Your print order <strong>#{{.OrderNumber}}</strong> is ready for pickup.</p>
{{if .PickupDate}}<p>Pickup: {{.PickupDate}}{{if .PickupTime}} at {{.PickupTime}}{{end}}</p>{{end}}
<p>Thank you,<br>{{.ShopName}}</p>`))

var orderReadyText = texttemplate.Must(texttemplate.New("order_ready_text").Parse(`Hi {{.CustomerName}},

Your print order #{{.OrderNumber}} is ready for pickup.
{{if .PickupDate}}Pickup: {{.PickupDate}}{{if .PickupTime}} at {{.PickupTime}}{{end}}
{{end}}
Thank you,
{{.ShopName}}
`))

// BuildOrderReadyEmail creates the pickup notification for an order
func BuildOrderReadyEmail(order models.Order, shopName string) (*Email, error) {
	data := OrderReadyEmailData{
		CustomerName: order.CustomerName(),
		OrderNumber:  order.OrderNumber,
		PickupDate:   FormatPickupDate(order.PickupDate),
		PickupTime:   order.PickupTime,
		ShopName:     shopName,
	}

	var htmlBuf, textBuf bytes.Buffer
	if err := orderReadyHTML.Execute(&htmlBuf, data); err != nil {
		return nil, fmt.Errorf("failed to render order ready email: %w", err)
	}
	if err := orderReadyText.Execute(&textBuf, data); err != nil {
		return nil, fmt.Errorf("failed to render order ready email: %w", err)
	}

	return &Email{
		To:       []string{order.CustomerEmail},
		Subject:  fmt.Sprintf("Your order #%d is ready for pickup", order.OrderNumber),
		HTMLBody: htmlBuf.String(),
		TextBody: textBuf.String(),
	}, nil
}

// EmailNotifier emails customers when their order is ready
type EmailNotifier struct {
	Config *config.Config
}

// OrderReady implements OrderNotifier
func (n *EmailNotifier) OrderReady(order models.Order) {
	if order.CustomerEmail == "" {
		return
	}
	email, err := BuildOrderReadyEmail(order, n.Config.EmailFromName)
	if err != nil {
		log.Printf("[WARNING] %v", err)
		return
	}
	SendEmailAsync(n.Config, email)
}
