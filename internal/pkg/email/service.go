// internal/pkg/email/service.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/your-org/food-delivery-backend/internal/config"
	"github.com/your-org/food-delivery-backend/internal/domain/order"
)

// EmailService handles all email operations
type EmailService struct {
	config *config.Config
	client *http.Client
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		config: cfg,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SendEmail sends an email using the configured provider
func (s *EmailService) SendEmail(ctx context.Context, email *Email) error {
	switch s.config.External.Email.Provider {
	case "resend":
		return s.sendResendEmail(ctx, email)
	case "sendgrid":
		return s.sendSendGridEmail(ctx, email)
	default:
		return fmt.Errorf("unsupported email provider: %s", s.config.External.Email.Provider)
	}
}

// SendOrderConfirmation sends the order confirmation email
func (s *EmailService) SendOrderConfirmation(ctx context.Context, o *order.Order, userEmail, userName string) error {
	items := make([]OrderItem, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Total:    formatINR(item.UnitPrice * int64(item.Quantity)),
		})
	}

	eta := ""
	if o.EstimatedDeliveryTime != nil {
		eta = o.EstimatedDeliveryTime.Format("3:04 PM, January 2")
	}

	data := OrderConfirmationData{
		EmailTemplateData: GetBaseTemplateData(s.config.App.Name, userName, userEmail),
		OrderNumber:       o.OrderNumber,
		OrderDate:         o.CreatedAt.Format("January 2, 2006"),
		OrderTotal:        formatINR(o.Total),
		PaymentMethod:     string(o.PaymentMethod),
		EstimatedDelivery: eta,
		Items:             items,
		DeliveryAddress: strings.Join([]string{
			o.Address.FullAddress, o.Address.Area, o.Address.City, o.Address.Pincode,
		}, ", "),
	}

	htmlContent, err := renderTemplate(orderConfirmationTemplate, data)
	if err != nil {
		return err
	}

	return s.SendEmail(ctx, &Email{
		To:          []string{userEmail},
		Subject:     fmt.Sprintf("Order %s confirmed", o.OrderNumber),
		HTMLContent: htmlContent,
		Type:        EmailTypeOrderConfirmation,
	})
}

// SendOrderStatusUpdate notifies the user of an order status change
func (s *EmailService) SendOrderStatusUpdate(ctx context.Context, o *order.Order, userEmail, userName string) error {
	data := OrderStatusUpdateData{
		EmailTemplateData: GetBaseTemplateData(s.config.App.Name, userName, userEmail),
		OrderNumber:       o.OrderNumber,
		Status:            string(o.Status),
		StatusMessage:     statusMessage(o.Status),
	}

	htmlContent, err := renderTemplate(orderStatusTemplate, data)
	if err != nil {
		return err
	}

	return s.SendEmail(ctx, &Email{
		To:          []string{userEmail},
		Subject:     fmt.Sprintf("Order %s: %s", o.OrderNumber, data.StatusMessage),
		HTMLContent: htmlContent,
		Type:        EmailTypeOrderStatusUpdate,
	})
}

func statusMessage(status order.Status) string {
	switch status {
	case order.StatusPlaced:
		return "your order has been placed"
	case order.StatusPreparing:
		return "the kitchen is preparing your order"
	case order.StatusOutForDelivery:
		return "your order is out for delivery"
	case order.StatusDelivered:
		return "your order has been delivered"
	case order.StatusCancelled:
		return "your order has been cancelled"
	default:
		return string(status)
	}
}

func formatINR(paise int64) string {
	return fmt.Sprintf("₹%.2f", float64(paise)/100)
}

func renderTemplate(tmplText string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(tmplText)
	if err != nil {
		return "", fmt.Errorf("failed to parse email template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email template: %w", err)
	}
	return buf.String(), nil
}

const orderConfirmationTemplate = `
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
    <h2>Thanks for your order, {{.UserName}}!</h2>
    <p>Your order <strong>{{.OrderNumber}}</strong> was placed on {{.OrderDate}}.</p>
    {{if .EstimatedDelivery}}<p>Estimated delivery: <strong>{{.EstimatedDelivery}}</strong></p>{{end}}
    <table style="border-collapse: collapse; width: 100%;">
        <tr style="text-align: left; border-bottom: 1px solid #ddd;">
            <th style="padding: 8px;">Item</th>
            <th style="padding: 8px;">Qty</th>
            <th style="padding: 8px;">Total</th>
        </tr>
        {{range .Items}}
        <tr style="border-bottom: 1px solid #eee;">
            <td style="padding: 8px;">{{.Name}}</td>
            <td style="padding: 8px;">{{.Quantity}}</td>
            <td style="padding: 8px;">{{.Total}}</td>
        </tr>
        {{end}}
    </table>
    <p><strong>Total: {{.OrderTotal}}</strong> ({{.PaymentMethod}})</p>
    <p>Delivering to: {{.DeliveryAddress}}</p>
    <p style="color: #888; font-size: 12px;">&copy; {{.Year}} {{.SiteName}}</p>
</body>
</html>
`

const orderStatusTemplate = `
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
    <h2>Order update</h2>
    <p>Hi {{.UserName}}, {{.StatusMessage}}.</p>
    <p>Order <strong>{{.OrderNumber}}</strong> is now <strong>{{.Status}}</strong>.</p>
    <p style="color: #888; font-size: 12px;">&copy; {{.Year}} {{.SiteName}}</p>
</body>
</html>
`
