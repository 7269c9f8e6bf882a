package utils

import (
	"fmt"
	"html"
	"net/smtp"
	"os"
	"strings"

	"go.uber.org/zap"
)

type EmailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func GetEmailConfig() *EmailConfig {
	return &EmailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     os.Getenv("SMTP_PORT"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
}

func (c *EmailConfig) Configured() bool {
	return c.Host != "" && c.Port != "" && c.From != ""
}

func SendEmail(to, subject, htmlBody string) error {
	config := GetEmailConfig()
	if !config.Configured() {
		return fmt.Errorf("SMTP not configured")
	}

	headers := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n",
		config.From, to, subject)
	msg := []byte(headers + htmlBody)

	var auth smtp.Auth
	if config.Username != "" && config.Password != "" {
		auth = smtp.PlainAuth("", config.Username, config.Password, config.Host)
	}

	addr := config.Host + ":" + config.Port
	return smtp.SendMail(addr, auth, config.From, []string{to}, msg)
}

func firstName(name string) string {
	if fields := strings.Fields(name); len(fields) > 0 {
		return html.EscapeString(fields[0])
	}
	return "there"
}

// sendAsync delivers in the background. Failures are logged, never returned.
func sendAsync(logger *zap.Logger, kind, to, subject, body string) {
	if logger == nil {
		logger = zap.NewNop()
	}
	go func() {
		if err := SendEmail(to, subject, body); err != nil {
			logger.Warn("email not sent", zap.String("kind", kind), zap.String("to", to), zap.Error(err))
			return
		}
		logger.Info("email sent", zap.String("kind", kind), zap.String("to", to))
	}()
}

func productReviewEmail(name, productName, status, notes string) (string, string) {
	subject := fmt.Sprintf("Your product %q was %s", productName, status)
	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Product review update</h2>\n<p>Hi %s,</p>\n", firstName(name))
	fmt.Fprintf(&b, "<p>Your product <strong>%s</strong> has been <strong>%s</strong>.</p>\n",
		html.EscapeString(productName), html.EscapeString(status))
	if notes != "" {
		fmt.Fprintf(&b, "<p>Reviewer notes: %s</p>\n", html.EscapeString(notes))
	}
	b.WriteString("<p>The Marketplace Team</p>")
	return subject, b.String()
}

// SendProductReviewEmail tells a seller the outcome of a product review.
func SendProductReviewEmail(logger *zap.Logger, email, name, productName, status, notes string) {
	subject, body := productReviewEmail(name, productName, status, notes)
	sendAsync(logger, "product_review", email, subject, body)
}

func SendSellerWelcomeEmail(logger *zap.Logger, email, name, businessName string) {
	subject := "Welcome to the Marketplace seller panel"
	body := fmt.Sprintf(`<h2>Welcome, %s!</h2>
<p>Your seller account for <strong>%s</strong> has been created.</p>
<p>Products you submit are reviewed by our team before they go live.</p>
<p>The Marketplace Team</p>`, firstName(name), html.EscapeString(businessName))
	sendAsync(logger, "seller_welcome", email, subject, body)
}

func SendSellerApprovalEmail(logger *zap.Logger, email, name, businessName string) {
	subject := "Your seller account has been approved"
	body := fmt.Sprintf(`<h2>You're approved!</h2>
<p>Hi %s,</p>
<p><strong>%s</strong> is now an approved seller.</p>
<p>The Marketplace Team</p>`, firstName(name), html.EscapeString(businessName))
	sendAsync(logger, "seller_approval", email, subject, body)
}

func SendOrderStatusUpdate(logger *zap.Logger, email, name, orderNumber, status string) {
	subject := fmt.Sprintf("Order %s - Status Update", orderNumber)
	body := fmt.Sprintf(`<h2>Order Status Update</h2>
<p>Hi %s,</p>
<p>Your order <strong>%s</strong> status has been updated to: <strong>%s</strong></p>
<p>The Marketplace Team</p>`, firstName(name), html.EscapeString(orderNumber), strings.ReplaceAll(status, "_", " "))
	sendAsync(logger, "order_status", email, subject, body)
}
