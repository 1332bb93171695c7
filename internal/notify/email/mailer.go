// Package email sends payment receipts over SMTP.
package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"gopkg.in/gomail.v2"

	paymentdomain "github.com/NanaQuamy4/EcoWasteGo-sub000/internal/payment/domain"
	"github.com/NanaQuamy4/EcoWasteGo-sub000/internal/shared/models"
)

// Sender is satisfied by *gomail.Dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Mailer struct {
	sender Sender
	from   string
}

// NewMailer returns nil when no SMTP host is configured.
func NewMailer(cfg models.SMTPConfig) *Mailer {
	if cfg.Host == "" {
		return nil
	}
	return &Mailer{
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

func NewMailerWithSender(sender Sender, from string) *Mailer {
	return &Mailer{sender: sender, from: from}
}

var receiptTmpl = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("GHS %.2f", v) },
	"title": func(s string) string { return strings.ReplaceAll(s, "_", " ") },
}).Parse(`<html><body>
<h2>EcoWasteGo receipt</h2>
<p>Hello {{.Name}},</p>
<p>Thank you for recycling with us. Here is the receipt for your pickup.</p>
<table>
<tr><td>Payment</td><td>{{.Payment.ID}}</td></tr>
<tr><td>Waste type</td><td>{{title .Payment.WasteType}}</td></tr>
<tr><td>Weight</td><td>{{printf "%.2f" .Payment.Weight}} kg</td></tr>
<tr><td>Base amount</td><td>{{money .Payment.BaseAmount}}</td></tr>
{{- range .Payment.AdditionalServices}}
<tr><td>Service</td><td>{{title .}}</td></tr>
{{- end}}
<tr><td>Additional services</td><td>{{money .Payment.AdditionalAmount}}</td></tr>
<tr><td>Subtotal</td><td>{{money .Payment.Subtotal}}</td></tr>
<tr><td>Tax (15%)</td><td>{{money .Payment.Tax}}</td></tr>
<tr><td><b>Total</b></td><td><b>{{money .Payment.TotalAmount}}</b></td></tr>
<tr><td>Method</td><td>{{title .Payment.Method}}</td></tr>
</table>
</body></html>`))

// ReceiptMessage builds the receipt e-mail without sending it.
func (m *Mailer) ReceiptMessage(to, name string, p *paymentdomain.Payment) (*gomail.Message, error) {
	if name == "" {
		name = "there"
	}

	var body bytes.Buffer
	if err := receiptTmpl.Execute(&body, struct {
		Name    string
		Payment *paymentdomain.Payment
	}{name, p}); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Your EcoWasteGo receipt: GHS %.2f", p.TotalAmount))
	msg.SetBody("text/plain", fmt.Sprintf("Payment %s completed. Total: GHS %.2f", p.ID, p.TotalAmount))
	msg.AddAlternative("text/html", body.String())
	return msg, nil
}

func (m *Mailer) SendReceipt(to, name string, p *paymentdomain.Payment) error {
	if to == "" {
		return fmt.Errorf("receipt %s: no recipient address", p.ID)
	}
	msg, err := m.ReceiptMessage(to, name, p)
	if err != nil {
		return err
	}
	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("send receipt %s: %w", p.ID, err)
	}
	return nil
}
