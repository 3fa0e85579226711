package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"time"

	"github.com/qs3c/subtrack_go_server/config"
)

// SendFunc 与 smtp.SendMail 签名一致，测试时替换
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type Service struct {
	cfg      *config.EmailConfig
	sendMail SendFunc
}

func NewService(cfg *config.EmailConfig) *Service {
	return &Service{cfg: cfg, sendMail: smtp.SendMail}
}

// WithSendFunc 替换底层发送函数
func (s *Service) WithSendFunc(fn SendFunc) *Service {
	s.sendMail = fn
	return s
}

// ReminderData 续费提醒邮件的内容
type ReminderData struct {
	UserName         string
	SubscriptionName string
	Price            float64
	Currency         string
	Frequency        string
	PaymentMethod    string
	RenewalDate      time.Time
	Label            string
	DaysLeft         int
}

var reminderTmpl = template.Must(template.New("reminder").Parse(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">Your {{.SubscriptionName}} subscription renews soon</h2>
        <p>Hello {{.UserName}},</p>
        <p>Your <strong>{{.SubscriptionName}}</strong> subscription will renew on
            <strong>{{.RenewalDate.Format "Jan 2, 2006"}}</strong> ({{.DaysLeft}} days from now).</p>
        <table style="background-color: #f3f4f6; padding: 15px; margin: 20px 0; width: 100%;">
            <tr><td>Plan</td><td>{{.SubscriptionName}}</td></tr>
            <tr><td>Price</td><td>{{printf "%.2f" .Price}} {{.Currency}} ({{.Frequency}})</td></tr>
            <tr><td>Payment method</td><td>{{.PaymentMethod}}</td></tr>
        </table>
        <p>If you no longer need it, cancel before the renewal date.</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">{{.Label}}. This email was sent automatically, please do not reply.</p>
    </div>
</body>
</html>
`))

// SendReminder 发送续费提醒邮件
func (s *Service) SendReminder(to string, data *ReminderData) error {
	var body bytes.Buffer
	if err := reminderTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render reminder email: %w", err)
	}

	subject := fmt.Sprintf("Reminder: your %s subscription renews in %d days", data.SubscriptionName, data.DaysLeft)
	return s.sendHTML(to, subject, body.String())
}

// sendHTML 发送 HTML 邮件
func (s *Service) sendHTML(to, subject, body string) error {
	msg := buildMessage(s.cfg.From, to, subject, body)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	if err := s.sendMail(addr, auth, s.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	headers := [][2]string{
		{"From", from},
		{"To", to},
		{"Subject", subject},
		{"MIME-Version", "1.0"},
		{"Content-Type", "text/html; charset=UTF-8"},
	}

	var msg strings.Builder
	for _, h := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", h[0], h[1]))
	}
	msg.WriteString("\r\n")
	msg.WriteString(body)

	return []byte(msg.String())
}
