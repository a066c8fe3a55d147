package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
)

// SMTPConfig carries the connection settings for the outbound mail relay.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Sender   string
}

type smtpNotifier struct {
	cfg SMTPConfig
}

// NewSMTPNotifier creates a Notifier that delivers over SMTP with STARTTLS.
func NewSMTPNotifier(cfg SMTPConfig) Notifier {
	return &smtpNotifier{cfg: cfg}
}

func (n *smtpNotifier) Send(kind Kind, email, code, displayName string) bool {
	subject, body, err := renderEmail(kind, code, displayName)
	if err != nil {
		log.Printf("failed to render %s email: %v", kind, err)
		return false
	}

	msg := buildMessage(n.cfg.Sender, email, subject, body)
	auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	addr := fmt.Sprintf("%s:%s", n.cfg.Host, n.cfg.Port)
	if err := smtp.SendMail(addr, auth, n.cfg.Sender, []string{email}, msg); err != nil {
		log.Printf("failed to send %s email to %s: %v", kind, email, err)
		return false
	}
	return true
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(htmlBody)
	return buf.Bytes()
}

var emailTemplate = template.Must(template.New("otp").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2>{{.Title}}</h2>
    <p>Hello {{.Name}},</p>
    <p>{{.Intro}}</p>
    <div style="font-size: 32px; font-weight: bold; letter-spacing: 5px; text-align: center; padding: 20px;">{{.Code}}</div>
    <p>This code will expire in <strong>5 minutes</strong>.</p>
    <p>Never share this code with anyone. If you did not request it, please ignore this email.</p>
  </div>
</body>
</html>`))

func renderEmail(kind Kind, code, displayName string) (string, string, error) {
	data := struct {
		Title string
		Name  string
		Intro string
		Code  string
	}{Name: displayName, Code: code}

	var subject string
	switch kind {
	case KindVerification:
		subject = "Email Verification"
		data.Title = "Email Verification"
		data.Intro = "Thank you for signing up! Please use the verification code below to complete your registration:"
	case KindPasswordReset:
		subject = "Password Reset"
		data.Title = "Password Reset"
		data.Intro = "We received a request to reset your password. Use the code below to continue:"
	default:
		return "", "", fmt.Errorf("unknown notification kind %q", kind)
	}

	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, data); err != nil {
		return "", "", err
	}
	return subject, buf.String(), nil
}
