// Package mail sends portal notification emails over SMTP.
package mail

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"carelink-backend/shared/config"
)

// Message is one outbound email
type Message struct {
	To      []string
	Subject string
	Body    string
	IsHTML  bool
}

// Mailer sends email via the configured SMTP relay
type Mailer struct {
	config *config.Config
}

// NewMailer creates a mailer from config
func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{config: cfg}
}

// Send delivers one message
func (m *Mailer) Send(msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("recipient list cannot be empty")
	}
	if msg.Subject == "" {
		return fmt.Errorf("subject cannot be empty")
	}

	host := m.config.SMTPHost
	port := m.config.SMTPPort
	username := m.config.SMTPUsername
	password := m.config.SMTPPassword
	from := m.config.EmailFrom

	if host == "" || username == "" || password == "" {
		return fmt.Errorf("SMTP configuration is incomplete")
	}

	auth := smtp.PlainAuth("", username, password, host)
	addr := fmt.Sprintf("%s:%s", host, port)
	body := []byte(m.buildMessage(msg))

	// Port 465 uses implicit TLS; other ports may use STARTTLS
	if port == "465" || m.config.SMTPUseTLS {
		return m.sendWithTLS(addr, auth, from, msg.To, body)
	}

	if err := smtp.SendMail(addr, auth, from, msg.To, body); err != nil {
		log.Printf("Failed to send email to %v: %v", msg.To, err)
		return err
	}
	return nil
}

// sendWithTLS sends email over an implicit TLS connection
func (m *Mailer) sendWithTLS(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	host := strings.Split(addr, ":")[0]

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		return err
	}
	if err = client.Mail(from); err != nil {
		return err
	}
	for _, recipient := range to {
		if err = client.Rcpt(recipient); err != nil {
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	defer w.Close()

	_, err = w.Write(msg)
	return err
}

// buildMessage assembles the RFC 822 message
func (m *Mailer) buildMessage(msg Message) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("From: %s <%s>\r\n", m.config.EmailFromName, m.config.EmailFrom))
	b.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", ")))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	if msg.IsHTML {
		b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	} else {
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	}
	b.WriteString("\r\n")
	b.WriteString(msg.Body)

	return b.String()
}

// InviteBody renders the plain-text invite notification
func InviteBody(fullName, organizationName, inviterEmail, message string) string {
	var b strings.Builder

	name := fullName
	if name == "" {
		name = "there"
	}

	b.WriteString(fmt.Sprintf("Hi %s,\n\n", name))
	b.WriteString(fmt.Sprintf("%s has invited you to join %s on CareLink.\n\n", inviterEmail, organizationName))
	if message != "" {
		b.WriteString(fmt.Sprintf("\"%s\"\n\n", message))
	}
	b.WriteString("Sign in to accept the invitation.\n")

	return b.String()
}
