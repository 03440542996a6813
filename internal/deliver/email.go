// Package deliver sends the rendered digest to its recipient. Delivery is
// SMTP when credentials are configured, with a local-file fallback so a run
// never silently discards its output.
package deliver

import (
	"fmt"
	"log"
	"mime"
	"mime/quotedprintable"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Mailer struct {
	Recipient string
	Sender    string
	Host      string
	Port      int
	User      string
	Password  string
}

// NewMailer resolves SMTP credentials from the environment variables named
// in the config. Missing values leave the mailer unconfigured rather than
// failing; Configured reports whether sending is possible.
func NewMailer(recipient, sender, host string, port int, userEnv, passwordEnv string) *Mailer {
	return &Mailer{
		Recipient: recipient,
		Sender:    sender,
		Host:      host,
		Port:      port,
		User:      os.Getenv(userEnv),
		Password:  os.Getenv(passwordEnv),
	}
}

// Configured reports whether the mailer has everything it needs to send.
func (m *Mailer) Configured() bool {
	return m.Sender != "" && m.Recipient != "" && m.User != "" && m.Password != ""
}

// Send delivers a multipart/alternative message over SMTP with STARTTLS.
func (m *Mailer) Send(subject, textBody, htmlBody string) error {
	if !m.Configured() {
		return fmt.Errorf("SMTP credentials not configured")
	}

	msg, err := buildMessage(m.Sender, m.Recipient, subject, textBody, htmlBody)
	if err != nil {
		return fmt.Errorf("building message: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	auth := smtp.PlainAuth("", m.User, m.Password, m.Host)
	if err := smtp.SendMail(addr, auth, m.Sender, []string{m.Recipient}, msg); err != nil {
		return fmt.Errorf("sending to %s via %s: %w", m.Recipient, addr, err)
	}

	log.Printf("Digest sent to %s", m.Recipient)
	return nil
}

const mimeBoundary = "pensionwatch-alt-boundary"

// buildMessage assembles a multipart/alternative MIME message with a
// plain-text part followed by the HTML part, both quoted-printable.
func buildMessage(sender, recipient, subject, textBody, htmlBody string) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "From: Pension Monitor <%s>\r\n", sender)
	fmt.Fprintf(&b, "To: %s\r\n", recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", mimeBoundary)
	b.WriteString("\r\n")

	for _, part := range []struct {
		contentType string
		body        string
	}{
		{"text/plain", textBody},
		{"text/html", htmlBody},
	} {
		fmt.Fprintf(&b, "--%s\r\n", mimeBoundary)
		fmt.Fprintf(&b, "Content-Type: %s; charset=\"utf-8\"\r\n", part.contentType)
		b.WriteString("Content-Transfer-Encoding: quoted-printable\r\n")
		b.WriteString("\r\n")

		qp := quotedprintable.NewWriter(&b)
		if _, err := qp.Write([]byte(part.body)); err != nil {
			return nil, err
		}
		if err := qp.Close(); err != nil {
			return nil, err
		}
		b.WriteString("\r\n")
	}
	fmt.Fprintf(&b, "--%s--\r\n", mimeBoundary)

	return []byte(b.String()), nil
}

// WriteLatest writes the digest HTML to latest_digest.html in the data
// directory, overwriting the previous run's copy.
func WriteLatest(dataDir, html string) (string, error) {
	path := filepath.Join(dataDir, "latest_digest.html")
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

// WriteFallback saves the digest HTML to a dated file. Used when SMTP is not
// configured or sending failed.
func WriteFallback(dataDir, html string, now time.Time) (string, error) {
	path := filepath.Join(dataDir, fmt.Sprintf("digest_%s.html", now.UTC().Format("20060102")))
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
