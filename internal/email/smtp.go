package email

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/smtp"
	"time"
)

// sendWithSMTP delivers through a plain SMTP relay. It is the fallback path
// for deployments without a Sendgrid key; when a key is configured the
// message is routed back through the API sender.
func (s *Service) sendWithSMTP(data EmailData, htmlContent, textContent string) error {
	if s.config.Sendgrid.APIKey != "" {
		return s.sendWithSendgrid(data, htmlContent, textContent)
	}

	relay := s.config.SMTP[string(s.provider)]
	body := buildMultipartBody(data, htmlContent, textContent)

	auth := smtp.PlainAuth("", relay.Username, relay.Password, relay.Host)
	addr := fmt.Sprintf("%s:%d", relay.Host, relay.Port)

	if err := smtp.SendMail(addr, auth, data.From, []string{data.To}, body); err != nil {
		return fmt.Errorf("sending email via SMTP: %w", err)
	}
	return nil
}

// buildMultipartBody assembles a multipart/alternative message with base64
// encoded plaintext and HTML parts.
func buildMultipartBody(data EmailData, htmlContent, textContent string) []byte {
	boundary := fmt.Sprintf("_MULTIPART_MIXED_BOUNDARY_%d", time.Now().UnixNano())

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s <%s>\r\n", data.FromName, data.From)
	fmt.Fprintf(&buf, "To: %s\r\n", data.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", data.Subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)

	writePart := func(contentType, content string) {
		fmt.Fprintf(&buf, "--%s\r\n", boundary)
		fmt.Fprintf(&buf, "Content-Type: %s; charset=utf-8\r\n", contentType)
		buf.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")
		buf.WriteString(base64.StdEncoding.EncodeToString([]byte(content)))
		buf.WriteString("\r\n\r\n")
	}
	writePart("text/plain", textContent)
	writePart("text/html", htmlContent)

	fmt.Fprintf(&buf, "--%s--", boundary)
	return buf.Bytes()
}
