package email

import (
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// sendWithSendgrid delivers through the Sendgrid v3 API. Anything other than
// 202 Accepted is treated as a failed send.
func (s *Service) sendWithSendgrid(data EmailData, htmlContent, textContent string) error {
	message := mail.NewSingleEmail(
		mail.NewEmail(data.FromName, data.From),
		data.Subject,
		mail.NewEmail("", data.To),
		textContent,
		htmlContent,
	)

	response, err := s.sendgridClient.Send(message)
	if err != nil {
		return fmt.Errorf("sending email via Sendgrid: %w", err)
	}
	if response.StatusCode != http.StatusAccepted {
		return fmt.Errorf("unexpected Sendgrid status code: %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}
