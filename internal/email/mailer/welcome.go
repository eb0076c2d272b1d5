// internal/email/mailer/welcome.go
package mailer

import "github.com/staffhubhq/staffhub/internal/email"

// WelcomeTemplateData contains data for the welcome email template
type WelcomeTemplateData struct {
	FirstName        string
	OrganizationName string
	DashboardLink    string
}

// SendWelcomeEmail greets a newly registered organization owner
func SendWelcomeEmail(s *email.Service, to string, data WelcomeTemplateData) error {
	emailData := email.EmailData{
		To:           to,
		FromName:     "StaffHub",
		Subject:      "Welcome to StaffHub!",
		TemplateName: "welcome",
		TemplateData: data,
	}

	return s.SendEmail(emailData)
}
