// internal/email/mailer/invitation.go
package mailer

import "github.com/staffhubhq/staffhub/internal/email"

// InvitationTemplateData contains data for the invitation email template
type InvitationTemplateData struct {
	OrganizationName string
	InviterName      string
	RoleName         string
	InvitationLink   string
	ExpiresAt        string
}

// SendInvitationEmail sends an onboarding invitation to a prospective user
func SendInvitationEmail(s *email.Service, to string, data InvitationTemplateData) error {
	emailData := email.EmailData{
		To:           to,
		FromName:     "StaffHub",
		Subject:      "You've been invited to join " + data.OrganizationName + " on StaffHub",
		TemplateName: "invitation",
		TemplateData: data,
	}

	return s.SendEmail(emailData)
}
