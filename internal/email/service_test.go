// internal/email/service_test.go
package email

import (
	"strings"
	"testing"

	"github.com/staffhubhq/staffhub/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := NewEmailService(&config.Config{}, ProviderSMTP)
	require.NoError(t, err)
	return s
}

func TestLoadTemplates(t *testing.T) {
	s := newTestService(t)

	assert.True(t, s.HasTemplate("invitation"))
	assert.True(t, s.HasTemplate("welcome"))
	assert.False(t, s.HasTemplate("password_reset"))
}

func TestRenderInvitation(t *testing.T) {
	s := newTestService(t)

	html, text, err := s.render("invitation", map[string]string{
		"OrganizationName": "Acme Corp",
		"InviterName":      "Jordan Smith",
		"RoleName":         "staff",
		"InvitationLink":   "https://staffhub.test/invitations/abc123",
		"ExpiresAt":        "June 19, 2025",
	})
	require.NoError(t, err)

	for _, content := range []string{html, text} {
		assert.Contains(t, content, "Acme Corp")
		assert.Contains(t, content, "Jordan Smith")
		assert.Contains(t, content, "https://staffhub.test/invitations/abc123")
	}
	assert.True(t, strings.Contains(html, "<") && !strings.Contains(text, "<html"))
}

func TestRenderUnknownTemplate(t *testing.T) {
	s := newTestService(t)

	_, _, err := s.render("nonexistent", nil)
	assert.ErrorContains(t, err, "not found")
}

func TestSendEmailUnknownProvider(t *testing.T) {
	s := newTestService(t)
	s.provider = Provider("carrier-pigeon")

	err := s.SendEmail(EmailData{TemplateName: "welcome", TemplateData: map[string]string{}})
	assert.ErrorContains(t, err, "unsupported email provider")
}
