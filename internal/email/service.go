// internal/email/service.go
package email

import (
	"bytes"
	"fmt"
	"html/template"

	staffhub "github.com/staffhubhq/staffhub"
	"github.com/staffhubhq/staffhub/internal/config"
	"github.com/sendgrid/sendgrid-go"
)

var templateFS = staffhub.EmailFS

// Provider selects the outbound delivery mechanism.
type Provider string

const (
	ProviderSMTP     Provider = "smtp"
	ProviderSendgrid Provider = "sendgrid"

	templateRoot = "templates/emails"
)

// EmailData describes one outbound message. TemplateName selects a template
// group under templates/emails; TemplateData is handed to both renderings.
type EmailData struct {
	To           string
	From         string
	FromName     string
	Subject      string
	TemplateName string
	TemplateData interface{}
}

// Service renders embedded templates and delivers mail through the
// configured provider. Every message is sent as multipart HTML + plaintext.
type Service struct {
	config         *config.Config
	provider       Provider
	sendgridClient *sendgrid.Client
	templates      map[string]*templatePair
}

type templatePair struct {
	html      *template.Template
	plaintext *template.Template
}

func NewEmailService(config *config.Config, provider Provider) (*Service, error) {
	s := &Service{
		config:    config,
		provider:  provider,
		templates: make(map[string]*templatePair),
	}
	if provider == ProviderSendgrid {
		s.sendgridClient = sendgrid.NewSendClient(config.Sendgrid.APIKey)
	}

	if err := s.loadTemplates(); err != nil {
		return nil, fmt.Errorf("loading email templates: %w", err)
	}
	return s, nil
}

// loadTemplates walks the embedded template tree. Each message group is a
// directory holding html.tmpl and plaintext.tmpl; both must parse at startup
// so a broken template can never surface at send time.
func (s *Service) loadTemplates() error {
	groups, err := templateFS.ReadDir(templateRoot)
	if err != nil {
		return fmt.Errorf("reading %s: %w", templateRoot, err)
	}
	if len(groups) == 0 {
		return fmt.Errorf("no email templates embedded under %s", templateRoot)
	}

	for _, group := range groups {
		if !group.IsDir() {
			continue
		}
		dir := templateRoot + "/" + group.Name()

		htmlTmpl, err := template.ParseFS(templateFS, dir+"/html.tmpl")
		if err != nil {
			return fmt.Errorf("template group %s: %w", group.Name(), err)
		}
		textTmpl, err := template.ParseFS(templateFS, dir+"/plaintext.tmpl")
		if err != nil {
			return fmt.Errorf("template group %s: %w", group.Name(), err)
		}

		s.templates[group.Name()] = &templatePair{html: htmlTmpl, plaintext: textTmpl}
	}
	return nil
}

// SendEmail renders the named template pair and delivers the message.
func (s *Service) SendEmail(data EmailData) error {
	htmlContent, textContent, err := s.render(data.TemplateName, data.TemplateData)
	if err != nil {
		return err
	}

	switch s.provider {
	case ProviderSendgrid:
		if data.From == "" {
			data.From = s.config.Sendgrid.From
		}
		return s.sendWithSendgrid(data, htmlContent, textContent)
	case ProviderSMTP:
		if data.From == "" {
			return fmt.Errorf("missing sender email address (From)")
		}
		return s.sendWithSMTP(data, htmlContent, textContent)
	default:
		return fmt.Errorf("unsupported email provider: %s", s.provider)
	}
}

// HasTemplate reports whether a template group was embedded.
func (s *Service) HasTemplate(name string) bool {
	_, ok := s.templates[name]
	return ok
}

func (s *Service) render(name string, data interface{}) (string, string, error) {
	pair, ok := s.templates[name]
	if !ok {
		return "", "", fmt.Errorf("email template %q not found", name)
	}

	var htmlBuf, textBuf bytes.Buffer
	if err := pair.html.Execute(&htmlBuf, data); err != nil {
		return "", "", fmt.Errorf("rendering %s html: %w", name, err)
	}
	if err := pair.plaintext.Execute(&textBuf, data); err != nil {
		return "", "", fmt.Errorf("rendering %s plaintext: %w", name, err)
	}
	return htmlBuf.String(), textBuf.String(), nil
}
