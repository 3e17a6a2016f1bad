package core

import (
	"bytes"
	"embed"
	htmltmpl "html/template"
	"net/mail"
	"strings"
	"sync"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

//go:embed templates
var templateFS embed.FS

var (
	textTemplates *texttmpl.Template
	htmlTemplates *htmltmpl.Template
	tmplInit      sync.Once
	tmplInitErr   error
)

type (
	Attachment struct {
		Content     *bytes.Buffer
		ContentType string
		Filename    string
	}

	EmailMessage struct {
		To          []mail.Address
		Cc          []mail.Address
		Bcc         []mail.Address
		Subject     string
		BodyStr     string // simple text/plain, non-templated content
		Attachments []Attachment

		// templated contents
		TemplateName string // without ext
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	ContextData struct {
		FrontendBaseURL string
		Data            interface{}
	}

	// EmailService is any service that can send emails.
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

func loadTemplates() {
	textTemplates, tmplInitErr = texttmpl.ParseFS(templateFS, "templates/*.txt")
	if tmplInitErr != nil {
		return
	}
	htmlTemplates, tmplInitErr = htmltmpl.ParseFS(templateFS, "templates/*.html")
}

// Render executes the message's template (if any) into TextContent and HTMLContent.
func (m *EmailMessage) Render() error {
	if m.TemplateName == "" {
		m.TextContent = m.BodyStr
		return nil
	}
	tmplInit.Do(loadTemplates)
	if tmplInitErr != nil {
		return errors.Wrap(tmplInitErr, "parsing email templates")
	}

	data := ContextData{FrontendBaseURL: Conf.FrontendBaseURL, Data: m.TemplateData}

	var txt bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&txt, m.TemplateName+".txt", data); err != nil {
		return errors.Wrap(err, "executing text template "+m.TemplateName)
	}
	m.TextContent = txt.String()

	if t := htmlTemplates.Lookup(m.TemplateName + ".html"); t != nil {
		var html bytes.Buffer
		if err := t.Execute(&html, data); err != nil {
			return errors.Wrap(err, "executing html template "+m.TemplateName)
		}
		m.HTMLContent = html.String()
	}
	return nil
}

func (m *EmailMessage) HasRecipients() bool {
	return len(m.To) > 0 || len(m.Cc) > 0 || len(m.Bcc) > 0
}

func (m *EmailMessage) HasContent() bool {
	return strings.TrimSpace(m.BodyStr) != "" ||
		strings.TrimSpace(m.TextContent) != "" ||
		strings.TrimSpace(m.HTMLContent) != ""
}

func (m *EmailMessage) HasAttachments() bool {
	return len(m.Attachments) > 0
}
