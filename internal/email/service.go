package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// Service composes transactional messages and hands them to a Sender.
type Service struct {
	sender    Sender
	logger    *slog.Logger
	templates map[string]*template.Template
}

// NewService parses the embedded templates.
func NewService(sender Sender, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	layout, err := template.ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email layout: %w", err)
	}

	pages := map[string]*template.Template{}
	for _, name := range []string{InvoiceEmail{}.TemplateName()} {
		clone, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		t, err := clone.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse email template %s: %w", name, err)
		}
		pages[name] = t
	}

	return &Service{sender: sender, logger: logger, templates: pages}, nil
}

// SendInvoice mails the rendered invoice PDF to the client.
func (s *Service) SendInvoice(ctx context.Context, data InvoiceEmail) (string, error) {
	if strings.TrimSpace(data.To) == "" {
		return "", ErrNoRecipient
	}

	htmlBody, textBody, err := s.render(data.TemplateName(), data)
	if err != nil {
		return "", err
	}

	msg := &Email{
		To:       []string{data.To},
		ReplyTo:  data.ReplyTo,
		Subject:  data.Subject(),
		HTMLBody: htmlBody,
		TextBody: textBody,
	}
	if len(data.PDF) > 0 {
		msg.Attachments = []Attachment{data.attachment()}
	}

	id, err := s.sender.Send(ctx, msg)
	if err != nil {
		return "", err
	}

	s.logger.InfoContext(ctx, "invoice email sent",
		"invoice", data.Number,
		"message_id", id)
	return id, nil
}

func (s *Service) render(name string, data interface{ Subject() string }) (string, string, error) {
	t, ok := s.templates[name]
	if !ok {
		return "", "", ErrTemplateNotFound(name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "email_layout", data); err != nil {
		return "", "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	htmlBody := buf.String()
	return htmlBody, generatePlainText(htmlBody), nil
}

// generatePlainText creates a simple plain text version from HTML
func generatePlainText(html string) string {
	text := html

	for _, tag := range []string{"<br>", "<br/>", "<br />", "</div>", "</tr>"} {
		text = strings.ReplaceAll(text, tag, "\n")
	}
	for _, tag := range []string{"</p>", "</h1>", "</h2>", "</h3>"} {
		text = strings.ReplaceAll(text, tag, "\n\n")
	}
	text = strings.ReplaceAll(text, "</td>", " ")

	for strings.Contains(text, "<") && strings.Contains(text, ">") {
		start := strings.Index(text, "<")
		end := strings.Index(text, ">")
		if start >= 0 && end > start {
			text = text[:start] + text[end+1:]
		} else {
			break
		}
	}

	replacer := strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", "\"",
		"&#34;", "\"",
		"&#39;", "'",
	)
	text = replacer.Replace(text)

	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n")
}
