package email

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePlainText(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		contains []string
		excludes []string
	}{
		{
			name:     "simple paragraph",
			html:     "<p>Hello, World!</p>",
			contains: []string{"Hello, World!"},
			excludes: []string{"<p>", "</p>"},
		},
		{
			name:     "line breaks",
			html:     "Line 1<br>Line 2<br/>Line 3<br />Line 4",
			contains: []string{"Line 1", "Line 2", "Line 3", "Line 4"},
			excludes: []string{"<br>", "<br/>", "<br />"},
		},
		{
			name:     "headings",
			html:     "<h1>Title</h1><h2>Subtitle</h2><h3>Section</h3>",
			contains: []string{"Title", "Subtitle", "Section"},
			excludes: []string{"<h1>", "</h1>", "<h2>", "</h2>", "<h3>", "</h3>"},
		},
		{
			name:     "nested tags",
			html:     "<div><p><strong>Bold text</strong> and <em>italic</em></p></div>",
			contains: []string{"Bold text", "and", "italic"},
			excludes: []string{"<div>", "<p>", "<strong>", "<em>"},
		},
		{
			name:     "HTML entities",
			html:     "Total: $10 &amp; delivery &nbsp; included &lt;$5&gt; &quot;net 30&quot;",
			contains: []string{"Total: $10 & delivery", "included <$5>", "\"net 30\""},
			excludes: []string{"&amp;", "&nbsp;", "&lt;", "&gt;", "&quot;"},
		},
		{
			name:     "links stripped",
			html:     `<a href="https://example.com">Click here</a>`,
			contains: []string{"Click here"},
			excludes: []string{"<a", "href", "</a>"},
		},
		{
			name:     "empty content",
			html:     "",
			contains: []string{},
			excludes: []string{},
		},
		{
			name: "email template structure",
			html: `
				<div class="email-content">
					<h2>Invoice INV-00042</h2>
					<p>Please find your invoice attached.</p>
					<p>Open <a href="https://example.com/invoice/1">the invoice</a> online.</p>
				</div>
			`,
			contains: []string{"Invoice INV-00042", "Please find your invoice attached.", "the invoice", "online."},
			excludes: []string{"<div", "<h2>", "<p>", "<a href"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := generatePlainText(tt.html)

			for _, want := range tt.contains {
				if !strings.Contains(result, want) {
					t.Errorf("generatePlainText() result should contain %q, got: %q", want, result)
				}
			}

			for _, exclude := range tt.excludes {
				if strings.Contains(result, exclude) {
					t.Errorf("generatePlainText() result should not contain %q, got: %q", exclude, result)
				}
			}
		})
	}
}

func TestGeneratePlainText_WhitespaceHandling(t *testing.T) {
	html := `
		<p>   Line with spaces   </p>
		<p></p>
		<p>Another line</p>
	`

	result := generatePlainText(html)

	// Should not have empty lines (they get filtered)
	lines := strings.Split(result, "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) == "" && line != "" {
			t.Error("generatePlainText() should not have blank lines with only whitespace")
		}
	}

	// Should contain the actual content
	if !strings.Contains(result, "Line with spaces") {
		t.Error("generatePlainText() should contain trimmed content")
	}
	if !strings.Contains(result, "Another line") {
		t.Error("generatePlainText() should contain 'Another line'")
	}
}

type fakeSender struct {
	sent []*Email
	err  error
}

func (f *fakeSender) Send(ctx context.Context, email *Email) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, email)
	return "msg-1", nil
}

func TestService_SendInvoice(t *testing.T) {
	sender := &fakeSender{}
	svc, err := NewService(sender, nil)
	require.NoError(t, err)

	id, err := svc.SendInvoice(context.Background(), InvoiceEmail{
		To:           "ana@example.com",
		ReplyTo:      "billing@acme.test",
		BusinessName: "Acme & Co",
		ClientName:   "Ana",
		Number:       "INV-00042",
		Total:        "$ 1,234.50",
		DueDate:      "2026-02-01",
		Message:      "Thanks for your business",
		ViewURL:      "https://view.example.com/invoice/abc?style=classic&lang=en",
		PDF:          []byte("%PDF-1.3"),
	})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, []string{"ana@example.com"}, msg.To)
	assert.Equal(t, "billing@acme.test", msg.ReplyTo)
	assert.Equal(t, "Invoice INV-00042 from Acme & Co", msg.Subject)
	assert.Contains(t, msg.HTMLBody, "$ 1,234.50")
	assert.Contains(t, msg.HTMLBody, "Acme &amp; Co")
	assert.Contains(t, msg.TextBody, "Thanks for your business")
	assert.Contains(t, msg.TextBody, "Acme & Co")

	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "inv-00042.pdf", msg.Attachments[0].Filename)
	assert.Equal(t, "application/pdf", msg.Attachments[0].ContentType)
}

func TestService_SendInvoice_Language(t *testing.T) {
	sender := &fakeSender{}
	svc, err := NewService(sender, nil)
	require.NoError(t, err)

	_, err = svc.SendInvoice(context.Background(), InvoiceEmail{
		To:           "luis@example.com",
		BusinessName: "Taller Sur",
		Number:       "INV-00007",
		Language:     "es",
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Factura INV-00007 de Taller Sur", sender.sent[0].Subject)
	assert.Contains(t, sender.sent[0].HTMLBody, `lang="es"`)
	assert.Empty(t, sender.sent[0].Attachments)
}

func TestService_SendInvoice_Errors(t *testing.T) {
	svc, err := NewService(&fakeSender{}, nil)
	require.NoError(t, err)

	_, err = svc.SendInvoice(context.Background(), InvoiceEmail{To: "  "})
	assert.ErrorIs(t, err, ErrNoRecipient)

	boom := errors.New("connection refused")
	svc, err = NewService(&fakeSender{err: boom}, nil)
	require.NoError(t, err)
	_, err = svc.SendInvoice(context.Background(), InvoiceEmail{To: "a@example.com", Number: "INV-00001"})
	assert.ErrorIs(t, err, boom)
}

func TestInvoiceEmail_UnknownLanguage(t *testing.T) {
	e := InvoiceEmail{Number: "INV-00003", BusinessName: "Acme", Language: "de"}
	assert.Equal(t, "en", e.Lang())
	assert.Equal(t, "Invoice INV-00003 from Acme", e.Subject())
}
