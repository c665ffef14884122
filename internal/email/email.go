package email

import "context"

// Email represents an email message to be sent.
type Email struct {
	To          []string
	From        string
	ReplyTo     string
	Subject     string
	TextBody    string
	HTMLBody    string
	Attachments []Attachment
	Headers     map[string]string
}

// Attachment represents a file attachment for an email.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Sender delivers a composed message and returns a provider message id
// when one is available.
type Sender interface {
	Send(ctx context.Context, email *Email) (string, error)
}
