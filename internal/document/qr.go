package document

import (
	"context"
	"fmt"
	"image/color"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// QRSize is the raster edge length in pixels.
const QRSize = 256

// QREncoder rasterizes links as QR codes with Medium error correction on a
// transparent background.
type QREncoder struct {
	Size int
}

// NewQREncoder returns an encoder producing size×size PNGs.
func NewQREncoder(size int) *QREncoder {
	if size <= 0 {
		size = QRSize
	}
	return &QREncoder{Size: size}
}

// PendingQR is an encode in flight. Nothing can be drawn until Wait returns.
type PendingQR struct {
	done chan struct{}
	png  []byte
	err  error
}

// Start begins encoding content in the background.
func (e *QREncoder) Start(content string) *PendingQR {
	p := &PendingQR{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.png, p.err = e.Encode(content)
	}()
	return p
}

// Wait blocks until the PNG is ready or ctx ends.
func (p *PendingQR) Wait(ctx context.Context) ([]byte, error) {
	select {
	case <-p.done:
		return p.png, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Encode rasterizes content synchronously.
func (e *QREncoder) Encode(content string) ([]byte, error) {
	if content == "" {
		return nil, fmt.Errorf("qr: empty content")
	}
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("qr: encode: %w", err)
	}
	q.BackgroundColor = color.Transparent
	q.ForegroundColor = color.Black

	png, err := q.PNG(e.Size)
	if err != nil {
		return nil, fmt.Errorf("qr: png: %w", err)
	}
	return png, nil
}

// PublicURL is the viewer link printed in the QR code.
func PublicURL(base, invoiceID string, t Template, lang string) string {
	return fmt.Sprintf("%s/invoice/%s?style=%s&lang=%s",
		strings.TrimRight(base, "/"), url.PathEscape(invoiceID), url.QueryEscape(t.String()), url.QueryEscape(Language(lang)))
}
