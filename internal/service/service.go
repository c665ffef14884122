// Package service implements the domain services on top of the stores.
//
// Every method that touches business-owned data reads the business id from
// the Session in ctx (domain.RequireBusinessID); services hold no tenant
// state of their own.
package service

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/dukerupert/fakturo/internal/storage"
)

// MaxUploadSize bounds logo and item image uploads.
const MaxUploadSize = 5 << 20

// Stores bundles the persistence dependencies.
type Stores struct {
	Businesses domain.BusinessStore
	Clients    domain.ClientStore
	Items      domain.ItemStore
	Invoices   domain.InvoiceStore
	Deliveries domain.DeliveryStore
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}

// readUpload buffers an upload, refusing anything over MaxUploadSize, and
// returns the storage extension for its content type.
func readUpload(u domain.Upload) ([]byte, string, error) {
	ext, err := storage.ImageExtension(u.ContentType)
	if err != nil {
		return nil, "", err
	}
	if u.Size > MaxUploadSize {
		return nil, "", ErrUploadTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(u.Body, MaxUploadSize+1))
	if err != nil {
		return nil, "", domain.Internal(err, "upload.read", "failed to read upload")
	}
	if len(data) > MaxUploadSize {
		return nil, "", ErrUploadTooLarge
	}
	return data, ext, nil
}

// replaceObject stores data under key and removes the previous object.
// A failed delete only leaves an orphan behind, so it is logged.
func replaceObject(ctx context.Context, store storage.Storage, logger *slog.Logger, key, oldKey, contentType string, data []byte) (string, error) {
	url, err := store.Put(ctx, key, bytes.NewReader(data), contentType)
	if err != nil {
		return "", err
	}
	if oldKey != "" && oldKey != key {
		if err := store.Delete(ctx, oldKey); err != nil {
			logger.WarnContext(ctx, "failed to delete replaced object", "key", oldKey, "error", err)
		}
	}
	return url, nil
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
