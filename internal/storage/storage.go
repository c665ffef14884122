// Package storage keeps uploaded business logos and item images.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/dukerupert/fakturo/internal"
	"github.com/google/uuid"
)

// Storage is a flat key/value blob store.
type Storage interface {
	// Put stores content under key and returns its public URL.
	Put(ctx context.Context, key string, content io.Reader, contentType string) (string, error)

	// Get opens the object at key. The caller closes it.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	URL(key string) string

	Exists(ctx context.Context, key string) (bool, error)
}

// NewStorage builds the provider named in cfg.
func NewStorage(ctx context.Context, cfg internal.StorageConfig) (Storage, error) {
	switch cfg.Provider {
	case "local", "":
		return NewLocalStorage(cfg.LocalPath, cfg.LocalURL)
	case "r2":
		return NewR2Storage(ctx, R2Config{
			AccountID:   cfg.R2AccountID,
			AccessKeyID: cfg.R2AccessKeyID,
			SecretKey:   cfg.R2SecretKey,
			BucketName:  cfg.R2BucketName,
			PublicURL:   cfg.R2PublicURL,
		})
	case "minio":
		return NewMinioStorage(ctx, MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
			PublicURL: cfg.MinioPublicURL,
		})
	default:
		return nil, ErrUnknownProvider(cfg.Provider)
	}
}

// Image types accepted for logos and item images, by content type.
var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
}

// ImageExtension returns the file extension for an accepted image content
// type, or ErrUnsupportedImage.
func ImageExtension(contentType string) (string, error) {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	if ext, ok := imageExtensions[ct]; ok {
		return ext, nil
	}
	return "", ErrUnsupportedImage(contentType)
}

// LogoKey is where a business logo lives. A fresh id per upload keeps
// cached URLs from serving a stale logo.
func LogoKey(businessID uuid.UUID, ext string) string {
	return path.Join("businesses", businessID.String(), fmt.Sprintf("logo-%s%s", uuid.NewString(), ext))
}

// ItemImageKey is where an item's image lives.
func ItemImageKey(businessID, itemID uuid.UUID, ext string) string {
	return path.Join("businesses", businessID.String(), "items", fmt.Sprintf("%s-%s%s", itemID, uuid.NewString(), ext))
}

// cleanKey rejects keys that would escape the store root.
func cleanKey(key string) (string, error) {
	k := path.Clean("/" + strings.TrimSpace(key))[1:]
	if k == "" || k != strings.TrimPrefix(key, "/") {
		return "", ErrInvalidKey(key)
	}
	return k, nil
}
