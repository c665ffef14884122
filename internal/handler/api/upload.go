package api

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/dukerupert/fakturo/internal/domain"
	"github.com/dukerupert/fakturo/internal/service"
)

// formFile reads the "file" part of a multipart upload. The caller closes
// the returned file.
func formFile(w http.ResponseWriter, r *http.Request) (domain.Upload, multipart.File, error) {
	const op = "upload.read"

	r.Body = http.MaxBytesReader(w, r.Body, service.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.Upload{}, nil, service.ErrUploadTooLarge
		}
		return domain.Upload{}, nil, domain.Invalid(op, "Expected a multipart form upload")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return domain.Upload{}, nil, domain.NewValidationError(op, "file", "A file is required")
	}

	return domain.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}, file, nil
}
