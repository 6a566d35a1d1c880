// Package form reads multipart uploads fully into memory with a size cap.
package form

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// multipartOverhead leaves room for boundaries and the text fields sent with a file.
const multipartOverhead = 1 << 20

var (
	// ErrMissingFile is returned when the request carries no file part under the field name.
	ErrMissingFile = errors.New("file is required")
	// ErrTooLarge is returned when the body or the file exceeds the configured cap.
	ErrTooLarge = errors.New("file too large")
)

// File is an uploaded file buffered in memory.
type File struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Size returns the byte length of the file.
func (f *File) Size() int64 { return int64(len(f.Data)) }

// Parse caps the request body and parses the multipart form in memory.
// A non-multipart body is not an error; it simply has no file parts.
func Parse(w http.ResponseWriter, r *http.Request, maxFileBytes int64) error {
	limit := maxFileBytes + multipartOverhead
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	err := r.ParseMultipartForm(limit)
	switch {
	case err == nil, errors.Is(err, http.ErrNotMultipart):
		return nil
	case isTooLarge(err):
		return ErrTooLarge
	default:
		return fmt.Errorf("parse multipart form: %w", err)
	}
}

// ReadFile returns the file part named field. Parse must have been called.
func ReadFile(r *http.Request, field string, maxFileBytes int64) (*File, error) {
	if r.MultipartForm == nil {
		return nil, ErrMissingFile
	}
	part, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, ErrMissingFile
		}
		return nil, fmt.Errorf("read form file %q: %w", field, err)
	}
	defer part.Close()

	if header.Size > maxFileBytes {
		return nil, ErrTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(part, maxFileBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read form file %q: %w", field, err)
	}
	if int64(len(data)) > maxFileBytes {
		return nil, ErrTooLarge
	}

	return &File{
		Filename:    header.Filename,
		ContentType: DetectContentType(header.Header.Get("Content-Type"), data),
		Data:        data,
	}, nil
}

// DetectContentType returns declared, or a type sniffed from data when declared is empty.
func DetectContentType(declared string, data []byte) string {
	if declared = strings.TrimSpace(declared); declared != "" {
		return declared
	}
	return http.DetectContentType(data)
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "request body too large") || strings.Contains(msg, "message too large")
}
