package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/JonMunkholm/factoscope/internal/core"
	mw "github.com/JonMunkholm/factoscope/internal/web/middleware"
	"github.com/go-chi/chi/v5"
)

// maxJSONBody bounds question update payloads.
const maxJSONBody = 64 << 10

var errNoFile = errors.New("no file provided")

// csvContentTypes are the part types browsers send for .csv files.
var csvContentTypes = map[string]bool{
	"":                         true,
	"text/csv":                 true,
	"application/csv":          true,
	"application/x-csv":        true,
	"text/x-csv":               true,
	"text/plain":               true,
	"application/vnd.ms-excel": true,
	"application/octet-stream": true,
}

// upload is a multipart file read fully into memory.
type upload struct {
	name        string
	contentType string
	charset     string
	data        []byte
}

func (u upload) hasCSVExtension() bool {
	return strings.EqualFold(filepath.Ext(u.name), ".csv")
}

func (u upload) isCSVType() bool {
	return csvContentTypes[u.contentType]
}

// readUpload parses the multipart form and reads the "file" field. The body
// is capped at the configured upload size.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (upload, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		return upload{}, fmt.Errorf("parse form: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return upload{}, errNoFile
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return upload{}, fmt.Errorf("read %s: %w", header.Filename, err)
	}

	u := upload{name: header.Filename, data: data}
	if ct := header.Header.Get("Content-Type"); ct != "" {
		if mediaType, params, err := mime.ParseMediaType(ct); err == nil {
			u.contentType = strings.ToLower(mediaType)
			u.charset = params["charset"]
		} else {
			u.contentType = strings.ToLower(ct)
		}
	}
	return u, nil
}

// respondUploadError maps form errors: oversized bodies are 413, anything
// else about the form itself is the client's fault.
func (s *Server) respondUploadError(w http.ResponseWriter, r *http.Request, err error) {
	if bodyTooLarge(err) {
		s.respondErrorStatus(w, r, err, http.StatusRequestEntityTooLarge)
		return
	}
	s.respondErrorStatus(w, r, err, http.StatusBadRequest)
}

// bodyTooLarge reports whether err came from http.MaxBytesReader. The
// multipart reader does not always wrap it, so the message is checked too.
func bodyTooLarge(err error) bool {
	var maxBytes *http.MaxBytesError
	return errors.As(err, &maxBytes) || strings.Contains(err.Error(), "request body too large")
}

// idParam parses a positive integer URL parameter.
func idParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %s %q", core.ErrInvalidInput, name, raw)
	}
	return id, nil
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// withRequestMetadata stores the client IP for the import history.
func withRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	return core.ContextWithClientIP(ctx, mw.ClientIP(r))
}
