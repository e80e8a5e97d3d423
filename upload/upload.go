/*
Package upload defines the file-upload collaborator.

PURPOSE:
  The dashboard attaches a reference file to a contract by uploading it
  and storing the returned locator in the contract's file reference.
  Real cloud storage is not wired yet; Placeholder accepts any payload and
  answers with a fixed URL.

RESPONSE SHAPE:
  Every implementation answers with Result{ok, message, url}. Callers only
  rely on this shape, so a real backend can replace Placeholder without
  touching the contract core.

SEE ALSO:
  - api/handlers.go: POST /api/upload
*/
package upload

import (
	"context"
	"io"
)

// Defaults used by Placeholder.
const (
	PlaceholderURL     = "https://example.com/archivo-simulado.pdf"
	PlaceholderMessage = "Subida simulada. Implementar integración real con Drive/OneDrive."
)

// File is an uploaded payload.
type File struct {
	Name    string
	Size    int64
	Content io.Reader
}

// Result is the response of an upload.
type Result struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
	URL     string `json:"url,omitempty"`
}

// Uploader stores a file and returns where it can be retrieved.
type Uploader interface {
	Upload(ctx context.Context, f File) (Result, error)
}

// Placeholder reports success for any input and returns a fixed URL.
type Placeholder struct {
	URL     string
	Message string
}

// NewPlaceholder returns a Placeholder answering with url, or the default
// placeholder URL when url is blank.
func NewPlaceholder(url string) *Placeholder {
	if url == "" {
		url = PlaceholderURL
	}
	return &Placeholder{URL: url, Message: PlaceholderMessage}
}

// Upload drains the payload, if any, and returns the fixed result.
func (p *Placeholder) Upload(_ context.Context, f File) (Result, error) {
	if f.Content != nil {
		if _, err := io.Copy(io.Discard, f.Content); err != nil {
			return Result{}, err
		}
	}
	return Result{OK: true, Message: p.Message, URL: p.URL}, nil
}

var _ Uploader = (*Placeholder)(nil)
