// Package media talks to the host that stores image bytes. The rest of the
// service only keeps the URL and public id a host hands back.
package media

import (
	"context"
	"errors"
	"io"
)

var (
	ErrUnsupported  = errors.New("operation not supported by media host")
	ErrEmptyPayload = errors.New("nothing to upload")
)

// UploadInput describes one upload. Exactly one of Body or FilePath is used;
// FilePath wins when both are set. An empty PublicID lets the host choose.
type UploadInput struct {
	Body        io.Reader
	FilePath    string
	Filename    string
	ContentType string
	PublicID    string
	Overwrite   bool
}

type Asset struct {
	URL      string
	PublicID string
}

type Host interface {
	Upload(ctx context.Context, in UploadInput) (*Asset, error)
	// TransformURL returns the delivery URL of publicID with a host-side
	// transformation applied. No bytes are processed locally.
	TransformURL(ctx context.Context, publicID, transformation string) (string, error)
	Destroy(ctx context.Context, publicID string) error
}

func (in UploadInput) validate() error {
	if in.FilePath == "" && in.Body == nil {
		return ErrEmptyPayload
	}
	return nil
}
