// Package mediatest provides an in-memory media.Host for tests.
package mediatest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"photoshare/internal/pkg/media"
)

var ErrInjected = errors.New("injected media failure")

// Host records every call. Set the Fail* fields to make calls fail, and
// BeforeUpload to run code in the middle of an upload.
type Host struct {
	mu sync.Mutex

	Uploads    []media.UploadInput
	Payloads   map[string][]byte
	Transforms []string
	Destroyed  []string

	FailUpload    bool
	FailTransform bool
	FailDestroy   bool
	BeforeUpload  func(in media.UploadInput)
}

func New() *Host {
	return &Host{Payloads: map[string][]byte{}}
}

func (h *Host) Upload(_ context.Context, in media.UploadInput) (*media.Asset, error) {
	if h.BeforeUpload != nil {
		h.BeforeUpload(in)
	}

	var data []byte
	var err error
	switch {
	case in.FilePath != "":
		data, err = os.ReadFile(in.FilePath)
	case in.Body != nil:
		data, err = io.ReadAll(in.Body)
	}
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.Uploads = append(h.Uploads, in)
	if h.FailUpload {
		return nil, ErrInjected
	}
	id := in.PublicID
	if id == "" {
		id = fmt.Sprintf("auto/%d", len(h.Uploads))
	}
	h.Payloads[id] = data
	return &media.Asset{URL: "https://media.test/" + id, PublicID: id}, nil
}

func (h *Host) TransformURL(_ context.Context, publicID, transformation string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Transforms = append(h.Transforms, transformation)
	if h.FailTransform {
		return "", ErrInjected
	}
	return "https://media.test/" + transformation + "/" + publicID, nil
}

func (h *Host) Destroy(_ context.Context, publicID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Destroyed = append(h.Destroyed, publicID)
	if h.FailDestroy {
		return ErrInjected
	}
	return nil
}

func (h *Host) UploadCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.Uploads)
}
