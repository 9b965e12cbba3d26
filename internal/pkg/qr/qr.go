// Package qr renders QR symbols to PNG artifacts on local disk.
package qr

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

const DefaultSize = 256

var ErrEmptyData = errors.New("qr: nothing to encode")

type Renderer struct {
	size  int
	level qrcode.RecoveryLevel
	dir   string
}

type Option func(*Renderer)

func WithSize(px int) Option { return func(r *Renderer) { r.size = px } }

// WithTempDir sets where artifacts are written. Defaults to os.TempDir().
func WithTempDir(dir string) Option { return func(r *Renderer) { r.dir = dir } }

func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{size: DefaultSize, level: qrcode.Medium}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Encode returns the PNG bytes of a QR symbol holding data.
func (r *Renderer) Encode(data string) ([]byte, error) {
	if data == "" {
		return nil, ErrEmptyData
	}
	png, err := qrcode.Encode(data, r.level, r.size)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}
	return png, nil
}

// Artifact is a rendered PNG on disk. Callers must defer Cleanup.
type Artifact struct {
	Path string
}

// Cleanup removes the file. Failures are logged and swallowed.
func (a *Artifact) Cleanup() {
	if a == nil || a.Path == "" {
		return
	}
	if err := os.Remove(a.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("qr_cleanup_failed path=%s err=%v", a.Path, err)
	}
}

// Render writes the symbol for data to a uniquely named temp file.
func (r *Renderer) Render(data string) (*Artifact, error) {
	png, err := r.Encode(data)
	if err != nil {
		return nil, err
	}

	dir := r.dir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, "qr_"+uuid.New().String()+".png")
	if err := os.WriteFile(path, png, 0o600); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("qr write: %w", err)
	}
	return &Artifact{Path: path}, nil
}
