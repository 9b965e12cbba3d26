package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultUploadDir  = "./uploads"
	DefaultPublicBase = "/static/uploads"
)

var (
	ErrAssetExists     = errors.New("asset already exists")
	ErrInvalidPublicID = errors.New("invalid public id")
)

// DiskHost keeps files on the local filesystem and serves them through a
// static route. Meant for development; it cannot transform images.
type DiskHost struct {
	baseDir    string
	publicBase string
}

func NewDiskHost(baseDir, publicBase string) *DiskHost {
	if baseDir == "" {
		baseDir = DefaultUploadDir
	}
	if publicBase == "" {
		publicBase = DefaultPublicBase
	}
	return &DiskHost{baseDir: baseDir, publicBase: strings.TrimRight(publicBase, "/")}
}

func (h *DiskHost) BaseDir() string { return h.baseDir }

func (h *DiskHost) Upload(ctx context.Context, in UploadInput) (*Asset, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	publicID := in.PublicID
	if publicID == "" {
		// uploads/YYYY/MM/DD/<uuid>_<name>
		now := time.Now()
		publicID = fmt.Sprintf("uploads/%d/%02d/%02d/%s_%s",
			now.Year(), now.Month(), now.Day(), uuid.New().String(), sanitizeName(in.Filename))
	}
	if err := checkPublicID(publicID); err != nil {
		return nil, err
	}

	existing, err := h.matches(publicID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		if !in.Overwrite {
			return nil, fmt.Errorf("%w: %s", ErrAssetExists, publicID)
		}
		for _, p := range existing {
			_ = os.Remove(p)
		}
	}

	ext := strings.ToLower(filepath.Ext(in.Filename))
	if ext == "" {
		ext = MimeToExt(in.ContentType)
	}
	relPath := publicID + ext
	absPath := filepath.Join(h.baseDir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	src := in.Body
	if in.FilePath != "" {
		f, err := os.Open(in.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open source: %w", err)
		}
		defer f.Close()
		src = f
	}

	dst, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(dst, contextReader{ctx: ctx, r: src}); err != nil {
		dst.Close()
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &Asset{URL: h.publicBase + "/" + relPath, PublicID: publicID}, nil
}

func (h *DiskHost) TransformURL(context.Context, string, string) (string, error) {
	return "", ErrUnsupported
}

// Destroy removes every stored file for publicID. A missing file is not an error.
func (h *DiskHost) Destroy(_ context.Context, publicID string) error {
	if err := checkPublicID(publicID); err != nil {
		return err
	}
	paths, err := h.matches(publicID)
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	return nil
}

func (h *DiskHost) matches(publicID string) ([]string, error) {
	base := filepath.Join(h.baseDir, filepath.FromSlash(publicID))
	found, err := filepath.Glob(base + ".*")
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(base); err == nil {
		found = append(found, base)
	}
	return found, nil
}

func checkPublicID(id string) error {
	if id == "" || strings.HasPrefix(id, "/") || strings.ContainsAny(id, `\*?[`) {
		return ErrInvalidPublicID
	}
	if path.Clean(id) != id || strings.HasPrefix(id, "../") || id == ".." {
		return ErrInvalidPublicID
	}
	return nil
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
