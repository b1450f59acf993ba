package utils

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const maxUploadBytes = 10 << 20 // 10 MiB

var allowedPhotoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// StagedPhoto is a multipart upload parked on local disk so the asset client
// can stream it to the external store.
type StagedPhoto struct {
	Path string
}

// Remove deletes the staged file. Safe to call on a nil receiver.
func (p *StagedPhoto) Remove() {
	if p == nil {
		return
	}

	if err := os.Remove(p.Path); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove staged upload", slog.String("path", p.Path), slog.String("error", err.Error()))
	}
}

// StagePhotoUpload pulls the named file field out of a multipart form and
// writes it to the OS temp dir under a fresh name. A missing field is not an
// error; it returns (nil, nil) so callers can treat the photo as optional.
func StagePhotoUpload(r *http.Request, field string) (*StagedPhoto, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, fmt.Errorf("failed to parse multipart form: %w", err)
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to read file field %q: %w", field, err)
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedPhotoExtensions[ext] {
		return nil, fmt.Errorf("unsupported photo type %q", ext)
	}

	dest, err := os.Create(filepath.Join(os.TempDir(), uuid.NewString()+ext))
	if err != nil {
		return nil, fmt.Errorf("failed to create staging file: %w", err)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, file); err != nil {
		os.Remove(dest.Name())

		return nil, fmt.Errorf("failed to stage upload: %w", err)
	}

	return &StagedPhoto{Path: dest.Name()}, nil
}
