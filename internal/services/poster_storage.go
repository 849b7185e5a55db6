package services

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"movie-catalog/internal/config"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// PosterUpload is a presigned upload target and the URL the poster will be
// readable at once uploaded.
type PosterUpload struct {
	UploadURL string `json:"presigned_url"`
	PublicURL string `json:"public_url"`
	ObjectKey string `json:"object_key"`
}

// PosterStorage holds poster images referenced by Movie.Poster.
type PosterStorage interface {
	PresignUpload(ctx context.Context, filename, contentType string) (*PosterUpload, error)
	// ObjectKey returns the object key for a poster URL served from this
	// storage, or false when the URL points elsewhere.
	ObjectKey(posterURL string) (string, bool)
	Delete(ctx context.Context, objectKey string) error
}

// NewPosterStorage builds the backend selected by cfg.Driver. It returns nil
// when poster storage is disabled.
func NewPosterStorage(ctx context.Context, cfg *config.PosterStorageConfig, logger *logrus.Logger) (PosterStorage, error) {
	switch cfg.Driver {
	case config.PosterStorageNone, "":
		return nil, nil
	case config.PosterStorageMinIO:
		svc, err := NewMinIOService(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return svc, nil
	case config.PosterStorageS3:
		svc, err := NewS3Service(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return svc, nil
	default:
		return nil, fmt.Errorf("unsupported poster storage driver %q", cfg.Driver)
	}
}

// posterObjectKey names uploads uniquely while keeping the original stem readable.
func posterObjectKey(filename string) string {
	base := filepath.Base(filename)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	if stem == "" || stem == "." || stem == "/" {
		stem = "poster"
	}
	return fmt.Sprintf("posters/%s_%s%s", stem, uuid.New().String()[:8], ext)
}

// publicObjectURL joins the public base URL with bucket and key.
func publicObjectURL(publicBase, bucket, key string) string {
	return strings.TrimSuffix(publicBase, "/") + "/" + path.Join(bucket, key)
}

// objectKeyFromURL extracts the key of posterURL when it lives under
// publicBase/bucket/.
func objectKeyFromURL(publicBase, bucket, posterURL string) (string, bool) {
	if publicBase == "" || posterURL == "" {
		return "", false
	}
	base, err := url.Parse(publicBase)
	if err != nil {
		return "", false
	}
	u, err := url.Parse(posterURL)
	if err != nil || !strings.EqualFold(u.Host, base.Host) {
		return "", false
	}

	prefix := strings.TrimSuffix(base.Path, "/") + "/" + bucket + "/"
	if !strings.HasPrefix(u.Path, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(u.Path, prefix)
	if key == "" {
		return "", false
	}
	return key, true
}
