// Package storage provides the blob-backed implementation of the
// FileStorage service used for product images, Aadhaar scans and
// generated QR codes.
package storage

import (
	"context"
	"io"
	"os"
	"path"
	"strings"

	"acharwala/config"
	"acharwala/internal/domain/lifecycle"
	"acharwala/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/gcerrors"
)

type blobStorage struct {
	bucket    *blob.Bucket
	urlPrefix string
}

// NewFileStorage opens a local file-backed bucket for uploads and
// registers its shutdown with the fx lifecycle.
func NewFileStorage(lc fx.Lifecycle, cfg *config.Config) (service.FileStorage, error) {
	if cfg.Uploads == nil || cfg.Uploads.Dir == "" {
		return nil, errors.New("uploads configuration must be provided")
	}

	if err := os.MkdirAll(cfg.Uploads.Dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create uploads dir")
	}

	bucket, err := fileblob.OpenBucket(cfg.Uploads.Dir, nil)
	if err != nil {
		return nil, errors.Wrap(err, "open uploads bucket")
	}

	urlPrefix := strings.TrimSuffix(cfg.Uploads.URLPrefix, "/")
	if urlPrefix == "" {
		urlPrefix = "/uploads"
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
			defer cancel()

			return bucket.Close()
		},
	})

	return &blobStorage{bucket: bucket, urlPrefix: urlPrefix}, nil
}

// Save writes the object under a unique key and returns its public URL.
func (s *blobStorage) Save(ctx context.Context, fileName, contentType string, content io.Reader) (string, error) {
	key := uuid.New().String() + "_" + sanitizeFileName(fileName)

	writer, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrap(err, "open blob writer")
	}

	if _, err := io.Copy(writer, content); err != nil {
		_ = writer.Close()

		return "", errors.Wrap(err, "write blob")
	}
	if err := writer.Close(); err != nil {
		return "", errors.Wrap(err, "close blob writer")
	}

	return s.urlPrefix + "/" + key, nil
}

// Delete removes a previously stored object by its public URL.
func (s *blobStorage) Delete(ctx context.Context, url string) error {
	if !strings.HasPrefix(url, s.urlPrefix+"/") {
		return nil
	}

	key := strings.TrimPrefix(url, s.urlPrefix+"/")
	err := s.bucket.Delete(ctx, key)
	if err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return errors.Wrap(err, "delete blob")
	}

	return nil
}

// sanitizeFileName keeps only the base name and replaces path-hostile characters.
func sanitizeFileName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, base)
	if base == "" || base == "." {
		base = "file"
	}

	return base
}
