package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"mindcheck/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrUnavailable marks failures of the storage backend itself
var ErrUnavailable = errors.New("export storage unavailable")

var ErrInvalidName = errors.New("invalid object name")

// Provider stores exported reports
type Provider interface {
	Upload(ctx context.Context, name string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, name string) error
	URL(name string) string
}

// New picks the provider named by cfg.Type
func New(cfg config.StorageConfig) (Provider, error) {
	switch cfg.Type {
	case "minio":
		return NewMinioProvider(cfg)
	case "local", "":
		return NewLocalProvider(cfg), nil
	}
	return nil, fmt.Errorf("unsupported storage type %q", cfg.Type)
}

// cleanName rejects names escaping the storage root
func cleanName(name string) (string, error) {
	clean := path.Clean("/" + filepath.ToSlash(name))[1:]
	if clean == "" || clean != strings.TrimPrefix(filepath.ToSlash(name), "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return clean, nil
}

// LocalProvider writes exports below a directory served over HTTP
type LocalProvider struct {
	root      string
	urlPrefix string
}

func NewLocalProvider(cfg config.StorageConfig) *LocalProvider {
	return &LocalProvider{root: cfg.LocalPath, urlPrefix: strings.TrimRight(cfg.LocalURLPrefix, "/")}
}

func (p *LocalProvider) Upload(ctx context.Context, name string, reader io.Reader, size int64, contentType string) (string, error) {
	name, err := cleanName(name)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(p.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return p.URL(name), nil
}

func (p *LocalProvider) Delete(ctx context.Context, name string) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	return os.Remove(filepath.Join(p.root, filepath.FromSlash(name)))
}

func (p *LocalProvider) URL(name string) string {
	return p.urlPrefix + "/" + strings.TrimPrefix(name, "/")
}

// Root is the directory exports are written to
func (p *LocalProvider) Root() string {
	return p.root
}

// MinioProvider stores exports in an S3-compatible bucket
type MinioProvider struct {
	bucket string
	client *minio.Client
}

func NewMinioProvider(cfg config.StorageConfig) (*MinioProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinioProvider{bucket: cfg.MinioBucket, client: client}, nil
}

// EnsureBucket creates the bucket when it does not exist yet
func (p *MinioProvider) EnsureBucket(ctx context.Context) error {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if exists {
		return nil
	}
	if err := p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (p *MinioProvider) Upload(ctx context.Context, name string, reader io.Reader, size int64, contentType string) (string, error) {
	name, err := cleanName(name)
	if err != nil {
		return "", err
	}
	_, err = p.client.PutObject(ctx, p.bucket, name, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return p.URL(name), nil
}

func (p *MinioProvider) Delete(ctx context.Context, name string) error {
	return p.client.RemoveObject(ctx, p.bucket, name, minio.RemoveObjectOptions{})
}

func (p *MinioProvider) URL(name string) string {
	u := *p.client.EndpointURL()
	u.Path = path.Join("/", p.bucket, name)
	return u.String()
}
