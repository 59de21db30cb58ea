package media

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ebgreentek/core/internal/config"
)

// Storage keeps uploaded objects. Keys are slash separated and relative,
// such as "uploads/2024/05/01/<id>.png".
type Storage interface {
	Name() string
	Put(ctx context.Context, key string, data []byte, contentType string) (publicURL string, err error)
	Delete(ctx context.Context, key string) error
}

// NewStorage picks S3 when it is enabled in cfg and local disk otherwise.
func NewStorage(cfg *config.AppConfig) (Storage, error) {
	if cfg.S3.Enable {
		return NewS3Storage(cfg.S3)
	}
	return NewLocalStorage(cfg.StaticDir(), cfg.PublicURL), nil
}

// LocalStorage writes objects below the static directory, which the server
// exposes under /static.
type LocalStorage struct {
	root    string
	baseURL string
}

func NewLocalStorage(root, publicURL string) *LocalStorage {
	return &LocalStorage{root: root, baseURL: strings.TrimRight(publicURL, "/") + "/static"}
}

func (l *LocalStorage) Name() string { return "local" }

func (l *LocalStorage) path(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(l.root, filepath.FromSlash(clean)), nil
}

func (l *LocalStorage) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	dest, err := l.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", err
	}
	return l.baseURL + "/" + strings.TrimPrefix(path.Clean("/"+key), "/"), nil
}

func (l *LocalStorage) Delete(_ context.Context, key string) error {
	dest, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// S3Storage writes objects to an S3-compatible bucket.
type S3Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewS3Storage(opts config.S3Config) (*S3Storage, error) {
	bucket := strings.TrimSpace(opts.Bucket)
	region := strings.TrimSpace(opts.Region)
	if bucket == "" || region == "" {
		return nil, fmt.Errorf("incomplete s3 config: bucket and region are required")
	}

	awsCfg := aws.Config{Region: region}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")
	}

	endpoint := strings.TrimRight(strings.TrimSpace(opts.Endpoint), "/")
	if endpoint != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	if endpoint != "" {
		if _, err := url.Parse(endpoint); err != nil {
			return nil, fmt.Errorf("invalid s3 endpoint %q: %w", endpoint, err)
		}
	}
	// Custom endpoints (MinIO, R2) generally need path-style addressing.
	pathStyle := opts.PathStyle || endpoint != ""

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = pathStyle
	})

	base := strings.TrimRight(strings.TrimSpace(opts.PublicBaseURL), "/")
	switch {
	case base != "":
	case endpoint != "":
		base = endpoint + "/" + bucket
	default:
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}

	return &S3Storage{client: client, bucket: bucket, baseURL: base}, nil
}

func (s *S3Storage) Name() string { return "s3" }

func (s *S3Storage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	key = strings.TrimLeft(key, "/")
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String("public, max-age=31536000"),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	return s.baseURL + "/" + key, nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(strings.TrimLeft(key, "/")),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w", key, err)
	}
	return nil
}
