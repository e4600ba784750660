package storage

import (
	"context"
	"fmt"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig configures the object storage backend.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Location  string
	Prefix    string
	UseSSL    bool
}

// MinioSaver uploads variants to a MinIO (or any S3 compatible) bucket.
type MinioSaver struct {
	config MinioConfig
	client *minio.Client
}

var _ Saver = (*MinioSaver)(nil)

// NewMinioSaver connects to the endpoint and creates the bucket when it does
// not exist yet.
func NewMinioSaver(ctx context.Context, config MinioConfig) (*MinioSaver, error) {
	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.UseSSL,
		Region: config.Location,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, config.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", config.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, config.Bucket, minio.MakeBucketOptions{Region: config.Location}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", config.Bucket, err)
		}
	}

	return &MinioSaver{config: config, client: client}, nil
}

// ObjectName returns the object key a request is stored under.
func (s *MinioSaver) ObjectName(req SaveRequest) string {
	return path.Join(s.config.Prefix, FileName(req))
}

// Save encodes the request and uploads it. The returned path is
// "<bucket>/<object key>".
func (s *MinioSaver) Save(ctx context.Context, req SaveRequest) (*Saved, error) {
	buf, err := Encode(req)
	if err != nil {
		return nil, err
	}

	objectName := s.ObjectName(req)
	mimeType := MimeType(req.Format)
	size := int64(buf.Len())

	info, err := s.client.PutObject(ctx, s.config.Bucket, objectName, buf, size, minio.PutObjectOptions{ContentType: mimeType})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", objectName, err)
	}

	b := req.Image.Bounds()
	return &Saved{
		Path:     path.Join(s.config.Bucket, objectName),
		File:     path.Base(objectName),
		Width:    b.Dx(),
		Height:   b.Dy(),
		MimeType: mimeType,
		Filesize: info.Size,
	}, nil
}
