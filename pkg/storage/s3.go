package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"jobboard-api/pkg/apperror"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Config holds configuration for S3-compatible storage
type S3Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string

	// Endpoint switches to path-style addressing for MinIO, Wasabi and friends
	Endpoint string
	// PublicURL prefixes object keys in returned URLs; defaults to the bucket URL
	PublicURL string
}

// ObjectPutter is the slice of the S3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Storage struct {
	client    ObjectPutter
	bucket    string
	publicURL string
}

// NewS3Client creates an S3 client with the given config
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if cfg.Endpoint == "" {
		return s3.NewFromConfig(awsCfg), nil
	}

	endpoint := cfg.Endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	}), nil
}

// NewS3Storage builds the uploader on top of any PutObject implementation.
func NewS3Storage(client ObjectPutter, cfg S3Config) *S3Storage {
	public := strings.TrimRight(cfg.PublicURL, "/")
	if public == "" {
		switch {
		case cfg.Endpoint != "":
			ep := strings.TrimRight(cfg.Endpoint, "/")
			if !strings.HasPrefix(ep, "http") {
				ep = "https://" + ep
			}
			public = ep + "/" + cfg.Bucket
		default:
			public = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}
	return &S3Storage{client: client, bucket: cfg.Bucket, publicURL: public}
}

// Upload stores data under folder/<uuid><ext> and returns its public URL.
func (s *S3Storage) Upload(ctx context.Context, data []byte, filename, contentType, folder string) (string, error) {
	if len(data) == 0 {
		return "", apperror.BadRequest("Uploaded file is empty")
	}
	key := ObjectKey(folder, filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", apperror.Internal(fmt.Errorf("failed to upload %s: %w", key, err))
	}
	return s.publicURL + "/" + key, nil
}

// ObjectKey returns a collision-free key that keeps the original extension.
func ObjectKey(folder, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(strings.Trim(folder, "/"), uuid.NewString()+ext)
}

// ErrStorageDisabled is wrapped by Disabled when no bucket is configured.
var ErrStorageDisabled = errors.New("file storage not configured")

// Disabled rejects every upload; used when S3 settings are absent.
type Disabled struct{}

func (Disabled) Upload(ctx context.Context, data []byte, filename, contentType, folder string) (string, error) {
	return "", apperror.Unavailable("File uploads are not available", ErrStorageDisabled)
}
