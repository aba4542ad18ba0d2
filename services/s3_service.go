package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	appConfig "github.com/gulfsteel/steelstore-api/config"
	"github.com/gulfsteel/steelstore-api/logger"
	"github.com/gulfsteel/steelstore-api/utils"
)

// Key prefixes inside the bucket, one per kind of upload
const (
	PrefixOrderFiles        = "order-files"
	PrefixQuoteRequestFiles = "quote-request-files"
	PrefixProductImages     = "product-images"
)

// StorageService defines the object storage operations the API needs
type StorageService interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	PublicURL(key string) string
	Delete(ctx context.Context, key string) error
}

// S3Service implements StorageService on S3 or an S3-compatible endpoint
type S3Service struct {
	client   *s3.Client
	presign  *s3.PresignClient
	bucket   string
	region   string
	endpoint string
}

var storageInstance StorageService

// NewS3Service builds an S3 client from the application config
func NewS3Service(ctx context.Context, cfg *appConfig.Config) (*S3Service, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.AWSRegion)}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	endpoint := strings.TrimRight(cfg.AWSS3Endpoint, "/")
	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if endpoint != "" {
			// S3-compatible storage expects path-style addressing
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Service{
		client:   client,
		presign:  s3.NewPresignClient(client),
		bucket:   cfg.AWSS3Bucket,
		region:   cfg.AWSRegion,
		endpoint: endpoint,
	}, nil
}

// InitStorageService sets up the global storage backend
func InitStorageService(ctx context.Context, cfg *appConfig.Config) (StorageService, error) {
	svc, err := NewS3Service(ctx, cfg)
	if err != nil {
		return nil, err
	}
	storageInstance = svc
	return svc, nil
}

// GetStorageService returns the initialized storage instance
func GetStorageService() StorageService {
	return storageInstance
}

// SetStorageService sets the storage instance (primarily for testing)
func SetStorageService(service StorageService) {
	storageInstance = service
}

// Upload stores body under key
func (s *S3Service) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

// PresignedURL generates a time-limited GET URL for a private object
func (s *S3Service) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if key == "" {
		return "", nil
	}

	request, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = ttl
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	logger.Debug(ctx, "generated presigned URL", logger.String("key", key))
	return request.URL, nil
}

// PublicURL returns the unsigned URL of an object in a public bucket
func (s *S3Service) PublicURL(key string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

// Delete removes an object
func (s *S3Service) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

// ObjectKey builds <prefix>/<ownerID>/<uuid><ext> for an uploaded file
func ObjectKey(prefix string, ownerID uint, filename string) string {
	return fmt.Sprintf("%s/%d/%s%s", prefix, ownerID, uuid.NewString(), utils.FileExt(filename))
}

// UploadFileHeader reads a multipart upload and stores it under key, returning its content type
func UploadFileHeader(ctx context.Context, storage StorageService, key string, fileHeader *multipart.FileHeader) (string, error) {
	if storage == nil {
		return "", fmt.Errorf("%w: storage is not configured", ErrStorage)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			logger.Warn(ctx, "failed to close upload", logger.ErrorF(closeErr))
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	contentType := utils.DetectContentType(fileHeader)
	if err := storage.Upload(ctx, key, bytes.NewReader(content), int64(len(content)), contentType); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return contentType, nil
}
