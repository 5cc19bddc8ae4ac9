package filestorage

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// S3Config configures the S3 backend
type S3Config struct {
	Bucket   string
	Region   string
	Prefix   string
	Endpoint string // S3-compatible endpoint; empty for AWS
	// Static credentials; empty uses the default AWS credential chain
	AccessKeyID     string
	SecretAccessKey string
	// PublicURL overrides the object URL base, e.g. a CDN in front of the bucket
	PublicURL string
}

// S3Storage stores files as objects in an S3 bucket
type S3Storage struct {
	config   S3Config
	client   s3iface.S3API
	uploader *s3manager.Uploader
	logger   zerolog.Logger
}

// NewS3Storage creates an S3 backed FileStorage
func NewS3Storage(cfg S3Config, logger zerolog.Logger) (*S3Storage, error) {
	awsCfg := aws.NewConfig().WithRegion(cfg.Region)
	if cfg.Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.Endpoint).WithS3ForcePathStyle(true)
	}
	if cfg.AccessKeyID != "" {
		awsCfg = awsCfg.WithCredentials(credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, ""))
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	client := s3.New(sess)
	return &S3Storage{
		config:   cfg,
		client:   client,
		uploader: s3manager.NewUploaderWithClient(client),
		logger:   logger,
	}, nil
}

// SaveFileWithPath uploads a file under prefix/subPath with a generated name
func (s *S3Storage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	key, err := joinKey(s.config.Prefix, subPath, uuid.New().String()+strings.ToLower(filepath.Ext(fileHeader.Filename)))
	if err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	input := &s3manager.UploadInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(key),
		Body:   file,
	}
	if ct := fileHeader.Header.Get("Content-Type"); ct != "" {
		input.ContentType = aws.String(ct)
	}

	if _, err := s.uploader.Upload(input); err != nil {
		s.logger.Error().Err(err).Str("bucket", s.config.Bucket).Str("key", key).Msg("Failed to upload file")
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	s.logger.Info().Str("filename", fileHeader.Filename).Str("key", key).Msg("File uploaded successfully")
	return key, nil
}

// SaveFile uploads a file directly under the prefix
func (s *S3Storage) SaveFile(fileHeader *multipart.FileHeader) (string, error) {
	return s.SaveFileWithPath(fileHeader, "")
}

// DeleteFile removes an object; S3 treats deleting a missing key as success
func (s *S3Storage) DeleteFile(key string) error {
	if key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.config.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to delete object")
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// URL returns the public object URL
func (s *S3Storage) URL(key string) string {
	if key == "" {
		return ""
	}
	switch {
	case s.config.PublicURL != "":
		return strings.TrimRight(s.config.PublicURL, "/") + "/" + key
	case s.config.Endpoint != "":
		return strings.TrimRight(s.config.Endpoint, "/") + "/" + s.config.Bucket + "/" + key
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.config.Bucket, s.config.Region, key)
	}
}
