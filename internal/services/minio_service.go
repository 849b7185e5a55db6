package services

import (
	"context"
	"fmt"
	"strings"

	"movie-catalog/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

type MinIOService struct {
	client    *minio.Client
	bucket    string
	region    string
	publicURL string
	cfg       *config.PosterStorageConfig
	logger    *logrus.Logger
}

func NewMinIOService(ctx context.Context, cfg *config.PosterStorageConfig, logger *logrus.Logger) (*MinIOService, error) {
	endpoint := cfg.Endpoint
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http://"
		if cfg.UseSSL {
			scheme = "https://"
		}
		publicURL = scheme + endpoint
	}

	logger.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"bucket":   cfg.BucketName,
		"useSSL":   cfg.UseSSL,
	}).Info("MinIO client initialized successfully")

	service := &MinIOService{
		client:    minioClient,
		bucket:    cfg.BucketName,
		region:    cfg.Region,
		publicURL: publicURL,
		cfg:       cfg,
		logger:    logger,
	}

	if err := service.ensureBucket(ctx); err != nil {
		logger.WithError(err).Warn("Failed to configure poster bucket, but continuing...")
	}

	return service, nil
}

func (s *MinIOService) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		s.logger.WithField("bucket", s.bucket).Info("Bucket created successfully")
	}

	// Posters are referenced by plain URL, so objects must be publicly readable.
	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Principal": {"AWS": ["*"]},
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::%s/posters/*"]
			}
		]
	}`, s.bucket)

	if err := s.client.SetBucketPolicy(ctx, s.bucket, policy); err != nil {
		return fmt.Errorf("failed to set bucket policy: %w", err)
	}

	s.logger.WithField("bucket", s.bucket).Info("Bucket policy set to public read for posters")
	return nil
}

func (s *MinIOService) PresignUpload(ctx context.Context, filename, contentType string) (*PosterUpload, error) {
	objectKey := posterObjectKey(filename)

	presignedURL, err := s.client.PresignedPutObject(ctx, s.bucket, objectKey, s.cfg.UploadExpiry)
	if err != nil {
		s.logger.WithError(err).Error("Failed to generate presigned URL")
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"filename":    filename,
		"contentType": contentType,
		"objectKey":   objectKey,
		"expiry":      s.cfg.UploadExpiry,
	}).Info("Generated presigned poster upload URL")

	return &PosterUpload{
		UploadURL: presignedURL.String(),
		PublicURL: publicObjectURL(s.publicURL, s.bucket, objectKey),
		ObjectKey: objectKey,
	}, nil
}

func (s *MinIOService) ObjectKey(posterURL string) (string, bool) {
	return objectKeyFromURL(s.publicURL, s.bucket, posterURL)
}

func (s *MinIOService) Delete(ctx context.Context, objectKey string) error {
	err := s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{})
	if err != nil {
		s.logger.WithError(err).WithField("objectKey", objectKey).Error("Failed to delete poster")
		return fmt.Errorf("failed to delete poster: %w", err)
	}

	s.logger.WithField("objectKey", objectKey).Info("Poster deleted successfully from MinIO")
	return nil
}
