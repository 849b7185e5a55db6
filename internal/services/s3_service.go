package services

import (
	"context"
	"fmt"

	"movie-catalog/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

// S3Service stores posters in an AWS S3 (or S3-compatible) bucket.
type S3Service struct {
	client    *s3.Client
	presign   *s3.PresignClient
	bucket    string
	publicURL string
	cfg       *config.PosterStorageConfig
	logger    *logrus.Logger
}

func NewS3Service(ctx context.Context, cfg *config.PosterStorageConfig, logger *logrus.Logger, optFns ...func(*s3.Options)) (*S3Service, error) {
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, append([]func(*s3.Options){func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}}, optFns...)...)

	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = cfg.Endpoint
	}
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://s3.%s.amazonaws.com", region)
	}

	logger.WithFields(logrus.Fields{
		"bucket":    cfg.BucketName,
		"region":    region,
		"pathStyle": cfg.PathStyle,
	}).Info("S3 client initialized successfully")

	return &S3Service{
		client:    client,
		presign:   s3.NewPresignClient(client),
		bucket:    cfg.BucketName,
		publicURL: publicURL,
		cfg:       cfg,
		logger:    logger,
	}, nil
}

func (s *S3Service) PresignUpload(ctx context.Context, filename, contentType string) (*PosterUpload, error) {
	objectKey := posterObjectKey(filename)

	input := &s3.PutObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(objectKey)}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	out, err := s.presign.PresignPutObject(ctx, input, func(po *s3.PresignOptions) {
		po.Expires = s.cfg.UploadExpiry
	})
	if err != nil {
		s.logger.WithError(err).Error("Failed to generate presigned URL")
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"filename":  filename,
		"objectKey": objectKey,
		"expiry":    s.cfg.UploadExpiry,
	}).Info("Generated presigned poster upload URL")

	return &PosterUpload{
		UploadURL: out.URL,
		PublicURL: publicObjectURL(s.publicURL, s.bucket, objectKey),
		ObjectKey: objectKey,
	}, nil
}

func (s *S3Service) ObjectKey(posterURL string) (string, bool) {
	return objectKeyFromURL(s.publicURL, s.bucket, posterURL)
}

func (s *S3Service) Delete(ctx context.Context, objectKey string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(objectKey)})
	if err != nil {
		s.logger.WithError(err).WithField("objectKey", objectKey).Error("Failed to delete poster")
		return fmt.Errorf("failed to delete poster: %w", err)
	}

	s.logger.WithField("objectKey", objectKey).Info("Poster deleted successfully from S3")
	return nil
}
