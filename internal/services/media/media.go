// Package media issues presigned object-storage URLs for photo
// uploads, so image bytes never pass through the API process.
package media

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/pixelpal/pixelpal-service/internal/config"
)

type Service struct {
	client     *minio.Client
	bucketName string
	config     *config.Media
	useSSL     bool
}

// UploadInfo is handed to the client so it can PUT the photo directly
// to object storage and then reference PhotoURL in the post.
type UploadInfo struct {
	ObjectKey   string `json:"object_key"`
	UploadURL   string `json:"upload_url"`
	PhotoURL    string `json:"photo_url"`
	ExpiresAt   int64  `json:"expires_at"`
	MaxFileSize int64  `json:"max_file_size"`
	ContentType string `json:"content_type"`
}

// NewService creates a media service backed by the configured bucket,
// creating the bucket when it does not exist yet.
func NewService(cfg *config.Config) (*Service, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKeyID, cfg.MinIO.SecretAccessKey, ""),
		Secure: cfg.MinIO.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	service := &Service{
		client:     client,
		bucketName: cfg.MinIO.BucketName,
		config:     &cfg.Media,
		useSSL:     cfg.MinIO.UseSSL,
	}

	if err := service.ensureBucket(); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return service, nil
}

func (s *Service) ensureBucket() error {
	ctx := context.Background()

	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check if bucket exists: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// ValidateContentType checks if the content type is allowed
func (s *Service) ValidateContentType(contentType string) bool {
	for _, allowed := range s.config.AllowedMimeTypes {
		if contentType == allowed {
			return true
		}
	}
	return false
}

// GenerateObjectKey creates a unique object key for a user's photo.
func (s *Service) GenerateObjectKey(userID, contentType string) string {
	var ext string
	switch contentType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	case "image/gif":
		ext = ".gif"
	case "image/webp":
		ext = ".webp"
	}

	return fmt.Sprintf("users/%s/photos/%s%s", userID, uuid.New().String(), ext)
}

// GeneratePresignedUploadURL creates a presigned PUT URL for a new
// photo, rejecting content types outside the allowlist.
func (s *Service) GeneratePresignedUploadURL(userID, contentType string) (*UploadInfo, error) {
	if !s.ValidateContentType(contentType) {
		return nil, fmt.Errorf("content type %s is not allowed", contentType)
	}

	objectKey := s.GenerateObjectKey(userID, contentType)
	expiry := time.Duration(s.config.PresignedURLTTL) * time.Second

	presignedURL, err := s.client.PresignedPutObject(
		context.Background(),
		s.bucketName,
		objectKey,
		expiry,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return &UploadInfo{
		ObjectKey:   objectKey,
		UploadURL:   presignedURL.String(),
		PhotoURL:    s.PhotoURL(objectKey),
		ExpiresAt:   time.Now().Add(expiry).Unix(),
		MaxFileSize: s.config.MaxFileSize,
		ContentType: contentType,
	}, nil
}

// GeneratePresignedDownloadURL creates a short-lived GET URL for a
// stored photo.
func (s *Service) GeneratePresignedDownloadURL(objectKey string, expiry time.Duration) (*url.URL, error) {
	return s.client.PresignedGetObject(
		context.Background(),
		s.bucketName,
		objectKey,
		expiry,
		nil,
	)
}

// PhotoURL returns the direct URL a post can reference as its image.
func (s *Service) PhotoURL(objectKey string) string {
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}

	endpoint := strings.TrimPrefix(s.client.EndpointURL().String(), scheme+"://")
	return fmt.Sprintf("%s://%s/%s/%s", scheme, endpoint, s.bucketName, objectKey)
}

// DeleteObject removes a photo from storage.
func (s *Service) DeleteObject(objectKey string) error {
	return s.client.RemoveObject(
		context.Background(),
		s.bucketName,
		objectKey,
		minio.RemoveObjectOptions{},
	)
}
