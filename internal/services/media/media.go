package media

import (
	"context"
	"fmt"
	"mime"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/derdine/forum-service/internal/config"
	"github.com/derdine/forum-service/internal/utils/apperr"
)

// Service stores user avatars in a MinIO bucket. Clients upload directly
// with a presigned URL and then confirm the object key.
type Service struct {
	client     *minio.Client
	bucketName string
	config     *config.Media
	useSSL     bool
}

type UploadInfo struct {
	ObjectKey   string `json:"objectKey"`
	UploadURL   string `json:"uploadUrl"`
	ExpiresAt   int64  `json:"expiresAt"`
	MaxFileSize int64  `json:"maxFileSize"`
	ContentType string `json:"contentType"`
}

// NewService connects to MinIO and makes sure the avatar bucket exists.
func NewService(ctx context.Context, cfg *config.Config) (*Service, error) {
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

	if err := service.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return service, nil
}

func (s *Service) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check if bucket exists: %w", err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

func (s *Service) allowed(contentType string) bool {
	return slices.Contains(s.config.AllowedMimeTypes, contentType)
}

func avatarPrefix(userID string) string {
	return fmt.Sprintf("avatars/%s/", userID)
}

// avatarKey names a new avatar object for userID.
func avatarKey(userID, contentType string) string {
	var ext string
	if extensions, err := mime.ExtensionsByType(contentType); err == nil && len(extensions) > 0 {
		ext = extensions[0]
	} else {
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
	}
	return avatarPrefix(userID) + uuid.NewString() + ext
}

// AvatarUploadURL returns a presigned PUT URL for a new avatar image.
func (s *Service) AvatarUploadURL(ctx context.Context, userID, contentType string) (*UploadInfo, error) {
	if !s.allowed(contentType) {
		return nil, apperr.BadRequest(fmt.Sprintf("Content type %s is not allowed", contentType))
	}

	objectKey := avatarKey(userID, contentType)
	expiry := time.Duration(s.config.PresignedURLTTL) * time.Second

	presignedURL, err := s.client.PresignedPutObject(ctx, s.bucketName, objectKey, expiry)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to generate presigned URL: %w", err))
	}

	return &UploadInfo{
		ObjectKey:   objectKey,
		UploadURL:   presignedURL.String(),
		ExpiresAt:   time.Now().Add(expiry).Unix(),
		MaxFileSize: s.config.MaxFileSize,
		ContentType: contentType,
	}, nil
}

// ConfirmAvatar checks that objectKey is an uploaded avatar of userID that
// respects the size limit and returns its public URL. Oversized uploads are
// removed.
func (s *Service) ConfirmAvatar(ctx context.Context, userID, objectKey string) (string, error) {
	if !strings.HasPrefix(objectKey, avatarPrefix(userID)) {
		return "", apperr.BadRequest("Object key does not belong to this user")
	}

	info, err := s.client.StatObject(ctx, s.bucketName, objectKey, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return "", apperr.NotFound("Avatar upload not found")
		}
		return "", apperr.Internal(fmt.Errorf("stat avatar: %w", err))
	}

	if info.Size > s.config.MaxFileSize {
		if err := s.DeleteObject(ctx, objectKey); err != nil {
			return "", apperr.Internal(err)
		}
		return "", apperr.BadRequest(fmt.Sprintf("Avatar exceeds %d bytes", s.config.MaxFileSize))
	}
	if !s.allowed(info.ContentType) {
		if err := s.DeleteObject(ctx, objectKey); err != nil {
			return "", apperr.Internal(err)
		}
		return "", apperr.BadRequest(fmt.Sprintf("Content type %s is not allowed", info.ContentType))
	}

	return s.ObjectURL(objectKey), nil
}

// ObjectURL returns the direct URL of an object in the avatar bucket.
func (s *Service) ObjectURL(objectKey string) string {
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}

	endpoint := strings.TrimPrefix(s.client.EndpointURL().String(), scheme+"://")
	return fmt.Sprintf("%s://%s/%s/%s", scheme, endpoint, s.bucketName, objectKey)
}

// KeyFromURL reverses ObjectURL. It reports false for URLs that do not
// point into the avatar bucket, such as externally hosted avatars.
func (s *Service) KeyFromURL(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host != s.client.EndpointURL().Host {
		return "", false
	}
	key, ok := strings.CutPrefix(u.Path, "/"+s.bucketName+"/")
	if !ok || !strings.HasPrefix(key, "avatars/") {
		return "", false
	}
	return key, true
}

func (s *Service) DeleteObject(ctx context.Context, objectKey string) error {
	if err := s.client.RemoveObject(ctx, s.bucketName, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove %s: %w", objectKey, err)
	}
	return nil
}
