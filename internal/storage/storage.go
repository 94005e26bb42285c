package storage

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Storage handles S3 blob operations for uploaded PDFs and avatars.
// Material blobs are namespaced by the owning user's id; avatar keys are
// stable per user so re-uploads overwrite.
type Storage struct {
	client     *s3.Client
	bucket     string
	cdnBaseURL string // e.g. "https://studynotes.apresai.dev"
}

// New creates an S3 storage handler.
func New(client *s3.Client, bucket, cdnBaseURL string) *Storage {
	return &Storage{client: client, bucket: bucket, cdnBaseURL: cdnBaseURL}
}

var whitespaceRe = regexp.MustCompile(`\s+`)

func safeName(filename string) string {
	name := whitespaceRe.ReplaceAllString(strings.TrimSpace(filename), "_")
	if name == "" {
		return "upload.pdf"
	}
	return name
}

// UploadMaterial stores a PDF under materials/{userID}/{unixms}-{safeName}
// and returns the object key.
func (s *Storage) UploadMaterial(ctx context.Context, userID, filename string, data []byte) (string, error) {
	key := fmt.Sprintf("materials/%s/%d-%s", userID, time.Now().UnixMilli(), safeName(filename))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &s.bucket,
		Key:           &key,
		Body:          bytes.NewReader(data),
		ContentType:   aws.String("application/pdf"),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("upload material: %w", err)
	}
	return key, nil
}

// Extensions an avatar key may carry; anything else is stored as .png so
// client-named files cannot land on the CDN as markup.
var avatarExts = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
}

func avatarExt(filename string) string {
	if idx := strings.LastIndexByte(filename, '.'); idx >= 0 && idx < len(filename)-1 {
		if ext := strings.ToLower(filename[idx+1:]); avatarExts[ext] {
			return ext
		}
	}
	return "png"
}

// UploadAvatar stores an avatar under avatars/{userID}/avatar.{ext} and
// returns its public CDN URL. Uploading again replaces the previous avatar.
func (s *Storage) UploadAvatar(ctx context.Context, userID, filename, contentType string, data []byte) (string, error) {
	if contentType == "" {
		contentType = "image/*"
	}
	key := fmt.Sprintf("avatars/%s/avatar.%s", userID, avatarExt(filename))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &s.bucket,
		Key:           &key,
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}
	return s.PublicURL(key), nil
}

// Delete removes an object. Deleting a missing key is a no-op in S3, which
// keeps compensating cleanup idempotent.
func (s *Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// PublicURL returns the CDN URL for a key.
func (s *Storage) PublicURL(key string) string {
	return strings.TrimSuffix(s.cdnBaseURL, "/") + "/" + key
}
