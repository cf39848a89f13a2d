package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/pageza/cookbook/backend/config"
)

// StorageService stores recipe images in S3 and hands back their public URLs
type StorageService struct {
	s3Config *config.S3Config
}

// NewStorageService creates a new StorageService instance
func NewStorageService(s3Config *config.S3Config) *StorageService {
	return &StorageService{s3Config: s3Config}
}

// Upload puts the object into the bucket and returns the public URL
func (s *StorageService) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key)
	log.Printf("[StorageService] Successfully uploaded image to S3: %s", publicURL)

	return publicURL, nil
}

// NormalizeExtension derives the storage extension from an uploaded filename.
// Anything outside png/jpg/jpeg falls back to defaultExt.
func NormalizeExtension(filename, defaultExt string) string {
	parts := strings.Split(filename, ".")
	ext := strings.ToLower(parts[len(parts)-1])
	switch ext {
	case "png", "jpg", "jpeg":
		return ext
	}
	return defaultExt
}

// ContentTypeForExtension maps a normalized extension to the upload
// content-type
func ContentTypeForExtension(ext string) string {
	return "image/" + ext
}

// recipeObjectKey generates a unique storage key for a recipe image
func recipeObjectKey(ext string) string {
	return fmt.Sprintf("recipes/%s.%s", uuid.New().String(), ext)
}
