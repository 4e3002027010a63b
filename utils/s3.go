package utils

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/oklog/ulid/v2"
)

// S3PutAPI is the subset of *s3.Client used for photo uploads.
type S3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3PhotoStore keeps the original food photos so log rows can link to them.
type S3PhotoStore struct {
	client  S3PutAPI
	bucket  string
	baseURL string // CloudFront or any public prefix; bucket URL when empty
	region  string
}

func NewS3PhotoStore(client S3PutAPI, bucket, baseURL, region string) *S3PhotoStore {
	return &S3PhotoStore{client: client, bucket: bucket, baseURL: strings.TrimRight(baseURL, "/"), region: region}
}

// PhotoKey builds a unique, time-sortable object key for a user's photo.
func PhotoKey(userID int64, ext string) string {
	return fmt.Sprintf("photos/%d/%s%s", userID, ulid.Make().String(), ext)
}

// Upload stores the image and returns its public URL.
func (s *S3PhotoStore) Upload(ctx context.Context, userID int64, data []byte) (string, error) {
	contentType := http.DetectContentType(data)
	ext := ".jpg"
	switch contentType {
	case "image/png":
		ext = ".png"
	case "image/webp":
		ext = ".webp"
	}
	key := PhotoKey(userID, ext)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	if s.baseURL != "" {
		return fmt.Sprintf("%s/%s", s.baseURL, key), nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}
