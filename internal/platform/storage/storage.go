// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage issues presigned upload URLs for an S3-compatible object store.

Media bytes never pass through the API. A client asks for an upload slot,
PUTs the file straight to the bucket, then hands the returned object key back
to the API (e.g. when publishing a video or changing an avatar).

# Key Layout

	<kind>/<ownerID>/<yyyy>/<mm>/<uuid>

The owner segment lets services reject keys that were issued to someone else.
*/
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/pkg/uuid"
)

// DefaultExpiry is how long a presigned URL stays valid.
const DefaultExpiry = 15 * time.Minute

// Kind classifies an upload and becomes the first segment of its key.
type Kind string

const (
	KindVideo     Kind = "video"
	KindThumbnail Kind = "thumbnail"
	KindAvatar    Kind = "avatar"
	KindCover     Kind = "cover"
)

// Valid reports whether k is a known upload kind.
func (k Kind) Valid() bool {
	switch k {
	case KindVideo, KindThumbnail, KindAvatar, KindCover:
		return true
	}
	return false
}

// Options configures the [Uploader].
type Options struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Expiry    time.Duration
}

// Upload describes a single presigned PUT slot.
type Upload struct {
	Kind      Kind      `json:"kind"`
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Uploader signs PUT requests against a single bucket.
type Uploader struct {
	bucket  string
	expiry  time.Duration
	presign *s3.PresignClient
	now     func() time.Time
}

/*
NewUploader builds an S3 presign client.

Signing is local; no request reaches the object store until the client
uses the URL.

Returns:
  - *Uploader: Ready to sign
  - error: Missing bucket or an AWS config load failure
*/
func NewUploader(context context.Context, opts Options) (*Uploader, error) {
	if opts.Bucket == "" {
		return nil, errors.New("storage: bucket is required")
	}
	if opts.Expiry <= 0 {
		opts.Expiry = DefaultExpiry
	}

	loaders := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(opts.Region)}
	// Without static keys the default AWS chain (env, shared config, instance role) applies.
	if opts.AccessKey != "" {
		loaders = append(loaders, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context, loaders...)
	if err != nil {
		return nil, fmt.Errorf("storage_config_failed: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		// Custom endpoints (MinIO, R2) are addressed path-style.
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Uploader{
		bucket:  opts.Bucket,
		expiry:  opts.Expiry,
		presign: s3.NewPresignClient(client),
		now:     time.Now,
	}, nil
}

/*
PresignUpload reserves a fresh object key for ownerID and signs a PUT for it.

Parameters:
  - context: context.Context
  - kind: Kind
  - ownerID: string (UUID of the uploading user)

Returns:
  - *Upload: Key and signed URL
  - error: VALIDATION_ERROR for an unknown kind, or a signing failure
*/
func (uploader *Uploader) PresignUpload(context context.Context, kind Kind, ownerID string) (*Upload, error) {
	if !kind.Valid() {
		return nil, apperr.ValidationError("Unknown upload kind")
	}

	now := uploader.now().UTC()
	key := NewKey(kind, ownerID, now)

	request, err := uploader.presign.PresignPutObject(context, &s3.PutObjectInput{
		Bucket: aws.String(uploader.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(uploader.expiry))
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("presign_put_failed: %w", err))
	}

	return &Upload{
		Kind:      kind,
		Key:       key,
		URL:       request.URL,
		Method:    request.Method,
		ExpiresAt: now.Add(uploader.expiry),
	}, nil
}

// NewKey builds an object key in the documented layout.
func NewKey(kind Kind, ownerID string, at time.Time) string {
	return fmt.Sprintf("%s/%s/%04d/%02d/%s", kind, ownerID, at.Year(), int(at.Month()), uuid.New())
}

// OwnsKey reports whether key was issued for ownerID under kind.
func OwnsKey(kind Kind, ownerID, key string) bool {
	if ownerID == "" || strings.Contains(key, "..") {
		return false
	}
	return strings.HasPrefix(key, string(kind)+"/"+ownerID+"/")
}
