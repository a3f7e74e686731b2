// Package avatars issues presigned S3 upload URLs for profile images.
package avatars

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// UploadExpiry bounds the lifetime of an issued upload URL.
const UploadExpiry = 15 * time.Minute

// Settings describe the S3 (or MinIO) endpoint avatars are stored in.
type Settings struct {
	Region       string
	AccessKey    string
	SecretKey    string
	Bucket       string
	BaseEndpoint string
}

// Upload is a presigned PUT plus the URL the object is readable at once
// uploaded.
type Upload struct {
	Key       string
	UploadURL string
	ObjectURL string
	ExpiresAt time.Time
}

// seams for tests
var (
	loadDefaultAWSConfig  = awsconfig.LoadDefaultConfig
	newS3ClientFromConfig = s3.NewFromConfig
	newS3PresignClient    = func(c *s3.Client) *s3.PresignClient { return s3.NewPresignClient(c) }
	presignPutObject      = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	now = time.Now
)

type Presigner struct {
	settings Settings
}

func NewPresigner(s Settings) *Presigner {
	return &Presigner{settings: s}
}

// StorageKey returns a fresh object key under the user's prefix.
func StorageKey(userID string) string {
	d := now()
	return fmt.Sprintf("users/%s/%d/%02d/%02d/%v", userID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (p *Presigner) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(p.settings.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			p.settings.AccessKey,
			p.settings.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(p.settings.BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PresignUpload returns a presigned PUT for a new avatar object of userID.
func (p *Presigner) PresignUpload(ctx context.Context, userID string) (*Upload, error) {
	pc, err := p.presignClient(ctx)
	if err != nil {
		return nil, err
	}

	bucket := p.settings.Bucket
	key := StorageKey(userID)

	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(UploadExpiry))
	if err != nil {
		return nil, err
	}

	return &Upload{
		Key:       key,
		UploadURL: req.URL,
		ObjectURL: p.objectURL(key),
		ExpiresAt: now().Add(UploadExpiry),
	}, nil
}

func (p *Presigner) objectURL(key string) string {
	return strings.TrimSuffix(p.settings.BaseEndpoint, "/") + "/" + p.settings.Bucket + "/" + key
}
