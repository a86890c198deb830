package facades

import (
	"bytes"
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sbilibin2017/dream-vault/internal/logger"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// S3ArchiveFacade stores journal exports in an S3 compatible bucket and hands
// out presigned download links.
type S3ArchiveFacade struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// NewS3ArchiveFacade builds the S3 client. Static credentials are used when
// accessKey is set; a non-empty endpoint switches to path-style addressing.
func NewS3ArchiveFacade(ctx context.Context, region, accessKey, secretKey, endpoint, bucket string) (*S3ArchiveFacade, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if accessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3ArchiveFacade{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  bucket,
	}, nil
}

// Upload writes body under key.
func (f *S3ArchiveFacade) Upload(ctx context.Context, key, contentType string, body []byte) error {
	_, err := putObject(f.client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(f.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})

	logger.Log.Infow("archive upload",
		"bucket", f.bucket,
		"key", key,
		"size", len(body),
		"error", err,
	)

	return err
}

// DownloadURL returns a presigned GET URL for key valid for expires.
func (f *S3ArchiveFacade) DownloadURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	req, err := presignGetObject(f.presign, ctx, &s3.GetObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		logger.Log.Errorw("archive presign failed", "key", key, "error", err)
		return "", err
	}
	return req.URL, nil
}
