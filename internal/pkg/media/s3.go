package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Client is the subset of *s3.Client the host needs.
type S3Client interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Host stores objects in an S3-compatible bucket (AWS, R2, MinIO) and
// serves them from a public base URL. It has no transformation pipeline.
type S3Host struct {
	client    S3Client
	bucket    string
	publicURL string
}

type S3Options struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicURL       string
}

func NewS3Host(ctx context.Context, opts S3Options) (*S3Host, error) {
	loaders := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(opts.Region)}
	if opts.AccessKeyID != "" {
		loaders = append(loaders, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3HostWithClient(client, opts.Bucket, opts.PublicURL), nil
}

func NewS3HostWithClient(client S3Client, bucket, publicURL string) *S3Host {
	return &S3Host{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (h *S3Host) Upload(ctx context.Context, in UploadInput) (*Asset, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	body, err := readPayload(in)
	if err != nil {
		return nil, err
	}

	key := in.PublicID
	if key == "" {
		key = "uploads/" + uuid.New().String() + path.Ext(in.Filename)
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	}
	if in.ContentType != "" {
		input.ContentType = aws.String(in.ContentType)
	}
	if !in.Overwrite && in.PublicID != "" {
		// Conditional write: fail instead of replacing an existing object.
		input.IfNoneMatch = aws.String("*")
	}

	if _, err := h.client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("s3 put %q: %w", key, err)
	}

	return &Asset{URL: h.publicURL + "/" + key, PublicID: key}, nil
}

func (h *S3Host) TransformURL(context.Context, string, string) (string, error) {
	return "", ErrUnsupported
}

func (h *S3Host) Destroy(ctx context.Context, publicID string) error {
	_, err := h.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %q: %w", publicID, err)
	}
	return nil
}

func readPayload(in UploadInput) ([]byte, error) {
	if in.FilePath != "" {
		return os.ReadFile(in.FilePath)
	}
	return io.ReadAll(in.Body)
}
