package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/xuri/excelize/v2"
)

// maxWorkbookBytes bounds a downloaded workbook object.
const maxWorkbookBytes = 256 << 20

// ObjectGetter is the read side of an S3 client.
// Satisfied by *s3.Client.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Options configures NewS3Client. Credentials come from the default AWS
// chain (environment, shared config, instance role).
type S3Options struct {
	Region    string
	Endpoint  string // optional; S3-compatible stores such as MinIO
	PathStyle bool
}

// NewS3Client builds a client for reading workbook objects.
func NewS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.PathStyle {
			o.UsePathStyle = true
		}
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	}), nil
}

// IsS3URI reports whether location names an object as s3://bucket/key.
func IsS3URI(location string) bool {
	return strings.HasPrefix(strings.ToLower(location), "s3://")
}

func parseS3URI(location string) (bucket, key string, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("invalid s3 location %q: %w", location, err)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 location %q: want s3://bucket/key", location)
	}
	return bucket, key, nil
}

// openObjectWorkbook downloads and opens a workbook object. A missing
// object returns (nil, nil), like a missing local file.
func openObjectWorkbook(ctx context.Context, objects ObjectGetter, location string) (*excelize.File, error) {
	if objects == nil {
		return nil, fmt.Errorf("open workbook %s: no s3 client configured", location)
	}
	bucket, key, err := parseS3URI(location)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", location, err)
	}

	out, err := objects.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, nil
		}
		return nil, fmt.Errorf("open workbook %s: %w", location, err)
	}
	defer out.Body.Close()

	f, err := excelize.OpenReader(io.LimitReader(out.Body, maxWorkbookBytes))
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", location, err)
	}
	return f, nil
}
