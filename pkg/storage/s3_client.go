// Package storage turns stored file references (absolute URLs or object keys) into URLs
// that can be fetched over HTTP.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// URLResolver maps a stored reference to a fetchable URL.
type URLResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// IsAbsolute reports whether ref is already an http(s) URL.
func IsAbsolute(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// PublicResolver serves keys from a public base URL such as a CDN or a public bucket.
type PublicResolver struct {
	BaseURL string
}

// NewPublicResolver creates a resolver rooted at baseURL. An empty base leaves relative
// references unchanged.
func NewPublicResolver(baseURL string) *PublicResolver {
	return &PublicResolver{BaseURL: strings.TrimRight(baseURL, "/")}
}

func (r *PublicResolver) Resolve(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("empty reference")
	}
	if IsAbsolute(ref) || r.BaseURL == "" {
		return ref, nil
	}
	return r.BaseURL + "/" + strings.TrimLeft(ref, "/"), nil
}

// S3Options configures an S3Resolver.
type S3Options struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PresignTTL      time.Duration
}

// S3Resolver presigns GET requests for object keys in a private bucket. Absolute URLs pass
// through untouched.
type S3Resolver struct {
	bucket  string
	ttl     time.Duration
	presign func(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}

// NewS3Resolver loads the AWS configuration (static credentials when given, otherwise the
// default chain) and builds a presigning resolver.
func NewS3Resolver(ctx context.Context, opts S3Options) (*S3Resolver, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	loaders := []func(*awsconfig.LoadOptions) error{}
	if opts.Region != "" {
		loaders = append(loaders, awsconfig.WithRegion(opts.Region))
	}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loaders = append(loaders, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	pc := s3.NewPresignClient(client)

	ttl := opts.PresignTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &S3Resolver{
		bucket: opts.Bucket,
		ttl:    ttl,
		presign: func(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
			req, err := pc.PresignGetObject(ctx, &s3.GetObjectInput{
				Bucket: aws.String(bucket),
				Key:    aws.String(key),
			}, s3.WithPresignExpires(ttl))
			if err != nil {
				return "", err
			}
			return req.URL, nil
		},
	}, nil
}

func (r *S3Resolver) Resolve(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("empty reference")
	}
	if IsAbsolute(ref) {
		return ref, nil
	}

	url, err := r.presign(ctx, r.bucket, strings.TrimLeft(ref, "/"), r.ttl)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", ref, err)
	}
	return url, nil
}
