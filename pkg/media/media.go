package media

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
	"github.com/google/uuid"
)

// UploadFolder prefixes every object key handed out for direct uploads
const UploadFolder = "uploads"

// ErrUnsupportedType is returned for content types outside the image whitelist
var ErrUnsupportedType = errors.New("unsupported content type")

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Config holds the S3-compatible bucket settings
type Config struct {
	Bucket          string
	Region          string
	Endpoint        string // empty for AWS, set for R2/MinIO
	AccessKeyID     string
	SecretAccessKey string
	PublicURL       string
	Expires         time.Duration
}

// Enabled reports whether enough is configured to presign uploads
func (c Config) Enabled() bool {
	return c.Bucket != "" && c.PublicURL != ""
}

// Upload describes a presigned direct upload. The PUT must carry ContentType
// exactly, since it is part of the signature.
type Upload struct {
	UploadURL   string `json:"uploadUrl"`
	PublicURL   string `json:"publicUrl"`
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// Presigner hands out presigned PUT URLs so the SPA uploads images straight
// to the bucket. The server never sees the file bytes.
type Presigner struct {
	client    *s3.PresignClient
	bucket    string
	publicURL string
	expires   time.Duration
}

// NewPresigner constructs an S3 presign client from cfg
func NewPresigner(ctx context.Context, cfg Config) (*Presigner, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("missing object storage configuration")
	}

	region := cfg.Region
	if region == "" {
		region = "auto"
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	expires := cfg.Expires
	if expires <= 0 {
		expires = 15 * time.Minute
	}

	return &Presigner{
		client:    s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		publicURL: strings.TrimSuffix(cfg.PublicURL, "/"),
		expires:   expires,
	}, nil
}

// PresignUpload returns a presigned PUT for a new object of contentType
func (p *Presigner) PresignUpload(ctx context.Context, contentType string) (*Upload, error) {
	contentType = normalizeContentType(contentType)
	key, err := ObjectKey(contentType)
	if err != nil {
		return nil, err
	}

	req, err := p.client.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(p.expires))
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	return &Upload{
		UploadURL:   req.URL,
		PublicURL:   fmt.Sprintf("%s/%s", p.publicURL, key),
		Key:         key,
		ContentType: req.SignedHeader.Get("Content-Type"),
		ExpiresIn:   int64(p.expires.Seconds()),
	}, nil
}

// ObjectKey builds a fresh key for an upload of contentType
func ObjectKey(contentType string) (string, error) {
	ext, ok := extensions[normalizeContentType(contentType)]
	if !ok {
		return "", ErrUnsupportedType
	}
	return fmt.Sprintf("%s/%s%s", UploadFolder, uuid.NewString(), ext), nil
}

// IsAllowedImageType reports whether contentType may be uploaded
func IsAllowedImageType(contentType string) bool {
	_, ok := extensions[normalizeContentType(contentType)]
	return ok
}

func normalizeContentType(contentType string) string {
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = contentType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
