package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Well-known artifact keys inside an order's namespace.
const (
	KeyInserts = "inserts.pdf"
	KeyCards   = "cards.pdf"
)

// presignExpiry is the fixed read-access window for generated URLs.
const presignExpiry = 1600000 * time.Second

// Publisher uploads rendered artifacts into the PDF bucket and
// produces time-limited read URLs for them.
type Publisher struct {
	Client  *s3.Client
	Presign *s3.PresignClient
	Bucket  string
}

// NewPublisher builds a publisher from the ambient AWS config. With no
// bucket configured the publisher is disabled rather than an error, so
// test mode can run without AWS access.
func NewPublisher(ctx context.Context) (*Publisher, error) {
	bucket := os.Getenv("PDF_S3_BUCKET")
	if bucket == "" {
		return &Publisher{}, nil
	}
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = os.Getenv("AWS_DEFAULT_REGION")
	}
	if region == "" {
		region = "us-east-1"
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg)
	return &Publisher{Client: client, Presign: s3.NewPresignClient(client), Bucket: bucket}, nil
}

func (p *Publisher) Enabled() bool { return p != nil && p.Client != nil && p.Bucket != "" }

// UploadResult reports the outcome of one independent upload.
type UploadResult struct {
	Path string
	Key  string
	Err  error
}

// UploadFiles uploads each local path into the namespace as an
// independent object. A failed upload is recorded and does not block
// the rest of the batch.
func (p *Publisher) UploadFiles(ctx context.Context, paths []string, namespace string) []UploadResult {
	results := make([]UploadResult, 0, len(paths))
	for _, path := range paths {
		key := fmt.Sprintf("%s/%s", namespace, filepath.Base(path))
		err := p.uploadFile(ctx, path, key)
		results = append(results, UploadResult{Path: path, Key: key, Err: err})
	}
	return results
}

func (p *Publisher) uploadFile(ctx context.Context, path, key string) error {
	if !p.Enabled() {
		return fmt.Errorf("s3 publisher not configured")
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	contentType := "application/pdf"
	_, err = p.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &p.Bucket,
		Key:         &key,
		Body:        f,
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// PresignedURLs generates read URLs for the two well-known artifacts
// in the namespace. Failure to sign either is an error; callers that
// require a URL downstream must treat its absence as a hard stop.
func (p *Publisher) PresignedURLs(ctx context.Context, namespace string) (insertsURL, cardsURL string, err error) {
	insertsURL, err = p.PresignedURL(ctx, fmt.Sprintf("%s/%s", namespace, KeyInserts))
	if err != nil {
		return "", "", err
	}
	cardsURL, err = p.PresignedURL(ctx, fmt.Sprintf("%s/%s", namespace, KeyCards))
	if err != nil {
		return "", "", err
	}
	return insertsURL, cardsURL, nil
}

// PresignedURL signs a GET for one object key with the fixed expiry.
func (p *Publisher) PresignedURL(ctx context.Context, key string) (string, error) {
	if !p.Enabled() {
		return "", fmt.Errorf("s3 publisher not configured")
	}
	req, err := p.Presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &p.Bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}
