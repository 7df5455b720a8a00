// Package receipts handles proof-of-payment images: uploads to object
// storage, linking the object to the owning record, and issuing signed read
// URLs.
package receipts

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/luislem95/api-gestor-pedidos/internal/awsx"
	"github.com/luislem95/api-gestor-pedidos/internal/orders"
	"github.com/luislem95/api-gestor-pedidos/internal/storage"
)

// ErrInvalidImage indicates the payload is not valid base64.
var ErrInvalidImage = errors.New("invalid image payload")

// ErrInvalidObjectPath indicates the path is not of the form s3://bucket/key.
var ErrInvalidObjectPath = errors.New("invalid object path")

// ErrRecordNotFound indicates the record the receipt should attach to is absent.
var ErrRecordNotFound = errors.New("record not found")

// Service composes the object store and the shared table. The two writes in
// Upload are sequential and not atomic: if the record update fails after the
// object write, the object is orphaned in the bucket.
type Service struct {
	s3        awsx.S3API
	presigner awsx.S3Presigner
	table     *storage.Table
	bucket    string
	prefix    string
	urlTTL    time.Duration
	nowFunc   func() time.Time
}

func NewService(s3Client awsx.S3API, presigner awsx.S3Presigner, table *storage.Table, bucket, prefix string, urlTTL time.Duration) *Service {
	return &Service{
		s3:        s3Client,
		presigner: presigner,
		table:     table,
		bucket:    bucket,
		prefix:    prefix,
		urlTTL:    urlTTL,
		nowFunc:   time.Now,
	}
}

// UploadInput identifies the image payload and the record it belongs to.
type UploadInput struct {
	Image    string // base64-encoded image bytes
	FileName string
	Category string // record tipo
	RecordID string
}

// UploadResult is the stored object path plus the updated record attributes.
type UploadResult struct {
	URL    string // s3://bucket/key, resolvable through SignedURL
	Record map[string]interface{}
}

// Upload decodes the image, stores it under a timestamped key and links it to
// the owning record, advancing the record's status to Facturacion.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	data, err := base64.StdEncoding.DecodeString(in.Image)
	if err != nil {
		return nil, ErrInvalidImage
	}

	key := fmt.Sprintf("%s%d_%s.jpg", s.prefix, s.nowFunc().UnixMilli(), in.FileName)

	_, err = s.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: sdkaws.String("image/jpeg"),
	})
	if err != nil {
		return nil, fmt.Errorf("put object: %w", err)
	}

	// stored as an s3:// path so SignedURL can resolve it later
	objectPath := fmt.Sprintf("s3://%s/%s", s.bucket, key)

	updated, err := s.table.Update(ctx, in.Category, in.RecordID, map[string]interface{}{
		"comprobante": objectPath,
		"estatus":     orders.StatusFacturacion,
	}, true)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// the object just written is orphaned in the bucket
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("link receipt to record: %w", err)
	}

	return &UploadResult{URL: objectPath, Record: updated}, nil
}

// SignedURL issues a time-limited read URL for an object addressed as
// s3://bucket/key.
func (s *Service) SignedURL(ctx context.Context, objectPath string) (string, error) {
	rest, ok := strings.CutPrefix(objectPath, "s3://")
	if !ok {
		return "", ErrInvalidObjectPath
	}
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", ErrInvalidObjectPath
	}

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.urlTTL))
	if err != nil {
		return "", fmt.Errorf("presign get object: %w", err)
	}
	return req.URL, nil
}
