package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/cardkeeper/internal/client/models"
	"github.com/dmitrijs2005/cardkeeper/internal/common"
	"github.com/dmitrijs2005/cardkeeper/internal/filex"
	"github.com/dmitrijs2005/cardkeeper/internal/logging"
	"github.com/dmitrijs2005/cardkeeper/internal/netx"
)

const csvContentType = "text/csv"

var csvHeader = []string{"name", "company", "position", "email", "phone", "website", "address", "notes", "tags", "created_at"}

// RenderCSV writes one header row and one row per contact. Tags are joined
// with ';' and created_at is RFC 3339 in UTC.
func RenderCSV(contacts []models.Contact) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, c := range contacts {
		row := []string{
			c.Name, c.Company, c.Position, c.Email, c.Phone, c.Website, c.Address, c.Notes,
			strings.Join(c.Tags, ";"),
			c.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportSink stores an export and returns where it went.
type ExportSink interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
}

// ExportService exports the contact book for premium accounts.
type ExportService interface {
	Export(ctx context.Context) (string, error)
}

type exportService struct {
	contacts    ContactService
	entitlement EntitlementService
	sink        ExportSink
	now         func() time.Time
	log         logging.Logger
}

func NewExportService(contacts ContactService, entitlement EntitlementService, sink ExportSink, log logging.Logger) ExportService {
	return &exportService{
		contacts:    contacts,
		entitlement: entitlement,
		sink:        sink,
		now:         time.Now,
		log:         log.With("module", "export"),
	}
}

// Export fails with common.ErrPremiumRequired for free accounts.
func (s *exportService) Export(ctx context.Context) (string, error) {
	if !s.entitlement.State().Premium {
		return "", common.ErrPremiumRequired
	}

	contacts := s.contacts.Contacts()
	data, err := RenderCSV(contacts)
	if err != nil {
		return "", fmt.Errorf("failed to render csv: %w", err)
	}

	name := fmt.Sprintf("contacts-%s.csv", s.now().UTC().Format("20060102-150405"))
	location, err := s.sink.Put(ctx, name, data)
	if err != nil {
		return "", fmt.Errorf("failed to store export: %w", err)
	}

	s.log.Info(ctx, "contacts exported", "count", len(contacts), "location", location)
	return location, nil
}

// FileSink writes exports into Dir, creating it if needed.
type FileSink struct {
	Dir string
}

func (f FileSink) Put(_ context.Context, name string, data []byte) (string, error) {
	dir, err := filex.EnsureDir(f.Dir)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, name)
	if err := filex.WriteFileAtomic(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// S3Config locates the bucket exports are uploaded to.
type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string
	User     string
	Password string
}

// S3Sink uploads exports through presigned PUT URLs.
type S3Sink struct {
	cfg    S3Config
	client *http.Client
}

func NewS3Sink(cfg S3Config, client *http.Client) *S3Sink {
	return &S3Sink{cfg: cfg, client: client}
}

func (s *S3Sink) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.User,
			s.cfg.Password,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return s3.NewPresignClient(client), nil
}

func (s *S3Sink) Put(ctx context.Context, name string, data []byte) (string, error) {
	pc, err := s.presignClient(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to configure s3: %w", err)
	}

	key := "exports/" + name
	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(csvContentType),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", fmt.Errorf("failed to presign upload: %w", err)
	}

	if err := netx.UploadToPresignedURL(ctx, s.client, req.URL, csvContentType, data); err != nil {
		return "", err
	}
	return fmt.Sprintf("s3://%s/%s", s.cfg.Bucket, key), nil
}
