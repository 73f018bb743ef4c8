package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/krsnavtr-code/Pass-Manager/internal/common"
	"github.com/krsnavtr-code/Pass-Manager/internal/logging"
	sc "github.com/krsnavtr-code/Pass-Manager/internal/server/config"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/models"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/repositories/repomanager"
)

const exportLinkTTL = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ExportResult points at an uploaded vault export.
type ExportResult struct {
	Key   string
	URL   string
	Count int
}

// exportDocument is the uploaded JSON. It carries ciphertext only.
type exportDocument struct {
	ExportedAt time.Time     `json:"exportedAt"`
	Count      int           `json:"count"`
	Passwords  []exportEntry `json:"passwords"`
}

type exportEntry struct {
	ID                string    `json:"_id"`
	Website           string    `json:"website"`
	Username          string    `json:"username"`
	EncryptedPassword string    `json:"encryptedPassword"`
	Category          string    `json:"category"`
	Notes             string    `json:"notes"`
	URL               string    `json:"url"`
	Tags              []string  `json:"tags"`
	IsFavorite        bool      `json:"isFavorite"`
	LastModified      time.Time `json:"lastModified"`
	CreatedAt         time.Time `json:"createdAt"`
}

// ExportService uploads a user's encrypted vault to S3-compatible storage
// and hands back a short-lived download link.
type ExportService struct {
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	now         Clock
	log         logging.Logger
}

func NewExportService(m repomanager.RepositoryManager, cfg *sc.Config, log logging.Logger) *ExportService {
	return &ExportService{
		repomanager: m,
		config:      cfg,
		now:         systemClock,
		log:         logging.ForModule(log, "export"),
	}
}

func (s *ExportService) WithClock(c Clock) *ExportService {
	s.now = c
	return s
}

// Enabled reports whether a bucket is configured.
func (s *ExportService) Enabled() bool {
	return s.config.S3Bucket != ""
}

// ExportStorageKey names the object for one export of userID.
func ExportStorageKey(userID string, d time.Time) string {
	return fmt.Sprintf("exports/%s/%d/%d/%d/%v.json", userID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *ExportService) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

func (s *ExportService) Export(ctx context.Context, userID string) (*ExportResult, error) {
	if !s.Enabled() {
		return nil, common.NewError(common.ErrExportDisabled, "Export is not configured")
	}

	list, err := s.repomanager.Entries(s.repomanager.Conn()).List(ctx, userID, models.EntryFilter{})
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	now := s.now()
	doc := exportDocument{ExportedAt: now, Count: len(list), Passwords: make([]exportEntry, 0, len(list))}
	for _, e := range list {
		doc.Passwords = append(doc.Passwords, exportEntry{
			ID:                e.ID,
			Website:           e.Website,
			Username:          e.Username,
			EncryptedPassword: e.EncryptedPassword,
			Category:          string(e.Category),
			Notes:             e.Notes,
			URL:               e.URL,
			Tags:              e.Tags,
			IsFavorite:        e.IsFavorite,
			LastModified:      e.LastModified,
			CreatedAt:         e.CreatedAt,
		})
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}

	bucket := s.config.S3Bucket
	key := ExportStorageKey(userID, now)

	if _, err := putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	}); err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(exportLinkTTL))
	if err != nil {
		return nil, fmt.Errorf("presign export: %w", err)
	}

	s.log.Info(ctx, "vault exported", "user_id", userID, "key", key, "count", len(list))
	return &ExportResult{Key: key, URL: req.URL, Count: len(list)}, nil
}
