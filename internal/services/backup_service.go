// internal/services/backup_service.go
package services

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/inventory-pos/internal/config"
	"github.com/javajoker/inventory-pos/internal/metrics"
)

const (
	DestinationLocal = "local"
	DestinationS3    = "s3"
)

type BackupService struct {
	db       *gorm.DB
	s3Client *s3.S3
	config   *config.Config
}

type BackupResult struct {
	Destination string    `json:"destination"`
	Location    string    `json:"location"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewBackupService(db *gorm.DB, config *config.Config) (*BackupService, error) {
	if config.AWS.AccessKeyID == "" {
		// Backups stay on this machine
		return &BackupService{db: db, config: config}, nil
	}

	// Create AWS session
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(config.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AWS.AccessKeyID,
			config.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &BackupService{
		db:       db,
		s3Client: s3.New(sess),
		config:   config,
	}, nil
}

// CreateBackup writes a consistent copy of the store, either under the
// backup directory or to the configured bucket.
func (s *BackupService) CreateBackup(ctx context.Context) (*BackupResult, error) {
	destination := DestinationLocal
	if s.s3Client != nil {
		destination = DestinationS3
	}

	result, err := s.createBackup(ctx, destination)
	if err != nil {
		metrics.BackupsCreated.WithLabelValues(destination, "failed").Inc()
		return nil, err
	}

	metrics.BackupsCreated.WithLabelValues(destination, "created").Inc()
	logrus.WithFields(logrus.Fields{
		"destination": result.Destination,
		"location":    result.Location,
		"size":        result.Size,
	}).Info("Store backup created")

	return result, nil
}

func (s *BackupService) createBackup(ctx context.Context, destination string) (*BackupResult, error) {
	now := time.Now().UTC()
	name := s.generateFileName(now)

	if destination == DestinationLocal {
		if err := os.MkdirAll(s.config.Backup.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create backup directory: %w", err)
		}

		target := filepath.Join(s.config.Backup.Dir, name)
		size, err := s.snapshot(ctx, target)
		if err != nil {
			return nil, err
		}

		return &BackupResult{Destination: destination, Location: target, Size: size, CreatedAt: now}, nil
	}

	tmpDir, err := os.MkdirTemp("", "inventory-backup-")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	staged := filepath.Join(tmpDir, name)
	size, err := s.snapshot(ctx, staged)
	if err != nil {
		return nil, err
	}

	key, err := s.uploadToS3(ctx, staged, name)
	if err != nil {
		return nil, err
	}

	return &BackupResult{Destination: destination, Location: key, Size: size, CreatedAt: now}, nil
}

// snapshot copies the live store into target. target must not exist.
func (s *BackupService) snapshot(ctx context.Context, target string) (int64, error) {
	if err := s.db.WithContext(ctx).Exec("VACUUM INTO ?", target).Error; err != nil {
		return 0, fmt.Errorf("failed to snapshot store: %w", err)
	}

	info, err := os.Stat(target)
	if err != nil {
		return 0, fmt.Errorf("failed to stat backup: %w", err)
	}
	return info.Size(), nil
}

func (s *BackupService) uploadToS3(ctx context.Context, file, name string) (string, error) {
	body, err := os.Open(file)
	if err != nil {
		return "", fmt.Errorf("failed to open backup: %w", err)
	}
	defer body.Close()

	key := path.Join(s.config.AWS.S3Prefix, name)

	_, err = s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.AWS.S3Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String("application/vnd.sqlite3"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return key, nil
}

// Run takes a backup every interval until ctx is done.
func (s *BackupService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.CreateBackup(ctx); err != nil {
				logrus.WithError(err).Error("Scheduled store backup failed")
			}
		}
	}
}

func (s *BackupService) generateFileName(now time.Time) string {
	// Timestamp for ordering, UUID prefix for uniqueness
	return fmt.Sprintf("inventory_%s_%s.db", now.Format("20060102T150405Z"), uuid.New().String()[:8])
}
