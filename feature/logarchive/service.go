package logarchive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"transease/core/storage"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrNoLogs is returned when there is no log file to archive.
	ErrNoLogs = errors.New("no log files to archive")
	// ErrInvalidKey is returned for object keys outside the archive prefix.
	ErrInvalidKey = errors.New("key is outside the archive prefix")
)

// stampLayout is the timestamp prepended to archived file names.
const stampLayout = "20060102T150405Z"

// Archive is one archived log object.
type Archive struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Service uploads the durable log file and its rotated backups to object storage.
type Service struct {
	client   storage.Client
	bucket   string
	region   string
	prefix   string
	logPath  string
	fs       afero.Fs
	hostname string
	logger   *zap.Logger

	sf singleflight.Group
}

// NewService creates a log archive service for the log file at logPath.
func NewService(client storage.Client, cfg storage.Config, logPath string, fs afero.Fs, logger *zap.Logger) *Service {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "localhost"
	}
	return &Service{
		client:   client,
		bucket:   cfg.Bucket,
		region:   cfg.Region,
		prefix:   strings.Trim(cfg.Prefix, "/"),
		logPath:  logPath,
		fs:       fs,
		hostname: host,
		logger:   logger,
	}
}

// Prefix returns the key prefix of this host's archives.
func (s *Service) Prefix() string {
	return path.Join(s.prefix, s.hostname) + "/"
}

// Files returns the log file and its rotated backups, oldest backup first.
func (s *Service) Files() ([]string, error) {
	dir := filepath.Dir(s.logPath)
	ext := filepath.Ext(s.logPath)
	stem := strings.TrimSuffix(filepath.Base(s.logPath), ext)

	matches, err := afero.Glob(s.fs, filepath.Join(dir, stem+"*"+ext+"*"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// Archive uploads every log file under prefix/hostname/timestamp-name. Concurrent calls
// share one upload.
func (s *Service) Archive(ctx context.Context) ([]Archive, error) {
	v, err, _ := s.sf.Do("archive", func() (any, error) {
		return s.archive(ctx)
	})
	archives, _ := v.([]Archive)
	return archives, err
}

func (s *Service) archive(ctx context.Context) ([]Archive, error) {
	files, err := s.Files()
	if err != nil {
		return nil, fmt.Errorf("failed to find log files: %w", err)
	}
	if len(files) == 0 {
		return nil, ErrNoLogs
	}

	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}

	stamp := time.Now().UTC().Format(stampLayout)
	archives := make([]Archive, 0, len(files))
	for _, name := range files {
		a, err := s.upload(ctx, name, stamp)
		if err != nil {
			return archives, err
		}
		s.logger.Info("Log file archived", zap.String("file", name), zap.String("key", a.Key), zap.Int64("size", a.Size))
		archives = append(archives, a)
	}
	return archives, nil
}

func (s *Service) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	s.logger.Info("Creating log archive bucket", zap.String("bucket", s.bucket))
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *Service) upload(ctx context.Context, name, stamp string) (Archive, error) {
	f, err := s.fs.Open(name)
	if err != nil {
		return Archive{}, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Archive{}, fmt.Errorf("failed to stat %s: %w", name, err)
	}

	key := s.Prefix() + stamp + "-" + filepath.Base(name)
	contentType := "text/plain; charset=utf-8"
	if strings.HasSuffix(name, ".gz") {
		contentType = "application/gzip"
	}
	uploaded, err := s.client.PutObject(ctx, s.bucket, key, f, info.Size(), minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return Archive{}, fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return Archive{Key: key, Size: uploaded.Size, LastModified: info.ModTime()}, nil
}

// List returns this host's archives.
func (s *Service) List(ctx context.Context) ([]Archive, error) {
	var archives []Archive
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: s.Prefix(), Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list archives: %w", obj.Err)
		}
		archives = append(archives, Archive{Key: obj.Key, Size: obj.Size, LastModified: obj.LastModified})
	}
	return archives, nil
}

// Open streams an archived object.
func (s *Service) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := s.checkKey(key); err != nil {
		return nil, err
	}
	return s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
}

// Remove deletes an archived object.
func (s *Service) Remove(ctx context.Context, key string) error {
	if err := s.checkKey(key); err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	s.logger.Info("Log archive removed", zap.String("key", key))
	return nil
}

func (s *Service) checkKey(key string) error {
	if !strings.HasPrefix(key, s.Prefix()) || strings.Contains(key, "..") {
		return fmt.Errorf("%w: %s", ErrInvalidKey, key)
	}
	return nil
}
