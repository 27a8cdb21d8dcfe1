// Package service resolves manual references to operating-manual text stored in a
// gocloud.dev blob bucket.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	"github.com/allisson/remediation/internal/remediation/domain"

	// Register the supported bucket drivers
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
)

// sectionSeparator joins the objects of a multi-part manual.
const sectionSeparator = "\n"

// ManualService reads manuals from a bucket. A path names either a single object or a
// prefix whose objects are concatenated in key order.
type ManualService struct {
	bucket *blob.Bucket
	logger *slog.Logger
}

// OpenBucket opens the manual bucket from a URL such as file:///var/lib/manuals or mem://.
func OpenBucket(ctx context.Context, bucketURL string) (*blob.Bucket, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open manual bucket: %w", err)
	}
	return bucket, nil
}

// NewManualService creates a manual lookup backed by the given bucket.
func NewManualService(bucket *blob.Bucket, logger *slog.Logger) *ManualService {
	return &ManualService{bucket: bucket, logger: logger}
}

// Read returns the manual text for path.
func (s *ManualService) Read(ctx context.Context, path string) (string, error) {
	key, err := normalizeKey(path)
	if err != nil {
		return "", err
	}

	data, err := s.bucket.ReadAll(ctx, key)
	if err == nil {
		return string(data), nil
	}
	if gcerrors.Code(err) != gcerrors.NotFound {
		return "", fmt.Errorf("failed to read manual %q: %w", key, err)
	}

	text, found, err := s.readPrefix(ctx, strings.TrimSuffix(key, "/")+"/")
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("%w: %s", domain.ErrManualNotFound, key)
	}
	return text, nil
}

// readPrefix concatenates every object under prefix. List returns keys in
// lexicographical order.
func (s *ManualService) readPrefix(ctx context.Context, prefix string) (string, bool, error) {
	iter := s.bucket.List(&blob.ListOptions{Prefix: prefix})

	var sections []string
	for {
		obj, err := iter.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", false, fmt.Errorf("failed to list manual %q: %w", prefix, err)
		}
		if obj.IsDir {
			continue
		}

		data, err := s.bucket.ReadAll(ctx, obj.Key)
		if err != nil {
			return "", false, fmt.Errorf("failed to read manual section %q: %w", obj.Key, err)
		}
		sections = append(sections, string(data))
	}

	if len(sections) == 0 {
		return "", false, nil
	}

	if s.logger != nil {
		s.logger.Debug("manual assembled from prefix",
			slog.String("prefix", prefix),
			slog.Int("sections", len(sections)),
		)
	}
	return strings.Join(sections, sectionSeparator), true, nil
}

// Close releases the underlying bucket.
func (s *ManualService) Close() error {
	return s.bucket.Close()
}

func normalizeKey(path string) (string, error) {
	key := strings.TrimLeft(strings.TrimSpace(path), "/")
	if key == "" {
		return "", fmt.Errorf("%w: empty path", domain.ErrManualNotFound)
	}
	for _, segment := range strings.Split(key, "/") {
		if segment == ".." {
			return "", fmt.Errorf("%w: path %q escapes the manual root", domain.ErrManualNotFound, path)
		}
	}
	return key, nil
}
