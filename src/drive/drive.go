// Package drive implements the review.DocumentSource against Google Drive
// v3: exporting native documents, downloading raw content, metadata
// lookups, and template copies into a destination folder.
package drive

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/Protocol-Lattice/sow-review/src/cache"
	"github.com/Protocol-Lattice/sow-review/src/retry"
)

const folderMIME = "application/vnd.google-apps.folder"

var (
	idPathRe  = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)
	idQueryRe = regexp.MustCompile(`[?&]id=([a-zA-Z0-9_-]+)`)
)

// IDFromURL extracts the file ID from a Drive, Docs, or Sheets URL.
func IDFromURL(url string) (string, error) {
	if m := idPathRe.FindStringSubmatch(url); m != nil {
		return m[1], nil
	}
	if m := idQueryRe.FindStringSubmatch(url); m != nil {
		return m[1], nil
	}
	return "", fmt.Errorf("no file ID in URL %q", url)
}

// Service wraps the Drive API. Exports are memoized for the process
// lifetime since the checklist and prompt files never change mid-run.
type Service struct {
	svc    *drive.Service
	policy retry.Policy
	cache  *cache.Cache
	logger *zap.Logger
}

// NewService builds a Service using the supplied client options (API key,
// credentials file, or ambient default credentials).
func NewService(ctx context.Context, logger *zap.Logger, policy retry.Policy, opts ...option.ClientOption) (*Service, error) {
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("drive init: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy.Classify == nil {
		policy.Classify = retry.TransientHTTP
	}
	return &Service{
		svc:    svc,
		policy: policy,
		cache:  cache.New(32, time.Hour),
		logger: logger,
	}, nil
}

// Export converts a native Google document to the requested format.
func (s *Service) Export(ctx context.Context, fileID, mimeType string) ([]byte, error) {
	key := cache.Key("export", fileID, mimeType)
	if data, ok := s.cache.Get(key); ok {
		return data, nil
	}
	data, err := retry.Value(ctx, s.policy, "drive export", func() ([]byte, error) {
		resp, err := s.svc.Files.Export(fileID, mimeType).Context(ctx).Download()
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return nil, fmt.Errorf("drive export %s as %s: %w", fileID, mimeType, err)
	}
	s.cache.Set(key, data)
	s.logger.Debug("exported file",
		zap.String("file_id", fileID),
		zap.String("mime", mimeType),
		zap.Int("size_bytes", len(data)))
	return data, nil
}

// Download fetches the raw binary content of a file.
func (s *Service) Download(ctx context.Context, fileID string) ([]byte, error) {
	data, err := retry.Value(ctx, s.policy, "drive download", func() ([]byte, error) {
		resp, err := s.svc.Files.Get(fileID).Context(ctx).Download()
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return nil, fmt.Errorf("drive download %s: %w", fileID, err)
	}
	return data, nil
}

// FileName returns the display name of a file.
func (s *Service) FileName(ctx context.Context, fileID string) (string, error) {
	f, err := retry.Value(ctx, s.policy, "drive metadata", func() (*drive.File, error) {
		return s.svc.Files.Get(fileID).Fields("name").Context(ctx).Do()
	})
	if err != nil {
		return "", fmt.Errorf("drive metadata %s: %w", fileID, err)
	}
	return f.Name, nil
}

// EnsureFolder finds a folder by name in the Drive root, creating it when
// missing, and returns its ID.
func (s *Service) EnsureFolder(ctx context.Context, name string) (string, error) {
	q := fmt.Sprintf("name='%s' and mimeType='%s' and trashed=false and 'root' in parents",
		strings.ReplaceAll(name, "'", `\'`), folderMIME)
	list, err := retry.Value(ctx, s.policy, "drive folder lookup", func() (*drive.FileList, error) {
		return s.svc.Files.List().Q(q).Fields("files(id)").
			Spaces("drive").SupportsAllDrives(true).IncludeItemsFromAllDrives(true).
			Context(ctx).Do()
	})
	if err != nil {
		return "", fmt.Errorf("drive folder lookup %q: %w", name, err)
	}
	if len(list.Files) > 0 {
		return list.Files[0].Id, nil
	}

	folder, err := retry.Value(ctx, s.policy, "drive folder create", func() (*drive.File, error) {
		return s.svc.Files.Create(&drive.File{Name: name, MimeType: folderMIME}).
			Fields("id").Context(ctx).Do()
	})
	if err != nil {
		return "", fmt.Errorf("drive folder create %q: %w", name, err)
	}
	s.logger.Info("created folder", zap.String("name", name), zap.String("folder_id", folder.Id))
	return folder.Id, nil
}

// CopyFile copies a file into the named folder under a new title and
// returns the copy's ID.
func (s *Service) CopyFile(ctx context.Context, sourceID, folderName, newTitle string) (string, error) {
	folderID, err := s.EnsureFolder(ctx, folderName)
	if err != nil {
		return "", err
	}
	copied, err := retry.Value(ctx, s.policy, "drive copy", func() (*drive.File, error) {
		body := &drive.File{Name: newTitle, Parents: []string{folderID}}
		return s.svc.Files.Copy(sourceID, body).Fields("id").Context(ctx).Do()
	})
	if err != nil {
		return "", fmt.Errorf("drive copy %s: %w", sourceID, err)
	}
	s.logger.Info("copied template",
		zap.String("source_id", sourceID),
		zap.String("copy_id", copied.Id),
		zap.String("title", newTitle))
	return copied.Id, nil
}
