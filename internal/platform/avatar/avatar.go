// Package avatar processes uploaded avatar images: spool to a temporary
// file, resize, then move into the publicly served avatars directory.
package avatar

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/phrazzld/contacts-api/internal/platform/logger"
)

// avatarSize is the edge length, in pixels, of processed avatars.
const avatarSize = 250

// Processor turns an uploaded image into a served avatar and returns its
// public URL path.
type Processor interface {
	// Process stores the uploaded image for the given user and returns the
	// public URL path of the processed avatar (e.g. /avatars/<file>).
	Process(ctx context.Context, userID uuid.UUID, upload io.Reader, originalName string) (string, error)
}

// FileProcessor implements Processor on the local filesystem.
//
// The upload is written to tmpDir first and only the resized copy lands in
// the public directory, so a half-written upload is never served. Temp file
// cleanup is best-effort: a crash between resize and unlink leaks the temp
// file but cannot corrupt the served avatar.
type FileProcessor struct {
	tmpDir     string
	avatarsDir string
	logger     *slog.Logger
}

// Ensure FileProcessor implements Processor interface
var _ Processor = (*FileProcessor)(nil)

// NewFileProcessor creates a FileProcessor rooted at the given directories,
// creating them if necessary. Avatars land under publicDir/avatars.
// If log is nil, a default logger will be used.
func NewFileProcessor(tmpDir, publicDir string, log *slog.Logger) (*FileProcessor, error) {
	if log == nil {
		log = slog.Default()
	}

	avatarsDir := filepath.Join(publicDir, "avatars")
	for _, dir := range []string{tmpDir, avatarsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return &FileProcessor{
		tmpDir:     tmpDir,
		avatarsDir: avatarsDir,
		logger:     log.With(slog.String("component", "avatar_processor")),
	}, nil
}

// Process implements Processor.
func (p *FileProcessor) Process(
	ctx context.Context,
	userID uuid.UUID,
	upload io.Reader,
	originalName string,
) (string, error) {
	log := logger.FromContextOrDefault(ctx, p.logger)

	tmp, err := os.CreateTemp(p.tmpDir, "avatar-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, upload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to spool upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	img, err := imaging.Open(tmpPath)
	if err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to decode avatar image: %w", err)
	}

	resized := imaging.Resize(img, avatarSize, avatarSize, imaging.Lanczos)

	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".jpg"
	}
	filename := fmt.Sprintf("%s-%d%s", userID, time.Now().UnixNano(), ext)
	finalPath := filepath.Join(p.avatarsDir, filename)

	if err := imaging.Save(resized, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to save avatar: %w", err)
	}

	// Best-effort cleanup; the avatar is already in place.
	if err := os.Remove(tmpPath); err != nil {
		log.Warn("failed to remove temp upload",
			slog.String("error", err.Error()),
			slog.String("path", tmpPath))
	}

	log.Info("avatar processed",
		slog.String("user_id", userID.String()),
		slog.String("file", filename))

	return "/avatars/" + filename, nil
}
