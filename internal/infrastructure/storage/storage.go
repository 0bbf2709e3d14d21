package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meetmind/pkg/config"
)

// ArtifactStore persists recorded audio and hands out readable locations
type ArtifactStore interface {
	Store(ctx context.Context, objectName, localPath string) (string, error)
	URL(ctx context.Context, objectName string) (string, error)
	Ping(ctx context.Context) error
}

// AudioObjectName names the durable copy of a recording: audio/meeting_<id>_<unix-millis><ext>.
// The extension of the source file is kept, defaulting to .wav.
func AudioObjectName(meetingID uuid.UUID, at time.Time, localPath string) string {
	ext := strings.ToLower(filepath.Ext(localPath))
	if ext == "" {
		ext = ".wav"
	}
	return fmt.Sprintf("audio/meeting_%s_%d%s", meetingID, at.UnixMilli(), ext)
}

// New builds the artifact store selected by STORAGE_TYPE
func New(ctx context.Context, cfg *config.StorageConfig) (ArtifactStore, error) {
	switch cfg.Type {
	case config.StorageTypeLocal:
		return NewLocalStore(cfg.LocalDir)
	case config.StorageTypeMinIO:
		return NewMinIOStore(ctx, cfg)
	}
	return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
}
