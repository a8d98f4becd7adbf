// Package enrich runs the post-upload metadata extraction for audio and
// video payloads. It receives the decrypted bytes and the declared MIME type
// and writes auxiliary rows keyed by file id. Enrichment failures are logged
// and never roll back the upload.
package enrich

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
	"github.com/rohits-web03/collabdrive/internal/config"
	"github.com/rohits-web03/collabdrive/internal/models"
	"github.com/rohits-web03/collabdrive/internal/repositories"
	"gorm.io/gorm"
)

// Enrichment is one variant of the post-upload extraction step.
type Enrichment interface {
	Enrich(ctx context.Context, db *gorm.DB, file models.File, data []byte) error
}

// ForMIME selects the enrichment variant once, at upload time. Nil means no
// enrichment applies to this payload.
func ForMIME(mimeType string) Enrichment {
	switch {
	case strings.HasPrefix(mimeType, "audio/"):
		return &AudioEnrichment{}
	case strings.HasPrefix(mimeType, "video/"):
		return &VideoEnrichment{
			FFprobe: config.Envs.FFprobePath,
			FFmpeg:  config.Envs.FFmpegPath,
		}
	default:
		return nil
	}
}

// AudioEnrichment parses embedded tags (ID3 and friends) out of the payload.
type AudioEnrichment struct{}

func (e *AudioEnrichment) Enrich(ctx context.Context, db *gorm.DB, file models.File, data []byte) error {
	meta, err := tag.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parsing audio tags: %w", err)
	}

	title := meta.Title()
	if title == "" {
		title = file.Name
	}

	var cover string
	if pic := meta.Picture(); pic != nil && len(pic.Data) > 0 {
		cover = fmt.Sprintf("data:%s;base64,%s", pic.MIMEType, base64.StdEncoding.EncodeToString(pic.Data))
	}

	record := models.MusicMetadata{
		FileID: file.ID,
		Title:  title,
		Artist: meta.Artist(),
		Album:  meta.Album(),
		Cover:  cover,
		Lyrics: meta.Lyrics(),
	}
	return db.WithContext(ctx).Create(&record).Error
}

// VideoEnrichment probes the container with ffprobe and extracts a thumbnail
// frame with ffmpeg, storing the frame in the blob store.
type VideoEnrichment struct {
	FFprobe string
	FFmpeg  string
}

type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
}

func (e *VideoEnrichment) Enrich(ctx context.Context, db *gorm.DB, file models.File, data []byte) error {
	tmpDir, err := os.MkdirTemp("", "enrich-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	srcPath := filepath.Join(tmpDir, "source")
	if err := os.WriteFile(srcPath, data, 0o600); err != nil {
		return err
	}

	probe, err := e.probe(ctx, srcPath)
	if err != nil {
		return err
	}

	record := models.VideoMetadata{
		FileID: file.ID,
		Title:  file.Name,
	}
	if seconds, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
		record.Duration = int(seconds)
	}
	for _, stream := range probe.Streams {
		if stream.CodecType == "video" {
			record.Resolution = fmt.Sprintf("%dx%d", stream.Width, stream.Height)
			record.Codec = stream.CodecName
			break
		}
	}

	// The thumbnail is nice-to-have; metadata still lands without it.
	if key, err := e.thumbnail(ctx, srcPath, tmpDir, file); err == nil {
		record.Thumbnail = key
	}

	return db.WithContext(ctx).Create(&record).Error
}

func (e *VideoEnrichment) probe(ctx context.Context, srcPath string) (*ffprobeOutput, error) {
	cmd := exec.CommandContext(ctx, e.FFprobe,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		srcPath,
	)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe: %w", err)
	}

	var probe ffprobeOutput
	if err := json.Unmarshal(out, &probe); err != nil {
		return nil, fmt.Errorf("parsing ffprobe output: %w", err)
	}
	return &probe, nil
}

func (e *VideoEnrichment) thumbnail(ctx context.Context, srcPath, tmpDir string, file models.File) (string, error) {
	thumbPath := filepath.Join(tmpDir, "thumb.jpg")
	cmd := exec.CommandContext(ctx, e.FFmpeg,
		"-ss", "00:00:01.000",
		"-i", srcPath,
		"-frames:v", "1",
		"-s", "320x240",
		"-y", thumbPath,
	)
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg thumbnail: %w", err)
	}

	thumb, err := os.ReadFile(thumbPath)
	if err != nil {
		return "", err
	}

	key := file.ID.String() + "_thumb.jpg"
	if err := repositories.PutObject(ctx, key, thumb, "image/jpeg"); err != nil {
		return "", err
	}
	return key, nil
}
