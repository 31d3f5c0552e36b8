package sora

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// ContentKind selects which artifact of a generation to download.
type ContentKind string

const (
	ContentVideo ContentKind = "video"
	ContentGIF   ContentKind = "gif"
)

// WriteError reports that content was fetched successfully but persisting it
// failed. Content holds the fetched bytes so the caller can retry the write
// without another download.
type WriteError struct {
	Path    string
	Content []byte
	Err     error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("sora: content fetched but saving to %s failed: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// GetContent downloads the raw bytes of one generation artifact.
func (c *Client) GetContent(ctx context.Context, generationID string, kind ContentKind) ([]byte, error) {
	url := c.buildURL(fmt.Sprintf("%s/content/%s", generationID, kind), nil)
	c.logger.Debug("fetching generation content",
		zap.String("generation_id", generationID),
		zap.String("kind", string(kind)))

	data, err := c.doBinary(ctx, "get_content", url)
	if c.metrics != nil {
		c.metrics.observeDownload(kind, err)
	}
	return data, err
}

// GetVideoContent downloads the video artifact of a generation.
func (c *Client) GetVideoContent(ctx context.Context, generationID string) ([]byte, error) {
	return c.GetContent(ctx, generationID, ContentVideo)
}

// GetGIFContent downloads the preview-animation artifact of a generation.
func (c *Client) GetGIFContent(ctx context.Context, generationID string) ([]byte, error) {
	return c.GetContent(ctx, generationID, ContentGIF)
}

// SaveContent downloads one artifact and writes it to path. A fetch failure
// is reported as usual; a write failure after a successful fetch is reported
// as *WriteError carrying the fetched bytes.
func (c *Client) SaveContent(ctx context.Context, generationID string, kind ContentKind, path string) error {
	data, err := c.GetContent(ctx, generationID, kind)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &WriteError{Path: path, Content: data, Err: err}
	}
	c.logger.Info("content saved",
		zap.String("generation_id", generationID),
		zap.String("kind", string(kind)),
		zap.String("path", path))
	return nil
}

// SaveVideoContent saves the video artifact to path.
func (c *Client) SaveVideoContent(ctx context.Context, generationID, path string) error {
	return c.SaveContent(ctx, generationID, ContentVideo, path)
}

// SaveGIFContent saves the preview-animation artifact to path.
func (c *Client) SaveGIFContent(ctx context.Context, generationID, path string) error {
	return c.SaveContent(ctx, generationID, ContentGIF, path)
}

// DownloadResult reports what DownloadGeneration saved. GIFErr is set when
// the preview animation could not be retrieved; the video is unaffected.
type DownloadResult struct {
	VideoPath string
	GIFPath   string
	GIFErr    error
}

// DownloadGeneration saves the video and preview animation of a generation
// into dir with timestamped names. The video is mandatory; a GIF failure is
// degraded to a warning and recorded in the result, never rolled back into
// an error, since the video is already on disk.
func (c *Client) DownloadGeneration(ctx context.Context, generationID, dir string) (*DownloadResult, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("sora: ensure output dir: %w", err)
	}

	stamp := time.Now().Format("20060102_150405")
	result := &DownloadResult{
		VideoPath: filepath.Join(dir, fmt.Sprintf("video_%s_%s.mp4", generationID, stamp)),
	}
	if err := c.SaveVideoContent(ctx, generationID, result.VideoPath); err != nil {
		return nil, err
	}

	gifPath := filepath.Join(dir, fmt.Sprintf("gif_%s_%s.gif", generationID, stamp))
	if err := c.SaveGIFContent(ctx, generationID, gifPath); err != nil {
		c.logger.Warn("preview animation unavailable, keeping video",
			zap.String("generation_id", generationID),
			zap.Error(err))
		result.GIFErr = err
		return result, nil
	}
	result.GIFPath = gifPath
	return result, nil
}
