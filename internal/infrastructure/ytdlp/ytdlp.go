package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"ytd/internal/domain/job"
	"ytd/internal/infrastructure/proc"
)

// Client invokes the local yt-dlp binary for metadata extraction and
// media downloads.
type Client struct {
	binaryPath  string
	cancelGrace time.Duration
}

// NewClient creates a yt-dlp adapter. An empty binaryPath assumes yt-dlp
// is on PATH.
func NewClient(binaryPath string, cancelGrace time.Duration) *Client {
	if binaryPath == "" {
		binaryPath = "yt-dlp"
	}
	return &Client{binaryPath: binaryPath, cancelGrace: cancelGrace}
}

type rawSubtitle struct {
	URL string `json:"url"`
	Ext string `json:"ext"`
}

type rawInfo struct {
	Title          string                   `json:"title"`
	Description    string                   `json:"description"`
	Thumbnail      string                   `json:"thumbnail"`
	Filesize       int64                    `json:"filesize"`
	FilesizeApprox int64                    `json:"filesize_approx"`
	Subtitles      map[string][]rawSubtitle `json:"subtitles"`
}

// Extract fetches metadata for url without downloading any media.
// It blocks until yt-dlp exits or ctx is cancelled.
func (c *Client) Extract(ctx context.Context, url string) (*job.Metadata, error) {
	cmd := exec.CommandContext(ctx, c.binaryPath, "-J", "--no-playlist", "--no-warnings", url)

	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("yt-dlp failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	var raw rawInfo
	if err := json.Unmarshal(out.Bytes(), &raw); err != nil {
		return nil, fmt.Errorf("yt-dlp metadata parse failed: %w", err)
	}

	meta := &job.Metadata{
		Title:         raw.Title,
		Description:   raw.Description,
		Thumbnail:     raw.Thumbnail,
		FilesizeBytes: raw.Filesize,
	}
	if meta.FilesizeBytes == 0 {
		meta.FilesizeBytes = raw.FilesizeApprox
	}
	if len(raw.Subtitles) > 0 {
		meta.Subtitles = make(map[string][]job.SubtitleTrack, len(raw.Subtitles))
		for lang, tracks := range raw.Subtitles {
			converted := make([]job.SubtitleTrack, 0, len(tracks))
			for _, t := range tracks {
				converted = append(converted, job.SubtitleTrack{URL: t.URL, Ext: t.Ext})
			}
			meta.Subtitles[lang] = converted
		}
	}
	return meta, nil
}

// StartDownload begins an asynchronous download of url into destPath
// using the given format selector. The caller supervises the returned
// handle.
func (c *Client) StartDownload(url, formatSelector, destPath string) (job.Handle, error) {
	args := []string{
		"-f", formatSelector,
		"--no-playlist",
		"--no-warnings",
		"--concurrent-fragments", "3",
		"-o", destPath,
		url,
	}
	return proc.Start(c.binaryPath, args, c.cancelGrace)
}
