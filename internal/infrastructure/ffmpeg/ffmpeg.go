package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"ytd/internal/domain/job"
	"ytd/internal/infrastructure/proc"
)

const frameOffset = "00:00:01.000"

// Converter wraps ffmpeg calls for artifact post-processing.
type Converter struct {
	binaryPath  string
	cancelGrace time.Duration
}

// NewConverter creates the ffmpeg adapter. An empty binaryPath assumes
// ffmpeg is on PATH.
func NewConverter(binaryPath string, cancelGrace time.Duration) *Converter {
	if binaryPath == "" {
		binaryPath = "ffmpeg"
	}
	return &Converter{binaryPath: binaryPath, cancelGrace: cancelGrace}
}

// StartReencode begins normalizing inputPath into an H.264/AAC MP4 at
// outputPath. The caller supervises the returned handle and swaps the
// output into place after a successful exit.
func (c *Converter) StartReencode(inputPath, outputPath string) (job.Handle, error) {
	args := []string{
		"-y",
		"-i", inputPath,
		"-c:v", "libx264",
		"-c:a", "aac",
		"-b:a", "192k",
		"-preset", "fast",
		outputPath,
	}
	return proc.Start(c.binaryPath, args, c.cancelGrace)
}

// ExtractFrame grabs a single frame one second into the media and writes
// it to outputPath. Blocking; failures here are expected to be non-fatal
// for the caller.
func (c *Converter) ExtractFrame(ctx context.Context, inputPath, outputPath string) error {
	args := []string{
		"-y",
		"-i", inputPath,
		"-ss", frameOffset,
		"-vframes", "1",
		outputPath,
	}

	cmd := exec.CommandContext(ctx, c.binaryPath, args...)
	var stderr bytes.Buffer
	cmd.Stdout = &stderr
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
