package fetch

import (
	"context"

	"ytd/internal/domain/job"
)

// Fetcher is an application port for media metadata extraction and
// download, backed by an external fetching tool.
type Fetcher interface {
	Extract(ctx context.Context, url string) (*job.Metadata, error)
	StartDownload(url, formatSelector, destPath string) (job.Handle, error)
}

// Transcoder is an application port for artifact post-processing.
type Transcoder interface {
	StartReencode(inputPath, outputPath string) (job.Handle, error)
	ExtractFrame(ctx context.Context, inputPath, outputPath string) error
}

// ArtifactStore is an application port for artifact file management.
type ArtifactStore interface {
	ArtifactPath(name string) string
	Remove(name string) error
	Replace(tempName, finalName string) error
}
