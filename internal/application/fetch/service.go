package fetch

import (
	"context"
	"errors"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"ytd/internal/domain/job"
	"ytd/internal/metrics"
)

const (
	defaultPhaseTimeout = 300 * time.Second
	defaultPollInterval = time.Second

	megabyte = 1024 * 1024
)

// Options holds pipeline policy knobs.
type Options struct {
	// BaseURL is the serving base joined with artifact paths in
	// returned descriptors, e.g. http://127.0.0.1:8000.
	BaseURL string
	// PhaseTimeout is the per-phase ceiling for extraction, download
	// and re-encode.
	PhaseTimeout time.Duration
	// PollInterval is the supervision tick for disconnect/timeout
	// checks while a tool runs.
	PollInterval time.Duration
	// Reencode normalizes every downloaded artifact to H.264/AAC
	// before it is served.
	Reencode bool
}

// Service drives a single fetch request through its pipeline phases:
// extract, download, post-process, finalize. One instance serves all
// requests; jobs share no state beyond the artifact directory.
type Service struct {
	fetcher    Fetcher
	transcoder Transcoder
	store      ArtifactStore
	logger     *log.Logger
	httpClient *http.Client
	opts       Options
}

// NewService creates the job controller with injected ports.
func NewService(fetcher Fetcher, transcoder Transcoder, store ArtifactStore, logger *log.Logger, opts Options) *Service {
	if opts.PhaseTimeout <= 0 {
		opts.PhaseTimeout = defaultPhaseTimeout
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &Service{
		fetcher:    fetcher,
		transcoder: transcoder,
		store:      store,
		logger:     logger,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		opts:       opts,
	}
}

// RunJob executes the whole pipeline for url and returns the response
// descriptor or a classified *job.Error. ctx carries client-disconnect
// cancellation; a cancelled ctx terminates the running tool within one
// poll interval.
func (s *Service) RunJob(ctx context.Context, rawURL, quality string) (*job.Result, error) {
	url := strings.TrimSpace(rawURL)
	if url == "" {
		return nil, job.NewError(job.KindUnprocessable, "No URL provided.", nil)
	}

	jobID := uuid.New().String()
	s.logger.Printf("[JOB %s] starting: quality=%s url=%s", jobID, quality, url)

	// Extracting
	extractCtx, cancel := context.WithTimeout(ctx, s.opts.PhaseTimeout)
	defer cancel()
	meta, err := s.fetcher.Extract(extractCtx, url)
	if err != nil {
		return nil, s.failJob(jobID, "extraction", classifyContextError(ctx, extractCtx, err))
	}

	title := meta.Title
	if strings.TrimSpace(title) == "" {
		title = "video"
	}
	artifactID := job.ArtifactID(title)
	fileName := artifactID + ".mp4"
	destPath := s.store.ArtifactPath(fileName)
	selector := job.ParseQuality(quality).FormatSelector()

	// Downloading
	s.logger.Printf("[JOB %s] downloading: artifact=%s selector=%s", jobID, fileName, selector)
	handle, err := s.fetcher.StartDownload(url, selector, destPath)
	if err != nil {
		return nil, s.failJob(jobID, "download", job.NewError(job.KindInternal, "Server error, try again later.", err))
	}
	if err := s.supervise(ctx, handle, "Download"); err != nil {
		_ = s.store.Remove(fileName)
		return nil, s.failJob(jobID, "download", err.(*job.Error))
	}

	// PostProcessing
	if s.opts.Reencode {
		if err := s.reencode(ctx, jobID, artifactID, fileName); err != nil {
			return nil, s.failJob(jobID, "reencode", err.(*job.Error))
		}
	}

	thumbnail := meta.Thumbnail
	if thumbnail == "" {
		thumbName := artifactID + "_thumbnail.jpg"
		if err := s.transcoder.ExtractFrame(ctx, destPath, s.store.ArtifactPath(thumbName)); err != nil {
			s.logger.Printf("[JOB %s] thumbnail extraction failed: %v", jobID, err)
		} else {
			thumbnail = s.downloadURL(thumbName)
		}
	}

	captions := s.fetchCaptions(ctx, jobID, meta.Subtitles)

	var sizeMB *float64
	if meta.FilesizeBytes > 0 {
		v := math.Round(float64(meta.FilesizeBytes)/megabyte*100) / 100
		sizeMB = &v
	}

	s.logger.Printf("[JOB %s] done: artifact=%s", jobID, fileName)
	metrics.RecordJob("done")
	return &job.Result{
		Title:       title,
		Thumbnail:   thumbnail,
		DownloadURL: s.downloadURL(fileName),
		Captions:    captions,
		PostCaption: meta.Description,
		FilesizeMB:  sizeMB,
	}, nil
}

// reencode normalizes the downloaded artifact in place: transcode to a
// temporary sibling, then swap it in only after a clean ffmpeg exit.
func (s *Service) reencode(ctx context.Context, jobID, artifactID, fileName string) error {
	tempName := artifactID + ".tmp.mp4"
	s.logger.Printf("[JOB %s] re-encoding: artifact=%s", jobID, fileName)

	handle, err := s.transcoder.StartReencode(s.store.ArtifactPath(fileName), s.store.ArtifactPath(tempName))
	if err != nil {
		return job.NewError(job.KindInternal, "Server error, try again later.", err)
	}
	if err := s.supervise(ctx, handle, "Encoding"); err != nil {
		_ = s.store.Remove(tempName)
		_ = s.store.Remove(fileName)
		return err
	}
	if err := s.store.Replace(tempName, fileName); err != nil {
		_ = s.store.Remove(tempName)
		return job.NewError(job.KindInternal, "Server error, try again later.", err)
	}
	return nil
}

// supervise polls a running tool until completion, cancelling it on
// caller disconnect or when the phase exceeds its ceiling. The phase
// clock starts fresh on every call.
func (s *Service) supervise(ctx context.Context, handle job.Handle, phase string) error {
	start := time.Now()
	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	for {
		if handle.IsDone() {
			if err := handle.Result(); err != nil {
				return job.Classify(err)
			}
			return nil
		}

		select {
		case <-ctx.Done():
			handle.Cancel()
			return job.NewError(job.KindClientDisconnected, "Client disconnected.", ctx.Err())
		case <-ticker.C:
			if time.Since(start) > s.opts.PhaseTimeout {
				handle.Cancel()
				return job.NewError(job.KindTimedOut, phase+" timed out.", nil)
			}
		}
	}
}

func (s *Service) failJob(jobID, phase string, err *job.Error) *job.Error {
	s.logger.Printf("[JOB %s] %s failed (%s): %v", jobID, phase, err.Kind, err)
	metrics.RecordJob(string(err.Kind))
	return err
}

func (s *Service) downloadURL(name string) string {
	return s.opts.BaseURL + "/download/" + name
}

// classifyContextError distinguishes a caller disconnect from a phase
// timeout before falling back to tool-output classification.
func classifyContextError(parent, phase context.Context, err error) *job.Error {
	switch {
	case parent.Err() != nil:
		return job.NewError(job.KindClientDisconnected, "Client disconnected.", parent.Err())
	case errors.Is(phase.Err(), context.DeadlineExceeded):
		return job.NewError(job.KindTimedOut, "Extraction timed out.", phase.Err())
	default:
		return job.Classify(err)
	}
}
