package job

// State describes where a job currently is in its pipeline.
type State string

const (
	StateExtracting     State = "extracting"
	StateDownloading    State = "downloading"
	StatePostProcessing State = "postprocessing"
	StateDone           State = "done"
	StateFailed         State = "failed"
	StateCancelled      State = "cancelled"
	StateTimedOut       State = "timedout"
)

// Quality is the requested output quality for a fetch.
type Quality string

const (
	Quality360p  Quality = "360p"
	Quality480p  Quality = "480p"
	Quality720p  Quality = "720p"
	Quality1080p Quality = "1080p"
	QualityAudio Quality = "audio"
	QualityBest  Quality = "best"
)

var formatSelectors = map[Quality]string{
	Quality360p:  "best[height<=360]",
	Quality480p:  "best[height<=480]",
	Quality720p:  "best[height<=720]",
	Quality1080p: "best[height<=1080]",
	QualityAudio: "bestaudio",
	QualityBest:  "best",
}

// ParseQuality maps a raw quality string to a known Quality.
// Unrecognized values fall back to best; that is not an error.
func ParseQuality(raw string) Quality {
	q := Quality(raw)
	if _, ok := formatSelectors[q]; !ok {
		return QualityBest
	}
	return q
}

// FormatSelector returns the stream selection expression for the quality.
func (q Quality) FormatSelector() string {
	if sel, ok := formatSelectors[q]; ok {
		return sel
	}
	return formatSelectors[QualityBest]
}

// Metadata is what extraction yields for a media URL, before anything
// is downloaded.
type Metadata struct {
	Title         string
	Description   string
	Thumbnail     string
	FilesizeBytes int64
	Subtitles     map[string][]SubtitleTrack
}

// SubtitleTrack points at a fetchable caption file.
type SubtitleTrack struct {
	URL string
	Ext string
}

// Handle is the cancellable, pollable view of a running external tool
// invocation. Cancel is best-effort and does not guarantee immediate
// process death; Result is only valid once IsDone reports true.
type Handle interface {
	IsDone() bool
	Cancel()
	Result() error
}

// Result is the descriptor returned to the client for a finished job.
type Result struct {
	Title       string   `json:"title"`
	Thumbnail   string   `json:"thumbnail"`
	DownloadURL string   `json:"download_url"`
	Captions    string   `json:"captions"`
	PostCaption string   `json:"post_caption"`
	FilesizeMB  *float64 `json:"filesize_mb"`
}
