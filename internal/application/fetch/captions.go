package fetch

import (
	"context"
	"io"
	"net/http"

	"ytd/internal/domain/job"
)

// fetchCaptions retrieves the body of the preferred subtitle track.
// The en track wins when present, otherwise any track is taken. Every
// failure is logged and swallowed; captions never fail a job.
func (s *Service) fetchCaptions(ctx context.Context, jobID string, subtitles map[string][]job.SubtitleTrack) string {
	if len(subtitles) == 0 {
		return ""
	}

	tracks := subtitles["en"]
	if len(tracks) == 0 {
		for _, candidate := range subtitles {
			if len(candidate) > 0 {
				tracks = candidate
				break
			}
		}
	}
	if len(tracks) == 0 {
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tracks[0].URL, nil)
	if err != nil {
		s.logger.Printf("[JOB %s] subtitle fetch error: %v", jobID, err)
		return ""
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Printf("[JOB %s] subtitle fetch error: %v", jobID, err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Printf("[JOB %s] subtitle fetch returned status %d", jobID, resp.StatusCode)
		return ""
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		s.logger.Printf("[JOB %s] subtitle fetch error: %v", jobID, err)
		return ""
	}
	return string(body)
}
