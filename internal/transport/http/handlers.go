package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"ytd/internal/domain/job"
)

// StatusClientClosedRequest is the nginx-convention status for a caller
// that disconnected mid-operation.
const StatusClientClosedRequest = 499

type fetchUseCases interface {
	RunJob(ctx context.Context, url, quality string) (*job.Result, error)
}

type artifactResolver interface {
	Resolve(raw string) (string, error)
}

type Handler struct {
	fetch  fetchUseCases
	store  artifactResolver
	logger *log.Logger
}

// NewHandler wires HTTP handlers with application use cases.
func NewHandler(fetchService fetchUseCases, store artifactResolver, logger *log.Logger) *Handler {
	return &Handler{fetch: fetchService, store: store, logger: logger}
}

// Root handles the liveness probe endpoint.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "YTD Backend is running!"})
}

// Fetch handles POST /fetch: runs the whole download pipeline and
// returns the artifact descriptor.
func (h *Handler) Fetch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Malformed form data."})
		return
	}

	url := r.FormValue("url")
	quality := r.FormValue("quality")
	if quality == "" {
		quality = "best"
	}

	result, err := h.fetch.RunJob(r.Context(), url, quality)
	if err != nil {
		h.writeJobError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Download handles GET /download/{filename}: streams the named artifact
// as an octet-stream attachment.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	full, err := h.store.Resolve(mux.Vars(r)["filename"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Invalid file name."})
		return
	}
	serveAttachment(w, r, full)
}

func (h *Handler) writeJobError(w http.ResponseWriter, err error) {
	var jobErr *job.Error
	if !errors.As(err, &jobErr) {
		h.logger.Printf("unclassified job error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Server error, try again later."})
		return
	}
	writeJSON(w, statusForKind(jobErr.Kind), map[string]string{"detail": jobErr.Message})
}

func statusForKind(kind job.Kind) int {
	switch kind {
	case job.KindUnprocessable:
		return http.StatusUnprocessableEntity
	case job.KindBadRequest, job.KindForbidden:
		return http.StatusBadRequest
	case job.KindNotFound:
		return http.StatusNotFound
	case job.KindClientDisconnected:
		return StatusClientClosedRequest
	case job.KindTimedOut:
		return http.StatusGatewayTimeout
	case job.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
