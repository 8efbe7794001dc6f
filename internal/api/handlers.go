package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/socialchef/recipebook/internal/cache"
	"github.com/socialchef/recipebook/internal/importer"
	"github.com/socialchef/recipebook/internal/services/recipe"
	"github.com/socialchef/recipebook/internal/validation"
	"github.com/socialchef/recipebook/internal/worker"
)

// multipartOverhead is the allowance for form fields and boundaries on top of the file limit.
const multipartOverhead = 1 << 20

type ScrapeRecipeRequest struct {
	URL    string `json:"url"`
	Text   string `json:"text"`
	UserID string `json:"userId"`
}

func (s *Server) HandleScrapeRecipe(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.UserID == "" || (strings.TrimSpace(req.URL) == "" && strings.TrimSpace(req.Text) == "") {
		writeError(w, http.StatusBadRequest, "URL and User ID are required")
		return
	}

	rec, err := s.importer.ExtractFromSource(r.Context(), importer.Source{
		URL:    req.URL,
		Text:   req.Text,
		UserID: req.UserID,
	})
	if err != nil {
		writeAppError(w, r, err, "")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

type fileResponse struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type summaryData struct {
	Message string `json:"message"`
	importer.BatchSummary
}

func (s *Server) HandleOCRRecipe(w http.ResponseWriter, r *http.Request) {
	if s.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+multipartOverhead)
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Uploaded file is too large (max %d MB).", s.maxUploadBytes>>20))
			return
		}
		writeError(w, http.StatusBadRequest, "File and userId are required")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	userID := r.FormValue("userId")
	if err != nil || userID == "" {
		writeError(w, http.StatusBadRequest, "File and userId are required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	mimeType := validation.DetectMIMEType(header.Header.Get("Content-Type"), data)
	if err := validation.CheckUpload(data, mimeType, s.maxUploadBytes); err != nil {
		writeAppError(w, r, err, "")
		return
	}

	result, err := s.importer.ImportFile(r.Context(), userID, data, mimeType)
	if err != nil {
		writeAppError(w, r, err, "Failed to process file: ")
		return
	}

	if result.Summary != nil {
		writeJSON(w, http.StatusOK, fileResponse{
			Type: "summary",
			Data: summaryData{Message: result.Summary.Message(), BatchSummary: *result.Summary},
		})
		return
	}
	writeJSON(w, http.StatusOK, fileResponse{Type: string(recipe.ClassificationRecipe), Data: result.Recipe})
}

type ImportURLsRequest struct {
	UserID string   `json:"userId"`
	URLs   []string `json:"urls"`
}

type ImportURLsResponse struct {
	JobID string `json:"job_id"`
}

// HandleImportURLs queues a URL list for background import. The user's
// credential is checked up front so configuration errors surface immediately.
func (s *Server) HandleImportURLs(w http.ResponseWriter, r *http.Request) {
	var req ImportURLsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId and urls are required")
		return
	}

	urls, err := validation.CleanURLList(req.URLs)
	if err != nil {
		writeAppError(w, r, err, "")
		return
	}

	if _, _, err := s.importer.ResolveCredential(r.Context(), req.UserID); err != nil {
		writeAppError(w, r, err, "")
		return
	}

	jobID := uuid.New().String()
	task, err := worker.NewImportURLListTask(worker.ImportURLListPayload{
		JobID:  jobID,
		UserID: req.UserID,
		URLs:   urls,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create task")
		return
	}

	// Queued is written before the enqueue so the worker's first update wins.
	status := &cache.ImportStatus{
		JobID:     jobID,
		UserID:    req.UserID,
		Status:    cache.StatusQueued,
		TotalURLs: len(urls),
	}
	if err := s.statuses.Set(r.Context(), status); err != nil {
		writeAppError(w, r, err, "Failed to create import job: ")
		return
	}

	if _, err := s.queue.EnqueueContext(r.Context(), task); err != nil {
		status.Status = cache.StatusFailed
		status.Error = "Failed to enqueue task"
		if setErr := s.statuses.Set(r.Context(), status); setErr != nil {
			slog.WarnContext(r.Context(), "Failed to mark import job failed", "job_id", jobID, "error", setErr)
		}
		writeAppError(w, r, err, "Failed to enqueue task: ")
		return
	}

	writeJSON(w, http.StatusAccepted, ImportURLsResponse{JobID: jobID})
}

func (s *Server) HandleImportStatus(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("job_id")
	if jobID == "" {
		writeError(w, http.StatusBadRequest, "job_id is required")
		return
	}

	status, err := s.statuses.Get(r.Context(), jobID)
	if err != nil {
		writeAppError(w, r, err, "Failed to load job: ")
		return
	}
	if status == nil {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}

	writeJSON(w, http.StatusOK, status)
}
