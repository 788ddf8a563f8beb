package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/emiliopalmerini/mreport/internal/adapters/capture"
	"github.com/emiliopalmerini/mreport/internal/adapters/pngenc"
	"github.com/emiliopalmerini/mreport/internal/domain"
	"github.com/emiliopalmerini/mreport/internal/ports"
	"github.com/emiliopalmerini/mreport/internal/report"
)

type reportResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type submissionResponse struct {
	ID                  string    `json:"id"`
	CardID              string    `json:"card_id,omitempty"`
	Category            string    `json:"category"`
	Title               string    `json:"title"`
	Outcome             string    `json:"outcome"`
	Message             string    `json:"message"`
	ScreenshotRequested bool      `json:"screenshot_requested"`
	CreatedAt           time.Time `json:"created_at"`
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid form: %v", err))
		return
	}

	category := domain.CategoryBug
	if raw := r.FormValue("category"); raw != "" {
		c, err := domain.ParseCategory(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		category = c
	}

	capturer, err := screenshotFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctrl, err := s.newController(capturer)
	if err != nil {
		s.logger.Error("failed to create controller", "error", err)
		writeError(w, http.StatusInternalServerError, "report form unavailable")
		return
	}

	if _, err := ctrl.Fill(category, r.FormValue("title"), r.FormValue("description"), capturer != nil); err != nil {
		s.logger.Error("failed to fill draft", "error", err)
		writeError(w, http.StatusInternalServerError, "report form unavailable")
		return
	}

	result, err := ctrl.Submit(r.Context())
	if err != nil {
		s.logger.Error("submit refused", "error", err)
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	status := http.StatusOK
	if result.Outcome() == domain.OutcomeInvalid {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, reportResponse{Success: result.OK(), Message: result.Message()})
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if s.deps.Repository == nil {
		writeError(w, http.StatusNotFound, "history is not enabled")
		return
	}

	opts := ports.ListSubmissionsOptions{Limit: defaultHistoryLimit}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		opts.Limit = limit
	}
	if raw := r.URL.Query().Get("category"); raw != "" {
		c, err := domain.ParseCategory(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		opts.Category = &c
	}

	submissions, err := s.deps.Repository.List(r.Context(), opts)
	if err != nil {
		s.logger.Error("failed to list submissions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list submissions")
		return
	}

	out := make([]submissionResponse, 0, len(submissions))
	for _, sub := range submissions {
		out = append(out, submissionResponse{
			ID:                  sub.ID,
			CardID:              sub.CardID,
			Category:            sub.Category.String(),
			Title:               sub.Title,
			Outcome:             string(sub.Outcome),
			Message:             sub.Message,
			ScreenshotRequested: sub.ScreenshotRequested,
			CreatedAt:           sub.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// newController builds a single-use controller for one request. A nil
// capturer leaves the controller without a capture service.
func (s *Server) newController(capturer *capture.Static) (*report.Controller, error) {
	opts := []report.Option{
		report.WithEncoder(pngenc.Encoder{}),
		report.WithLogger(s.logger),
	}
	if s.cfg.Version != "" {
		opts = append(opts, report.WithVersion(ports.StaticVersion(s.cfg.Version)))
	}
	if capturer != nil {
		opts = append(opts, report.WithCapturer(capturer))
	}
	if s.deps.Repository != nil {
		opts = append(opts, report.WithRepository(s.deps.Repository))
	}
	if s.deps.Metrics != nil {
		opts = append(opts, report.WithMetrics(s.deps.Metrics))
	}

	ctrl, err := report.New(s.cfg.Report, s.deps.Client, opts...)
	if err != nil {
		return nil, err
	}
	if err := ctrl.Show(); err != nil {
		return nil, err
	}
	return ctrl, nil
}

// screenshotFromRequest returns nil when the request carries no screenshot.
func screenshotFromRequest(r *http.Request) (*capture.Static, error) {
	file, _, err := r.FormFile("screenshot")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read screenshot: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read screenshot: %w", err)
	}
	return capture.FromPNG(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
