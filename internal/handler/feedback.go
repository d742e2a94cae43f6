package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/valentinpelus/feedbox/internal/middleware"
	"github.com/valentinpelus/feedbox/pkg/feedback"
	"github.com/valentinpelus/feedbox/pkg/types"
)

// User-facing messages
const (
	msgMissingFields = "Please fill in all required fields!"
	msgInvalidRating = "Please choose a rating from 1 to 5."
	msgThanks        = "Thank you for your feedback! We appreciate your input."
	msgNothingExport = "No feedback to export!"
	msgCleared       = "All feedback data has been cleared."
	msgConfirmClear  = "Clearing deletes all feedback and cannot be undone; repeat with confirm=true."
)

// max accepted request body
const maxBodyBytes = 64 << 10

// Notifier is told about every accepted submission
type Notifier interface {
	NotifyFeedback(ctx context.Context, record types.Record) error
}

// FeedbackHandler serves the submission and admin endpoints
type FeedbackHandler struct {
	store    *feedback.Store
	notifier Notifier
	now      func() time.Time
	log      *zap.SugaredLogger
}

// NewFeedbackHandler creates a new feedback handler. notifier may be nil.
func NewFeedbackHandler(store *feedback.Store, notifier Notifier, log *zap.SugaredLogger) *FeedbackHandler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &FeedbackHandler{
		store:    store,
		notifier: notifier,
		now:      time.Now,
		log:      log,
	}
}

// SetClock replaces the wall clock used for dates and statistics
func (h *FeedbackHandler) SetClock(now func() time.Time) {
	h.now = now
}

type submitRequest struct {
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Rating  json.RawMessage `json:"rating"`
	Message string          `json:"message"`
}

type submitResponse struct {
	Message string       `json:"message"`
	Record  types.Record `json:"record"`
}

type listResponse struct {
	Rows    []types.TableRow `json:"rows"`
	Summary types.Summary    `json:"summary"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Submit stores one feedback entry from a JSON or form body
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	sub, err := decodeSubmission(r)
	if err != nil {
		h.log.Debugw("Rejected malformed submission", "request_id", middleware.RequestID(r.Context()), "error", err)
		writeError(w, http.StatusBadRequest, "Failed to parse submission")
		return
	}

	record, err := feedback.NewRecord(sub, h.now())
	switch {
	case errors.Is(err, feedback.ErrMissingFields):
		writeError(w, http.StatusBadRequest, msgMissingFields)
		return
	case errors.Is(err, feedback.ErrInvalidRating):
		writeError(w, http.StatusBadRequest, msgInvalidRating)
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Append(r.Context(), record); err != nil {
		h.log.Errorw("Failed to store feedback", "request_id", middleware.RequestID(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to store feedback")
		return
	}

	if h.notifier != nil {
		if err := h.notifier.NotifyFeedback(r.Context(), record); err != nil {
			h.log.Warnw("Failed to send feedback notification", "request_id", middleware.RequestID(r.Context()), "error", err)
		}
	}

	writeJSON(w, http.StatusCreated, submitResponse{Message: msgThanks, Record: record})
}

// List returns the admin table and statistics
func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	records := h.store.LoadAll(r.Context())
	writeJSON(w, http.StatusOK, listResponse{
		Rows:    feedback.Rows(records),
		Summary: feedback.Summarize(records, h.now()),
	})
}

// Stats returns the aggregate statistics only
func (h *FeedbackHandler) Stats(w http.ResponseWriter, r *http.Request) {
	records := h.store.LoadAll(r.Context())
	writeJSON(w, http.StatusOK, feedback.Summarize(records, h.now()))
}

// Export downloads all feedback as CSV
func (h *FeedbackHandler) Export(w http.ResponseWriter, r *http.Request) {
	filename, data, err := h.store.Export(r.Context(), h.now())
	if errors.Is(err, feedback.ErrNothingToExport) {
		writeError(w, http.StatusNotFound, msgNothingExport)
		return
	}
	if err != nil {
		h.log.Errorw("Failed to export feedback", "request_id", middleware.RequestID(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to export feedback")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Clear deletes all feedback; it requires confirm=true
func (h *FeedbackHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm")); !confirmed {
		writeError(w, http.StatusBadRequest, msgConfirmClear)
		return
	}

	if err := h.store.Clear(r.Context()); err != nil {
		h.log.Errorw("Failed to clear feedback", "request_id", middleware.RequestID(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to clear feedback")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msgCleared})
}

func decodeSubmission(r *http.Request) (feedback.Submission, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req submitRequest
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(&req); err != nil {
			return feedback.Submission{}, err
		}
		rating, err := ratingText(req.Rating)
		if err != nil {
			return feedback.Submission{}, err
		}
		return feedback.Submission{
			Name:    req.Name,
			Email:   req.Email,
			Rating:  rating,
			Message: req.Message,
		}, nil
	}

	if err := r.ParseForm(); err != nil {
		return feedback.Submission{}, err
	}
	return feedback.Submission{
		Name:    r.PostForm.Get("name"),
		Email:   r.PostForm.Get("email"),
		Rating:  r.PostForm.Get("rating"),
		Message: r.PostForm.Get("message"),
	}, nil
}

// ratingText turns a JSON rating (number, string or null) into the form value
// NewRecord validates; null and "" both mean the field was left empty
func ratingText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0 || string(raw) == "null":
		return "", nil
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	default:
		return string(raw), nil
	}
}
