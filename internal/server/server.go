package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"tomgalvin.uk/ptgoprint/internal/bitmap"
	"tomgalvin.uk/ptgoprint/internal/history"
	"tomgalvin.uk/ptgoprint/internal/label"
	"tomgalvin.uk/ptgoprint/internal/model"
	"tomgalvin.uk/ptgoprint/internal/ptouch"
)

type Server struct {
	Session    *ptouch.Session
	Repository *history.JobRepository
}

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/print", s.handlePrint)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/jobs", s.handleJobs)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Only GET method is supported", http.StatusMethodNotAllowed)
		return
	}

	status, err := s.Session.LastStatus()
	if err != nil {
		http.Error(w, "printer not connected", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, model.FromStatus(s.Session.State(), status))
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Only GET method is supported", http.StatusMethodNotAllowed)
		return
	}

	jobs, err := s.Repository.List()
	if err != nil {
		slog.Error("Couldn't list jobs", "error", err)
		http.Error(w, "job history unavailable", http.StatusInternalServerError)
		return
	}

	responses := make([]model.JobResponse, len(jobs))
	for i := range jobs {
		responses[i] = model.FromJob(&jobs[i])
	}
	writeJSON(w, responses)
}

func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Only POST method is supported", http.StatusMethodNotAllowed)
		return
	}

	var request model.PrintingRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	columns, err := s.buildColumns(&request)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	lastPage := true
	if request.LastPage != nil {
		lastPage = *request.LastPage
	}

	printErr := s.Session.Print(columns, lastPage)
	s.recordJob(columns, lastPage, printErr)

	switch {
	case printErr == nil:
		w.WriteHeader(http.StatusOK)
	case errors.Is(printErr, ptouch.ErrJobTooShort),
		errors.Is(printErr, ptouch.ErrUnsupportedMedia):
		http.Error(w, printErr.Error(), http.StatusBadRequest)
	default:
		var columnErr *ptouch.ColumnWidthError
		if errors.As(printErr, &columnErr) {
			http.Error(w, printErr.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("Print failed", "error", printErr)
		http.Error(w, printErr.Error(), http.StatusServiceUnavailable)
	}
}

// buildColumns turns the request into pixel columns, rendering text when
// provided and otherwise transposing the raw pixel rows.
func (s *Server) buildColumns(request *model.PrintingRequest) ([][]byte, error) {
	printableWidth, err := s.Session.PrintableWidth()
	if err != nil {
		return nil, err
	}

	if len(request.Text) > 0 {
		rendered, err := label.RenderText(request.Text, request.Font, printableWidth)
		if err != nil {
			return nil, fmt.Errorf("Couldn't render label text:\n%w", err)
		}
		dithered := bitmap.RenderForTape(rendered, printableWidth)
		b, err := bitmap.FromPaletted(dithered)
		if err != nil {
			return nil, err
		}
		return bitmap.Columns(b, ptouch.MinJobColumns), nil
	}

	b, err := bitmap.FromRows(request.Pixels, request.Width, request.Height)
	if err != nil {
		return nil, err
	}
	return bitmap.Columns(b, ptouch.MinJobColumns), nil
}

func (s *Server) recordJob(columns [][]byte, lastPage bool, printErr error) {
	mediaWidth, err := s.Session.MediaWidth()
	if err != nil {
		mediaWidth = 0
	}

	job := history.Job{
		Uuid:        uuid.New(),
		SubmittedAt: time.Now(),
		Columns:     len(columns),
		MediaWidth:  mediaWidth,
		LastPage:    lastPage,
		Outcome:     history.OutcomeCompleted,
	}
	if printErr != nil {
		job.Outcome = history.OutcomeFailed
		job.FailureReason = printErr.Error()
	}

	err = s.Repository.Transact(func(tx *sql.Tx) error {
		return s.Repository.Create(tx, &job)
	})
	if err != nil {
		slog.Error("Couldn't record job in history", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Couldn't encode response", "error", err)
	}
}
