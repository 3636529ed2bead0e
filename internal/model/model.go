package model

import (
	"time"

	"tomgalvin.uk/ptgoprint/internal/history"
	"tomgalvin.uk/ptgoprint/internal/ptouch"
)

// PrintingRequest is the body of a POST /print call. Either Text is set and
// the server renders it, or Pixels carries raw row-major pixel data whose
// height must match the printable width of the loaded tape (or the full
// 128-pin head).
type PrintingRequest struct {
	Text     string `json:"text,omitempty"`
	Font     string `json:"font,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Pixels   []byte `json:"pixels,omitempty"`
	LastPage *bool  `json:"lastPage,omitempty"`
}

type StatusResponse struct {
	State          string   `json:"state"`
	MediaWidth     int      `json:"mediaWidth"`
	MediaType      int      `json:"mediaType"`
	TapeColor      int      `json:"tapeColor"`
	TextColor      int      `json:"textColor"`
	PrintableWidth int      `json:"printableWidth"`
	Errors         []string `json:"errors,omitempty"`
}

func FromStatus(state ptouch.State, s *ptouch.Status) StatusResponse {
	printable, _ := ptouch.PrintableWidth(s.MediaWidth)
	return StatusResponse{
		State:          state.String(),
		MediaWidth:     int(s.MediaWidth),
		MediaType:      int(s.MediaType),
		TapeColor:      int(s.TapeColor),
		TextColor:      int(s.TextColor),
		PrintableWidth: printable,
		Errors:         s.ErrorReasons(),
	}
}

type JobResponse struct {
	Uuid          string    `json:"uuid"`
	SubmittedAt   time.Time `json:"submittedAt"`
	Columns       int       `json:"columns"`
	MediaWidth    int       `json:"mediaWidth"`
	LastPage      bool      `json:"lastPage"`
	Outcome       string    `json:"outcome"`
	FailureReason string    `json:"failureReason,omitempty"`
}

func FromJob(j *history.Job) JobResponse {
	return JobResponse{
		Uuid:          j.Uuid.String(),
		SubmittedAt:   j.SubmittedAt,
		Columns:       j.Columns,
		MediaWidth:    j.MediaWidth,
		LastPage:      j.LastPage,
		Outcome:       j.Outcome,
		FailureReason: j.FailureReason,
	}
}
