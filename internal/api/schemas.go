package api

import (
	"time"

	"github.com/flashkick/flashkick-agent/internal/forms"
	"github.com/flashkick/flashkick-agent/internal/history"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

type LinkStateResponse struct {
	URL          string `json:"url"`
	Status       string `json:"status"`
	Message      string `json:"message,omitempty"`
	SubmissionID string `json:"submission_id,omitempty"`
}

type UploadStateResponse struct {
	Filename     string `json:"filename,omitempty"`
	Size         int64  `json:"size,omitempty"`
	Progress     int    `json:"progress"`
	Status       string `json:"status"`
	Message      string `json:"message,omitempty"`
	SubmissionID string `json:"submission_id,omitempty"`
}

type NotificationResponse struct {
	Form    string `json:"form"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

type StateResponse struct {
	Link          LinkStateResponse      `json:"link"`
	Upload        UploadStateResponse    `json:"upload"`
	Notifications []NotificationResponse `json:"notifications"`
}

type HistoryRecordResponse struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Target    string `json:"target"`
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Progress  int    `json:"progress"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type HistoryResponse struct {
	Submissions []HistoryRecordResponse `json:"submissions"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func LinkToResponse(s forms.LinkSnapshot) LinkStateResponse {
	return LinkStateResponse{
		URL:          s.URL,
		Status:       s.State.Status.String(),
		Message:      s.State.Message,
		SubmissionID: s.SubmissionID,
	}
}

func UploadToResponse(s forms.UploadSnapshot) UploadStateResponse {
	return UploadStateResponse{
		Filename:     s.DisplayName,
		Size:         s.Size,
		Progress:     s.Progress,
		Status:       s.State.Status.String(),
		Message:      s.State.Message,
		SubmissionID: s.SubmissionID,
	}
}

func NotificationsToResponse(items []forms.Notification) []NotificationResponse {
	resp := make([]NotificationResponse, len(items))
	for i, n := range items {
		resp[i] = NotificationResponse{Form: string(n.Form), Level: string(n.Level), Message: n.Message}
	}
	return resp
}

func RecordToResponse(r *history.Record) HistoryRecordResponse {
	return HistoryRecordResponse{
		ID:        r.ID,
		Kind:      r.Kind,
		Target:    r.Target,
		Status:    r.Status,
		Message:   r.Message,
		Progress:  r.Progress,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
		UpdatedAt: r.UpdatedAt.Format(time.RFC3339),
	}
}
