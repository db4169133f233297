package models

import "time"

const TimestampLayout = "2006-01-02T15:04:05"

// ErrorResponse is the body of every non-2xx response except the API key
// gate's fixed rejections.
type ErrorResponse struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func NewErrorResponse(status int, message string, at time.Time) ErrorResponse {
	return ErrorResponse{
		Status:    status,
		Message:   message,
		Timestamp: at.Format(TimestampLayout),
	}
}
