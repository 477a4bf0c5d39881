package youtube

import (
	"errors"
	"fmt"
	"net/http"
)

// UpstreamError is a failed Data API call. Auth failures, quota exhaustion
// and malformed requests all surface through it; the caller decides whether
// to abort the run.
type UpstreamError struct {
	Endpoint   string
	StatusCode int
	Reason     string
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("youtube %s: %s (%d): %s", e.Endpoint, e.Reason, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("youtube %s: status %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

// IsUpstreamError reports whether err is (or wraps) an UpstreamError.
func IsUpstreamError(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

// Reasons the API returns when a video's comment threads cannot be listed.
// These mean "no comments available", not "the call failed".
var disabledCommentReasons = map[string]bool{
	"commentsDisabled": true,
	"videoNotFound":    true,
	"forbidden":        true,
}

// IsCommentsUnavailable reports whether err means the video's comments are
// disabled or restricted rather than the request having failed.
func IsCommentsUnavailable(err error) bool {
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		return false
	}
	if ue.StatusCode == http.StatusNotFound {
		return true
	}
	// A 403 with reason quotaExceeded is a real failure and must propagate.
	return ue.StatusCode == http.StatusForbidden && disabledCommentReasons[ue.Reason]
}

// apiError mirrors the Data API error envelope.
type apiError struct {
	Error apiErrorBody `json:"error"`
}

type apiErrorBody struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Errors  []apiErrorItem `json:"errors"`
}

type apiErrorItem struct {
	Reason string `json:"reason"`
}
