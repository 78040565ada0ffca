package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/MaazSiddiqui25/Baqir-Sons/pkg/errors"
)

// cmsErrorBody is the error envelope returned by the content API:
//
//	{"error": {"description": "...", "type": "queryParseError"}}
//
// Some gateway errors use {"message": "..."} at the top level instead, and the
// storefront API itself answers {"error": {"code": "...", "message": "..."}}.
type cmsErrorBody struct {
	Error *struct {
		Description string `json:"description"`
		Type        string `json:"type"`
		Code        string `json:"code"`
		Message     string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

// ParseResponseError reads the body of a non-2xx response and translates it
// into an AppError. The body is fully consumed and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer drain(resp.Body)

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	message := string(bodyBytes)
	var parsed cmsErrorBody
	if json.Unmarshal(bodyBytes, &parsed) == nil {
		switch {
		case parsed.Error != nil && parsed.Error.Description != "":
			message = parsed.Error.Description
			if parsed.Error.Type != "" {
				message = parsed.Error.Type + ": " + message
			}
		case parsed.Error != nil && parsed.Error.Message != "":
			message = parsed.Error.Message
			if parsed.Error.Code != "" {
				message = parsed.Error.Code + ": " + message
			}
		case parsed.Message != "":
			message = parsed.Message
		}
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	return mapStatus(resp.StatusCode, message, serviceName)
}

func mapStatus(status int, message, serviceName string) error {
	qualified := fmt.Sprintf("%s: %s", serviceName, message)

	switch {
	case status == http.StatusBadRequest:
		return apperrors.InvalidInput(qualified)
	case status == http.StatusUnauthorized:
		return apperrors.Unauthorized(qualified)
	case status == http.StatusForbidden:
		return apperrors.Forbidden(qualified)
	case status == http.StatusNotFound:
		return apperrors.NotFound(serviceName, message)
	case status == http.StatusTooManyRequests:
		return apperrors.RateLimited(qualified)
	case status == http.StatusServiceUnavailable:
		return apperrors.Unavailable(qualified)
	default:
		return apperrors.Upstream(serviceName, status, message)
	}
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
