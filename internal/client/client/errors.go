package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable     = errors.New("server unavailable")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrPendingApproval = errors.New("account pending approval")
	ErrNoToken         = errors.New("response carries no token")
)

// CodePendingApproval is the machine-readable code of an account waiting for
// admin approval.
const CodePendingApproval = "PENDING_APPROVAL"

// legacyPendingMessage is what older backends put in the error field instead
// of a code.
const legacyPendingMessage = "This account is still not approved"

// APIError is a non-2xx response. It matches ErrUnauthorized for 401/403 and
// ErrPendingApproval for an approval-pending body.
//
// Message is the body's message field, the only text shown to users. Detail
// is the body's error field and only ends up in logs.
type APIError struct {
	StatusCode int
	Message    string
	Detail     string
	Code       string
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	case e.Detail != "":
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrPendingApproval:
		return e.pending()
	case ErrUnauthorized:
		return !e.pending() && (e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
	}
	return false
}

func (e *APIError) pending() bool {
	return e.Code == CodePendingApproval
}

// errorBody is the error envelope used by the backend.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

// classify maps an error envelope to an *APIError, or nil when the response
// is a success. The approval check runs before the status check.
func classify(status int, body errorBody) *APIError {
	if body.Code == CodePendingApproval || body.Error == legacyPendingMessage {
		return &APIError{StatusCode: status, Message: body.Message, Detail: body.Error, Code: CodePendingApproval}
	}

	if status >= 200 && status < 300 {
		return nil
	}
	return &APIError{StatusCode: status, Message: body.Message, Detail: body.Error, Code: body.Code}
}
