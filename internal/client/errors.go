package client

import (
	"errors"
	"fmt"
)

// Action names the gateway operation that was attempted.
type Action string

const (
	ActionList        Action = "list"
	ActionCreate      Action = "create"
	ActionUpdate      Action = "update"
	ActionToggle      Action = "toggle"
	ActionDelete      Action = "delete"
	ActionCurrentUser Action = "current_user"
	ActionLogin       Action = "login"
	ActionRegister    Action = "register"
	ActionLogout      Action = "logout"
)

// OperationError is the single failure signal of the gateway. Network errors
// and non-success statuses are both reported this way; Err keeps the detail
// for logging.
type OperationError struct {
	Action Action
	Err    error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Action, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

func opFailed(action Action, err error) error {
	return &OperationError{Action: action, Err: err}
}

// IsOperationFailed reports whether err came from a failed gateway call and
// returns the attempted action.
func IsOperationFailed(err error) (Action, bool) {
	var oe *OperationError
	if errors.As(err, &oe) {
		return oe.Action, true
	}
	return "", false
}

// StatusCode returns the HTTP status carried by err, or 0 when the failure
// never produced a response.
func StatusCode(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.StatusCode
	}
	return 0
}
