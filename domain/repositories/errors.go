package repositories

import "errors"

// RemoteCallError is returned whenever a remote chat call cannot complete:
// network failure, rejected credential, quota exhaustion or an unusable response.
type RemoteCallError struct {
	Message string
	Err     error
}

// NewRemoteCallError wraps err, taking the message from it
func NewRemoteCallError(err error) *RemoteCallError {
	msg := "unknown failure"
	if err != nil {
		msg = err.Error()
	}
	return &RemoteCallError{Message: msg, Err: err}
}

func (e *RemoteCallError) Error() string {
	return e.Message
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

// IsRemoteCallError reports whether err is or wraps a RemoteCallError
func IsRemoteCallError(err error) bool {
	var target *RemoteCallError
	return errors.As(err, &target)
}
