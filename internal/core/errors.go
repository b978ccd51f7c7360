package core

// Error codes for domain errors surfaced to clients.
const (
	ErrCodeNotFriends          = "not_friends"
	ErrCodeBadRequest          = "bad_request"
	ErrCodeDuplicateConnection = "duplicate_connection"
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
