package models

import "fmt"

// Server error codes the sync protocol inspects. The full catalogue lives on
// the server; the client only needs the ones that change its behaviour.
const (
	// CodeNoResponse is a client-side pseudo code: the request produced no
	// usable response at all (connection dropped, body unparsable). The
	// affected entity keeps its state and is retried on a later tick.
	CodeNoResponse = -1

	// Session errors that can be recovered by refreshing the token.
	CodeSessionTokenExpired = 1101
	CodeSessionInvalidToken = 1104
	CodeSessionMissingToken = 1108
	CodeAuthTokenExpired    = 1300
	CodeAuthInvalidToken    = 1301

	// CodeInvalidResource is a definitive rejection: the entity no longer
	// exists server-side and must be removed locally.
	CodeInvalidResource = 1501
)

// ServerError is the structured error payload embedded in non-2xx bodies.
type ServerError struct {
	Code          int    `json:"code"`
	ID            string `json:"id,omitempty"`
	Message       string `json:"message"`
	Details       string `json:"details,omitempty"`
	FailedOnField string `json:"failed_on_field,omitempty"`
}

func (e *ServerError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("api error %d: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

// IsSessionError reports whether the error belongs to the fixed set of codes
// that indicate an expired, invalid or missing token and can be recovered by
// a session refresh.
func (e *ServerError) IsSessionError() bool {
	switch e.Code {
	case CodeSessionTokenExpired, CodeSessionInvalidToken, CodeSessionMissingToken,
		CodeAuthTokenExpired, CodeAuthInvalidToken:
		return true
	}
	return false
}

// NoResponseError builds the pseudo error used when the transport failed
// before producing a classified server response.
func NoResponseError(cause error) *ServerError {
	msg := "no response from server"
	if cause != nil {
		msg = cause.Error()
	}
	return &ServerError{Code: CodeNoResponse, Message: msg}
}
