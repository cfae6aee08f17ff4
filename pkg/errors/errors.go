package errors

import "fmt"

// Kind classifies the failures the ingestion pipeline can produce.
// Callers branch on the kind rather than matching error strings.
type Kind string

const (
	KindFetch    Kind = "fetch"     // transport failure (timeout, refused, DNS)
	KindNotImage Kind = "not_image" // declared content type lacks "image"
	KindTooLarge Kind = "too_large" // declared length above the ceiling
	KindDecode   Kind = "decode"    // body is not a structurally valid image
	KindStorage  Kind = "storage"   // disk write or directory failure
	KindUnknown  Kind = "unknown"
)

// Error carries a failure kind alongside the message and, for HTTP
// failures, the response status code (0 when no response was received).
type Error struct {
	Kind    Kind
	Message string
	Code    int
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// New constructs an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap constructs an Error of the given kind from an underlying error.
func Wrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, Message: err.Error()}
}

// IsSkippable reports whether a per-candidate failure should be skipped
// rather than aborting an ingestion run. Only storage failures abort:
// a full or unwritable disk poisons every later candidate too.
func IsSkippable(kind Kind) bool {
	switch kind {
	case KindFetch, KindNotImage, KindTooLarge, KindDecode:
		return true
	default:
		return false
	}
}
