package domain

import "errors"

// ErrorKind enumerates the user-visible failure categories. Every error
// that crosses a component boundary carries exactly one kind so the
// caller can pick the right one-line message.
type ErrorKind int

const (
	// KindUnknown is the zero value for errors without a kind.
	KindUnknown ErrorKind = iota
	// KindCaptionsUnavailable: captions are disabled for this video.
	KindCaptionsUnavailable
	// KindCaptionsNotFound: the video has no captions at all.
	KindCaptionsNotFound
	// KindFetchFailed: any other transcript retrieval failure.
	KindFetchFailed
	// KindModelInvocationFailed: an embedding or completion call failed.
	KindModelInvocationFailed
)

func (k ErrorKind) String() string {
	switch k {
	case KindCaptionsUnavailable:
		return "captions_unavailable"
	case KindCaptionsNotFound:
		return "captions_not_found"
	case KindFetchFailed:
		return "fetch_failed"
	case KindModelInvocationFailed:
		return "model_invocation_failed"
	default:
		return "unknown"
	}
}

// Error is the tagged error type returned by Fetcher/Embedder/Answerer
// calls. Message is suitable for direct display; Hint is an optional
// second line with a suggestion.
type Error struct {
	Kind    ErrorKind
	Message string
	Hint    string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// NewCaptionsUnavailable reports that captions are disabled for the video.
func NewCaptionsUnavailable(videoID string) *Error {
	return &Error{
		Kind:    KindCaptionsUnavailable,
		Message: "captions are disabled for video " + videoID,
	}
}

// NewCaptionsNotFound reports that the video has no caption tracks.
func NewCaptionsNotFound(videoID string) *Error {
	return &Error{
		Kind:    KindCaptionsNotFound,
		Message: "no captions found for video " + videoID,
		Hint:    "the video may not have captions",
	}
}

// NewFetchFailed wraps any other transcript retrieval failure.
func NewFetchFailed(cause error) *Error {
	return &Error{
		Kind:    KindFetchFailed,
		Message: "transcript fetch failed",
		Hint:    "make sure the URL is correct and the video has captions enabled",
		Cause:   cause,
	}
}

// NewModelInvocationFailed wraps an embedding or completion call failure.
func NewModelInvocationFailed(cause error) *Error {
	return &Error{
		Kind:    KindModelInvocationFailed,
		Message: "model invocation failed",
		Hint:    "try rephrasing your question or check your API key",
		Cause:   cause,
	}
}

// KindOf returns the kind of err, or KindUnknown when err carries none.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// HintOf returns the hint attached to err, if any.
func HintOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Hint
	}
	return ""
}
