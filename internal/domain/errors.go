package domain

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when the requested resource does not exist
// (unknown draft session, conversation, or group).
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails a business rule
// (e.g. blank group name, end date before start date, empty message).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrNetwork is returned by the remote boundary when a request could not be
// completed. The draft or cache is left as it was before the call.
// Handlers should map this to HTTP 502 Bad Gateway.
var ErrNetwork = errors.New("network error")

// ErrConflict is returned when a submission is already in flight for the same
// key. Handlers should map this to HTTP 409 Conflict.
var ErrConflict = errors.New("conflict")

// ErrDestinationLimitExceeded is returned by the draft store when a draft
// already holds MaxDestinations destinations.
var ErrDestinationLimitExceeded = errors.New("destination limit exceeded")

// ErrDuplicateDestination is returned by the draft store when a destination
// with the same ID is already selected.
var ErrDuplicateDestination = errors.New("duplicate destination")

// ErrInterestLimitExceeded is returned by the draft store when an interest is
// toggled on while MaxInterests are already selected.
var ErrInterestLimitExceeded = errors.New("interest limit exceeded")

// sentinels lists every error kind whose text may prefix a wrapped message.
var sentinels = []error{
	ErrNotFound,
	ErrValidation,
	ErrNetwork,
	ErrConflict,
	ErrDestinationLimitExceeded,
	ErrDuplicateDestination,
	ErrInterestLimitExceeded,
}

// Message extracts the human-readable part of a wrapped sentinel error so it
// can be shown to the user as-is.
// e.g. "service.GroupService.Submit: validation error: Group name is required."
// → "Group name is required."
func Message(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, s := range sentinels {
		if i := strings.LastIndex(msg, s.Error()+": "); i >= 0 {
			return msg[i+len(s.Error())+2:]
		}
		if strings.HasSuffix(msg, s.Error()) {
			return s.Error()
		}
	}
	return msg
}
