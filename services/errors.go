package services

import "errors"

var (
	// ErrInvalidInput covers malformed or missing caller input. Never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound means a referenced conversation or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden marks structurally disallowed operations, e.g. adding
	// members to a one-to-one conversation.
	ErrForbidden = errors.New("forbidden")

	// ErrDuplicatePair is returned by stores when a one-to-one conversation
	// for the same canonical pair was committed concurrently. The service
	// absorbs it by re-fetching the winner; callers never see it.
	ErrDuplicatePair = errors.New("conversation for pair already exists")
)
