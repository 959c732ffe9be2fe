package service

import "errors"

// Validation errors: reported to the originating connection only.
var (
	ErrEmptyContent    = errors.New("message content must not be empty")
	ErrContentTooLong  = errors.New("message content exceeds the maximum length")
	ErrChannelRequired = errors.New("channel id is required")
	ErrAuthorRequired  = errors.New("author id is required")
)

// Authentication errors: fatal to the connection attempt.
var (
	ErrMissingCredential = errors.New("missing bearer credential")
	ErrInvalidCredential = errors.New("invalid bearer credential")
)

// Authorization errors: reported to the requester, no data returned.
var (
	ErrNotMember = errors.New("user is not a member of this channel")
	ErrForbidden = errors.New("channel admin role required")
)
