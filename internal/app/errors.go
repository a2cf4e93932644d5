package app

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential indicates a request without any token.
	ErrMissingCredential = errors.New("missing credential")
	// ErrInvalidToken indicates a token that failed verification.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken indicates a structurally valid but expired token.
	ErrExpiredToken = errors.New("expired token")
	// ErrUnknownUser indicates a valid token for a user that no longer exists.
	ErrUnknownUser = errors.New("unknown user")

	// ErrInvalidCredentials covers failed username/password login.
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrUsernameAndPasswordRequired = errors.New("username and password are required")
	ErrTitleRequired               = errors.New("title is required")
	ErrSourceDocumentRequired      = errors.New("sourceDocId is required")
	ErrWordsRequired               = errors.New("words is required")
	ErrMetatextRequired            = errors.New("metatextId or chunkId is required")
)

// FileTooLargeError rejects uploads over the configured limit.
type FileTooLargeError struct {
	SizeBytes  int64
	LimitBytes int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("file of %d bytes exceeds the %d byte limit", e.SizeBytes, e.LimitBytes)
}

// UnsupportedExtensionError rejects uploads outside the allowed extension set.
type UnsupportedExtensionError struct {
	Extension string
}

func (e *UnsupportedExtensionError) Error() string {
	return fmt.Sprintf("unsupported file extension %q", e.Extension)
}

// InvalidEncodingError rejects uploads whose bytes do not decode as text.
type InvalidEncodingError struct {
	Reason string
}

func (e *InvalidEncodingError) Error() string {
	return "cannot decode upload: " + e.Reason
}
