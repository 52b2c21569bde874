package domain

import "errors"

var (
	// ErrQuizNotFound means no quiz content exists for the derived cache key.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrInvalidQuizData means stored quiz content is unusable (no questions or missing title).
	ErrInvalidQuizData = errors.New("invalid quiz data")
	// ErrInvalidURL means no video or playlist ID could be extracted from the URL.
	ErrInvalidURL = errors.New("invalid youtube url")
	// ErrCertificateNotFound means no certificate exists for the given lookup.
	ErrCertificateNotFound = errors.New("certificate not found")
	// ErrNotOwner means the caller does not own the certificate they tried to change.
	ErrNotOwner = errors.New("certificate not owned by caller")
	// ErrNotServerIssued means the certificate was not created through the
	// trusted validation path and must not be edited.
	ErrNotServerIssued = errors.New("certificate not server-issued")
	// ErrUnauthorized means the bearer credential is missing or unverifiable.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidPayload means the request body failed validation.
	ErrInvalidPayload = errors.New("invalid payload")
)
