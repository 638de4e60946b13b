package domain

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrRemoteRejection  = errors.New("catalog rejected the request")
	ErrNetworkFailure   = errors.New("catalog request failed")
	ErrMalformedPayload = errors.New("catalog returned a malformed payload")
	ErrNoImages         = errors.New("carousel requires at least one image")
	ErrInvalidPageSize  = errors.New("page size must be positive")
	ErrSessionNotFound  = errors.New("session not found")
	ErrPageOutOfRange   = errors.New("page is outside the available range")
	ErrImageOutOfRange  = errors.New("image index is outside the product's images")
)

// RemoteStatusError records a non-success status from the catalog API
type RemoteStatusError struct {
	StatusCode int
}

func (e *RemoteStatusError) Error() string {
	return fmt.Sprintf("catalog responded with status %d", e.StatusCode)
}

// Unwrap lets errors.Is match ErrRemoteRejection
func (e *RemoteStatusError) Unwrap() error {
	return ErrRemoteRejection
}
