package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorKind classifies failures crossing the sync and HTTP boundaries so
// callers can branch on kind instead of matching message strings.
type ErrorKind string

const (
	// KindConfiguration means a required setting is missing; fatal before
	// any network call is made.
	KindConfiguration ErrorKind = "configuration"
	// KindRemoteProtocol means the remote API reported an error code.
	KindRemoteProtocol ErrorKind = "remote_protocol"
	// KindTransport means a network failure reaching the remote source.
	KindTransport ErrorKind = "transport"
	// KindStorage means a persistence layer failure.
	KindStorage ErrorKind = "storage"
	// KindDownload means a media side-load failed; non-fatal to the post upsert.
	KindDownload ErrorKind = "download"
	// KindSyncInProgress means another synchronization pass holds the
	// single-flight guard.
	KindSyncInProgress ErrorKind = "sync_in_progress"
	// KindValidation means a caller-supplied value was rejected.
	KindValidation ErrorKind = "validation"
)

// SyncError carries a machine-readable kind alongside a human-readable
// message. It wraps the underlying cause when there is one.
type SyncError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *SyncError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// NewConfigurationError reports a missing or invalid required setting.
func NewConfigurationError(message string) *SyncError {
	return &SyncError{Kind: KindConfiguration, Message: message}
}

// NewRemoteProtocolError reports an error envelope returned by the remote API.
func NewRemoteProtocolError(code int, message string) *SyncError {
	return &SyncError{Kind: KindRemoteProtocol, Message: fmt.Sprintf("remote API error %d: %s", code, message)}
}

// NewTransportError wraps a network-level failure.
func NewTransportError(message string, err error) *SyncError {
	return &SyncError{Kind: KindTransport, Message: message, Err: err}
}

// NewStorageError wraps a persistence failure.
func NewStorageError(message string, err error) *SyncError {
	return &SyncError{Kind: KindStorage, Message: message, Err: err}
}

// NewDownloadError wraps a failed media side-load.
func NewDownloadError(message string, err error) *SyncError {
	return &SyncError{Kind: KindDownload, Message: message, Err: err}
}

// NewSyncInProgressError reports that the single-flight guard is held.
func NewSyncInProgressError() *SyncError {
	return &SyncError{Kind: KindSyncInProgress, Message: "a synchronization pass is already running"}
}

// NewValidationError reports a rejected caller-supplied value.
func NewValidationError(message string) *SyncError {
	return &SyncError{Kind: KindValidation, Message: message}
}

// KindOf extracts the error kind, or an empty kind for foreign errors.
func KindOf(err error) ErrorKind {
	var se *SyncError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// StatusForKind maps an error kind to the HTTP status the API surfaces.
func StatusForKind(kind ErrorKind) int {
	switch kind {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindSyncInProgress:
		return fiber.StatusConflict
	case KindConfiguration:
		return fiber.StatusInternalServerError
	case KindRemoteProtocol, KindTransport:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError writes a structured error body. SyncErrors expose their
// kind and message; anything else is reported as an internal error without
// leaking the raw message.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var se *SyncError
	if errors.As(err, &se) {
		return c.Status(status).JSON(fiber.Map{
			"error": fiber.Map{"kind": se.Kind, "message": se.Message},
		})
	}
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{"kind": "internal", "message": "internal server error"},
	})
}
