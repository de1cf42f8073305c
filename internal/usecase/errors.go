package usecase

import (
	"errors"
	"fmt"

	"github.com/RenJieJiang/rugby-fixtures-app/internal/domain/fixture"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("resource not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrDataIntegrity = errors.New("stored data is inconsistent")

	ErrPayloadTooLarge = errors.New("payload too large")
	ErrMalformedInput  = errors.New("malformed input")
	ErrEmptyInput      = errors.New("empty input")
	ErrSchemaMismatch  = errors.New("schema mismatch")
	ErrNoValidRows     = errors.New("no valid rows")
	ErrPersistence     = errors.New("persistence failure")
)

// PublicError carries a message meant for end users. Errors.Is matches Kind.
type PublicError struct {
	Kind    error
	Message string
}

func NewPublicError(kind error, message string) *PublicError {
	return &PublicError{Kind: kind, Message: message}
}

func (e *PublicError) Error() string {
	return e.Message
}

func (e *PublicError) Unwrap() error {
	return e.Kind
}

// IngestionError aborts a whole ingestion call. Kind is one of the Err* sentinels above.
type IngestionError struct {
	Kind            error
	Message         string
	InvalidRows     []InvalidRow
	InvalidRowCount int
	cause           error
}

func (e *IngestionError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *IngestionError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.Kind, e.cause}
	}
	return []error{e.Kind}
}

// NewPayloadTooLargeError reports an upload over limit bytes. size is zero when
// the transport stopped reading before the full size was known.
func NewPayloadTooLargeError(size, limit int64) *IngestionError {
	message := fmt.Sprintf("File is too large: the upload limit is %d bytes", limit)
	if size > 0 {
		message = fmt.Sprintf("File is too large: %d bytes exceeds the %d byte limit", size, limit)
	}
	return &IngestionError{Kind: ErrPayloadTooLarge, Message: message}
}

// InvalidRow is a rejected input row. RowNumber counts the header as row 1.
type InvalidRow struct {
	RowNumber int                      `json:"rowNumber"`
	Data      fixture.RawRow           `json:"data"`
	Errors    *fixture.ValidationError `json:"errors"`
}
