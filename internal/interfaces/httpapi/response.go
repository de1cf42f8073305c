package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/RenJieJiang/rugby-fixtures-app/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "rugby-fixtures"
	internalMessage  = "internal server error"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
	Details any               `json:"details,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	ctx, span := startSpan(ctx, "httpapi.writeSuccess")
	defer span.End()

	writeJSON(ctx, w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	mapped := mapError(ctx, err)
	message := publicMessage(err, mapped)
	writeJSON(ctx, w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: message,
			Status:  mapped.Status,
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  mapped.Reason,
					Message: message,
				},
			},
			Details: errorDetails(err),
		},
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	ctx, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	writeJSON(ctx, w, http.StatusInternalServerError, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    http.StatusInternalServerError,
			Message: internalMessage,
			Status:  "INTERNAL",
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  "internalError",
					Message: internalMessage,
				},
			},
		},
	})
}

// publicMessage prefers the message a usecase prepared for end users. Causes of
// unclassified failures stay in the logs.
func publicMessage(err error, mapped mappedError) string {
	var ingestErr *usecase.IngestionError
	if errors.As(err, &ingestErr) {
		return ingestErr.Message
	}
	var publicErr *usecase.PublicError
	if errors.As(err, &publicErr) {
		return publicErr.Message
	}
	if mapped.HTTPStatus >= http.StatusInternalServerError {
		return internalMessage
	}
	return err.Error()
}

// errorDetails repeats an aborted upload as a result object so clients can read
// one shape for both outcomes.
func errorDetails(err error) any {
	var ingestErr *usecase.IngestionError
	if !errors.As(err, &ingestErr) {
		return nil
	}
	return usecase.IngestionResult{
		Success:        false,
		Message:        ingestErr.Message,
		InvalidCount:   ingestErr.InvalidRowCount,
		InvalidRecords: ingestErr.InvalidRows,
	}
}

func mapError(ctx context.Context, err error) mappedError {
	ctx, span := startSpan(ctx, "httpapi.mapError")
	defer span.End()

	switch {
	case errors.Is(err, usecase.ErrPayloadTooLarge):
		return mappedError{
			HTTPStatus: http.StatusRequestEntityTooLarge,
			Reason:     "payloadTooLarge",
			Status:     "OUT_OF_RANGE",
		}
	case errors.Is(err, usecase.ErrMalformedInput):
		return mappedError{
			HTTPStatus: http.StatusBadRequest,
			Reason:     "malformedInput",
			Status:     "INVALID_ARGUMENT",
		}
	case errors.Is(err, usecase.ErrEmptyInput):
		return mappedError{
			HTTPStatus: http.StatusBadRequest,
			Reason:     "emptyInput",
			Status:     "INVALID_ARGUMENT",
		}
	case errors.Is(err, usecase.ErrSchemaMismatch):
		return mappedError{
			HTTPStatus: http.StatusBadRequest,
			Reason:     "schemaMismatch",
			Status:     "INVALID_ARGUMENT",
		}
	case errors.Is(err, usecase.ErrNoValidRows):
		return mappedError{
			HTTPStatus: http.StatusUnprocessableEntity,
			Reason:     "noValidRows",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, usecase.ErrInvalidInput):
		return mappedError{
			HTTPStatus: http.StatusBadRequest,
			Reason:     "invalidInput",
			Status:     "INVALID_ARGUMENT",
		}
	case errors.Is(err, usecase.ErrNotFound):
		return mappedError{
			HTTPStatus: http.StatusNotFound,
			Reason:     "notFound",
			Status:     "NOT_FOUND",
		}
	case errors.Is(err, usecase.ErrUnauthorized):
		return mappedError{
			HTTPStatus: http.StatusUnauthorized,
			Reason:     "unauthorized",
			Status:     "UNAUTHENTICATED",
		}
	case errors.Is(err, usecase.ErrPersistence):
		return mappedError{
			HTTPStatus: http.StatusInternalServerError,
			Reason:     "persistenceFailure",
			Status:     "INTERNAL",
		}
	case errors.Is(err, usecase.ErrDataIntegrity):
		return mappedError{
			HTTPStatus: http.StatusInternalServerError,
			Reason:     "dataIntegrity",
			Status:     "DATA_LOSS",
		}
	default:
		return mappedError{
			HTTPStatus: http.StatusInternalServerError,
			Reason:     "internalError",
			Status:     "INTERNAL",
		}
	}
}
