package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	RelayErrorBadInput         = "RELAY_BAD_INPUT"
	RelayErrorResultNotFound   = "RELAY_RESULT_NOT_FOUND"
	RelayErrorDeliveryFailed   = "RELAY_DELIVERY_FAILED"
	RelayErrorStoreUnavailable = "RELAY_STORE_UNAVAILABLE"
	RelayErrorInternal         = "RELAY_INTERNAL_ERROR"
)

func relayErrorMapper(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureRelayErrorEnvelope(richErr)
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "not found"):
		return newRelayError(err.Error(), goerrors.CategoryNotFound, RelayErrorResultNotFound)
	case strings.Contains(msg, "store"):
		return newRelayError(err.Error(), goerrors.CategoryInternal, RelayErrorStoreUnavailable)
	case strings.Contains(msg, "deliver"), strings.Contains(msg, "webhook"):
		return newRelayError(err.Error(), goerrors.CategoryExternal, RelayErrorDeliveryFailed)
	case strings.Contains(msg, "required"), strings.Contains(msg, "invalid"), strings.Contains(msg, "missing"):
		return newRelayError(err.Error(), goerrors.CategoryBadInput, RelayErrorBadInput)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureRelayErrorEnvelope(mapped)
}

func newRelayError(message string, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureRelayErrorEnvelope(
		goerrors.New(message, category).
			WithTextCode(textCode),
	)
}

func ensureRelayErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = relayHTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" {
		err.TextCode = defaultRelayTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultRelayTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return RelayErrorBadInput
	case goerrors.CategoryNotFound:
		return RelayErrorResultNotFound
	case goerrors.CategoryExternal:
		return RelayErrorDeliveryFailed
	default:
		return RelayErrorInternal
	}
}

func relayHTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func coreError(
	message string,
	category goerrors.Category,
	code int,
	textCode string,
	metadata map[string]any,
) error {
	err := goerrors.New(message, category).
		WithCode(code).
		WithTextCode(textCode)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func coreWrapError(
	source error,
	category goerrors.Category,
	message string,
	code int,
	textCode string,
	metadata map[string]any,
) error {
	if source == nil {
		return coreError(message, category, code, textCode, metadata)
	}
	err := goerrors.Wrap(source, category, message).
		WithCode(code).
		WithTextCode(textCode)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func coreBadInput(message string, metadata map[string]any) error {
	return coreError(
		message,
		goerrors.CategoryBadInput,
		http.StatusBadRequest,
		RelayErrorBadInput,
		metadata,
	)
}

func coreNotFound(message string, metadata map[string]any) error {
	return coreError(
		message,
		goerrors.CategoryNotFound,
		http.StatusNotFound,
		RelayErrorResultNotFound,
		metadata,
	)
}

func coreInternal(message string, metadata map[string]any) error {
	return coreError(
		message,
		goerrors.CategoryInternal,
		http.StatusInternalServerError,
		RelayErrorInternal,
		metadata,
	)
}
