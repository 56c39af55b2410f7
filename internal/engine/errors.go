package engine

import (
	"context"
	"errors"

	"github.com/nixenos/czytaj/internal/fetch"
	"github.com/nixenos/czytaj/internal/parse"
	"github.com/nixenos/czytaj/internal/store"
)

var (
	ErrInvalidURL        = fetch.ErrInvalidURL
	ErrAlreadyExists     = store.ErrAlreadyExists
	ErrNotFound          = store.ErrNotFound
	ErrRefreshInProgress = errors.New("refresh already in progress")
	ErrInvalidValue      = errors.New("invalid value")
)

const (
	KindInvalidURL        = "invalid_url"
	KindAlreadyExists     = "already_exists"
	KindNotFound          = "not_found"
	KindRefreshInProgress = "refresh_in_progress"
	KindInvalidValue      = "invalid_value"
	KindCanceled          = "canceled"
	KindInternal          = "internal"
)

// Kind names the failure reason of an engine error, e.g. "not_found" or
// "fetch_error/timeout". It returns "" for a nil error.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrInvalidURL):
		return KindInvalidURL
	case errors.Is(err, ErrAlreadyExists):
		return KindAlreadyExists
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrRefreshInProgress):
		return KindRefreshInProgress
	case errors.Is(err, ErrInvalidValue), errors.Is(err, store.ErrInvalidInput):
		return KindInvalidValue
	}

	var fetchErr *fetch.Error
	if errors.As(err, &fetchErr) {
		return "fetch_error/" + string(fetchErr.Kind)
	}
	var parseErr *parse.Error
	if errors.As(err, &parseErr) {
		return "parse_error/" + string(parseErr.Kind)
	}
	var storeErr *store.Error
	if errors.As(err, &storeErr) {
		return "storage_error/" + string(storeErr.Kind)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCanceled
	}
	return KindInternal
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return Kind(err)
}
