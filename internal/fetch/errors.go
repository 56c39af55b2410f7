package fetch

import (
	"errors"
	"fmt"
)

var ErrInvalidURL = errors.New("invalid url")

type ErrorKind string

const (
	KindTimeout            ErrorKind = "timeout"
	KindTooLarge           ErrorKind = "too_large"
	KindTooManyRedirects   ErrorKind = "too_many_redirects"
	KindHTTPStatus         ErrorKind = "http_status"
	KindNetworkUnreachable ErrorKind = "network_unreachable"
)

// Error describes a failed retrieval. StatusCode is set for KindHTTPStatus.
type Error struct {
	Kind       ErrorKind
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("fetch %s: http %d", e.URL, e.StatusCode)
	case KindTooLarge:
		return fmt.Sprintf("fetch %s: response body exceeds size limit", e.URL)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}
