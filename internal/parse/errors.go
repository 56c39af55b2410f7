package parse

import "fmt"

type ErrorKind string

const (
	KindMalformedDocument  ErrorKind = "malformed_document"
	KindUnsupportedDialect ErrorKind = "unsupported_dialect"
)

type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse feed: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("parse feed: %s", e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func malformed(err error) error {
	return &Error{Kind: KindMalformedDocument, Err: err}
}

func unsupported(format string, args ...any) error {
	return &Error{Kind: KindUnsupportedDialect, Err: fmt.Errorf(format, args...)}
}
