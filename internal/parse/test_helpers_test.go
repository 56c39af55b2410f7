package parse

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

func newTestParser() *Parser {
	return NewParser(500, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func mustParse(t *testing.T, doc string) ParsedFeed {
	t.Helper()
	feed, err := newTestParser().Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return feed
}

func assertParseErrorKind(t *testing.T, err error, want ErrorKind) {
	t.Helper()
	var parseErr *Error
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %v, want *parse.Error", err)
	}
	if parseErr.Kind != want {
		t.Fatalf("Kind = %q, want %q", parseErr.Kind, want)
	}
}
