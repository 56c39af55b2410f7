// Package parse turns raw feed documents into an ordered list of raw entries.
package parse

import (
	"log/slog"
	"strings"
)

const defaultExcerptLength = 500

// RawEntry holds the dialect-independent fields of one feed entry. Link and
// ImageRef may still be relative.
type RawEntry struct {
	Title    string
	Link     string
	Excerpt  string
	ImageRef string
}

type ParsedFeed struct {
	Title   string
	BaseURL string
	Dialect Dialect
	Entries []RawEntry
}

type strategy func(p *Parser, data []byte) (ParsedFeed, error)

var strategies = map[Dialect]strategy{
	DialectRSS2: parseRSS,
	DialectRDF:  parseRSS,
	DialectAtom: parseAtom,
}

type Parser struct {
	excerptLength int
	logger        *slog.Logger
}

func NewParser(excerptLength int, logger *slog.Logger) *Parser {
	if excerptLength < 1 {
		excerptLength = defaultExcerptLength
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{excerptLength: excerptLength, logger: logger}
}

// Parse detects the dialect from the root element and extracts entries in
// document order.
func (p *Parser) Parse(data []byte) (ParsedFeed, error) {
	root, err := sniffRoot(data)
	if err != nil {
		return ParsedFeed{}, err
	}
	parse, ok := strategies[root.dialect]
	if !ok {
		return ParsedFeed{}, unsupported("no parser for dialect %s", root.dialect)
	}

	feed, err := parse(p, data)
	if err != nil {
		return ParsedFeed{}, err
	}
	feed.Dialect = root.dialect
	if feed.BaseURL == "" {
		feed.BaseURL = root.base
	}
	feed.Title = collapseSpace(feed.Title)

	p.logger.Debug("parsed feed document",
		slog.String("dialect", root.dialect.String()),
		slog.Int("entries", len(feed.Entries)),
	)
	return feed, nil
}

func (p *Parser) excerpt(candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) == "" {
			continue
		}
		if text := HTMLToText(c); text != "" {
			return Truncate(text, p.excerptLength)
		}
	}
	return ""
}
