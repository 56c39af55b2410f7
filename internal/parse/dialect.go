package parse

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// Dialect identifies the feed format by its root element.
type Dialect int

const (
	DialectUnknown Dialect = iota
	DialectRSS2
	DialectAtom
	DialectRDF
)

const (
	atomNS   = "http://www.w3.org/2005/Atom"
	atom03NS = "http://purl.org/atom/ns#"
	rdfNS    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	rss10NS  = "http://purl.org/rss/1.0/"
	xmlNS    = "http://www.w3.org/XML/1998/namespace"
)

func (d Dialect) String() string {
	switch d {
	case DialectRSS2:
		return "rss2"
	case DialectAtom:
		return "atom"
	case DialectRDF:
		return "rdf"
	default:
		return "unknown"
	}
}

type rootInfo struct {
	dialect Dialect
	base    string
}

// sniffRoot reads tokens up to the first element and classifies it. The
// declared content type is never consulted.
func sniffRoot(data []byte) (rootInfo, error) {
	trimmed := bytes.TrimSpace(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	if len(trimmed) == 0 {
		return rootInfo{}, malformed(errors.New("empty document"))
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return rootInfo{}, unsupported("json documents are not supported")
	}

	dec := newDecoder(trimmed)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return rootInfo{}, malformed(errors.New("no root element"))
		}
		if err != nil {
			return rootInfo{}, malformed(err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		info := rootInfo{base: rootBase(start)}
		local := strings.ToLower(start.Name.Local)
		switch {
		case local == "rss":
			info.dialect = DialectRSS2
		case local == "feed" && (start.Name.Space == atomNS || start.Name.Space == atom03NS):
			info.dialect = DialectAtom
		case local == "rdf" && start.Name.Space == rdfNS:
			info.dialect = DialectRDF
		default:
			return rootInfo{}, unsupported("root element <%s> is not a known feed dialect", start.Name.Local)
		}
		return info, nil
	}
}

func rootBase(start xml.StartElement) string {
	for _, attr := range start.Attr {
		if attr.Name.Local == "base" && (attr.Name.Space == xmlNS || attr.Name.Space == "xml") {
			return strings.TrimSpace(attr.Value)
		}
	}
	return ""
}

func newDecoder(data []byte) *xml.Decoder {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	dec.Strict = false
	return dec
}

// notPermalinkGUIDs returns the document-order indexes of items whose guid is
// marked isPermaLink="false". The attribute name is matched case-insensitively
// because publishers spell it both ways.
func notPermalinkGUIDs(data []byte) map[int]bool {
	out := make(map[int]bool)
	dec := newDecoder(bytes.TrimSpace(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	index := -1
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch {
		case start.Name.Local == "item" && (start.Name.Space == "" || start.Name.Space == rss10NS):
			index++
		case start.Name.Local == "guid" && index >= 0:
			for _, attr := range start.Attr {
				if strings.EqualFold(attr.Name.Local, "isPermaLink") && strings.EqualFold(strings.TrimSpace(attr.Value), "false") {
					out[index] = true
				}
			}
		}
	}
}
