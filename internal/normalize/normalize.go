// Package normalize maps raw feed entries onto the Article model.
package normalize

import (
	"html"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/samber/lo"

	"github.com/nixenos/czytaj/internal/model"
	"github.com/nixenos/czytaj/internal/parse"
)

const (
	UntitledTitle       = "(untitled)"
	titleFromExcerptLen = 80
)

var titlePolicy = bluemonday.StrictPolicy()

// Stats counts entries that did not become articles.
type Stats struct {
	Invalid    int
	Duplicates int
}

func (s Stats) Dropped() int {
	return s.Invalid + s.Duplicates
}

// ResolveBase returns the URL relative references are resolved against: the
// document xml:base resolved against feedURL, or feedURL itself.
func ResolveBase(feedURL, docBase string) *url.URL {
	base, err := url.Parse(strings.TrimSpace(feedURL))
	if err != nil {
		base = nil
	}
	docBase = strings.TrimSpace(docBase)
	if docBase == "" {
		return base
	}
	ref, err := url.Parse(docBase)
	if err != nil {
		return base
	}
	if base == nil {
		if ref.IsAbs() {
			return ref
		}
		return nil
	}
	return base.ResolveReference(ref)
}

// Normalize converts one raw entry. ok is false when no absolute http(s)
// link can be derived.
func Normalize(raw parse.RawEntry, base *url.URL) (model.Article, bool) {
	link, ok := resolveHTTP(raw.Link, base)
	if !ok {
		return model.Article{}, false
	}

	article := model.Article{
		Title:   title(raw),
		Link:    link,
		Excerpt: strings.TrimSpace(raw.Excerpt),
	}
	if img, ok := resolveHTTP(raw.ImageRef, base); ok {
		article.ImageURL = img
	}
	return article, true
}

// NormalizeAll normalizes entries in order and keeps the first article for
// each link.
func NormalizeAll(entries []parse.RawEntry, base *url.URL) ([]model.Article, Stats) {
	var stats Stats
	articles := make([]model.Article, 0, len(entries))
	for _, raw := range entries {
		article, ok := Normalize(raw, base)
		if !ok {
			stats.Invalid++
			continue
		}
		articles = append(articles, article)
	}

	unique := lo.UniqBy(articles, func(a model.Article) string { return a.Link })
	stats.Duplicates = len(articles) - len(unique)
	return unique, stats
}

func title(raw parse.RawEntry) string {
	if t := plainTitle(raw.Title); t != "" {
		return t
	}
	if excerpt := strings.TrimSpace(raw.Excerpt); excerpt != "" {
		return parse.Truncate(excerpt, titleFromExcerptLen)
	}
	return UntitledTitle
}

func plainTitle(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	stripped := html.UnescapeString(titlePolicy.Sanitize(raw))
	return strings.Join(strings.Fields(stripped), " ")
}

func resolveHTTP(raw string, base *url.URL) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	if !ref.IsAbs() {
		if base == nil {
			return "", false
		}
		ref = base.ResolveReference(ref)
	}
	switch strings.ToLower(ref.Scheme) {
	case "http", "https":
	default:
		return "", false
	}
	if ref.Host == "" {
		return "", false
	}
	return ref.String(), true
}
