package parse

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

var droppedTags = map[string]struct{}{
	"embed":    {},
	"head":     {},
	"iframe":   {},
	"noscript": {},
	"object":   {},
	"script":   {},
	"style":    {},
	"template": {},
	"textarea": {},
}

var blockTags = map[string]struct{}{
	"address": {}, "article": {}, "aside": {}, "blockquote": {}, "br": {},
	"dd": {}, "div": {}, "dl": {}, "dt": {}, "figcaption": {}, "figure": {},
	"footer": {}, "h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"header": {}, "hr": {}, "li": {}, "ol": {}, "p": {}, "pre": {},
	"section": {}, "table": {}, "td": {}, "th": {}, "tr": {}, "ul": {},
}

// HTMLToText strips markup from an HTML fragment, drops the bodies of script
// and style-like elements, decodes entities and collapses whitespace.
func HTMLToText(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.ContainsAny(raw, "<&") {
		return collapseSpace(raw)
	}

	doc, err := html.Parse(strings.NewReader("<body>" + raw + "</body>"))
	if err != nil {
		return collapseSpace(raw)
	}

	var b strings.Builder
	writeText(&b, doc)
	return collapseSpace(b.String())
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		tag := strings.ToLower(n.Data)
		if _, dropped := droppedTags[tag]; dropped {
			return
		}
		if _, block := blockTags[tag]; block {
			b.WriteByte(' ')
			defer b.WriteByte(' ')
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
}

// Truncate shortens s to at most max runes, ending in an ellipsis. It cuts at
// the last space when that keeps at least half of the text.
func Truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}

	runes := []rune(s)
	cut := string(runes[:max-1])
	if runes[max-1] != ' ' {
		if idx := strings.LastIndexByte(cut, ' '); idx > 0 && utf8.RuneCountInString(cut[:idx]) >= (max-1)/2 {
			cut = cut[:idx]
		}
	}
	cut = strings.TrimRight(cut, " ,;:-")
	return cut + "…"
}

// collapseSpace joins the words of v with single spaces. Unicode spaces such
// as U+00A0 from &nbsp; count as separators.
func collapseSpace(v string) string {
	return strings.Join(strings.Fields(v), " ")
}
