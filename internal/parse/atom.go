package parse

import (
	"bytes"
	"strings"

	"github.com/mmcdole/gofeed/atom"
)

func parseAtom(p *Parser, data []byte) (ParsedFeed, error) {
	fp := &atom.Parser{}
	feed, err := fp.Parse(bytes.NewReader(data))
	if err != nil {
		return ParsedFeed{}, malformed(err)
	}

	out := ParsedFeed{
		Title:   feed.Title,
		Entries: make([]RawEntry, 0, len(feed.Entries)),
	}
	for i, entry := range feed.Entries {
		if entry == nil {
			p.logger.Debug("skipping empty atom entry", "index", i)
			continue
		}
		content := ""
		if entry.Content != nil {
			content = entry.Content.Value
		}
		out.Entries = append(out.Entries, RawEntry{
			Title:    collapseSpace(entry.Title),
			Link:     atomEntryLink(entry.Links),
			Excerpt:  p.excerpt(content, entry.Summary),
			ImageRef: atomEntryImage(entry, content),
		})
	}
	return out, nil
}

// atomEntryLink prefers rel="alternate", then a link without rel, then any
// other non-self link, and only falls back to rel="self" when nothing else exists.
func atomEntryLink(links []*atom.Link) string {
	var relless, other, self string
	for _, l := range links {
		if l == nil || strings.TrimSpace(l.Href) == "" {
			continue
		}
		href := strings.TrimSpace(l.Href)
		switch strings.ToLower(strings.TrimSpace(l.Rel)) {
		case "alternate":
			return href
		case "":
			if relless == "" {
				relless = href
			}
		case "self":
			if self == "" {
				self = href
			}
		case "enclosure", "edit", "replies":
		default:
			if other == "" {
				other = href
			}
		}
	}
	for _, candidate := range []string{relless, other, self} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

func atomEntryImage(entry *atom.Entry, content string) string {
	if u := mediaImage(entry.Extensions); u != "" {
		return u
	}
	for _, l := range entry.Links {
		if l == nil {
			continue
		}
		if strings.EqualFold(l.Rel, "enclosure") && strings.HasPrefix(strings.ToLower(l.Type), "image/") {
			if href := strings.TrimSpace(l.Href); href != "" {
				return href
			}
		}
	}
	return firstInlineImage(content, entry.Summary)
}
