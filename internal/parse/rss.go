package parse

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/rss"
)

// parseRSS handles RSS 0.9x/2.0 and RSS 1.0 (RDF) documents.
func parseRSS(p *Parser, data []byte) (ParsedFeed, error) {
	fp := gofeed.NewParser()
	fp.RSSTranslator = &permalinkTranslator{notPermalink: notPermalinkGUIDs(data)}
	feed, err := fp.Parse(bytes.NewReader(data))
	if err != nil {
		return ParsedFeed{}, malformed(err)
	}

	out := ParsedFeed{
		Title:   feed.Title,
		Entries: make([]RawEntry, 0, len(feed.Items)),
	}
	for i, item := range feed.Items {
		if item == nil {
			p.logger.Debug("skipping empty rss item", "index", i)
			continue
		}
		out.Entries = append(out.Entries, RawEntry{
			Title:    collapseSpace(item.Title),
			Link:     rssItemLink(item),
			Excerpt:  p.excerpt(item.Content, item.Description),
			ImageRef: rssItemImage(item),
		})
	}
	return out, nil
}

// permalinkTranslator fills in the link of items that only carry a permalink
// guid. The default translator drops the guid's isPermaLink attribute, so the
// items marked "false" are looked up by index.
type permalinkTranslator struct {
	gofeed.DefaultRSSTranslator
	notPermalink map[int]bool
}

func (t *permalinkTranslator) Translate(feed interface{}) (*gofeed.Feed, error) {
	out, err := t.DefaultRSSTranslator.Translate(feed)
	if err != nil {
		return nil, err
	}
	src, ok := feed.(*rss.Feed)
	if !ok || len(src.Items) != len(out.Items) {
		return out, nil
	}
	for i, item := range out.Items {
		if item == nil || strings.TrimSpace(item.Link) != "" || len(item.Links) > 0 || t.notPermalink[i] {
			continue
		}
		if link := permalinkGUID(src.Items[i].GUID); link != "" {
			item.Link = link
		}
	}
	return out, nil
}

// permalinkGUID returns the guid value when it is an absolute http(s) URL.
func permalinkGUID(guid *rss.GUID) string {
	if guid == nil || strings.EqualFold(strings.TrimSpace(guid.IsPermalink), "false") {
		return ""
	}
	value := strings.TrimSpace(guid.Value)
	u, err := url.Parse(value)
	if err != nil || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return value
}

func rssItemLink(item *gofeed.Item) string {
	if link := strings.TrimSpace(item.Link); link != "" {
		return link
	}
	for _, link := range item.Links {
		if link = strings.TrimSpace(link); link != "" {
			return link
		}
	}
	return ""
}

func rssItemImage(item *gofeed.Item) string {
	if item.Image != nil {
		if u := strings.TrimSpace(item.Image.URL); u != "" {
			return u
		}
	}
	if u := mediaImage(item.Extensions); u != "" {
		return u
	}
	for _, enc := range item.Enclosures {
		if enc == nil {
			continue
		}
		if strings.HasPrefix(strings.ToLower(enc.Type), "image/") && strings.TrimSpace(enc.URL) != "" {
			return strings.TrimSpace(enc.URL)
		}
	}
	return firstInlineImage(item.Content, item.Description)
}
