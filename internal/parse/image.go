package parse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	ext "github.com/mmcdole/gofeed/extensions"
)

// mediaImage looks for Media RSS images: thumbnails first, then image
// content, including those nested in media:group.
func mediaImage(extensions ext.Extensions) string {
	media, ok := extensions["media"]
	if !ok {
		return ""
	}
	if u := mediaImageIn(media); u != "" {
		return u
	}
	for _, group := range media["group"] {
		if u := mediaImageIn(group.Children); u != "" {
			return u
		}
	}
	return ""
}

func mediaImageIn(elems map[string][]ext.Extension) string {
	for _, thumb := range elems["thumbnail"] {
		if u := strings.TrimSpace(thumb.Attrs["url"]); u != "" {
			return u
		}
	}
	for _, content := range elems["content"] {
		medium := strings.ToLower(content.Attrs["medium"])
		typ := strings.ToLower(content.Attrs["type"])
		if medium != "image" && !strings.HasPrefix(typ, "image/") {
			continue
		}
		if u := strings.TrimSpace(content.Attrs["url"]); u != "" {
			return u
		}
	}
	return ""
}

// firstInlineImage returns the src of the first <img> in the first fragment
// that has one.
func firstInlineImage(fragments ...string) string {
	for _, fragment := range fragments {
		if !strings.Contains(strings.ToLower(fragment), "<img") {
			continue
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
		if err != nil {
			continue
		}
		var src string
		doc.Find("img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			v, _ := s.Attr("src")
			v = strings.TrimSpace(v)
			if v == "" || strings.HasPrefix(strings.ToLower(v), "data:") {
				return true
			}
			src = v
			return false
		})
		if src != "" {
			return src
		}
	}
	return ""
}
