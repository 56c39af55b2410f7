package cli

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var wsRegexp = regexp.MustCompile(`\s+`)

func humanAgo(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "never"
	}
	d := time.Since(*t)
	if d < time.Minute {
		return "just now"
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
	return fmt.Sprintf("%dd ago", int(d.Hours()/24))
}

// compactText collapses whitespace and cuts v to at most max runes.
func compactText(v string, max int) string {
	v = strings.TrimSpace(wsRegexp.ReplaceAllString(v, " "))
	r := []rune(v)
	if max <= 3 || len(r) <= max {
		return v
	}
	return string(r[:max-3]) + "..."
}

func fallback(v, fb string) string {
	if strings.TrimSpace(v) == "" {
		return fb
	}
	return v
}
