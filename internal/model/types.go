package model

import (
	"fmt"
	"strings"
	"time"
)

type OutputFormat string

const (
	OutputTable OutputFormat = "table"
	OutputJSON  OutputFormat = "json"
)

// Article is a normalized feed entry. Link is its identity key.
type Article struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Excerpt  string `json:"excerpt,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// Feed is a followed feed. LastError and ErrorCount describe refreshes that
// failed since the engine started; they are never persisted.
type Feed struct {
	ID            int64      `json:"-"`
	URL           string     `json:"url"`
	Title         string     `json:"title"`
	LastFetchedAt *time.Time `json:"last_fetched_at,omitempty"`
	LastError     string     `json:"last_error,omitempty"`
	ErrorCount    int        `json:"error_count"`
	CreatedAt     time.Time  `json:"created_at"`
	ArticleCount  int        `json:"article_count"`
}

// FeedData is the response of AddFeed and RefreshFeed.
type FeedData struct {
	Title    string    `json:"title"`
	Articles []Article `json:"articles"`
}

type ViewedArticle struct {
	Link     string    `json:"link"`
	Title    string    `json:"title"`
	ViewedAt time.Time `json:"viewed_at"`
}

type Theme string

const (
	ThemeLight Theme = "Light"
	ThemeDark  Theme = "Dark"
)

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// ParseTheme accepts the canonical names case-insensitively.
func ParseTheme(raw string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "light":
		return ThemeLight, nil
	case "dark":
		return ThemeDark, nil
	default:
		return "", fmt.Errorf("unknown theme %q (expected Light|Dark)", raw)
	}
}

type Settings struct {
	Theme        Theme `json:"theme"`
	ShowImages   bool  `json:"show_images"`
	ShowExcerpts bool  `json:"show_excerpts"`
}

func DefaultSettings() Settings {
	return Settings{
		Theme:        ThemeLight,
		ShowImages:   true,
		ShowExcerpts: true,
	}
}

type RefreshResult struct {
	FeedURL   string `json:"feed_url"`
	FeedTitle string `json:"feed_title"`
	Articles  int    `json:"articles"`
	Error     string `json:"error,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"`
}

type RefreshReport struct {
	StartedAt time.Time       `json:"started_at"`
	EndedAt   time.Time       `json:"ended_at"`
	Results   []RefreshResult `json:"results"`
}
