package store

import (
	"database/sql"
)

// Store is the single owner of persisted feeds, article caches, viewed
// articles and settings. Every multi-row write runs in one transaction.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

const feedSelectColumns = `
	f.id, f.url, f.title, f.last_fetched_at, f.created_at,
	(SELECT COUNT(*) FROM articles a WHERE a.feed_id = f.id)
`

func scanFeedRow(scanner rowScanner) (Feed, error) {
	var f Feed
	var lastFetched sql.NullString
	var createdAt string
	if err := scanner.Scan(
		&f.ID,
		&f.URL,
		&f.Title,
		&lastFetched,
		&createdAt,
		&f.ArticleCount,
	); err != nil {
		return Feed{}, err
	}
	if t, err := parseDBTime(createdAt); err == nil {
		f.CreatedAt = t
	}
	if lastFetched.Valid {
		if t, err := parseDBTime(lastFetched.String); err == nil {
			f.LastFetchedAt = &t
		}
	}
	return f, nil
}

func scanArticleRow(scanner rowScanner) (Article, error) {
	var a Article
	var excerpt, imageURL sql.NullString
	if err := scanner.Scan(&a.Link, &a.Title, &excerpt, &imageURL); err != nil {
		return Article{}, err
	}
	a.Excerpt = excerpt.String
	a.ImageURL = imageURL.String
	return a, nil
}
