package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// CreateFeedWithArticles registers a feed and its first article cache in one
// transaction. A duplicate URL yields ErrAlreadyExists and writes nothing.
func (s *Store) CreateFeedWithArticles(ctx context.Context, url, title string, articles []Article, fetchedAt time.Time) (feed Feed, err error) {
	url = strings.TrimSpace(url)
	title = strings.TrimSpace(title)
	if url == "" || title == "" {
		return Feed{}, fmt.Errorf("create feed: url and title are required: %w", ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Feed{}, classify("begin create feed", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stamp := timeToDBString(fetchedAt)
	res, err := tx.ExecContext(ctx, `
		INSERT INTO feeds(url, title, last_fetched_at, created_at)
		VALUES (?, ?, ?, ?)
	`, url, title, stamp, stamp)
	if err != nil {
		if isUniqueViolation(err) {
			return Feed{}, fmt.Errorf("feed %q: %w", url, ErrAlreadyExists)
		}
		return Feed{}, classify("insert feed", err)
	}
	feedID, err := res.LastInsertId()
	if err != nil {
		return Feed{}, classify("insert feed", err)
	}

	if err = insertArticles(ctx, tx, feedID, articles); err != nil {
		return Feed{}, err
	}
	if err = tx.Commit(); err != nil {
		return Feed{}, classify("commit create feed", err)
	}
	return s.GetFeed(ctx, url)
}

// ReplaceFeedArticles swaps the cached articles of a feed for exactly the
// given list and stamps the fetch time.
func (s *Store) ReplaceFeedArticles(ctx context.Context, url string, articles []Article, fetchedAt time.Time) (feed Feed, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Feed{}, classify("begin replace articles", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var feedID int64
	if err = tx.QueryRowContext(ctx, `SELECT id FROM feeds WHERE url = ?`, url).Scan(&feedID); err != nil {
		return Feed{}, wrapNotFound("feed", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM articles WHERE feed_id = ?`, feedID); err != nil {
		return Feed{}, classify("clear articles", err)
	}
	if err = insertArticles(ctx, tx, feedID, articles); err != nil {
		return Feed{}, err
	}
	if _, err = tx.ExecContext(ctx, `
		UPDATE feeds
		SET last_fetched_at = ?
		WHERE id = ?
	`, timeToDBString(fetchedAt), feedID); err != nil {
		return Feed{}, classify("update feed", err)
	}
	if err = tx.Commit(); err != nil {
		return Feed{}, classify("commit replace articles", err)
	}
	return s.GetFeed(ctx, url)
}

func insertArticles(ctx context.Context, tx *sql.Tx, feedID int64, articles []Article) error {
	if len(articles) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO articles(feed_id, position, link, title, excerpt, image_url)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(feed_id, link) DO NOTHING
	`)
	if err != nil {
		return classify("prepare article insert", err)
	}
	defer stmt.Close()

	for i, a := range articles {
		if strings.TrimSpace(a.Link) == "" {
			return fmt.Errorf("article %d has no link: %w", i, ErrInvalidInput)
		}
		if _, err := stmt.ExecContext(ctx, feedID, i, a.Link, a.Title, nullIfEmpty(a.Excerpt), nullIfEmpty(a.ImageURL)); err != nil {
			return classify("insert article", err)
		}
	}
	return nil
}

func (s *Store) FeedExists(ctx context.Context, url string) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM feeds WHERE url = ?)`, url).Scan(&exists); err != nil {
		return false, classify("check feed", err)
	}
	return exists, nil
}

func (s *Store) GetFeed(ctx context.Context, url string) (Feed, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+feedSelectColumns+` FROM feeds f WHERE f.url = ?`, url)
	feed, err := scanFeedRow(row)
	if err != nil {
		return Feed{}, wrapNotFound("feed", err)
	}
	return feed, nil
}

// ListFeeds returns feeds in insertion order.
func (s *Store) ListFeeds(ctx context.Context) ([]Feed, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+feedSelectColumns+` FROM feeds f ORDER BY f.id ASC`)
	if err != nil {
		return nil, classify("list feeds", err)
	}
	defer rows.Close()

	feeds := make([]Feed, 0)
	for rows.Next() {
		feed, err := scanFeedRow(rows)
		if err != nil {
			return nil, classify("scan feed", err)
		}
		feeds = append(feeds, feed)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list feeds", err)
	}
	return feeds, nil
}

// ListArticles returns the cached articles of a feed in document order.
func (s *Store) ListArticles(ctx context.Context, url string) ([]Article, error) {
	var feedID int64
	if err := s.db.QueryRowContext(ctx, `SELECT id FROM feeds WHERE url = ?`, url).Scan(&feedID); err != nil {
		return nil, wrapNotFound("feed", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT link, title, excerpt, image_url
		FROM articles
		WHERE feed_id = ?
		ORDER BY position ASC, id ASC
	`, feedID)
	if err != nil {
		return nil, classify("list articles", err)
	}
	defer rows.Close()

	articles := make([]Article, 0)
	for rows.Next() {
		a, err := scanArticleRow(rows)
		if err != nil {
			return nil, classify("scan article", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list articles", err)
	}
	return articles, nil
}

// DeleteFeed removes a feed and its cached articles. Viewed state is kept.
func (s *Store) DeleteFeed(ctx context.Context, url string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM feeds WHERE url = ?`, url)
	if err != nil {
		return classify("delete feed", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("feed %q: %w", url, ErrNotFound)
	}
	return nil
}
