package store

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// MarkViewed adds link to the viewed set. It reports whether the link was new;
// an existing record keeps its original title and time.
func (s *Store) MarkViewed(ctx context.Context, link, title string, viewedAt time.Time) (bool, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return false, fmt.Errorf("mark viewed: link is required: %w", ErrInvalidInput)
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO viewed_articles(link, title, viewed_at)
		VALUES (?, ?, ?)
		ON CONFLICT(link) DO NOTHING
	`, link, strings.TrimSpace(title), timeToDBString(viewedAt))
	if err != nil {
		return false, classify("mark viewed", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *Store) IsViewed(ctx context.Context, link string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM viewed_articles WHERE link = ?)`,
		strings.TrimSpace(link),
	).Scan(&exists)
	if err != nil {
		return false, classify("check viewed", err)
	}
	return exists, nil
}

// ListViewed returns viewed articles, most recently viewed first.
func (s *Store) ListViewed(ctx context.Context) ([]ViewedArticle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT link, title, viewed_at
		FROM viewed_articles
		ORDER BY viewed_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, classify("list viewed", err)
	}
	defer rows.Close()

	out := make([]ViewedArticle, 0)
	for rows.Next() {
		var v ViewedArticle
		var viewedAt string
		if err := rows.Scan(&v.Link, &v.Title, &viewedAt); err != nil {
			return nil, classify("scan viewed", err)
		}
		if t, err := parseDBTime(viewedAt); err == nil {
			v.ViewedAt = t
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list viewed", err)
	}
	return out, nil
}
