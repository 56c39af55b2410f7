package engine

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nixenos/czytaj/internal/model"
)

// RefreshAll refreshes every known feed with bounded concurrency. Per-feed
// failures, including feeds already being refreshed, are reported in the
// result rather than returned.
func (e *Engine) RefreshAll(ctx context.Context) (model.RefreshReport, error) {
	report := model.RefreshReport{StartedAt: time.Now()}

	feeds, err := e.store.ListFeeds(ctx)
	if err != nil {
		return model.RefreshReport{}, err
	}

	results := make([]model.RefreshResult, len(feeds))
	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i, feed := range feeds {
		g.Go(func() error {
			result := model.RefreshResult{FeedURL: feed.URL, FeedTitle: feed.Title}
			data, err := e.RefreshFeed(ctx, feed.URL)
			if err != nil {
				result.Error = err.Error()
				result.ErrorKind = Kind(err)
			} else {
				result.Articles = len(data.Articles)
			}
			results[i] = result
			return nil
		})
	}
	_ = g.Wait()

	report.Results = results
	report.EndedAt = time.Now()
	return report, nil
}
