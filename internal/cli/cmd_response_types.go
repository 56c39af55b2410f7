package cli

import "github.com/nixenos/czytaj/internal/model"

type FeedDataResponse struct {
	URL      string          `json:"url"`
	Title    string          `json:"title"`
	Articles []model.Article `json:"articles"`
}

type RemoveFeedResponse struct {
	RemovedURL string `json:"removed_url"`
}

type ViewedStatusResponse struct {
	Link   string `json:"link"`
	Viewed bool   `json:"viewed"`
}

type UpdateSettingsResponse struct {
	Settings model.Settings `json:"settings"`
}

func newFeedDataResponse(url string, data model.FeedData) FeedDataResponse {
	articles := data.Articles
	if articles == nil {
		articles = []model.Article{}
	}
	return FeedDataResponse{URL: url, Title: data.Title, Articles: articles}
}
