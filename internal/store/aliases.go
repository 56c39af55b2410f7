package store

import "github.com/nixenos/czytaj/internal/model"

type Feed = model.Feed
type Article = model.Article
type ViewedArticle = model.ViewedArticle
type Settings = model.Settings
