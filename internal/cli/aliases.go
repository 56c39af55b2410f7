package cli

import "github.com/nixenos/czytaj/internal/model"

type OutputFormat = model.OutputFormat
type Feed = model.Feed
type Article = model.Article
type ViewedArticle = model.ViewedArticle
type Settings = model.Settings
type RefreshReport = model.RefreshReport

const (
	OutputTable = model.OutputTable
	OutputJSON  = model.OutputJSON
)
