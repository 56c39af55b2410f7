package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeArticlesTable(out io.Writer, articles []Article) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTITLE\tLINK\tIMAGE\tEXCERPT")
	for i, a := range articles {
		fmt.Fprintf(
			tw,
			"%d\t%s\t%s\t%s\t%s\n",
			i+1,
			compactText(a.Title, 56),
			compactText(a.Link, 56),
			yesNo(a.ImageURL != ""),
			compactText(oneLine(a.Excerpt), 70),
		)
	}
	_ = tw.Flush()
}

func writeFeedsTable(out io.Writer, feeds []Feed) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tARTICLES\tLAST_FETCH\tERRORS\tLAST_ERROR\tURL")
	for _, f := range feeds {
		fmt.Fprintf(
			tw,
			"%s\t%d\t%s\t%d\t%s\t%s\n",
			compactText(fallback(f.Title, f.URL), 30),
			f.ArticleCount,
			humanAgo(f.LastFetchedAt),
			f.ErrorCount,
			compactText(oneLine(f.LastError), 42),
			compactText(f.URL, 56),
		)
	}
	_ = tw.Flush()
}

func writeFeedDetail(out io.Writer, f Feed) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "url\t%s\n", f.URL)
	fmt.Fprintf(tw, "title\t%s\n", f.Title)
	fmt.Fprintf(tw, "articles\t%d\n", f.ArticleCount)
	fmt.Fprintf(tw, "added\t%s\n", humanAgo(&f.CreatedAt))
	fmt.Fprintf(tw, "last_fetch\t%s\n", humanAgo(f.LastFetchedAt))
	fmt.Fprintf(tw, "errors\t%d\n", f.ErrorCount)
	fmt.Fprintf(tw, "last_error\t%s\n", fallback(oneLine(f.LastError), "-"))
	_ = tw.Flush()
}

func writeViewedTable(out io.Writer, viewed []ViewedArticle) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VIEWED\tTITLE\tLINK")
	for _, v := range viewed {
		fmt.Fprintf(
			tw,
			"%s\t%s\t%s\n",
			humanAgo(&v.ViewedAt),
			compactText(fallback(v.Title, "-"), 56),
			compactText(v.Link, 70),
		)
	}
	_ = tw.Flush()
}

func writeSettingsTable(out io.Writer, s Settings) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SETTING\tVALUE")
	fmt.Fprintf(tw, "theme\t%s\n", s.Theme)
	fmt.Fprintf(tw, "show_images\t%t\n", s.ShowImages)
	fmt.Fprintf(tw, "show_excerpts\t%t\n", s.ShowExcerpts)
	_ = tw.Flush()
}

func writeRefreshReportTable(out io.Writer, rep RefreshReport) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FEED\tARTICLES\tERROR\tURL")
	for _, r := range rep.Results {
		articles := fmt.Sprintf("%d", r.Articles)
		if r.Error != "" {
			articles = "-"
		}
		fmt.Fprintf(
			tw,
			"%s\t%s\t%s\t%s\n",
			compactText(fallback(r.FeedTitle, r.FeedURL), 30),
			articles,
			compactText(oneLine(r.Error), 70),
			compactText(r.FeedURL, 56),
		)
	}
	_ = tw.Flush()
}

func oneLine(v string) string {
	v = strings.ReplaceAll(v, "\n", " ")
	v = strings.ReplaceAll(v, "\r", " ")
	return strings.TrimSpace(v)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
