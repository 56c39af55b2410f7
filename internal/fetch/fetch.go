package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/nixenos/czytaj/internal/config"
)

const acceptHeader = "application/rss+xml, application/atom+xml, application/rdf+xml, application/xml, text/xml;q=0.9, */*;q=0.8"

var errTooManyRedirects = errors.New("stopped after too many redirects")

// Document is a fetched feed body.
type Document struct {
	Body        []byte
	FinalURL    string
	ContentType string
}

type Fetcher struct {
	cfg    config.Config
	client *http.Client
}

func NewFetcher(cfg config.Config) *Fetcher {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     30 * time.Second,
	}

	maxRedirects := cfg.MaxRedirects
	return &Fetcher{
		cfg: cfg,
		client: &http.Client{
			Timeout:   cfg.HTTPTimeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) > maxRedirects {
					return errTooManyRedirects
				}
				return nil
			},
		},
	}
}

// Fetch retrieves rawURL and returns its body. Failures are *Error values,
// except for an invalid URL (ErrInvalidURL) and caller cancellation.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Document, error) {
	target, err := ValidateURL(rawURL)
	if err != nil {
		return Document{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := f.client.Do(req)
	if err != nil {
		return Document{}, classify(ctx, target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return Document{}, &Error{Kind: KindHTTPStatus, URL: target, StatusCode: resp.StatusCode}
	}

	limit := f.cfg.MaxBodyBytes
	if resp.ContentLength > limit {
		return Document{}, &Error{Kind: KindTooLarge, URL: target}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return Document{}, classify(ctx, target, err)
	}
	if int64(len(body)) > limit {
		return Document{}, &Error{Kind: KindTooLarge, URL: target}
	}

	finalURL := target
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	contentType := strings.TrimSpace(resp.Header.Get("Content-Type"))
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}

	return Document{
		Body:        body,
		FinalURL:    finalURL,
		ContentType: contentType,
	}, nil
}

func classify(ctx context.Context, target string, err error) error {
	if errors.Is(err, errTooManyRedirects) {
		return &Error{Kind: KindTooManyRedirects, URL: target, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, URL: target, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, URL: target, Err: err}
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("fetch %s: %w", target, ctxErr)
	}
	return &Error{Kind: KindNetworkUnreachable, URL: target, Err: err}
}
