package page

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/net/html"

	"imgvault/pkg/config"
	"imgvault/pkg/errors"
	"imgvault/pkg/logger"
)

// Fetcher retrieves HTML pages and extracts image candidates from them.
//
// We use golang.org/x/net/html rather than regex because it correctly
// handles the malformed markup common on real pages and preserves
// document order, which the ingestion contract depends on.
type Fetcher struct {
	client    *http.Client
	userAgent string
	logger    logger.Logger
}

// NewFetcher creates a page fetcher from the HTTP configuration.
func NewFetcher(httpCfg config.HTTPConfig, log logger.Logger) *Fetcher {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Fetcher{
		client:    &http.Client{Timeout: httpCfg.PageTimeout},
		userAgent: httpCfg.UserAgent,
		logger:    log,
	}
}

// Fetch retrieves the page body. Unlike per-candidate requests, a page
// fetch failure is returned to the caller and aborts the whole run.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.KindFetch, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.KindFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &errors.Error{
			Kind:    errors.KindFetch,
			Message: fmt.Sprintf("page fetch returned status %d", resp.StatusCode),
			Code:    resp.StatusCode,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.KindFetch, err)
	}

	f.logger.WithFields(map[string]interface{}{
		"url":   pageURL,
		"bytes": len(body),
	}).Debug("page fetched")

	return body, nil
}

// ExtractImages walks the parsed DOM and returns the src of every img
// element in document order, resolved against the page URL. Elements
// without a src attribute are skipped; unresolvable srcs are dropped.
func ExtractImages(body io.Reader, pageURL string) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL: %w", err)
	}

	doc, err := html.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var candidates []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "img" {
			if src := getAttr(n, "src"); src != "" {
				if resolved := resolveURL(base, src); resolved != "" {
					candidates = append(candidates, resolved)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return candidates, nil
}

// getAttr returns the value of the named attribute, or "".
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// resolveURL resolves a possibly relative href against the page base.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
