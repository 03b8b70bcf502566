// Package scrape crawls a university site and extracts the readable
// text of each page. Same-host links only, breadth-first, bounded.
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Page is one crawled page with its extracted text.
type Page struct {
	URL   string
	Title string
	Text  string
}

type Crawler struct {
	client   *http.Client
	maxPages int
	logger   *zap.Logger
}

func NewCrawler(maxPages int, logger *zap.Logger) *Crawler {
	if maxPages <= 0 {
		maxPages = 50
	}
	return &Crawler{
		client:   &http.Client{Timeout: 20 * time.Second},
		maxPages: maxPages,
		logger:   logger,
	}
}

// Crawl walks the site under baseURL and returns the pages that
// yielded any text. Individual page failures are logged and skipped.
func (c *Crawler) Crawl(ctx context.Context, baseURL string) ([]Page, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	visited := make(map[string]bool)
	queue := []string{base.String()}
	var pages []Page

	for len(queue) > 0 && len(visited) < c.maxPages {
		if err := ctx.Err(); err != nil {
			return pages, err
		}

		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true

		body, err := c.fetch(ctx, current)
		if err != nil {
			c.logger.Warn("page fetch failed", zap.String("url", current), zap.Error(err))
			continue
		}

		text := ExtractMainText(body)
		if text != "" {
			pages = append(pages, Page{
				URL:   current,
				Title: urlToTitle(current, base),
				Text:  text,
			})
		}

		for _, link := range ExtractLinks(body, base) {
			if !visited[link] {
				queue = append(queue, link)
			}
		}
	}

	c.logger.Info("crawl finished",
		zap.String("base", base.String()),
		zap.Int("visited", len(visited)),
		zap.Int("pages", len(pages)))

	return pages, nil
}

func (c *Crawler) fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// ExtractMainText strips markup, scripts and styles and returns the
// visible text, one line per text node.
func ExtractMainText(htmlStr string) string {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return ""
	}

	var b strings.Builder
	var walk func(*html.Node, bool)
	walk = func(n *html.Node, skip bool) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				skip = true
			}
		}

		if n.Type == html.TextNode && !skip {
			t := strings.TrimSpace(n.Data)
			if t != "" {
				b.WriteString(t)
				b.WriteString("\n")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, skip)
		}
	}
	walk(doc, false)

	lines := strings.Split(b.String(), "\n")
	var filtered []string
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if len(l) > 1 {
			filtered = append(filtered, l)
		}
	}
	return strings.Join(filtered, "\n")
}

// ExtractLinks returns deduplicated same-host links, asset URLs
// excluded.
func ExtractLinks(htmlStr string, base *url.URL) []string {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return nil
	}

	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, a := range n.Attr {
				if a.Key != "href" {
					continue
				}
				h := strings.TrimSpace(a.Val)
				if h == "" || strings.HasPrefix(h, "#") {
					continue
				}
				u, err := url.Parse(h)
				if err != nil {
					continue
				}
				u = base.ResolveReference(u)
				if u.Host != base.Host {
					continue
				}
				if isAsset(u.Path) {
					continue
				}
				links = append(links, u.Scheme+"://"+u.Host+u.Path)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	seen := make(map[string]bool)
	var out []string
	for _, l := range links {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}

func isAsset(path string) bool {
	for _, ext := range []string{".css", ".js", ".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico", ".woff", ".woff2"} {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func urlToTitle(raw string, base *url.URL) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if u.Path == base.Path || u.Path == base.Path+"/" {
		return "Overview"
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	last := parts[len(parts)-1]
	last = strings.SplitN(last, ".", 2)[0]
	last = strings.ReplaceAll(last, "-", " ")
	last = strings.TrimSpace(last)
	if last == "" {
		return "Overview"
	}
	return last
}
