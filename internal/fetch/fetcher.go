// Package fetch retrieves a web page and reduces it to readable text
// for ingestion.
package fetch

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/inbucket/html2text"
	"github.com/microcosm-cc/bluemonday"

	"github.com/echoes-os/echoes/internal/echoerr"
	"github.com/echoes-os/echoes/internal/retry"
)

const (
	maxResponseSize = 1 << 20 // 1MB limit
	defaultTimeout  = 15 * time.Second
	userAgent       = "echoes/1.0 (+https://github.com/echoes-os/echoes)"
)

var titleRE = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

// Fetcher downloads pages over HTTP and strips them to plain text.
type Fetcher struct {
	client      *http.Client
	retrier     *retry.Retrier
	titlePolicy *bluemonday.Policy
}

// New creates a Fetcher with the default timeout.
func New() *Fetcher {
	return NewWithTimeout(defaultTimeout)
}

// NewWithTimeout creates a Fetcher with a custom HTTP timeout.
func NewWithTimeout(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:      &http.Client{Timeout: timeout},
		retrier:     retry.NewDefaultRetrier(),
		titlePolicy: bluemonday.StrictPolicy(),
	}
}

// Fetch retrieves url and returns its readable text and page title.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, string, error) {
	if strings.TrimSpace(url) == "" {
		return "", "", echoerr.Validation("url must not be blank")
	}

	var raw []byte
	err := f.retrier.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("fetch: create request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := f.client.Do(req)
		if err != nil {
			return fmt.Errorf("fetch: get %s: %w", url, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			return fmt.Errorf("fetch: HTTP %d for %s", resp.StatusCode, url)
		}

		raw, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		if err != nil {
			return fmt.Errorf("fetch: read body: %w", err)
		}
		return nil
	})
	if err != nil {
		if mapped := echoerr.FromContext(err, "fetch aborted"); echoerr.IsKind(mapped, echoerr.KindTimeout) {
			return "", "", mapped
		}
		return "", "", echoerr.Provider(fmt.Sprintf("could not fetch %s", url), err)
	}

	text, err := html2text.FromString(string(raw), html2text.Options{
		OmitLinks:    true,
		PrettyTables: false,
	})
	if err != nil {
		return "", "", echoerr.Provider("could not extract readable text", err)
	}

	return text, f.extractTitle(string(raw)), nil
}

// extractTitle pulls the page title, stripped of any markup the page
// smuggled into it.
func (f *Fetcher) extractTitle(rawHTML string) string {
	m := titleRE.FindStringSubmatch(rawHTML)
	if m == nil {
		return ""
	}
	title := f.titlePolicy.Sanitize(m[1])
	return strings.TrimSpace(html.UnescapeString(title))
}
