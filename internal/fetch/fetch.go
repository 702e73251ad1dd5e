// Package fetch retrieves the full description text for a posting by
// loading its public view page. One bounded attempt per call; the pipeline
// owns the retry budget.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobscout-engine/internal/domain"
)

const viewURL = "https://www.linkedin.com/jobs/view/"

type Fetcher struct {
	hc      *http.Client
	limiter *HostLimiter
}

func New(limiter *HostLimiter) *Fetcher {
	return &Fetcher{
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: limiter,
	}
}

// FetchDescription loads the posting page and extracts the description
// node's text. Empty text is an error: the pipeline treats it as a failed
// fetch, never as a legitimately blank description.
func (f *Fetcher) FetchDescription(ctx context.Context, id string) (string, error) {
	u := viewURL + id

	if err := f.limiter.WaitURL(ctx, u); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	res, err := f.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch posting %s: %w", id, err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return "", fmt.Errorf("fetch posting %s: status %d", id, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return "", fmt.Errorf("parse posting %s: %w", id, err)
	}

	text := extractDescription(doc)
	if text == "" {
		return "", errors.New("fetch posting " + id + ": empty description")
	}
	return text, nil
}

func extractDescription(doc *goquery.Document) string {
	// The description container carries a stable element id; fall back to
	// the article body when the markup variant omits it.
	if sel := doc.Find("#job-details"); sel.Length() > 0 {
		return domain.CleanText(sel.First().Text())
	}
	if sel := doc.Find("article"); sel.Length() > 0 {
		return domain.CleanText(sel.First().Text())
	}
	return ""
}
