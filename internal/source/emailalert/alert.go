package emailalert

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobscout-engine/internal/domain"
)

// card is one job entry scraped out of an alert email.
type card struct {
	ID       string
	Title    string
	Company  string
	Location string
}

var reJobID = regexp.MustCompile(`/jobs/view/(\d+)`)

// parseAlertHTML extracts job cards from a LinkedIn alert email body. Several
// anchors usually point at the same job id (logo, title, footer link), so
// results are merged per id and the most title-like anchor text wins.
func parseAlertHTML(htmlBody string) ([]card, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return nil, err
	}

	byID := map[string]*card{}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" {
			return
		}
		lh := strings.ToLower(href)
		if !strings.Contains(lh, "linkedin.com") {
			return
		}
		if !strings.Contains(lh, "/jobs/view/") && !strings.Contains(lh, "/comm/jobs/view/") {
			return
		}

		id := jobIDFromURL(unwrapRedirect(href))
		if id == "" {
			return
		}

		j, ok := byID[id]
		if !ok {
			j = &card{ID: id}
			byID[id] = j
		}

		if t := titleCandidate(a.Text()); betterTitle(t, j.Title) {
			j.Title = t
		}

		// The surrounding table row carries the "Company · Location" line.
		container := a.Closest("table")
		if container.Length() == 0 {
			container = a.Closest("tr")
		}
		if container.Length() == 0 {
			container = a.Parent()
		}

		container.Find("p").Each(func(_ int, p *goquery.Selection) {
			t := domain.CleanText(p.Text())
			if t == "" {
				return
			}
			if j.Company == "" && j.Location == "" && strings.Contains(t, " · ") {
				parts := strings.SplitN(t, " · ", 2)
				j.Company = strings.TrimSpace(parts[0])
				j.Location = strings.TrimSpace(parts[1])
				return
			}
			if t2 := titleCandidate(t); betterTitle(t2, j.Title) && !strings.Contains(t2, " · ") {
				j.Title = t2
			}
		})
	})

	out := make([]card, 0, len(byID))
	for _, j := range byID {
		if j.Title == "" {
			continue
		}
		out = append(out, *j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out, nil
}

func jobIDFromURL(jobURL string) string {
	if m := reJobID.FindStringSubmatch(jobURL); len(m) == 2 {
		return m[1]
	}
	return ""
}

// unwrapRedirect resolves tracking wrappers that carry the real link in a
// url= query parameter.
func unwrapRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if raw := u.Query().Get("url"); raw != "" {
		if uu, err := url.Parse(raw); err == nil && uu.Host != "" {
			return uu.String()
		}
	}
	return href
}

// titleCandidate cleans anchor text and rejects strings that are clearly
// badges or list chrome rather than job titles.
func titleCandidate(s string) string {
	s = domain.CleanText(s)
	for _, badge := range []string{"Actively recruiting", "Easy Apply", "Promoted"} {
		s = strings.TrimSpace(strings.ReplaceAll(s, badge, ""))
	}
	low := strings.ToLower(s)
	for _, junk := range []string{"unsubscribe", "see all jobs", "view job", "alumni", "connections", "applicants"} {
		if strings.Contains(low, junk) {
			return ""
		}
	}
	return s
}

func betterTitle(candidate, current string) bool {
	if candidate == "" {
		return false
	}
	if len([]rune(candidate)) < 4 || len([]rune(candidate)) > 140 {
		return false
	}
	return len(candidate) > len(current)
}
