package domain

import "strings"

// Posting is one job listing discovered from the external source. The id is
// assigned by the source and never regenerated; title/company/location are
// captured at discovery time and immutable after that.
type Posting struct {
	ID               string
	Title            string
	Company          string
	Location         string
	Description      string
	MatchingKeywords []string
}

func (p Posting) URL() string {
	return "https://www.linkedin.com/jobs/view/" + p.ID
}

// Truncate caps s at max runes, appending "..." when it was cut.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

// CleanText collapses runs of whitespace (including non breaking spaces from
// HTML sources) into single spaces.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}
