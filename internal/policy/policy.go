// Package policy holds the operator-maintained exclusion lists applied to
// candidates at discovery time. The on-disk file is only ever replaced
// atomically, so the discovery pass (which loads it fresh each run) never
// observes a partial write.
package policy

import (
	"fmt"
	"strings"
)

// Policy is three categories of case-sensitive substrings. A candidate whose
// title/company/location contains any entry of the matching category is
// discarded before it enters the pipeline.
type Policy struct {
	TitleWords []string `json:"excluded_title_words"`
	Companies  []string `json:"excluded_companies"`
	Locations  []string `json:"excluded_expanded_locations"`
}

type Category string

const (
	CategoryTitle    Category = "title"
	CategoryCompany  Category = "company"
	CategoryLocation Category = "location"
)

func ParseCategory(raw string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(raw))) {
	case CategoryTitle:
		return CategoryTitle, nil
	case CategoryCompany:
		return CategoryCompany, nil
	case CategoryLocation:
		return CategoryLocation, nil
	}
	return "", fmt.Errorf("unknown exclusion category %q", raw)
}

// Matches reports whether the candidate hits any exclusion entry, and which
// category it hit.
func (p Policy) Matches(title, company, location string) (bool, Category) {
	for _, w := range p.TitleWords {
		if w != "" && strings.Contains(title, w) {
			return true, CategoryTitle
		}
	}
	for _, w := range p.Companies {
		if w != "" && strings.Contains(company, w) {
			return true, CategoryCompany
		}
	}
	for _, w := range p.Locations {
		if w != "" && strings.Contains(location, w) {
			return true, CategoryLocation
		}
	}
	return false, ""
}

func (p *Policy) append(cat Category, word string) {
	switch cat {
	case CategoryTitle:
		p.TitleWords = append(p.TitleWords, word)
	case CategoryCompany:
		p.Companies = append(p.Companies, word)
	case CategoryLocation:
		p.Locations = append(p.Locations, word)
	}
}
