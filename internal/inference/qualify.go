package inference

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

var reNumbers = regexp.MustCompile(`\d+`)

// Question phrasings, primary first. The alternates exist because the QA
// model often returns no usable numbers for the primary wording.
var degreeQuestions = []string{
	"What is the degree required?",
	"What is the educational degree required?",
	"What is the minimum degree required?",
}

var experienceQuestions = []string{
	"How many years of experience?",
	"How many years of work experience?",
	"How many years of professional experience?",
}

// MatchQualifications decides whether the description fits the required
// education and years of experience. Decision rules:
//   - the answers (or the raw description) must mention the education
//     category, otherwise no match;
//   - no stated years means the posting doesn't gate on experience: match;
//   - one stated number matches when the operator's years are within one of
//     it; a range (two or more numbers) matches when the years fall inside.
func (c *Client) MatchQualifications(ctx context.Context, description, education string, yearsExp int) (bool, error) {
	variations := c.cfg.DegreeVariations
	if edu := strings.ToLower(strings.TrimSpace(education)); edu != "" {
		variations = append(append([]string{}, variations...), edu)
	}

	var answers string
	var numbers []int
	for attempt := 0; attempt < len(degreeQuestions); attempt++ {
		degreeAns, err := c.ask(ctx, degreeQuestions[attempt], description)
		if err != nil {
			return false, err
		}
		expAns, err := c.ask(ctx, experienceQuestions[attempt], description)
		if err != nil {
			return false, err
		}

		answers = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(degreeAns+" "+expAns)), ".", "")
		numbers = extractNumbers(answers)
		if len(numbers) > 0 {
			break
		}
	}

	mentionsDegree := containsAny(answers, variations) ||
		containsAny(strings.ToLower(strings.TrimSpace(description)), variations)
	if !mentionsDegree {
		return false, nil
	}

	switch len(numbers) {
	case 0:
		return true, nil
	case 1:
		n := numbers[0]
		return yearsExp >= n-1 && yearsExp <= n+1, nil
	default:
		min, max := numbers[0], numbers[0]
		for _, n := range numbers[1:] {
			if n < min {
				min = n
			}
			if n > max {
				max = n
			}
		}
		return min <= yearsExp && yearsExp <= max, nil
	}
}

func extractNumbers(s string) []int {
	var out []int
	for _, m := range reNumbers.FindAllString(s, -1) {
		if n, err := strconv.Atoi(m); err == nil {
			out = append(out, n)
		}
	}
	return out
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
