package notify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"jobscout-engine/internal/domain"
)

func TestFormatBatchDeterministic(t *testing.T) {
	b := domain.NewBatch()
	b.Add("engineer", "Austin", "2", domain.BatchEntry{Title: "Platform Eng", Company: "Globex", URL: "https://www.linkedin.com/jobs/view/2"})
	b.Add("engineer", "Austin", "1", domain.BatchEntry{Title: "Backend Eng", Company: "Acme", URL: "https://www.linkedin.com/jobs/view/1"})
	b.Add("analyst", "Remote", "3", domain.BatchEntry{Title: "Data Analyst", Company: "Initech", URL: "https://www.linkedin.com/jobs/view/3"})

	first := FormatBatch(b)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, FormatBatch(b), "ordering must not depend on map iteration")
	}

	// terms sorted: analyst before engineer; ids sorted within a search
	assert.Less(t, strings.Index(first, "analyst"), strings.Index(first, "engineer"))
	assert.Less(t, strings.Index(first, "Acme"), strings.Index(first, "Globex"))
	assert.Contains(t, first, `"engineer" in Austin: 2 result(s)`)
	assert.Contains(t, first, "Acme - Backend Eng: https://www.linkedin.com/jobs/view/1")
}

func TestFormatBatchEmptySearchStillListed(t *testing.T) {
	b := domain.NewBatch()
	b.EnsureSearch("engineer", "Austin")

	out := FormatBatch(b)
	assert.Contains(t, out, `"engineer" in Austin: 0 result(s)`)
}

func TestFormatBatchEscapesHTML(t *testing.T) {
	b := domain.NewBatch()
	b.Add("engineer", "Austin", "1", domain.BatchEntry{Title: "C++ <Senior>", Company: "A&B", URL: "u"})

	out := FormatBatch(b)
	assert.Contains(t, out, "A&amp;B - C++ &lt;Senior&gt;")
	assert.NotContains(t, out, "<Senior>")
}
