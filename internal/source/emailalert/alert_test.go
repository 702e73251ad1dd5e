package emailalert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleAlertHTML = `
<html><body>
<table>
  <tr>
    <td><a href="https://www.linkedin.com/comm/jobs/view/4100000001/?trk=logo"><img src="logo.png"></a></td>
    <td>
      <a href="https://www.linkedin.com/comm/jobs/view/4100000001/?trk=title">Backend Engineer</a>
      <p>Acme Corp · Austin, TX</p>
      <p>Actively recruiting</p>
    </td>
  </tr>
</table>
<table>
  <tr>
    <td>
      <a href="https://www.linkedin.com/jobs/view/4100000002">Data Engineer</a>
      <p>Globex · Remote</p>
    </td>
  </tr>
</table>
<a href="https://www.linkedin.com/jobs/search/all">See all jobs</a>
<a href="https://example.com/jobs/view/999">not linkedin</a>
</body></html>`

func TestParseAlertHTML(t *testing.T) {
	cards, err := parseAlertHTML(sampleAlertHTML)
	require.NoError(t, err)
	require.Len(t, cards, 2)

	assert.Equal(t, "4100000001", cards[0].ID)
	assert.Equal(t, "Backend Engineer", cards[0].Title)
	assert.Equal(t, "Acme Corp", cards[0].Company)
	assert.Equal(t, "Austin, TX", cards[0].Location)

	assert.Equal(t, "4100000002", cards[1].ID)
	assert.Equal(t, "Data Engineer", cards[1].Title)
	assert.Equal(t, "Globex", cards[1].Company)
	assert.Equal(t, "Remote", cards[1].Location)
}

func TestParseAlertHTMLMergesAnchorsPerJob(t *testing.T) {
	// The logo anchor has no text; the title anchor must win the merge.
	cards, err := parseAlertHTML(sampleAlertHTML)
	require.NoError(t, err)
	require.NotEmpty(t, cards)
	assert.Equal(t, "Backend Engineer", cards[0].Title, "empty logo anchor must not shadow the title anchor")
}

func TestParseAlertHTMLRedirectWrapper(t *testing.T) {
	html := `<a href="https://www.linkedin.com/track?url=https://www.linkedin.com/jobs/view/77123/">Platform Engineer</a>`
	cards, err := parseAlertHTML(html)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "77123", cards[0].ID)
}

func TestParseAlertHTMLNoCards(t *testing.T) {
	cards, err := parseAlertHTML(`<html><body><p>Nothing to see</p></body></html>`)
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestTitleCandidateFiltersJunk(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Backend Engineer Actively recruiting", "Backend Engineer"},
		{"Easy Apply", ""},
		{"Unsubscribe from these emails", ""},
		{"See all jobs", ""},
		{"  Staff   Engineer ", "Staff Engineer"},
	}
	for _, tt := range tests {
		if got := titleCandidate(tt.in); got != tt.want {
			t.Errorf("titleCandidate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLooksLikeJobAlert(t *testing.T) {
	assert.True(t, looksLikeJobAlert(`"software engineer": 10 new jobs in Austin`))
	assert.True(t, looksLikeJobAlert("Your job alert for engineer"))
	assert.False(t, looksLikeJobAlert("Your weekly network digest"))
}
