package fetch

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docFrom(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractDescription(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "job-details container",
			html: `<div id="job-details"><p>We  build   things.</p><p>Go required.</p></div><article>ignored</article>`,
			want: "We build things. Go required.",
		},
		{
			name: "article fallback",
			html: `<article><p>Fallback body</p></article>`,
			want: "Fallback body",
		},
		{
			name: "nothing recognizable",
			html: `<div class="nav">menu</div>`,
			want: "",
		},
		{
			name: "nbsp collapsed",
			html: `<article>two&nbsp;&nbsp;words</article>`,
			want: "two words",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractDescription(docFrom(t, tt.html)))
		})
	}
}

func TestHostLimiterSeparatesHosts(t *testing.T) {
	// Burst 1 at a negligible refill: the first Wait per host is free, the
	// second would block. Distinct hosts must not share a bucket.
	hl := NewHostLimiter(0.0001, 1)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, hl.WaitURL(ctx, "https://a.example.com/x"))
	require.NoError(t, hl.WaitURL(ctx, "https://b.example.com/x"))

	// Same host again: the bucket is empty, Wait blocks until cancel.
	cancel()
	err := hl.WaitURL(ctx, "https://a.example.com/y")
	assert.Error(t, err)
}
