package emailalert

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAlertMessageMultipart(t *testing.T) {
	raw := strings.Join([]string{
		"From: LinkedIn Job Alerts <jobalerts-noreply@linkedin.com>",
		"Subject: =?UTF-8?Q?=22engineer=22=3A_5_new_jobs?=",
		"MIME-Version: 1.0",
		"Content-Type: multipart/alternative; boundary=SEP",
		"",
		"--SEP",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		"plain fallback",
		"--SEP",
		"Content-Type: text/html; charset=UTF-8",
		"Content-Transfer-Encoding: quoted-printable",
		"",
		"<html><body><a href=3D\"https://www.linkedin.com/jobs/view/42\">Engineer</a></body></html>",
		"--SEP--",
		"",
	}, "\r\n")

	subject, htmlBody := parseAlertMessage([]byte(raw), "fallback subject")
	assert.Equal(t, `"engineer": 5 new jobs`, subject)
	assert.Contains(t, htmlBody, `href="https://www.linkedin.com/jobs/view/42"`, "quoted-printable must be decoded")
}

func TestParseAlertMessagePlainOnly(t *testing.T) {
	raw := strings.Join([]string{
		"Subject: hello",
		"Content-Type: text/plain",
		"",
		"just text",
	}, "\r\n")

	subject, body := parseAlertMessage([]byte(raw), "")
	assert.Equal(t, "hello", subject)
	assert.Equal(t, "just text", strings.TrimSpace(body))
}

func TestParseAlertMessageUnparsable(t *testing.T) {
	subject, body := parseAlertMessage([]byte("not an rfc822 message"), "fallback")
	require.Equal(t, "fallback", subject)
	assert.NotEmpty(t, body)
}

func TestParseAlertMessageEmpty(t *testing.T) {
	subject, body := parseAlertMessage(nil, "fallback")
	assert.Equal(t, "fallback", subject)
	assert.Empty(t, body)
}
