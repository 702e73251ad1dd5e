// Package notify delivers run results and failure reports to the operator's
// Telegram chat.
package notify

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"jobscout-engine/internal/domain"
)

type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}
	return &Telegram{bot: bot, chatID: chatID}, nil
}

func (t *Telegram) send(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := t.bot.Send(msg)
	return err
}

// SendBatch formats one run's results, grouped by search term and location.
// A run with zero surviving postings still produces a message so the
// operator knows the run happened.
func (t *Telegram) SendBatch(ctx context.Context, b *domain.Batch) error {
	if b.Len() == 0 {
		return t.send("No matching jobs found")
	}
	return t.send(FormatBatch(b))
}

// FormatBatch renders the batch with deterministic ordering.
func FormatBatch(b *domain.Batch) string {
	var sb strings.Builder
	sb.WriteString("<b>Jobs Found</b>\n")

	for _, term := range sortedKeys(b.Searches) {
		locations := b.Searches[term]
		for _, location := range sortedKeys(locations) {
			postings := locations[location]
			fmt.Fprintf(&sb, "<u>%q in %s: %d result(s)</u>\n", term, esc(location), len(postings))
			if len(postings) == 0 {
				sb.WriteString("\n")
				continue
			}
			for _, id := range sortedKeys(postings) {
				entry := postings[id]
				fmt.Fprintf(&sb, "%s - %s: %s\n", esc(entry.Company), esc(entry.Title), entry.URL)
			}
		}
	}
	return sb.String()
}

func (t *Telegram) ReportFailure(ctx context.Context, report string) error {
	text := "Run failed:\n<pre>" + esc(report) + "</pre>"
	for _, chunk := range Chunk(text, MaxMessageLen) {
		if err := t.send(chunk); err != nil {
			return err
		}
	}
	return nil
}

func esc(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
