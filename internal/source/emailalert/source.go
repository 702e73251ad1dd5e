// Package emailalert discovers posting candidates from LinkedIn job-alert
// emails fetched over IMAP. It is one implementation of the pipeline's
// discovery contract; the pipeline itself knows nothing about mailboxes.
package emailalert

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"

	"jobscout-engine/internal/pipeline"
)

type Config struct {
	Host        string
	Port        int
	Username    string
	Password    string
	Mailbox     string
	MaxMessages int
}

type Source struct {
	cfg Config
}

func New(cfg Config) *Source {
	if cfg.Port == 0 {
		cfg.Port = 993
	}
	if cfg.Mailbox == "" {
		cfg.Mailbox = "INBOX"
	}
	if cfg.MaxMessages == 0 {
		cfg.MaxMessages = 50
	}
	return &Source{cfg: cfg}
}

// Discover scans unseen alert emails whose subject mentions the search term
// and emits one candidate per job card. Messages are marked seen only after
// their cards have been offered to the pipeline; an early stop from emit
// leaves the remaining messages unseen for the next run.
func (s *Source) Discover(ctx context.Context, term, location string, emit func(pipeline.Candidate) bool) error {
	if s.cfg.Host == "" || s.cfg.Username == "" {
		return fmt.Errorf("emailalert: missing imap host/username")
	}

	addr := s.cfg.Host
	if !strings.Contains(addr, ":") {
		addr = fmt.Sprintf("%s:%d", addr, s.cfg.Port)
	}

	c, err := dialAndLogin(ctx, addr, s.cfg.Host, s.cfg.Username, s.cfg.Password)
	if err != nil {
		return err
	}
	defer logoutAndClose(c)

	if _, err := c.Select(s.cfg.Mailbox, &imap.SelectOptions{ReadOnly: false}).Wait(); err != nil {
		return fmt.Errorf("imap select %q: %w", s.cfg.Mailbox, err)
	}

	msgs, err := fetchUnseen(ctx, c, s.cfg.MaxMessages, time.Now().AddDate(0, -3, 0))
	if err != nil {
		return err
	}

	var processed []imap.UID
	stopped := false

	for _, m := range msgs {
		subject, htmlBody := parseAlertMessage(m.RawMessage, m.Subject)

		if !looksLikeJobAlert(subject) || !strings.Contains(strings.ToLower(subject), strings.ToLower(term)) {
			// Not ours; leave it unseen for whoever it belongs to.
			continue
		}

		cards, perr := parseAlertHTML(htmlBody)
		if perr != nil {
			log.Printf("[emailalert] parse %q: %v", subject, perr)
			processed = append(processed, m.UID)
			continue
		}
		log.Printf("[emailalert] %d card(s) in %q", len(cards), subject)

		for _, card := range cards {
			loc := card.Location
			if loc == "" {
				loc = location
			}
			if !emit(pipeline.Candidate{
				ID:       card.ID,
				Title:    card.Title,
				Company:  card.Company,
				Location: loc,
			}) {
				stopped = true
				break
			}
		}
		if stopped {
			break
		}
		processed = append(processed, m.UID)
	}

	if len(processed) > 0 {
		if err := markSeen(c, processed); err != nil {
			return fmt.Errorf("mark seen: %w", err)
		}
	}
	return nil
}

func looksLikeJobAlert(subject string) bool {
	ls := strings.ToLower(subject)
	return strings.Contains(ls, "job alert") ||
		strings.Contains(ls, "new jobs") ||
		strings.Contains(ls, "jobs for you")
}
