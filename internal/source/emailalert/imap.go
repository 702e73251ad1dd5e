package emailalert

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
)

type rawMessage struct {
	UID        imap.UID
	Subject    string
	Date       time.Time
	RawMessage []byte
}

func dialAndLogin(ctx context.Context, addr, serverName, username, password string) (*imapclient.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := imapclient.DialTLS(addr, &imapclient.Options{
		TLSConfig: &tls.Config{ServerName: serverName},
	})
	if err != nil {
		return nil, fmt.Errorf("imap dial %s: %w", addr, err)
	}
	if err := c.Login(username, password).Wait(); err != nil {
		c.Close()
		return nil, fmt.Errorf("imap login %s: %w", username, err)
	}
	return c, nil
}

// fetchUnseen downloads the newest unseen messages since the cutoff with
// their full RFC 822 bodies, without setting \Seen (peek).
func fetchUnseen(ctx context.Context, c *imapclient.Client, limit int, since time.Time) ([]rawMessage, error) {
	searchData, err := c.UIDSearch(&imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
		Since:   since,
	}, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("imap search: %w", err)
	}
	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}
	if len(uids) > limit {
		uids = uids[len(uids)-limit:]
	}

	bodySection := &imap.FetchItemBodySection{
		Specifier: imap.PartSpecifierNone,
		Peek:      true,
	}
	fetchCmd := c.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		UID:          true,
		Envelope:     true,
		InternalDate: true,
		BodySection:  []*imap.FetchItemBodySection{bodySection},
	})

	var out []rawMessage
	for {
		if err := ctx.Err(); err != nil {
			fetchCmd.Close()
			return nil, err
		}
		msg := fetchCmd.Next()
		if msg == nil {
			break
		}
		buf, err := msg.Collect()
		if err != nil {
			log.Printf("[emailalert] collect message: %v", err)
			continue
		}
		m := rawMessage{UID: buf.UID, Date: buf.InternalDate}
		if buf.Envelope != nil {
			m.Subject = buf.Envelope.Subject
			if !buf.Envelope.Date.IsZero() {
				m.Date = buf.Envelope.Date
			}
		}
		m.RawMessage = buf.FindBodySection(bodySection)
		if len(m.RawMessage) == 0 {
			continue
		}
		out = append(out, m)
	}
	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("imap fetch: %w", err)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func markSeen(c *imapclient.Client, uids []imap.UID) error {
	return c.Store(imap.UIDSetNum(uids...), &imap.StoreFlags{
		Op:     imap.StoreFlagsAdd,
		Silent: true,
		Flags:  []imap.Flag{imap.FlagSeen},
	}, nil).Close()
}

func logoutAndClose(c *imapclient.Client) {
	if err := c.Logout().Wait(); err != nil {
		log.Printf("[emailalert] logout: %v", err)
	}
	c.Close()
}
