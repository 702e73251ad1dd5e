package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"jobscout-engine/internal/domain"
)

const dateLayout = "2006-01-02"

// KeywordsError marks a posting whose description could never be fetched.
// It is stored in the keywords column in place of a JSON array.
const KeywordsError = "ERROR"

// Record is one stored posting plus its pipeline bookkeeping.
type Record struct {
	Posting   domain.Posting
	Stage     domain.Stage
	Discarded bool
	ExpiresAt time.Time
}

// FieldUpdate carries the subset of mutable columns to write. Nil fields are
// left untouched. Each present field is committed as its own statement; there
// is deliberately no cross-field transaction (matching the pipeline's
// per-write durability contract).
type FieldUpdate struct {
	Description *string
	Keywords    *string // serialized via EncodeKeywords, or KeywordsError
	Stage       *domain.Stage
	Discarded   *bool
}

func EncodeKeywords(kws []string) string {
	b, _ := json.Marshal(kws)
	return string(b)
}

func decodeKeywords(raw string) []string {
	if raw == "" || raw == KeywordsError {
		return nil
	}
	var kws []string
	if err := json.Unmarshal([]byte(raw), &kws); err != nil {
		return nil
	}
	return kws
}

// CreatePosting inserts a new record at the given stage with an expiry of
// today + retentionDays. The id must be new: re-discovery returns
// ErrDuplicateKey and leaves the store untouched.
func (d *DB) CreatePosting(p domain.Posting, stage domain.Stage, discarded bool, today time.Time, retentionDays int) error {
	expires := today.AddDate(0, 0, retentionDays).Format(dateLayout)

	res, err := d.Pool.Exec(`
INSERT OR IGNORE INTO postings (id, title, company, location, description, keywords, stage, discarded, expires_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		p.ID, p.Title, p.Company, p.Location, p.Description, EncodeKeywords(p.MatchingKeywords),
		stage.String(), boolToInt(discarded), expires,
	)
	if err != nil {
		return fmt.Errorf("insert posting: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrDuplicateKey
	}
	return nil
}

func (d *DB) ReadPosting(id string) (Record, error) {
	row := d.Pool.QueryRow(`
SELECT id, title, company, location, description, keywords, stage, discarded, expires_at
FROM postings
WHERE id = ?;`, id)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return Record{}, ErrNotFound
	}
	return rec, err
}

// UpdatePosting applies the supplied fields to an existing record. Absent ids
// fail with ErrNotFound before anything is written.
func (d *DB) UpdatePosting(id string, upd FieldUpdate) error {
	ok, err := d.Exists(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}

	if upd.Description != nil {
		if _, err := d.Pool.Exec(`UPDATE postings SET description = ? WHERE id = ?;`, *upd.Description, id); err != nil {
			return fmt.Errorf("update description: %w", err)
		}
	}
	if upd.Keywords != nil {
		if _, err := d.Pool.Exec(`UPDATE postings SET keywords = ? WHERE id = ?;`, *upd.Keywords, id); err != nil {
			return fmt.Errorf("update keywords: %w", err)
		}
	}
	if upd.Stage != nil {
		if _, err := d.Pool.Exec(`UPDATE postings SET stage = ? WHERE id = ?;`, upd.Stage.String(), id); err != nil {
			return fmt.Errorf("update stage: %w", err)
		}
	}
	if upd.Discarded != nil {
		if _, err := d.Pool.Exec(`UPDATE postings SET discarded = ? WHERE id = ?;`, boolToInt(*upd.Discarded), id); err != nil {
			return fmt.Errorf("update discarded: %w", err)
		}
	}
	return nil
}

func (d *DB) DeletePosting(id string) error {
	_, err := d.Pool.Exec(`DELETE FROM postings WHERE id = ?;`, id)
	return err
}

// QueryByStage returns all records matching both predicates. It exists for
// resume/recovery: records already advanced past a stage are invisible to
// that stage's query because their stage column has moved forward.
func (d *DB) QueryByStage(stage domain.Stage, discarded bool) ([]Record, error) {
	rows, err := d.Pool.Query(`
SELECT id, title, company, location, description, keywords, stage, discarded, expires_at
FROM postings
WHERE stage = ?
AND discarded = ?;`, stage.String(), boolToInt(discarded))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (d *DB) Exists(id string) (bool, error) {
	var one int
	err := d.Pool.QueryRow(`SELECT 1 FROM postings WHERE id = ? LIMIT 1;`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// PurgeExpired deletes every record whose expiry date has passed. It runs on
// a fixed calendar cadence rather than continuously to bound write
// amplification.
func (d *DB) PurgeExpired(today time.Time) (deleted int64, err error) {
	res, err := d.Pool.Exec(`
DELETE FROM postings
WHERE expires_at < ?;`, today.Format(dateLayout))
	if err != nil {
		return 0, fmt.Errorf("purge expired: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(r rowScanner) (Record, error) {
	var (
		rec       Record
		keywords  string
		stageStr  string
		discarded int
		expiresAt string
	)
	if err := r.Scan(
		&rec.Posting.ID,
		&rec.Posting.Title,
		&rec.Posting.Company,
		&rec.Posting.Location,
		&rec.Posting.Description,
		&keywords,
		&stageStr,
		&discarded,
		&expiresAt,
	); err != nil {
		return Record{}, err
	}

	rec.Posting.MatchingKeywords = decodeKeywords(keywords)
	rec.Discarded = discarded != 0

	stage, err := domain.ParseStage(stageStr)
	if err != nil {
		return Record{}, err
	}
	rec.Stage = stage

	rec.ExpiresAt, _ = time.Parse(dateLayout, expiresAt)
	return rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
