package store

// LastRunLayout is the timestamp format stored in the run_meta slot. The
// value is local time in the source site's timezone, written only after a
// fully successful pipeline run.
const LastRunLayout = "2006-01-02 15:04"

func (d *DB) LastRun() (string, error) {
	var lastRun string
	err := d.Pool.QueryRow(`SELECT last_run FROM run_meta LIMIT 1;`).Scan(&lastRun)
	return lastRun, err
}

func (d *DB) SetLastRun(stamp string) error {
	_, err := d.Pool.Exec(`UPDATE run_meta SET last_run = ? WHERE rowid = 1;`, stamp)
	return err
}
