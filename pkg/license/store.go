// Package license gates a check run on an activation that is validated
// remotely and cached locally. The cache is a single sqlite row per client
// holding the expiry timestamp; refreshes extend it, rejections leave it
// untouched.
package license

import (
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS license (
			client_id   TEXT NOT NULL PRIMARY KEY,
			license_key TEXT NOT NULL,
			valid_until DATETIME NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// ValidUntil returns the cached expiry for the client in UTC. The second
// return value is false when no row exists yet.
func (s *Store) ValidUntil(clientID string) (time.Time, bool) {
	var validUntil time.Time

	err := s.db.QueryRow(
		`SELECT valid_until FROM license WHERE client_id = ?`,
		clientID,
	).Scan(&validUntil)
	if err != nil {
		return time.Time{}, false
	}

	return validUntil.UTC(), true
}

func (s *Store) SetValidUntil(clientID, licenseKey string, validUntil time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO license (client_id, license_key, valid_until)
		 VALUES (?, ?, ?)
		 ON CONFLICT(client_id)
		 DO UPDATE SET license_key = excluded.license_key, valid_until = excluded.valid_until`,
		clientID, licenseKey, validUntil.UTC(),
	)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}
