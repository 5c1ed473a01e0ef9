package store

import "database/sql"

// SetMetadata upserts a key-value pair in the metadata table.
func (s *Store) SetMetadata(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO metadata (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = ?`,
		key, value, value,
	)
	return err
}

// GetMetadata returns the value for a metadata key.
// Returns empty string and nil error if the key is missing.
func (s *Store) GetMetadata(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// GetBankFileHash returns the recorded content hash for a bank file.
// Returns empty string and nil error if the file was never recorded.
func (s *Store) GetBankFileHash(path string) (string, error) {
	var hash string
	err := s.db.QueryRow(`SELECT hash FROM bank_files WHERE path = ?`, path).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return hash, err
}

// SetBankFileHash records (or updates) the content hash of a bank file,
// so a changed bank can be flagged against previously archived reports.
func (s *Store) SetBankFileHash(path, hash string) error {
	_, err := s.db.Exec(
		`INSERT INTO bank_files (path, hash) VALUES (?, ?)
		 ON CONFLICT(path) DO UPDATE SET hash = ?`,
		path, hash, hash,
	)
	return err
}
