package database

import "github.com/google/uuid"

// newID returns a random UUIDv4 used as primary key for users, announcements
// and transactions.
func newID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
