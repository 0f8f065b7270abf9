package database

import "time"

type User struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

type Announcement struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	Body      string    `db:"body"`
	AuthorID  string    `db:"author_id"`
	Author    string    `db:"-"`    // username of the author, empty once the user is deleted
	Rank      string    `db:"rank"` // LexoRank string, ascending is display order
	CreatedAt time.Time `db:"created_at"`
}
