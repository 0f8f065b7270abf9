package database

import (
	"context"
	"database/sql"

	"github.com/jo-hoe/hoasite/internal/backend/finance"
)

type DatabaseService interface {
	CreateDatabase(ctx context.Context) (*sql.DB, error)
	DoesDatabaseExist() bool
	Close() error

	CreateUser(ctx context.Context, username, passwordHash, role string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	CountUsers(ctx context.Context) (int, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateRole(ctx context.Context, id, role string) error
	DeleteUser(ctx context.Context, id string) error

	// CreateAnnouncement places the new announcement at the top of the board.
	CreateAnnouncement(ctx context.Context, title, body, authorID string) (*Announcement, error)
	GetAnnouncement(ctx context.Context, id string) (*Announcement, error)
	ListAnnouncements(ctx context.Context, limit int) ([]*Announcement, error)
	GetOrderedAnnouncementIDs(ctx context.Context) ([]string, error)
	UpdateAnnouncementOrder(ctx context.Context, order []string) error
	DeleteAnnouncement(ctx context.Context, id string) error

	// ReplaceTransactions swaps the whole checking history in one transaction.
	ReplaceTransactions(ctx context.Context, txs []finance.Transaction) error
	ListTransactions(ctx context.Context) ([]finance.Transaction, error)
	ReplaceSavings(ctx context.Context, points []finance.SavingsPoint) error
	ListSavings(ctx context.Context) ([]finance.SavingsPoint, error)
}
