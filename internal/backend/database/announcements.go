package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const announcementSelect = `SELECT a.id, a.title, a.body, COALESCE(a.author_id, ''), COALESCE(u.username, ''), a.rank, a.created_at
	FROM announcements a LEFT JOIN users u ON u.id = a.author_id`

func scanAnnouncement(row rowScanner) (*Announcement, error) {
	var (
		a       Announcement
		created int64
	)
	if err := row.Scan(&a.ID, &a.Title, &a.Body, &a.AuthorID, &a.Author, &a.Rank, &created); err != nil {
		return nil, err
	}
	a.CreatedAt = fromMillis(created)
	return &a, nil
}

func (s *SQLiteDatabase) CreateAnnouncement(ctx context.Context, title, body, authorID string) (*Announcement, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var first string
	err = tx.QueryRowContext(ctx, "SELECT rank FROM announcements ORDER BY rank ASC LIMIT 1").Scan(&first)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to read first rank: %w", err)
	}

	a := &Announcement{
		ID:        id,
		Title:     title,
		Body:      body,
		AuthorID:  authorID,
		Rank:      Between("", first),
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	var author any
	if authorID != "" {
		author = authorID
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO announcements (id, title, body, author_id, rank, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		a.ID, a.Title, a.Body, author, a.Rank, toMillis(a.CreatedAt),
	); err != nil {
		return nil, fmt.Errorf("failed to insert announcement: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *SQLiteDatabase) GetAnnouncement(ctx context.Context, id string) (*Announcement, error) {
	row := s.db.QueryRowContext(ctx, announcementSelect+" WHERE a.id = ?", id)
	a, err := scanAnnouncement(row)
	if err != nil {
		return nil, notFound(err, "announcement", id)
	}
	return a, nil
}

// ListAnnouncements returns announcements in board order. A limit <= 0 returns all.
func (s *SQLiteDatabase) ListAnnouncements(ctx context.Context, limit int) ([]*Announcement, error) {
	query := announcementSelect + " ORDER BY a.rank ASC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []*Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLiteDatabase) GetOrderedAnnouncementIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM announcements ORDER BY rank ASC")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpdateAnnouncementOrder persists the given order, rewriting only the ranks
// that no longer sit between their new neighbours.
func (s *SQLiteDatabase) UpdateAnnouncementOrder(ctx context.Context, order []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	rows, err := tx.QueryContext(ctx, "SELECT id, rank FROM announcements")
	if err != nil {
		return err
	}
	existing := make(map[string]string)
	for rows.Next() {
		var id, rank string
		if err := rows.Scan(&id, &rank); err != nil {
			_ = rows.Close()
			return err
		}
		existing[id] = rank
	}
	if err := rows.Close(); err != nil {
		return err
	}

	for _, id := range order {
		if _, ok := existing[id]; !ok {
			return fmt.Errorf("announcement %q: %w", id, ErrNotFound)
		}
	}

	for id, rank := range Reorder(existing, order) {
		if _, err := tx.ExecContext(ctx, "UPDATE announcements SET rank = ? WHERE id = ?", rank, id); err != nil {
			return fmt.Errorf("failed to update rank of %q: %w", id, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteDatabase) DeleteAnnouncement(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM announcements WHERE id = ?", id)
	if err != nil {
		return err
	}
	return checkAffected(res, "announcement", id)
}
