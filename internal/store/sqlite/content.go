package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/smartspb/mediabot/internal/domain"
	"github.com/smartspb/mediabot/internal/store"
)

// contentColumns is the ordered list of columns selected in content queries.
// Must match the scan order in scanContent.
const contentColumns = `id, user_id, description, timestamp, iso_date`

type scanner interface{ Scan(dest ...any) error }

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func scanContent(row scanner) (*domain.Content, error) {
	var (
		c    domain.Content
		desc sql.NullString
	)
	if err := row.Scan(&c.ID, &c.UserID, &desc, &c.Timestamp, &c.ISODate); err != nil {
		return nil, err
	}
	c.Description = desc.String
	return &c, nil
}

// CreateContent inserts an entry, its media, and its tags in one transaction.
func (s *Store) CreateContent(ctx context.Context, c *domain.Content, tags []domain.TagRef) error {
	if len(c.Media) == 0 {
		return store.ErrEmptyMedia
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO content (user_id, description, timestamp, iso_date)
		VALUES (?, ?, ?, ?)`,
		c.UserID,
		nullString(c.Description),
		c.Timestamp,
		c.ISODate,
	)
	if err != nil {
		return fmt.Errorf("insert content: %w", err)
	}
	contentID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("content id: %w", err)
	}

	if err := insertMedia(ctx, tx, contentID, c.Media); err != nil {
		return err
	}

	names, err := setContentTags(ctx, tx, contentID, tags)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	c.ID = contentID
	s.index(ctx, c, names)
	return nil
}

// GetContent retrieves an entry and its media.
// Returns store.ErrNotFound if the entry does not exist.
func (s *Store) GetContent(ctx context.Context, id int64) (*domain.Content, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+contentColumns+` FROM content WHERE id = ?`, id)

	c, err := scanContent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get content: %w", err)
	}

	if c.Media, err = loadMedia(ctx, s.db, id); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateDescription replaces the description and re-links tags.
func (s *Store) UpdateDescription(ctx context.Context, id int64, description string, tags []domain.TagRef) error {
	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE content SET description = ? WHERE id = ?`, nullString(description), id)
	if err != nil {
		return fmt.Errorf("update description: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}

	names, err := setContentTags(ctx, tx, id, tags)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	if c, err := s.GetContent(ctx, id); err == nil {
		s.index(ctx, c, names)
	}
	return nil
}

// ReplaceMedia swaps the media set of an entry.
func (s *Store) ReplaceMedia(ctx context.Context, id int64, media []domain.Media) error {
	if len(media) == 0 {
		return store.ErrEmptyMedia
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM content WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check content: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM media WHERE content_id = ?`, id); err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	if err := insertMedia(ctx, tx, id, media); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteContent removes an entry. Media and tag links cascade; tags stay.
func (s *Store) DeleteContent(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM content WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}

	if err := s.searchIndexer.DeleteContent(ctx, id); err != nil {
		s.logger.Warn("failed to remove entry from search index", "content_id", id, "error", err)
	}
	return nil
}

// ForEachContent streams every entry with its tag names.
func (s *Store) ForEachContent(ctx context.Context, fn func(c *domain.Content, tags []string) error) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.user_id, c.description, c.timestamp, c.iso_date,
		       COALESCE((SELECT group_concat(t.tag_name, char(31))
		                 FROM content_tags ct JOIN tags t ON t.id = ct.tag_id
		                 WHERE ct.content_id = c.id), '')
		FROM content c
		ORDER BY c.id`)
	if err != nil {
		return fmt.Errorf("query content: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			c      domain.Content
			desc   sql.NullString
			joined string
		)
		if err := rows.Scan(&c.ID, &c.UserID, &desc, &c.Timestamp, &c.ISODate, &joined); err != nil {
			return fmt.Errorf("scan content: %w", err)
		}
		c.Description = desc.String

		var tags []string
		if joined != "" {
			tags = splitUnit(joined)
		}
		if err := fn(&c, tags); err != nil {
			return err
		}
	}
	return rows.Err()
}

func insertMedia(ctx context.Context, tx *sql.Tx, contentID int64, media []domain.Media) error {
	for i := range media {
		m := &media[i]
		if !m.Kind.Valid() {
			return fmt.Errorf("%w: media kind %q", store.ErrInvalidInput, m.Kind)
		}
		res, err := tx.ExecContext(ctx, `
			INSERT INTO media (content_id, file_id, file_type)
			VALUES (?, ?, ?)`,
			contentID, m.FileID, string(m.Kind),
		)
		if err != nil {
			return fmt.Errorf("insert media: %w", err)
		}
		m.ID, _ = res.LastInsertId()
		m.ContentID = contentID
	}
	return nil
}

func loadMedia(ctx context.Context, q querier, contentID int64) ([]domain.Media, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, content_id, file_id, file_type
		FROM media WHERE content_id = ?
		ORDER BY id ASC`, contentID)
	if err != nil {
		return nil, fmt.Errorf("query media: %w", err)
	}
	defer rows.Close()

	var media []domain.Media
	for rows.Next() {
		var (
			m    domain.Media
			kind string
		)
		if err := rows.Scan(&m.ID, &m.ContentID, &m.FileID, &kind); err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		m.Kind = domain.MediaKind(kind)
		media = append(media, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return media, nil
}

func (s *Store) index(ctx context.Context, c *domain.Content, tags []string) {
	if err := s.searchIndexer.IndexContent(ctx, c, tags); err != nil {
		s.logger.Warn("failed to index entry", "content_id", c.ID, "error", err)
	}
}
