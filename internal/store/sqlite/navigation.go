package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/smartspb/mediabot/internal/domain"
	"github.com/smartspb/mediabot/internal/store"
)

// CountContent returns how many entries a user owns.
func (s *Store) CountContent(ctx context.Context, userID int64) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM content WHERE user_id = ?`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count content: %w", err)
	}
	return n, nil
}

// EntryByOrdinal returns the user's k-th entry by ascending id, with media.
func (s *Store) EntryByOrdinal(ctx context.Context, userID int64, ordinal int) (*domain.Entry, error) {
	if ordinal < 1 {
		return nil, store.ErrNotFound
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+contentColumns+`
		FROM content
		WHERE user_id = ?
		ORDER BY id ASC
		LIMIT 1 OFFSET ?`, userID, ordinal-1)

	c, err := scanContent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("entry by ordinal: %w", err)
	}

	if c.Media, err = loadMedia(ctx, s.db, c.ID); err != nil {
		return nil, err
	}
	return &domain.Entry{Content: *c, Ordinal: ordinal}, nil
}

// Ordinal returns the 1-based position of contentID among userID's entries.
// Returns store.ErrNotFound when the entry does not exist or belongs to someone else.
func (s *Store) Ordinal(ctx context.Context, userID, contentID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM content o WHERE o.user_id = c.user_id AND o.id <= c.id)
		FROM content c
		WHERE c.id = ? AND c.user_id = ?`, contentID, userID).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, store.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("ordinal: %w", err)
	}
	return n, nil
}

// ListContent returns one page of a user's entries, newest first.
// Each row carries its ordinal in the unfiltered ascending order. Out of
// range pages are clamped to the nearest existing page.
func (s *Store) ListContent(ctx context.Context, userID int64, filter store.ListFilter, page int) (*store.ListPage, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	clause, args := filterClause(filter)

	var total int
	countArgs := append([]any{userID}, args...)
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM content WHERE user_id = ?`+clause, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count list: %w", err)
	}

	result := &store.ListPage{Page: store.ClampPage(page, total), Total: total}
	if total == 0 {
		return result, nil
	}

	listArgs := append([]any{userID}, args...)
	listArgs = append(listArgs, store.PageSize, result.Page*store.PageSize)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ordinal, timestamp, description
		FROM (
			SELECT id, timestamp, description, iso_date,
			       ROW_NUMBER() OVER (ORDER BY id ASC) AS ordinal
			FROM content
			WHERE user_id = ?
		)
		WHERE 1 = 1`+clause+`
		ORDER BY id DESC
		LIMIT ? OFFSET ?`, listArgs...)
	if err != nil {
		return nil, fmt.Errorf("query list: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			r    store.ListRow
			desc sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Ordinal, &r.Timestamp, &desc); err != nil {
			return nil, fmt.Errorf("scan list row: %w", err)
		}
		r.Description = desc.String
		result.Rows = append(result.Rows, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return result, nil
}

// filterClause renders a filter as an " AND ..." suffix over the id and iso_date columns.
func filterClause(f store.ListFilter) (string, []any) {
	switch f.Kind {
	case store.FilterTag:
		return ` AND id IN (
			SELECT ct.content_id FROM content_tags ct
			JOIN tags t ON t.id = ct.tag_id
			WHERE t.tag_name = ? OR t.tag_name = ?)`, []any{f.TagName, "#" + f.TagName}
	case store.FilterRange:
		lo, hi := f.Bounds()
		return ` AND iso_date BETWEEN ? AND ?`, []any{lo, hi}
	case store.FilterIDs:
		if len(f.IDs) == 0 {
			return ` AND 0`, nil
		}
		args := make([]any, len(f.IDs))
		for i, id := range f.IDs {
			args[i] = id
		}
		return ` AND id IN (` + strings.TrimSuffix(strings.Repeat("?,", len(f.IDs)), ",") + `)`, args
	default:
		return "", nil
	}
}
