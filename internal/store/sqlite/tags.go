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

// tagColumns must match the scan order in scanTag.
const tagColumns = `t.id, t.tag_name, t.tag_type`

func scanTag(row scanner) (*domain.Tag, error) {
	var (
		t      domain.Tag
		origin string
	)
	if err := row.Scan(&t.ID, &t.Name, &origin); err != nil {
		return nil, err
	}
	t.Origin = domain.TagOrigin(origin)
	return &t, nil
}

// GetTag retrieves a tag by its ID.
// Returns store.ErrNotFound if the tag does not exist.
func (s *Store) GetTag(ctx context.Context, id int64) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags t WHERE t.id = ?`, id)

	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return t, nil
}

// ContentTags returns the tags linked to an entry, ordered by name.
func (s *Store) ContentTags(ctx context.Context, contentID int64) ([]domain.Tag, error) {
	return s.queryTags(ctx, `
		SELECT `+tagColumns+`
		FROM tags t
		JOIN content_tags ct ON ct.tag_id = t.id
		WHERE ct.content_id = ?
		ORDER BY t.tag_name`, contentID)
}

// UserTags returns the distinct tags of one origin used on a user's entries.
func (s *Store) UserTags(ctx context.Context, userID int64, origin domain.TagOrigin) ([]domain.Tag, error) {
	return s.queryTags(ctx, `
		SELECT DISTINCT `+tagColumns+`
		FROM tags t
		JOIN content_tags ct ON ct.tag_id = t.id
		JOIN content c ON c.id = ct.content_id
		WHERE c.user_id = ? AND t.tag_type = ?
		ORDER BY t.tag_name`, userID, string(origin))
}

func (s *Store) queryTags(ctx context.Context, query string, args ...any) ([]domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	var tags []domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return tags, nil
}

// setContentTags replaces all tag links of an entry inside tx.
// Tags are created on first use and never removed. It returns the linked names.
func setContentTags(ctx context.Context, tx *sql.Tx, contentID int64, refs []domain.TagRef) ([]string, error) {
	if _, err := tx.ExecContext(ctx, `DELETE FROM content_tags WHERE content_id = ?`, contentID); err != nil {
		return nil, fmt.Errorf("delete content_tags: %w", err)
	}

	names := make([]string, 0, len(refs))
	seen := make(map[string]struct{}, len(refs))
	for _, ref := range refs {
		if ref.Name == "" {
			continue
		}
		if _, dup := seen[ref.Name]; dup {
			continue
		}
		seen[ref.Name] = struct{}{}

		tagID, err := findOrCreateTag(ctx, tx, ref)
		if err != nil {
			return nil, err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO content_tags (content_id, tag_id)
			VALUES (?, ?)`, contentID, tagID); err != nil {
			return nil, fmt.Errorf("insert content_tag: %w", err)
		}
		names = append(names, ref.Name)
	}
	return names, nil
}

// findOrCreateTag returns the id of the tag named ref.Name. An existing tag keeps its origin.
func findOrCreateTag(ctx context.Context, tx *sql.Tx, ref domain.TagRef) (int64, error) {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO tags (tag_name, tag_type) VALUES (?, ?)
		ON CONFLICT(tag_name) DO NOTHING`, ref.Name, string(ref.Origin)); err != nil {
		return 0, fmt.Errorf("insert tag %q: %w", ref.Name, err)
	}

	var id int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM tags WHERE tag_name = ?`, ref.Name).Scan(&id); err != nil {
		return 0, fmt.Errorf("lookup tag %q: %w", ref.Name, err)
	}
	return id, nil
}

func splitUnit(s string) []string {
	return strings.Split(s, "\x1f")
}
