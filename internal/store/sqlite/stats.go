package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/smartspb/mediabot/internal/domain"
	"github.com/smartspb/mediabot/internal/store"
)

// UserStats returns per-user entry and media counts.
func (s *Store) UserStats(ctx context.Context) ([]store.UserStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.user_id,
		       COUNT(DISTINCT c.id),
		       COUNT(m.id),
		       MAX(c.iso_date)
		FROM content c
		LEFT JOIN media m ON m.content_id = c.id
		GROUP BY c.user_id
		ORDER BY c.user_id`)
	if err != nil {
		return nil, fmt.Errorf("query user stats: %w", err)
	}
	defer rows.Close()

	var stats []store.UserStat
	for rows.Next() {
		var (
			st   store.UserStat
			last sql.NullString
		)
		if err := rows.Scan(&st.UserID, &st.Entries, &st.Media, &last); err != nil {
			return nil, fmt.Errorf("scan user stat: %w", err)
		}
		st.LastUpload = last.String
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// TagUsage lists every tag with the number of entries linked to it, most used first.
// Tags with zero entries are included.
func (s *Store) TagUsage(ctx context.Context) ([]store.TagUsage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.tag_name, t.tag_type, COUNT(ct.content_id) AS used
		FROM tags t
		LEFT JOIN content_tags ct ON ct.tag_id = t.id
		GROUP BY t.id
		ORDER BY used DESC, t.tag_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query tag usage: %w", err)
	}
	defer rows.Close()

	var usage []store.TagUsage
	for rows.Next() {
		var (
			u      store.TagUsage
			origin string
		)
		if err := rows.Scan(&u.ID, &u.Name, &origin, &u.Entries); err != nil {
			return nil, fmt.Errorf("scan tag usage: %w", err)
		}
		u.Origin = domain.TagOrigin(origin)
		usage = append(usage, u)
	}
	return usage, rows.Err()
}
