package db

import (
	"context"

	"github.com/aidlink/aidlink/src/common/errors"
)

// GetHistory returns the update snapshots for a post, most recent first.
// Each row holds the field values the post had before one update.
func (r *PostRepository) GetHistory(ctx context.Context, postID string) ([]PostHistory, error) {
	rows, err := r.db.DB().QueryContext(ctx, `
		SELECT id, post_id, user_id, title, description, locations, needs,
			schedule, contacts, state, slug, updated_at
		FROM post_history
		WHERE post_id = ?
		ORDER BY updated_at DESC, id DESC
	`, postID)
	if err != nil {
		return nil, errors.ErrDatabaseQuery.WithCause(err)
	}
	defer rows.Close()

	history := []PostHistory{}
	for rows.Next() {
		var h PostHistory
		var locations, needs, contacts string

		err := rows.Scan(&h.ID, &h.PostID, &h.UserID, &h.Title, &h.Description,
			&locations, &needs, &h.Schedule, &contacts, &h.State, &h.Slug,
			&h.UpdatedAt)
		if err != nil {
			return nil, errors.ErrDatabaseQuery.WithCause(err)
		}

		h.Locations = unmarshalStrings(locations)
		h.Needs = unmarshalStrings(needs)
		h.Contacts = unmarshalContacts(contacts)
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.ErrDatabaseQuery.WithCause(err)
	}

	return history, nil
}
