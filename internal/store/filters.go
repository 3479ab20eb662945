package store

import (
	"context"
	"fmt"

	"github.com/roach88/wikistream/internal/model"
	"github.com/roach88/wikistream/internal/notify"
)

// ownerKey is how user references are stored.
func ownerKey(user model.DocumentReference) string {
	return model.DefaultSerializer{}.Serialize(user)
}

// ExcludeUser records that owner does not want notifications in format
// about events authored by author. Repeated calls are no-ops.
func (s *Store) ExcludeUser(ctx context.Context, owner model.DocumentReference, format notify.Format, author string) error {
	prefix, suffix := s.insertIgnore()
	query := prefix + ` notification_user_filters (owner, format, filter_type, filtered_user)
		VALUES (?, ?, ?, ?) ` + suffix

	_, err := s.db.ExecContext(ctx, s.rebind(query),
		ownerKey(owner),
		string(format),
		notify.FilterExclusive.String(),
		author,
	)
	if err != nil {
		return fmt.Errorf("exclude user %s: %w", author, err)
	}
	return nil
}

// IncludeUser removes an exclusion recorded by ExcludeUser.
func (s *Store) IncludeUser(ctx context.Context, owner model.DocumentReference, format notify.Format, author string) error {
	_, err := s.db.ExecContext(ctx,
		s.rebind(`DELETE FROM notification_user_filters WHERE owner = ? AND format = ? AND filtered_user = ?`),
		ownerKey(owner), string(format), author,
	)
	if err != nil {
		return fmt.Errorf("include user %s: %w", author, err)
	}
	return nil
}

// IsUserExcluded implements notify.UserFilterPreferences.
func (s *Store) IsUserExcluded(ctx context.Context, author string, owner model.DocumentReference, format notify.Format) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT COUNT(*) FROM notification_user_filters
			WHERE owner = ? AND format = ? AND filter_type = ? AND filtered_user = ?`),
		ownerKey(owner), string(format), notify.FilterExclusive.String(), author,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check user exclusion: %w", err)
	}
	return n > 0, nil
}

// ExcludedUsers implements notify.UserFilterPreferences. Users are returned
// sorted.
func (s *Store) ExcludedUsers(ctx context.Context, owner model.DocumentReference, format notify.Format) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT filtered_user FROM notification_user_filters
			WHERE owner = ? AND format = ? AND filter_type = ?
			ORDER BY filtered_user ASC`),
		ownerKey(owner), string(format), notify.FilterExclusive.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("load excluded users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("load excluded users: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load excluded users: %w", err)
	}
	return users, nil
}
