package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/wikistream/internal/mail"
)

const mailStatusColumns = `message_id, batch_id, state, error_summary, error_description,
	mail_date, recipients, mail_type, wiki`

// SaveStatus implements mail.StatusStore. An existing row for the same
// message id is replaced.
func (s *Store) SaveStatus(ctx context.Context, st *mail.Status) error {
	recipients, err := encodeRecipients(st.Recipients)
	if err != nil {
		return fmt.Errorf("save mail status %s: %w", st.MessageID, err)
	}

	query := `INSERT INTO mail_status (` + mailStatusColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) ` +
		s.upsert("message_id", "batch_id", "state", "error_summary", "error_description",
			"mail_date", "recipients", "mail_type", "wiki")

	_, err = s.db.ExecContext(ctx, s.rebind(query),
		st.MessageID,
		st.BatchID,
		string(st.State),
		st.ErrorSummary,
		st.ErrorDescription,
		st.Date.UnixMilli(),
		recipients,
		st.Type,
		st.Wiki,
	)
	if err != nil {
		return fmt.Errorf("save mail status %s: %w", st.MessageID, err)
	}
	return nil
}

// LoadStatus implements mail.StatusStore.
func (s *Store) LoadStatus(ctx context.Context, messageID string) (*mail.Status, error) {
	row := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT `+mailStatusColumns+` FROM mail_status WHERE message_id = ?`),
		messageID,
	)
	st, err := scanStatus(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("mail status %s: %w", messageID, mail.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load mail status %s: %w", messageID, err)
	}
	return st, nil
}

// LoadStatuses implements mail.StatusStore.
func (s *Store) LoadStatuses(ctx context.Context, filter mail.StatusFilter) ([]*mail.Status, error) {
	where, args := statusWhere(filter)
	query := `SELECT ` + mailStatusColumns + ` FROM mail_status` + where +
		` ORDER BY mail_date ASC, message_id ASC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", filter.Offset)
		}
	} else if filter.Offset > 0 {
		return nil, fmt.Errorf("load mail statuses: offset requires a limit")
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("load mail statuses: %w", err)
	}
	defer rows.Close()

	var out []*mail.Status
	for rows.Next() {
		st, err := scanStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("load mail statuses: %w", err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load mail statuses: %w", err)
	}
	return out, nil
}

// CountStatuses implements mail.StatusStore.
func (s *Store) CountStatuses(ctx context.Context, filter mail.StatusFilter) (int, error) {
	where, args := statusWhere(filter)

	var n int
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT COUNT(*) FROM mail_status`+where), args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count mail statuses: %w", err)
	}
	return n, nil
}

// DeleteStatus implements mail.StatusStore.
func (s *Store) DeleteStatus(ctx context.Context, messageID string) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM mail_status WHERE message_id = ?`), messageID)
	if err != nil {
		return fmt.Errorf("delete mail status %s: %w", messageID, err)
	}
	return nil
}

func statusWhere(filter mail.StatusFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.BatchID != "" {
		conds = append(conds, "batch_id = ?")
		args = append(args, filter.BatchID)
	}
	if len(filter.States) > 0 {
		marks := make([]string, len(filter.States))
		for i, st := range filter.States {
			marks[i] = "?"
			args = append(args, string(st))
		}
		conds = append(conds, "state IN ("+strings.Join(marks, ", ")+")")
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStatus(row scanner) (*mail.Status, error) {
	var (
		st         mail.Status
		state      string
		date       int64
		recipients string
	)
	err := row.Scan(
		&st.MessageID,
		&st.BatchID,
		&state,
		&st.ErrorSummary,
		&st.ErrorDescription,
		&date,
		&recipients,
		&st.Type,
		&st.Wiki,
	)
	if err != nil {
		return nil, err
	}
	st.State = mail.State(state)
	st.Date = time.UnixMilli(date).UTC()
	if st.Recipients, err = decodeRecipients(recipients); err != nil {
		return nil, fmt.Errorf("load mail status %s: %w", st.MessageID, err)
	}
	return &st, nil
}

// Recipients are stored as a JSON array: addresses may contain commas in
// their display names.
func encodeRecipients(to []string) (string, error) {
	if len(to) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(to)
	if err != nil {
		return "", fmt.Errorf("encode recipients: %w", err)
	}
	return string(data), nil
}

func decodeRecipients(s string) ([]string, error) {
	if s == "" || s == "[]" {
		return nil, nil
	}
	var to []string
	if err := json.Unmarshal([]byte(s), &to); err != nil {
		return nil, fmt.Errorf("decode recipients: %w", err)
	}
	return to, nil
}
