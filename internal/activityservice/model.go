package activityservice

import (
	"context"
	"database/sql"
	"time"
)

func newActivityModel(db *sql.DB) *ActivityModel {
	return &ActivityModel{db: db}
}

func (m *ActivityModel) insert(ctx context.Context, userID int, activity string) error {
	query := `
		INSERT INTO activity_logs (user_id, activity)
		VALUES ($1, $2)`

	_, err := m.db.ExecContext(ctx, query, userID, activity)
	return err
}

func (m *ActivityModel) list(ctx context.Context, userID int, from, to time.Time, limit, offset int) ([]ActivityLog, error) {
	query := `
		SELECT id, user_id, activity, created_at
		FROM activity_logs
		WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5`

	rows, err := m.db.QueryContext(ctx, query, userID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []ActivityLog{}
	for rows.Next() {
		var l ActivityLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Activity, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return logs, nil
}

func (m *ActivityModel) count(ctx context.Context, userID int, from, to time.Time) (int, error) {
	query := `
		SELECT count(*)
		FROM activity_logs
		WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3`

	var total int
	err := m.db.QueryRowContext(ctx, query, userID, from, to).Scan(&total)
	if err != nil {
		return 0, err
	}

	return total, nil
}
