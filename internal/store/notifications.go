package store

import (
	"fmt"
	"time"

	"github.com/adaptived/cadence/internal/learning"
)

// PutNotification upserts one notification row.
func (db *DB) PutNotification(n *learning.Notification) error {
	dismissed := 0
	if n.Dismissed {
		dismissed = 1
	}
	_, err := db.Exec(`
		INSERT INTO notifications (id, type, message, created_at, dismissed)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET dismissed = excluded.dismissed
	`, n.ID, string(n.Type), n.Message, n.CreatedAt.UnixMilli(), dismissed)
	if err != nil {
		return fmt.Errorf("put notification: %w", err)
	}
	return nil
}

// ListNotifications returns all notifications, oldest first.
func (db *DB) ListNotifications() ([]learning.Notification, error) {
	rows, err := db.Query(`
		SELECT id, type, message, created_at, dismissed
		FROM notifications ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []learning.Notification
	for rows.Next() {
		var n learning.Notification
		var createdAt int64
		var dismissed int
		if err := rows.Scan(&n.ID, &n.Type, &n.Message, &createdAt, &dismissed); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.CreatedAt = time.UnixMilli(createdAt)
		n.Dismissed = dismissed != 0
		out = append(out, n)
	}
	return out, rows.Err()
}

// LoadState rehydrates the full engine state. Implements learning.Store.
func (db *DB) LoadState() (*learning.State, error) {
	interactions, err := db.ListInteractions()
	if err != nil {
		return nil, err
	}
	hypotheses, err := db.ListHypotheses()
	if err != nil {
		return nil, err
	}
	patterns, err := db.ListPatterns()
	if err != nil {
		return nil, err
	}
	notifications, err := db.ListNotifications()
	if err != nil {
		return nil, err
	}
	return &learning.State{
		Interactions:  interactions,
		Hypotheses:    hypotheses,
		Patterns:      patterns,
		Notifications: notifications,
	}, nil
}
