package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/adaptived/cadence/internal/learning"
)

// PutInteraction upserts one interaction row. The context snapshot is stored
// as JSON.
func (db *DB) PutInteraction(in *learning.Interaction) error {
	ctx, err := json.Marshal(in.Context)
	if err != nil {
		return fmt.Errorf("encode context: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO interactions (id, created_at, suggestion_type, suggestion, response,
			target_id, correction, hypothesis_id, context)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			created_at = excluded.created_at,
			suggestion_type = excluded.suggestion_type,
			suggestion = excluded.suggestion,
			response = excluded.response,
			target_id = excluded.target_id,
			correction = excluded.correction,
			hypothesis_id = excluded.hypothesis_id,
			context = excluded.context
	`, in.ID, in.CreatedAt.UnixMilli(), string(in.SuggestionType), in.Suggestion,
		string(in.Response), in.TargetID, in.Correction, in.HypothesisID, string(ctx))
	if err != nil {
		return fmt.Errorf("put interaction: %w", err)
	}
	return nil
}

// DeleteInteraction removes a pruned interaction row.
func (db *DB) DeleteInteraction(id string) error {
	if _, err := db.Exec("DELETE FROM interactions WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete interaction: %w", err)
	}
	return nil
}

// ListInteractions returns all interactions, oldest first.
func (db *DB) ListInteractions() ([]learning.Interaction, error) {
	rows, err := db.Query(`
		SELECT id, created_at, suggestion_type, suggestion, response,
			target_id, correction, hypothesis_id, context
		FROM interactions ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	defer rows.Close()

	var out []learning.Interaction
	for rows.Next() {
		var in learning.Interaction
		var createdAt int64
		var ctxJSON string
		if err := rows.Scan(&in.ID, &createdAt, &in.SuggestionType, &in.Suggestion,
			&in.Response, &in.TargetID, &in.Correction, &in.HypothesisID, &ctxJSON); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		in.CreatedAt = time.UnixMilli(createdAt)
		if err := json.Unmarshal([]byte(ctxJSON), &in.Context); err != nil {
			return nil, fmt.Errorf("decode context for %s: %w", in.ID, err)
		}
		out = append(out, in)
	}
	return out, rows.Err()
}
