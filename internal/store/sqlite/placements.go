package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"lorebook/internal/place"
)

func (c *Client) SavePlacement(ctx context.Context, chatID, key string, anchors []place.Anchor) error {
	payload, err := json.Marshal(anchors)
	if err != nil {
		return fmt.Errorf("encoding anchors: %w", err)
	}

	query := `
INSERT INTO placements (chat_id, location_key, anchors, updated_at)
VALUES (?, ?, ?, datetime('now'))
ON CONFLICT (chat_id, location_key) DO UPDATE SET
    anchors = excluded.anchors,
    updated_at = datetime('now')
`
	if _, err := c.db.ExecContext(ctx, query, chatID, key, string(payload)); err != nil {
		return fmt.Errorf("saving placement: %w", err)
	}
	return nil
}

func (c *Client) GetPlacement(ctx context.Context, chatID, key string) ([]place.Anchor, error) {
	query := `
SELECT anchors FROM placements
WHERE chat_id = ? AND location_key = ?
`
	var payload string
	err := c.db.QueryRowContext(ctx, query, chatID, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting placement: %w", err)
	}

	var anchors []place.Anchor
	if err := json.Unmarshal([]byte(payload), &anchors); err != nil {
		return nil, fmt.Errorf("decoding anchors: %w", err)
	}
	return anchors, nil
}
