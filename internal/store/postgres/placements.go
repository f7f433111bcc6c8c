package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"lorebook/internal/place"
)

func (c *Client) SavePlacement(ctx context.Context, chatID, key string, anchors []place.Anchor) error {
	payload, err := json.Marshal(anchors)
	if err != nil {
		return fmt.Errorf("encoding anchors: %w", err)
	}

	// The whole record is replaced, never merged, so a regenerated
	// message drops the anchors of the render it replaced.
	query := `
INSERT INTO placements (chat_id, location_key, anchors, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (chat_id, location_key) DO UPDATE SET
    anchors = EXCLUDED.anchors,
    updated_at = now()
`
	if _, err := c.pool.Exec(ctx, query, chatID, key, payload); err != nil {
		return fmt.Errorf("saving placement: %w", err)
	}
	return nil
}

func (c *Client) GetPlacement(ctx context.Context, chatID, key string) ([]place.Anchor, error) {
	query := `
SELECT anchors FROM placements
WHERE chat_id = $1 AND location_key = $2
`
	var payload []byte
	err := c.pool.QueryRow(ctx, query, chatID, key).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting placement: %w", err)
	}

	var anchors []place.Anchor
	if err := json.Unmarshal(payload, &anchors); err != nil {
		return nil, fmt.Errorf("decoding anchors: %w", err)
	}
	return anchors, nil
}
