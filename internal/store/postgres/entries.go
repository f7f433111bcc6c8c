package postgres

import (
	"context"
	"fmt"

	"lorebook/internal/book"
)

func (c *Client) GetEntryStates(ctx context.Context, bookName string) (map[string]book.Activation, error) {
	query := `
SELECT uid, state FROM entry_states
WHERE book = $1
`
	rows, err := c.pool.Query(ctx, query, bookName)
	if err != nil {
		return nil, fmt.Errorf("getting entry states: %w", err)
	}
	defer rows.Close()

	states := make(map[string]book.Activation)
	for rows.Next() {
		var uid, raw string
		if err := rows.Scan(&uid, &raw); err != nil {
			return nil, fmt.Errorf("scanning entry state: %w", err)
		}
		state, err := book.ParseActivation(raw)
		if err != nil {
			return nil, fmt.Errorf("entry state for %s: %w", uid, err)
		}
		states[uid] = state
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("getting entry states: %w", err)
	}
	return states, nil
}

func (c *Client) SetEntryState(ctx context.Context, bookName, uid string, state book.Activation) error {
	query := `
INSERT INTO entry_states (book, uid, state)
VALUES ($1, $2, $3)
ON CONFLICT (book, uid) DO UPDATE SET state = EXCLUDED.state
`
	if _, err := c.pool.Exec(ctx, query, bookName, uid, state.String()); err != nil {
		return fmt.Errorf("setting entry state: %w", err)
	}
	return nil
}
