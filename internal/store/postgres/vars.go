package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

func (c *Client) GetVariable(ctx context.Context, scope, chatID, name string) (string, bool, error) {
	query := `
SELECT value FROM variables
WHERE scope = $1 AND chat_id = $2 AND name = $3
`
	var value string
	err := c.pool.QueryRow(ctx, query, scope, chatID, name).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getting variable: %w", err)
	}
	return value, true, nil
}

func (c *Client) SetVariable(ctx context.Context, scope, chatID, name, value string) error {
	query := `
INSERT INTO variables (scope, chat_id, name, value, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (scope, chat_id, name) DO UPDATE SET
    value = EXCLUDED.value,
    updated_at = now()
`
	if _, err := c.pool.Exec(ctx, query, scope, chatID, name, value); err != nil {
		return fmt.Errorf("setting variable: %w", err)
	}
	return nil
}

func (c *Client) ListVariables(ctx context.Context, scope, chatID string) (map[string]string, error) {
	query := `
SELECT name, value FROM variables
WHERE scope = $1 AND chat_id = $2
ORDER BY name
`
	rows, err := c.pool.Query(ctx, query, scope, chatID)
	if err != nil {
		return nil, fmt.Errorf("listing variables: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scanning variable: %w", err)
		}
		values[name] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing variables: %w", err)
	}
	return values, nil
}
