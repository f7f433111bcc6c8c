package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

func (c *Client) GetVariable(ctx context.Context, scope, chatID, name string) (string, bool, error) {
	query := `
SELECT value FROM variables
WHERE scope = ? AND chat_id = ? AND name = ?
`
	var value string
	err := c.db.QueryRowContext(ctx, query, scope, chatID, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
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
VALUES (?, ?, ?, ?, datetime('now'))
ON CONFLICT (scope, chat_id, name) DO UPDATE SET
    value = excluded.value,
    updated_at = datetime('now')
`
	if _, err := c.db.ExecContext(ctx, query, scope, chatID, name, value); err != nil {
		return fmt.Errorf("setting variable: %w", err)
	}
	return nil
}

func (c *Client) ListVariables(ctx context.Context, scope, chatID string) (map[string]string, error) {
	query := `
SELECT name, value FROM variables
WHERE scope = ? AND chat_id = ?
ORDER BY name
`
	rows, err := c.db.QueryContext(ctx, query, scope, chatID)
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
