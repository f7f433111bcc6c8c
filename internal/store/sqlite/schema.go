package sqlite

import (
	"context"
	"fmt"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS variables (
		scope      TEXT NOT NULL,
		chat_id    TEXT NOT NULL DEFAULT '',
		name       TEXT NOT NULL,
		value      TEXT NOT NULL DEFAULT '',
		updated_at TEXT DEFAULT (datetime('now')),
		CONSTRAINT uq_variable UNIQUE (scope, chat_id, name)
	);

	CREATE TABLE IF NOT EXISTS entry_states (
		book  TEXT NOT NULL,
		uid   TEXT NOT NULL,
		state TEXT NOT NULL,
		CONSTRAINT uq_entry_state UNIQUE (book, uid)
	);

	CREATE TABLE IF NOT EXISTS placements (
		chat_id      TEXT NOT NULL,
		location_key TEXT NOT NULL,
		anchors      TEXT NOT NULL DEFAULT '[]',
		updated_at   TEXT DEFAULT (datetime('now')),
		CONSTRAINT uq_placement UNIQUE (chat_id, location_key)
	);

	CREATE INDEX IF NOT EXISTS idx_variables_scope_chat ON variables (scope, chat_id);
	CREATE INDEX IF NOT EXISTS idx_entry_states_book ON entry_states (book);
	CREATE INDEX IF NOT EXISTS idx_placements_chat ON placements (chat_id);
	`
	if _, err := c.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
