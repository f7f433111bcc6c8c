package store

import (
	"context"

	"lorebook/internal/book"
	"lorebook/internal/place"
)

// Variable scopes persisted by the store. The ephemeral temp scope never
// reaches persistence; it lives and dies with one trigger invocation.
const (
	ScopeChat   = "chat"
	ScopeGlobal = "global"
)

type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	GetVariable(ctx context.Context, scope, chatID, name string) (string, bool, error)
	SetVariable(ctx context.Context, scope, chatID, name, value string) error
	ListVariables(ctx context.Context, scope, chatID string) (map[string]string, error)

	GetEntryStates(ctx context.Context, bookName string) (map[string]book.Activation, error)
	SetEntryState(ctx context.Context, bookName, uid string, state book.Activation) error

	SavePlacement(ctx context.Context, chatID, key string, anchors []place.Anchor) error
	GetPlacement(ctx context.Context, chatID, key string) ([]place.Anchor, error)
}
