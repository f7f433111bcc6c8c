package store

import (
	"context"

	"github.com/rs/zerolog"
)

// BoundScope adapts one persisted variable namespace to the placeholder
// expander's Scope interface. Store failures degrade rather than
// propagate: a failed read behaves as unset, a failed write is dropped,
// both logged at warn.
type BoundScope struct {
	ctx    context.Context
	db     Store
	scope  string
	chatID string
	log    zerolog.Logger
}

func ChatScope(ctx context.Context, db Store, chatID string, log zerolog.Logger) *BoundScope {
	return &BoundScope{ctx: ctx, db: db, scope: ScopeChat, chatID: chatID, log: log}
}

func GlobalScope(ctx context.Context, db Store, log zerolog.Logger) *BoundScope {
	return &BoundScope{ctx: ctx, db: db, scope: ScopeGlobal, log: log}
}

func (s *BoundScope) Get(name string) (string, bool) {
	value, ok, err := s.db.GetVariable(s.ctx, s.scope, s.chatID, name)
	if err != nil {
		s.log.Warn().Err(err).Str("scope", s.scope).Str("name", name).Msg("variable read failed")
		return "", false
	}
	return value, ok
}

func (s *BoundScope) Set(name, value string) {
	if err := s.db.SetVariable(s.ctx, s.scope, s.chatID, name, value); err != nil {
		s.log.Warn().Err(err).Str("scope", s.scope).Str("name", name).Msg("variable write failed")
	}
}
