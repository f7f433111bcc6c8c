package mcp

import (
	"context"

	"github.com/rs/zerolog"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"lorebook/internal/book"
	"lorebook/internal/place"
	"lorebook/internal/store"
)

// Server exposes the trigger and placement engines to a chat host over
// MCP. The host owns rendering and message storage; everything it needs
// from us flows through these tools.
type Server struct {
	books  *book.Set
	db     store.Store
	placer *place.Engine
	log    zerolog.Logger
	mcp    *sdk.Server
}

func NewServer(books *book.Set, db store.Store, placer *place.Engine, log zerolog.Logger, version string) *Server {
	s := &Server{
		books:  books,
		db:     db,
		placer: placer,
		log:    log,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "lorebook",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
