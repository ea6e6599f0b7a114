package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"teamforge/internal/catalog"
	"teamforge/internal/ingame"
	"teamforge/internal/store"
)

type Server struct {
	cat   *catalog.Catalog
	dicts *ingame.Dictionaries
	db    store.Store
	mcp   *sdk.Server
}

func NewServer(cat *catalog.Catalog, db store.Store, version string) *Server {
	s := &Server{
		cat:   cat,
		dicts: ingame.BuildDictionaries(cat),
		db:    db,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "teamforge",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
