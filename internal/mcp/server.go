package mcp

import (
	"context"
	"log/slog"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/PieInTheSky-Inc/yadc/internal/gamedata"
)

// GameData is the lookup surface the tools depend on.
type GameData interface {
	Lookup(ctx context.Context, kind gamedata.Kind, name string, opts gamedata.LookupOptions) (*gamedata.Result, error)
}

type Server struct {
	data   GameData
	logger *slog.Logger
	mcp    *sdk.Server
}

func NewServer(data GameData, version string, logger *slog.Logger) *Server {
	s := &Server{
		data:   data,
		logger: logger,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "yadc",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
