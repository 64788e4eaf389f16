// Package mcp exposes session logging and the leaderboard as Model Context
// Protocol tools over stdio.
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hperssn/studyboard/internal/domain"
	"github.com/hperssn/studyboard/internal/leaderboard"
)

type SessionService interface {
	LogSession(ctx context.Context, username string, minutes float64) (*domain.StudySession, error)
	Leaderboard(ctx context.Context, period string, user string) (*leaderboard.Result, error)
	History(ctx context.Context, username string, period string) ([]domain.StudySession, error)
}

type Server struct {
	mcpServer *mcp.Server
	sessions  SessionService
}

func NewServer(sessions SessionService, version string) *Server {
	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{
			Name:    "studyboard",
			Version: version,
		}, nil),
		sessions: sessions,
	}

	s.registerTools()
	return s
}

// Serve blocks until ctx is cancelled or the client disconnects.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
