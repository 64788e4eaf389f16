package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hperssn/studyboard/internal/domain"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_session",
		Description: "Record a completed study session for a user",
	}, s.handleLogSession)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_leaderboard",
		Description: "Rank users by minutes studied today, this month or in total",
	}, s.handleGetLeaderboard)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_sessions",
		Description: "List one user's study sessions, newest first",
	}, s.handleListSessions)
}

type logSessionInput struct {
	Username string  `json:"username" jsonschema:"the user who studied"`
	Duration float64 `json:"duration" jsonschema:"minutes studied, greater than zero"`
}

type logSessionOutput struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type leaderboardInput struct {
	Period string `json:"period,omitempty" jsonschema:"daily, monthly or lifetime; defaults to daily"`
	User   string `json:"user,omitempty" jsonschema:"also report this user's rank"`
}

type leaderboardOutput struct {
	Leaderboard []domain.Standing `json:"leaderboard"`
	UserRank    *domain.Standing  `json:"userRank,omitempty"`
}

type listSessionsInput struct {
	Username string `json:"username" jsonschema:"whose sessions to list"`
	Period   string `json:"period,omitempty" jsonschema:"daily, monthly or lifetime; defaults to daily"`
}

// sessionView carries the timestamp as RFC 3339 text so the generated
// output schema stays a plain string.
type sessionView struct {
	ID              string  `json:"id"`
	Username        string  `json:"username"`
	DurationMinutes float64 `json:"duration_minutes"`
	CompletedAt     string  `json:"completed_at"`
}

type listSessionsOutput struct {
	Sessions []sessionView `json:"sessions"`
}

func (s *Server) handleLogSession(ctx context.Context, req *mcp.CallToolRequest, input logSessionInput) (*mcp.CallToolResult, logSessionOutput, error) {
	session, err := s.sessions.LogSession(ctx, input.Username, input.Duration)
	if err != nil {
		return nil, logSessionOutput{}, fmt.Errorf("failed to log session: %w", err)
	}

	return nil, logSessionOutput{
		ID:      session.ID,
		Message: fmt.Sprintf("Logged %g minutes for %s", session.DurationMinutes, session.Username),
	}, nil
}

func (s *Server) handleGetLeaderboard(ctx context.Context, req *mcp.CallToolRequest, input leaderboardInput) (*mcp.CallToolResult, leaderboardOutput, error) {
	res, err := s.sessions.Leaderboard(ctx, input.Period, input.User)
	if err != nil {
		return nil, leaderboardOutput{}, fmt.Errorf("failed to load leaderboard: %w", err)
	}

	return nil, leaderboardOutput{
		Leaderboard: res.Leaderboard,
		UserRank:    res.UserRank,
	}, nil
}

func (s *Server) handleListSessions(ctx context.Context, req *mcp.CallToolRequest, input listSessionsInput) (*mcp.CallToolResult, listSessionsOutput, error) {
	sessions, err := s.sessions.History(ctx, input.Username, input.Period)
	if err != nil {
		return nil, listSessionsOutput{}, fmt.Errorf("failed to list sessions: %w", err)
	}

	out := listSessionsOutput{Sessions: make([]sessionView, 0, len(sessions))}
	for _, ss := range sessions {
		out.Sessions = append(out.Sessions, sessionView{
			ID:              ss.ID,
			Username:        ss.Username,
			DurationMinutes: ss.DurationMinutes,
			CompletedAt:     ss.CompletedAt.Format(time.RFC3339),
		})
	}
	return nil, out, nil
}
