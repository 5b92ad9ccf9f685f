// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the coffee tally as tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/cuppa/internal/apperr"
	"github.com/starford/cuppa/internal/tracker"
)

// TodayURI is the resource holding today's tally.
const TodayURI = "cuppa://today"

const dateLayout = "2006-01-02"

// Notifier is told about every change to today's tally.
type Notifier interface {
	PublishTally(date string, total float64)
}

// Server wraps the MCP server with the tally tools.
type Server struct {
	mcp      *server.MCPServer
	tr       *tracker.Tracker
	notifier Notifier
}

// New creates a new MCP server with all tools registered. notifier may be nil.
func New(tr *tracker.Tracker, notifier Notifier) *Server {
	s := &Server{tr: tr, notifier: notifier}

	s.mcp = server.NewMCPServer(
		"cuppa",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("today",
		mcp.WithDescription("Today's coffee tally: date, total cups, the individual cups and the cup image index."),
	), s.today)

	s.mcp.AddTool(mcp.NewTool("add_cup",
		mcp.WithDescription("Record a cup of coffee for today."),
		mcp.WithBoolean("whole", mcp.Description("true for a whole cup, false for a half cup"), mcp.DefaultBool(true)),
	), s.addCup)

	s.mcp.AddTool(mcp.NewTool("remove_last_cup",
		mcp.WithDescription("Remove today's most recent cup. Does nothing on a day without cups."),
	), s.removeLastCup)

	s.mcp.AddTool(mcp.NewTool("change_last_cup",
		mcp.WithDescription("Replace today's most recent cup with a whole or half cup."),
		mcp.WithBoolean("whole", mcp.Required(), mcp.Description("true for a whole cup, false for a half cup")),
	), s.changeLastCup)

	s.mcp.AddTool(mcp.NewTool("reset_today",
		mcp.WithDescription("Reset today's tally to zero."),
	), s.resetToday)

	s.mcp.AddTool(mcp.NewTool("week_stats",
		mcp.WithDescription("Cups per day for the Monday-to-Sunday week holding a date. Days without data have a null count."),
		mcp.WithString("date", mcp.Description("Any day of the week as YYYY-MM-DD; defaults to today")),
	), s.weekStats)

	s.mcp.AddTool(mcp.NewTool("list_dates",
		mcp.WithDescription("List every day that has had any activity."),
	), s.listDates)

	s.mcp.AddResource(
		mcp.NewResource(TodayURI, "Today's tally",
			mcp.WithResourceDescription("Today's coffee tally as JSON."),
			mcp.WithMIMEType("application/json"),
		),
		s.readToday,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) today(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.summary(ctx, false)
}

func (s *Server) addCup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, err := s.tr.Add(ctx, req.GetBool("whole", true)); err != nil {
		return toolError(err), nil
	}
	return s.summary(ctx, true)
}

func (s *Server) removeLastCup(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cup, ok, err := s.tr.Pop(ctx)
	if err != nil {
		return toolError(err), nil
	}
	if !ok {
		return mcp.NewToolResultText("no cups recorded today"), nil
	}
	if s.notifier != nil {
		total, err := s.tr.Today(ctx)
		if err != nil {
			return toolError(err), nil
		}
		s.notifier.PublishTally(s.tr.TodayKey(), total)
	}
	return mcp.NewToolResultText(fmt.Sprintf("removed %s", cupName(cup))), nil
}

func (s *Server) changeLastCup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	whole, err := req.RequireBool("whole")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := s.tr.Change(ctx, whole); err != nil {
		return toolError(err), nil
	}
	return s.summary(ctx, true)
}

func (s *Server) resetToday(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.tr.Reset(ctx); err != nil {
		return toolError(err), nil
	}
	return s.summary(ctx, true)
}

func (s *Server) weekStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref := s.tr.Now()
	if q := strings.TrimSpace(req.GetString("date", "")); q != "" {
		d, err := time.ParseInLocation(dateLayout, q, s.tr.Location())
		if err != nil {
			return mcp.NewToolResultError("date must be formatted YYYY-MM-DD"), nil
		}
		ref = d
	}
	week, err := s.tr.Week(ctx, ref)
	if err != nil {
		return toolError(err), nil
	}
	out, _ := json.MarshalIndent(week, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listDates(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dates, err := s.tr.Dates(ctx)
	if err != nil {
		return toolError(err), nil
	}
	if len(dates) == 0 {
		return mcp.NewToolResultText("no dates recorded"), nil
	}
	return mcp.NewToolResultText(strings.Join(dates, "\n")), nil
}

func (s *Server) readToday(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sum, err := s.tr.Summary(ctx)
	if err != nil {
		return nil, err
	}
	out, err := json.Marshal(sum)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      TodayURI,
			MIMEType: "application/json",
			Text:     string(out),
		},
	}, nil
}

// summary renders today's tally, notifying listeners when it changed.
func (s *Server) summary(ctx context.Context, changed bool) (*mcp.CallToolResult, error) {
	sum, err := s.tr.Summary(ctx)
	if err != nil {
		return toolError(err), nil
	}
	if changed && s.notifier != nil {
		s.notifier.PublishTally(sum.Date, sum.Total)
	}
	out, _ := json.MarshalIndent(sum, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func toolError(err error) *mcp.CallToolResult {
	if errors.Is(err, apperr.ErrUnsupportedSchema) {
		return mcp.NewToolResultError("not supported by the scalar schema")
	}
	return mcp.NewToolResultError(err.Error())
}

func cupName(cup float64) string {
	if cup == 0.5 {
		return "a half cup"
	}
	return "a whole cup"
}
