// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/orghealth/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

var (
	kindEnum   = mcp.Enum("project", "team", "initiative")
	policyEnum = mcp.Enum("strict", "rounded")
	todayDesc  = mcp.Description("Evaluation day as YYYY-MM-DD or 'N weeks ago' (defaults to the configured day).")
)

// NewMCPServer initializes and configures the orghealth MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Org Health Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_entity_health ---
	s.AddTool(mcp.NewTool("get_entity_health",
		mcp.WithDescription("Evaluate the rolled-up health of a project, team or initiative. Without an id, every entity of the kind is ranked worst-first."),
		mcp.WithString("id", mcp.Description("ID of the entity. The kind is inferred when omitted.")),
		mcp.WithString("kind", mcp.Description("Entity kind."), kindEnum),
		mcp.WithNumber("limit", mcp.Description("Limit the number of ranked results.")),
		mcp.WithString("node_policy", mcp.Description("Classifier for rollups. Defaults to 'strict'."), policyEnum),
		mcp.WithString("today", todayDesc),
	), h.handleGetEntityHealth)

	// --- 2. Tool: get_health_trend ---
	s.AddTool(mcp.NewTool("get_health_trend",
		mcp.WithDescription("Get every weekly health bucket of an entity, including the in-progress week."),
		mcp.WithString("id", mcp.Description("ID of the entity."), mcp.Required()),
		mcp.WithString("kind", mcp.Description("Entity kind."), kindEnum),
		mcp.WithString("today", todayDesc),
	), h.handleGetHealthTrend)

	// --- 3. Tool: get_trend_confidence ---
	s.AddTool(mcp.NewTool("get_trend_confidence",
		mcp.WithDescription("Score the system-wide weekly trend across active root projects and how far it can be trusted."),
		mcp.WithString("today", todayDesc),
	), h.handleGetTrendConfidence)

	// --- 4. Tool: list_leaf_descendants ---
	s.AddTool(mcp.NewTool("list_leaf_descendants",
		mcp.WithDescription("List the leaf projects beneath a project, team or initiative. Initiatives also report a derived state."),
		mcp.WithString("id", mcp.Description("ID of the entity."), mcp.Required()),
		mcp.WithString("kind", mcp.Description("Entity kind."), kindEnum),
	), h.handleListLeafDescendants)

	// --- 5. Tool: check_project_transition ---
	s.AddTool(mcp.NewTool("check_project_transition",
		mcp.WithDescription("Check whether a project may move to a target state. Nothing is written."),
		mcp.WithString("project_id", mcp.Description("ID of the project."), mcp.Required()),
		mcp.WithString("target_state", mcp.Description("Target work state."), mcp.Required(),
			mcp.Enum("new", "todo", "in_progress", "blocked", "on_hold", "done")),
	), h.handleCheckProjectTransition)

	return s
}

// StartMCPServer starts the orghealth MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
