package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/orghealth/core"
	"github.com/huangsam/orghealth/internal/contract"
	"github.com/huangsam/orghealth/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// entityConfig clones the base config and applies the id, kind and today arguments.
func (h *toolHandler) entityConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	cfg.EntityID = strings.TrimSpace(request.GetString("id", ""))
	if k := request.GetString("kind", ""); k != "" {
		cfg.EntityKind = schema.EntityKind(strings.ToLower(k))
		if !cfg.EntityKind.IsValid() {
			return nil, fmt.Errorf("invalid kind '%s'. must be project, team, initiative", k)
		}
	}
	if err := applyToday(cfg, request); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyToday pins the evaluation day when the request names one.
func applyToday(cfg *contract.Config, request mcp.CallToolRequest) error {
	s := request.GetString("today", "")
	if s == "" {
		return nil
	}
	today, err := contract.ParseDayInput(s, cfg.Clock().Today())
	if err != nil {
		return err
	}
	cfg.Today = today
	return nil
}

func textResult(v any) *mcp.CallToolResult {
	jsonData, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleGetEntityHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.entityConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if cfg.EntityID == "" && cfg.EntityKind == "" {
		return mcp.NewToolResultError("invalid parameters: id or kind is required"), nil
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}
	if p := request.GetString("node_policy", ""); p != "" {
		cfg.NodePolicy = schema.NodePolicy(strings.ToLower(p))
		if _, ok := schema.ValidNodePolicies[cfg.NodePolicy]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: unknown node policy '%s'", p)), nil
		}
	}

	entities, err := core.GetEntityHealthResult(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("evaluation failed: %v", err)), nil
	}
	return textResult(schema.EnrichEntities(entities)), nil
}

func (h *toolHandler) handleGetHealthTrend(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.entityConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if cfg.EntityID == "" {
		return mcp.NewToolResultError("invalid parameters: id is required"), nil
	}

	entity, err := core.GetTrendResult(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("trend failed: %v", err)), nil
	}
	return textResult(entity), nil
}

func (h *toolHandler) handleGetTrendConfidence(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if err := applyToday(cfg, request); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	result, err := core.GetConfidenceResult(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("confidence failed: %v", err)), nil
	}
	return textResult(result), nil
}

func (h *toolHandler) handleListLeafDescendants(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.entityConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if cfg.EntityID == "" {
		return mcp.NewToolResultError("invalid parameters: id is required"), nil
	}

	result, err := core.GetLeavesResult(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("leaf lookup failed: %v", err)), nil
	}
	return textResult(result), nil
}

func (h *toolHandler) handleCheckProjectTransition(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.EntityID = strings.TrimSpace(request.GetString("project_id", ""))
	cfg.TargetState = schema.WorkState(strings.ToLower(strings.TrimSpace(request.GetString("target_state", ""))))
	if cfg.EntityID == "" || cfg.TargetState == "" {
		return mcp.NewToolResultError("invalid parameters: project_id and target_state are required"), nil
	}

	result, err := core.CheckProjectTransition(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("transition check failed: %v", err)), nil
	}
	return textResult(result), nil
}
