package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/huangsam/orghealth/core/lifecycle"
	"github.com/huangsam/orghealth/internal/contract"
	"github.com/huangsam/orghealth/internal/outwriter"
	"github.com/huangsam/orghealth/schema"
)

// errRejected is returned after a validation failure has been printed,
// so the CLI can exit non-zero without repeating the messages.
var errRejected = errors.New("operation rejected")

// IsRejected reports whether err means a mutation failed validation.
func IsRejected(err error) bool {
	return errors.Is(err, errRejected)
}

// ExecuteRecordUpdate records a dated health update for a project, team or initiative.
func ExecuteRecordUpdate(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	s, err := storeOf(mgr)
	if err != nil {
		return err
	}
	u, res, err := lifecycle.NewService(s).RecordHealthUpdate(ctx, cfg.EntityID, cfg.UpdateDate, cfg.Health, cfg.Description)
	if err != nil {
		return err
	}
	return writeMutation(cfg, schema.MutationResult{
		Result: res,
		Action: "Recorded update for",
		ID:     cfg.EntityID,
		Detail: fmt.Sprintf("%s on %s", u.Health, schema.FormatDay(u.Date)),
	})
}

// ExecuteTransition moves a project along the transition table, or sets an
// initiative's state when the kind is initiative.
func ExecuteTransition(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	switch cfg.EntityKind {
	case schema.InitiativeKind:
		return ExecuteInitiativeState(ctx, cfg, mgr)
	case schema.ProjectKind, "":
	default:
		return fmt.Errorf("cannot transition a %s; only projects and initiatives have a state", cfg.EntityKind)
	}

	s, err := storeOf(mgr)
	if err != nil {
		return err
	}
	from := schema.WorkState("")
	if p, err := s.GetProject(ctx, cfg.EntityID); err == nil {
		from = p.State
	}
	res, err := lifecycle.NewService(s).TransitionProject(ctx, cfg.EntityID, cfg.TargetState)
	if err != nil {
		return err
	}
	return writeMutation(cfg, schema.MutationResult{
		Result: res,
		Action: "Transitioned",
		Kind:   string(schema.ProjectKind),
		ID:     cfg.EntityID,
		Detail: fmt.Sprintf("%s -> %s", from, cfg.TargetState),
	})
}

// ExecuteInitiativeState sets an initiative's state, cascading to its leaves when asked.
func ExecuteInitiativeState(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	s, err := storeOf(mgr)
	if err != nil {
		return err
	}
	out, err := lifecycle.NewService(s).SetInitiativeState(ctx, cfg.EntityID, cfg.TargetState, cfg.Cascade)
	if err != nil {
		return err
	}
	return writeMutation(cfg, schema.MutationResult{
		Result:   out.Result,
		Action:   "Set state of",
		Kind:     string(schema.InitiativeKind),
		ID:       out.InitiativeID,
		Detail:   string(out.State),
		Cascaded: out.Cascaded,
	})
}

// ExecuteCreate adds a project, team or initiative by name.
func ExecuteCreate(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	s, err := storeOf(mgr)
	if err != nil {
		return err
	}
	svc := lifecycle.NewService(s)

	var (
		id  string
		res schema.Result
	)
	switch cfg.EntityKind {
	case schema.ProjectKind:
		var p schema.Project
		p, res, err = svc.CreateProject(ctx, cfg.Name, cfg.ParentID, cfg.TeamID)
		id = p.ID
	case schema.TeamKind:
		if cfg.TeamID != "" {
			return errors.New("--team does not apply to teams; use --parent for the lead team")
		}
		var t schema.Team
		t, res, err = svc.CreateTeam(ctx, cfg.Name, cfg.ParentID)
		id = t.ID
	case schema.InitiativeKind:
		if cfg.ParentID != "" || cfg.TeamID != "" {
			return errors.New("initiatives take no --parent or --team")
		}
		var i schema.Initiative
		i, res, err = svc.CreateInitiative(ctx, cfg.Name)
		id = i.ID
	default:
		return fmt.Errorf("invalid entity kind '%s'. must be project, team, initiative", cfg.EntityKind)
	}
	if err != nil {
		return err
	}
	return writeMutation(cfg, schema.MutationResult{
		Result: res,
		Action: "Created",
		Kind:   string(cfg.EntityKind),
		ID:     id,
		Detail: cfg.Name,
	})
}

// ExecuteAssign places a project under a parent and/or team, or a team under a lead team.
func ExecuteAssign(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	if cfg.ParentID == "" && cfg.TeamID == "" {
		return errors.New("nothing to assign: pass --parent and/or --team")
	}
	s, err := storeOf(mgr)
	if err != nil {
		return err
	}
	svc := lifecycle.NewService(s)

	var (
		res     schema.Result
		details []string
	)
	switch cfg.EntityKind {
	case schema.ProjectKind:
		if cfg.ParentID != "" {
			if res, err = svc.AssignParent(ctx, cfg.EntityID, cfg.ParentID); err != nil {
				return err
			}
			details = append(details, "parent "+cfg.ParentID)
		}
		if res.OK() && cfg.TeamID != "" {
			if res, err = svc.AssignTeam(ctx, cfg.EntityID, cfg.TeamID); err != nil {
				return err
			}
			details = append(details, "team "+cfg.TeamID)
		}
	case schema.TeamKind:
		if cfg.TeamID != "" {
			return errors.New("--team does not apply to teams; use --parent for the lead team")
		}
		if res, err = svc.AttachSubordinateTeam(ctx, cfg.EntityID, cfg.ParentID); err != nil {
			return err
		}
		details = append(details, "parent "+cfg.ParentID)
	default:
		return fmt.Errorf("cannot assign a %s; only projects and teams have parents", cfg.EntityKind)
	}

	return writeMutation(cfg, schema.MutationResult{
		Result: res,
		Action: "Assigned",
		Kind:   string(cfg.EntityKind),
		ID:     cfg.EntityID,
		Detail: strings.Join(details, ", "),
	})
}

// ExecuteLink relates a root project to an initiative.
func ExecuteLink(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	s, err := storeOf(mgr)
	if err != nil {
		return err
	}
	res, err := lifecycle.NewService(s).LinkProject(ctx, cfg.EntityID, cfg.ProjectID)
	if err != nil {
		return err
	}
	return writeMutation(cfg, schema.MutationResult{
		Result: res,
		Action: "Linked",
		Kind:   string(schema.InitiativeKind),
		ID:     cfg.EntityID,
		Detail: "project " + cfg.ProjectID,
	})
}

// writeMutation prints the outcome and turns a failed validation into errRejected.
func writeMutation(cfg *contract.Config, result schema.MutationResult) error {
	if !result.OK() {
		result.Detail = ""
	}
	if err := outwriter.NewOutWriter().WriteResult(result, cfg); err != nil {
		return err
	}
	if !result.OK() {
		return errRejected
	}
	return nil
}
