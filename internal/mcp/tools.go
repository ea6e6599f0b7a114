package mcp

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"teamforge/internal/codec"
	"teamforge/internal/ingame"
	"teamforge/internal/planner"
	"teamforge/internal/roster"
)

type DecodeCodeInput struct {
	Code string `json:"code" jsonschema:"a t1./mt1. share code or an @@...@@ in-game code"`
}

type EncodeTeamInput struct {
	Team   string `json:"team,omitempty" jsonschema:"name of a stored team; empty with all=true exports the whole plan"`
	All    bool   `json:"all,omitempty" jsonschema:"export every stored team as one multi-team code"`
	Ingame bool   `json:"ingame,omitempty" jsonschema:"emit the game client's own code format"`
}

type PreviewImportInput struct {
	Code            string `json:"code" jsonschema:"the share code to import"`
	AllowDuplicates bool   `json:"allow_duplicates,omitempty" jsonschema:"waive duplicate-assignment rules"`
}

type ListTeamsInput struct{}

type GetCatalogInput struct {
	Category string `json:"category" jsonschema:"awakeners, wheels, posses, or covenants"`
}

type SlotOutput struct {
	SlotID   string `json:"slot_id"`
	Awakener string `json:"awakener,omitempty"`
	Faction  string `json:"faction,omitempty"`
	Level    int    `json:"level,omitempty"`
	WheelOne string `json:"wheel_one,omitempty"`
	WheelTwo string `json:"wheel_two,omitempty"`
	Covenant string `json:"covenant,omitempty"`
}

type TeamOutput struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	PosseID string       `json:"posse_id,omitempty"`
	Slots   []SlotOutput `json:"slots"`
}

type WarningOutput struct {
	Section   string `json:"section"`
	SlotIndex int    `json:"slot_index"`
	Field     string `json:"field,omitempty"`
	Reason    string `json:"reason"`
}

type DecodeCodeOutput struct {
	Kind            string          `json:"kind"`
	Teams           []TeamOutput    `json:"teams"`
	ActiveTeamIndex int             `json:"active_team_index"`
	Warnings        []WarningOutput `json:"warnings,omitempty"`
}

type EncodeTeamOutput struct {
	Code string `json:"code"`
}

type ConflictOutput struct {
	Kind         string `json:"kind"`
	Value        string `json:"value"`
	FromTeamID   string `json:"from_team_id"`
	FromTeamName string `json:"from_team_name"`
}

type PreviewImportOutput struct {
	Status    string           `json:"status"`
	Message   string           `json:"message,omitempty"`
	Teams     []TeamOutput     `json:"teams,omitempty"`
	Conflicts []ConflictOutput `json:"conflicts,omitempty"`
}

type ListTeamsOutput struct {
	Teams        []TeamOutput `json:"teams"`
	ActiveTeamID string       `json:"active_team_id,omitempty"`
}

type CatalogEntryOutput struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Faction string `json:"faction,omitempty"`
}

type GetCatalogOutput struct {
	Entries []CatalogEntryOutput `json:"entries"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "decode_code",
		Description: "Decode a share code into teams without touching the stored roster",
	}, s.handleDecodeCode)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "encode_team",
		Description: "Encode stored teams into a shareable code",
	}, s.handleEncodeTeam)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "preview_import",
		Description: "Plan a code import against the stored roster and report conflicts",
	}, s.handlePreviewImport)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_teams",
		Description: "List the stored teams",
	}, s.handleListTeams)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_catalog",
		Description: "List catalog entries for one category",
	}, s.handleGetCatalog)
}

func (s *Server) handleDecodeCode(ctx context.Context, req *sdk.CallToolRequest, input DecodeCodeInput) (*sdk.CallToolResult, DecodeCodeOutput, error) {
	if input.Code == "" {
		return nil, DecodeCodeOutput{}, fmt.Errorf("code is required")
	}

	if strings.HasPrefix(input.Code, "@@") {
		result, err := ingame.DecodeTeamCode(s.cat, s.dicts, input.Code)
		if err != nil {
			return nil, DecodeCodeOutput{}, err
		}
		return nil, DecodeCodeOutput{
			Kind:     string(roster.ImportSingle),
			Teams:    []TeamOutput{teamOutput(result.Team)},
			Warnings: warningOutputs(result.Warnings),
		}, nil
	}

	decoded, err := codec.DecodeImportCode(s.cat, input.Code)
	if err != nil {
		return nil, DecodeCodeOutput{}, err
	}
	return nil, DecodeCodeOutput{
		Kind:            string(decoded.Kind),
		Teams:           teamOutputs(decoded.Teams),
		ActiveTeamIndex: decoded.ActiveTeamIndex,
	}, nil
}

func (s *Server) handleEncodeTeam(ctx context.Context, req *sdk.CallToolRequest, input EncodeTeamInput) (*sdk.CallToolResult, EncodeTeamOutput, error) {
	r, err := s.db.LoadRoster(ctx)
	if err != nil {
		return nil, EncodeTeamOutput{}, fmt.Errorf("loading roster: %w", err)
	}

	if input.All {
		code, err := codec.EncodeMultiTeam(s.cat, r.Teams, r.ActiveTeamID)
		if err != nil {
			return nil, EncodeTeamOutput{}, err
		}
		return nil, EncodeTeamOutput{Code: code}, nil
	}

	if input.Team == "" {
		return nil, EncodeTeamOutput{}, fmt.Errorf("team is required unless all is set")
	}
	team, ok := r.TeamByName(input.Team)
	if !ok {
		return nil, EncodeTeamOutput{}, fmt.Errorf("no stored team named %q", input.Team)
	}

	if input.Ingame {
		return nil, EncodeTeamOutput{Code: ingame.EncodeTeamCode(s.cat, s.dicts, team)}, nil
	}
	code, err := codec.EncodeSingleTeam(s.cat, team)
	if err != nil {
		return nil, EncodeTeamOutput{}, err
	}
	return nil, EncodeTeamOutput{Code: code}, nil
}

func (s *Server) handlePreviewImport(ctx context.Context, req *sdk.CallToolRequest, input PreviewImportInput) (*sdk.CallToolResult, PreviewImportOutput, error) {
	if input.Code == "" {
		return nil, PreviewImportOutput{}, fmt.Errorf("code is required")
	}

	var decoded *roster.DecodedImport
	if strings.HasPrefix(input.Code, "@@") {
		result, err := ingame.DecodeTeamCode(s.cat, s.dicts, input.Code)
		if err != nil {
			return nil, PreviewImportOutput{}, err
		}
		decoded = &roster.DecodedImport{Kind: roster.ImportSingle, Teams: []roster.Team{result.Team}}
	} else {
		var err error
		decoded, err = codec.DecodeImportCode(s.cat, input.Code)
		if err != nil {
			return nil, PreviewImportOutput{}, err
		}
	}

	r, err := s.db.LoadRoster(ctx)
	if err != nil {
		return nil, PreviewImportOutput{}, fmt.Errorf("loading roster: %w", err)
	}

	plan := planner.Prepare(s.cat, decoded, r.Teams, planner.Options{AllowDuplicates: input.AllowDuplicates})
	out := PreviewImportOutput{
		Status:  string(plan.Status),
		Message: plan.Message,
		Teams:   teamOutputs(plan.Teams),
	}
	for _, c := range plan.Conflicts {
		out.Conflicts = append(out.Conflicts, ConflictOutput{
			Kind:         string(c.Kind),
			Value:        c.Value,
			FromTeamID:   c.FromTeamID,
			FromTeamName: c.FromTeamName,
		})
	}
	return nil, out, nil
}

func (s *Server) handleListTeams(ctx context.Context, req *sdk.CallToolRequest, input ListTeamsInput) (*sdk.CallToolResult, ListTeamsOutput, error) {
	r, err := s.db.LoadRoster(ctx)
	if err != nil {
		return nil, ListTeamsOutput{}, fmt.Errorf("loading roster: %w", err)
	}
	return nil, ListTeamsOutput{
		Teams:        teamOutputs(r.Teams),
		ActiveTeamID: r.ActiveTeamID,
	}, nil
}

func (s *Server) handleGetCatalog(ctx context.Context, req *sdk.CallToolRequest, input GetCatalogInput) (*sdk.CallToolResult, GetCatalogOutput, error) {
	var out GetCatalogOutput
	switch input.Category {
	case "awakeners":
		for _, a := range s.cat.Awakeners {
			out.Entries = append(out.Entries, CatalogEntryOutput{
				ID:      fmt.Sprintf("%d", a.ID),
				Name:    a.Name,
				Faction: a.Faction,
			})
		}
	case "wheels":
		for _, w := range s.cat.Wheels {
			out.Entries = append(out.Entries, CatalogEntryOutput{ID: w.ID, Name: w.Name})
		}
	case "posses":
		for _, p := range s.cat.Posses {
			out.Entries = append(out.Entries, CatalogEntryOutput{ID: p.ID, Name: p.Name})
		}
	case "covenants":
		for _, c := range s.cat.Covenants {
			out.Entries = append(out.Entries, CatalogEntryOutput{ID: c.ID, Name: c.Name})
		}
	default:
		return nil, GetCatalogOutput{}, fmt.Errorf("unknown catalog category %q", input.Category)
	}
	return nil, out, nil
}

func teamOutput(t roster.Team) TeamOutput {
	out := TeamOutput{ID: t.ID, Name: t.Name, PosseID: t.PosseID}
	for _, slot := range t.Slots {
		out.Slots = append(out.Slots, SlotOutput{
			SlotID:   slot.SlotID,
			Awakener: slot.AwakenerName,
			Faction:  slot.Faction,
			Level:    slot.Level,
			WheelOne: slot.Wheels[0],
			WheelTwo: slot.Wheels[1],
			Covenant: slot.CovenantID,
		})
	}
	return out
}

func teamOutputs(teams []roster.Team) []TeamOutput {
	out := make([]TeamOutput, 0, len(teams))
	for _, t := range teams {
		out = append(out, teamOutput(t))
	}
	return out
}

func warningOutputs(warnings []ingame.Warning) []WarningOutput {
	out := make([]WarningOutput, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, WarningOutput{
			Section:   w.Section,
			SlotIndex: w.SlotIndex,
			Field:     w.Field,
			Reason:    w.Reason,
		})
	}
	return out
}
