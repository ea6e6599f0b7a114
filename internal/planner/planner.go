// Package planner reconciles a decoded import against the current roster:
// it detects cross-team conflicts, applies a caller-chosen resolution
// strategy, and re-checks the combined plan against the team rules.
//
// The planner never throws for expected conditions. Every outcome is a
// tagged Result the caller switches on; unexpected states degrade to
// returning the input unchanged rather than failing.
package planner

import (
	"fmt"

	"teamforge/internal/catalog"
	"teamforge/internal/roster"
	"teamforge/internal/rules"
)

type Status string

const (
	StatusError Status = "error"
	// StatusRequiresDuplicateOverride: validation failed only on the
	// duplicate rules and the caller did not opt in to allowing them.
	StatusRequiresDuplicateOverride Status = "requires_duplicate_override"
	// StatusRequiresReplace: multi-team imports always replace the whole
	// plan and need explicit confirmation; they are never merged.
	StatusRequiresReplace Status = "requires_replace"
	// StatusRequiresStrategy: the single imported team collides with
	// existing teams and the caller must pick a resolution strategy.
	StatusRequiresStrategy Status = "requires_strategy"
	StatusReady            Status = "ready"
)

type ConflictKind string

const (
	ConflictAwakener ConflictKind = "awakener"
	ConflictWheel    ConflictKind = "wheel"
	ConflictPosse    ConflictKind = "posse"
)

// Conflict records one collision between the incoming team and an
// existing team. Awakener values are identity keys so alternate forms of
// the same character report as one conflict.
type Conflict struct {
	Kind         ConflictKind
	Value        string
	FromTeamID   string
	FromTeamName string
}

type Options struct {
	AllowDuplicates bool
}

type Result struct {
	Status       Status
	Message      string
	Teams        []roster.Team
	ActiveTeamID string
	Conflicts    []Conflict
	// Incoming is set on StatusRequiresStrategy: the cloned team to pass
	// to ApplyStrategy once the caller has chosen.
	Incoming *roster.Team
}

// Prepare plans an import of decoded against the current team list. It
// never mutates current; every returned team is a fresh clone.
func Prepare(cat *catalog.Catalog, decoded *roster.DecodedImport, current []roster.Team, opts Options) *Result {
	if decoded == nil || len(decoded.Teams) == 0 {
		return &Result{Status: StatusError, Message: "nothing to import"}
	}
	switch decoded.Kind {
	case roster.ImportMulti:
		return prepareMulti(cat, decoded, opts)
	case roster.ImportSingle:
		return prepareSingle(cat, decoded, current, opts)
	default:
		return &Result{Status: StatusError, Message: fmt.Sprintf("unsupported import kind %q", decoded.Kind)}
	}
}

func prepareMulti(cat *catalog.Catalog, decoded *roster.DecodedImport, opts Options) *Result {
	incoming := make([]roster.Team, 0, len(decoded.Teams))
	for _, team := range decoded.Teams {
		clone := team.Clone()
		clone.Normalize()
		incoming = append(incoming, clone)
	}

	if result := validationResult(cat, incoming, opts); result != nil {
		return result
	}

	activeIndex := decoded.ActiveTeamIndex
	if activeIndex < 0 || activeIndex >= len(incoming) {
		activeIndex = 0
	}
	return &Result{
		Status:       StatusRequiresReplace,
		Message:      fmt.Sprintf("importing %d teams replaces the current plan", len(incoming)),
		Teams:        incoming,
		ActiveTeamID: incoming[activeIndex].ID,
	}
}

func prepareSingle(cat *catalog.Catalog, decoded *roster.DecodedImport, current []roster.Team, opts Options) *Result {
	incoming := decoded.Team().Clone()
	incoming.Normalize()

	// The incoming team must be legal on its own before any conflict
	// handling: faction spread and in-team duplicates are not things a
	// strategy can fix.
	if result := validationResult(cat, []roster.Team{incoming}, opts); result != nil {
		return result
	}

	if len(current)+1 > rules.MaxTeams {
		return &Result{
			Status:  StatusError,
			Message: fmt.Sprintf("team limit reached (%d)", rules.MaxTeams),
		}
	}

	conflicts := findConflicts(cat, incoming, current)
	if len(conflicts) > 0 {
		return &Result{
			Status:    StatusRequiresStrategy,
			Message:   fmt.Sprintf("import collides with %d existing assignment(s)", len(conflicts)),
			Conflicts: conflicts,
			Incoming:  &incoming,
		}
	}

	incoming.Name = roster.AllocateName(incoming.Name, roster.TakenNames(current))
	combined := append(roster.CloneTeams(current), incoming)

	// The combined plan still has to pass the team rules: a stored team
	// may already be in violation. Duplicate-kind codes were ruled out by
	// the conflict scan above.
	for _, v := range rules.Check(cat, combined) {
		if !rules.IsDuplicateCode(v.Code) {
			return &Result{Status: StatusError, Message: v.Message}
		}
	}
	return &Result{Status: StatusReady, Teams: combined, ActiveTeamID: incoming.ID}
}

// validationResult classifies rule violations: non-duplicate violations
// are hard errors, duplicate-only failures ask for an override unless the
// caller already granted one.
func validationResult(cat *catalog.Catalog, teams []roster.Team, opts Options) *Result {
	violations := rules.Check(cat, teams)
	var duplicates, others []rules.Violation
	for _, v := range violations {
		if rules.IsDuplicateCode(v.Code) {
			duplicates = append(duplicates, v)
		} else {
			others = append(others, v)
		}
	}
	if len(others) > 0 {
		return &Result{Status: StatusError, Message: others[0].Message}
	}
	if len(duplicates) > 0 && !opts.AllowDuplicates {
		return &Result{
			Status:  StatusRequiresDuplicateOverride,
			Message: duplicates[0].Message,
		}
	}
	return nil
}

// findConflicts scans every existing team's every slot against the
// incoming team. Conflicts are deduplicated per (kind, value, team).
func findConflicts(cat *catalog.Catalog, incoming roster.Team, current []roster.Team) []Conflict {
	incomingAwakeners := make(map[string]bool)
	incomingWheels := make(map[string]bool)
	for _, slot := range incoming.Slots {
		if !slot.IsEmpty() {
			incomingAwakeners[cat.IdentityKey(slot.AwakenerName)] = true
		}
		for _, wheel := range slot.Wheels {
			if wheel != "" {
				incomingWheels[wheel] = true
			}
		}
	}

	var conflicts []Conflict
	seen := make(map[string]bool)
	add := func(c Conflict) {
		key := string(c.Kind) + "\x00" + c.Value + "\x00" + c.FromTeamID
		if !seen[key] {
			seen[key] = true
			conflicts = append(conflicts, c)
		}
	}

	for _, team := range current {
		for _, slot := range team.Slots {
			if !slot.IsEmpty() {
				key := cat.IdentityKey(slot.AwakenerName)
				if incomingAwakeners[key] {
					add(Conflict{Kind: ConflictAwakener, Value: key, FromTeamID: team.ID, FromTeamName: team.Name})
				}
			}
			for _, wheel := range slot.Wheels {
				if wheel != "" && incomingWheels[wheel] {
					add(Conflict{Kind: ConflictWheel, Value: wheel, FromTeamID: team.ID, FromTeamName: team.Name})
				}
			}
		}
	}

	// At most one posse conflict: whoever currently holds it, if anyone.
	if incoming.PosseID != "" {
		for _, team := range current {
			if team.PosseID == incoming.PosseID {
				add(Conflict{Kind: ConflictPosse, Value: incoming.PosseID, FromTeamID: team.ID, FromTeamName: team.Name})
				break
			}
		}
	}
	return conflicts
}
