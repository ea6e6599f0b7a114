package planner

import (
	"teamforge/internal/catalog"
	"teamforge/internal/roster"
	"teamforge/internal/rules"
)

type Strategy string

const (
	// StrategyMove strips conflicting assignments from their existing
	// teams; the incoming team is inserted unchanged.
	StrategyMove Strategy = "move"
	// StrategySkip strips the conflicting assignments from the incoming
	// team instead; existing teams are untouched.
	StrategySkip   Strategy = "skip"
	StrategyCancel Strategy = "cancel"
)

// ApplyStrategy resolves a single-team import whose conflicts were
// reported by Prepare. The inputs are never mutated.
func ApplyStrategy(cat *catalog.Catalog, incoming roster.Team, current []roster.Team, strategy Strategy) *Result {
	existing := roster.CloneTeams(current)
	team := incoming.Clone()
	team.Normalize()

	switch strategy {
	case StrategyCancel:
		return &Result{Status: StatusError, Message: "Import cancelled."}
	case StrategyMove:
		existing = stripFromExisting(cat, team, existing)
	case StrategySkip:
		team = stripFromIncoming(cat, team, existing)
	default:
		// Unreachable from the CLI; degrade to a no-op plan.
		return &Result{Status: StatusReady, Teams: existing}
	}

	team.Name = roster.AllocateName(team.Name, roster.TakenNames(existing))
	combined := append(existing, team)

	// The strategy resolved the duplicates; any violation left is a real
	// rule break.
	for _, v := range rules.Check(cat, combined) {
		if !rules.IsDuplicateCode(v.Code) {
			return &Result{Status: StatusError, Message: v.Message}
		}
	}
	return &Result{Status: StatusReady, Teams: combined, ActiveTeamID: team.ID}
}

// stripFromExisting clears every assignment in the existing teams that the
// incoming team claims: awakener slots lose all metadata, wheels only the
// colliding index, and the posse moves wholesale.
func stripFromExisting(cat *catalog.Catalog, incoming roster.Team, existing []roster.Team) []roster.Team {
	awakeners, wheels := claimSets(cat, incoming)

	for t := range existing {
		for s := range existing[t].Slots {
			slot := &existing[t].Slots[s]
			if !slot.IsEmpty() && awakeners[cat.IdentityKey(slot.AwakenerName)] {
				*slot = roster.TeamSlot{SlotID: slot.SlotID}
				continue
			}
			for w := range slot.Wheels {
				if slot.Wheels[w] != "" && wheels[slot.Wheels[w]] {
					slot.Wheels[w] = ""
				}
			}
		}
		if incoming.PosseID != "" && existing[t].PosseID == incoming.PosseID {
			existing[t].PosseID = ""
		}
	}
	return existing
}

// stripFromIncoming clears the incoming team's own conflicting slots and
// wheels, and drops its posse if some existing team already holds it.
func stripFromIncoming(cat *catalog.Catalog, incoming roster.Team, existing []roster.Team) roster.Team {
	heldAwakeners := make(map[string]bool)
	heldWheels := make(map[string]bool)
	heldPosses := make(map[string]bool)
	for _, team := range existing {
		for _, slot := range team.Slots {
			if !slot.IsEmpty() {
				heldAwakeners[cat.IdentityKey(slot.AwakenerName)] = true
			}
			for _, wheel := range slot.Wheels {
				if wheel != "" {
					heldWheels[wheel] = true
				}
			}
		}
		if team.PosseID != "" {
			heldPosses[team.PosseID] = true
		}
	}

	for s := range incoming.Slots {
		slot := &incoming.Slots[s]
		if !slot.IsEmpty() && heldAwakeners[cat.IdentityKey(slot.AwakenerName)] {
			*slot = roster.TeamSlot{SlotID: slot.SlotID}
			continue
		}
		for w := range slot.Wheels {
			if slot.Wheels[w] != "" && heldWheels[slot.Wheels[w]] {
				slot.Wheels[w] = ""
			}
		}
	}
	if heldPosses[incoming.PosseID] {
		incoming.PosseID = ""
	}
	return incoming
}

func claimSets(cat *catalog.Catalog, team roster.Team) (awakeners, wheels map[string]bool) {
	awakeners = make(map[string]bool)
	wheels = make(map[string]bool)
	for _, slot := range team.Slots {
		if !slot.IsEmpty() {
			awakeners[cat.IdentityKey(slot.AwakenerName)] = true
		}
		for _, wheel := range slot.Wheels {
			if wheel != "" {
				wheels[wheel] = true
			}
		}
	}
	return awakeners, wheels
}
