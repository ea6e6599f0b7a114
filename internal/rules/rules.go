// Package rules holds the roster-wide business rules: team count, faction
// spread, and the global uniqueness of awakeners, wheels, and posses.
package rules

import (
	"fmt"

	"teamforge/internal/catalog"
	"teamforge/internal/roster"
)

const (
	// MaxTeams is the plan-wide team ceiling.
	MaxTeams = 12
	// MaxFactionsPerTeam caps the distinct factions fielded by one team.
	MaxFactionsPerTeam = 3
)

const (
	CodeTooManyTeams      = "too_many_teams"
	CodeTooManyFactions   = "too_many_factions"
	CodeDuplicateAwakener = "duplicate_awakener"
	CodeDuplicateWheel    = "duplicate_wheel"
	CodeDuplicatePosse    = "duplicate_posse"
)

type Violation struct {
	Code     string
	Message  string
	TeamID   string
	TeamName string
}

// IsDuplicateCode reports whether a violation code is one of the
// cross-team uniqueness rules. The import planner resolves those itself
// and filters them out of its post-strategy re-validation.
func IsDuplicateCode(code string) bool {
	switch code {
	case CodeDuplicateAwakener, CodeDuplicateWheel, CodeDuplicatePosse:
		return true
	}
	return false
}

// Check validates a full team list and returns every violation found.
// An empty result means the plan is legal.
func Check(cat *catalog.Catalog, teams []roster.Team) []Violation {
	var violations []Violation

	if len(teams) > MaxTeams {
		violations = append(violations, Violation{
			Code:    CodeTooManyTeams,
			Message: fmt.Sprintf("plan has %d teams, limit is %d", len(teams), MaxTeams),
		})
	}

	for _, team := range teams {
		violations = append(violations, checkFactions(cat, team)...)
	}

	violations = append(violations, checkUniqueness(cat, teams)...)
	return violations
}

func checkFactions(cat *catalog.Catalog, team roster.Team) []Violation {
	factions := make(map[string]bool)
	for _, slot := range team.Slots {
		if slot.IsEmpty() {
			continue
		}
		faction := slot.Faction
		if a, ok := cat.AwakenerByName(slot.AwakenerName); ok {
			faction = a.Faction
		}
		if faction != "" {
			factions[faction] = true
		}
	}
	if len(factions) > MaxFactionsPerTeam {
		return []Violation{{
			Code:     CodeTooManyFactions,
			Message:  fmt.Sprintf("team %q fields %d factions, limit is %d", team.Name, len(factions), MaxFactionsPerTeam),
			TeamID:   team.ID,
			TeamName: team.Name,
		}}
	}
	return nil
}

func checkUniqueness(cat *catalog.Catalog, teams []roster.Team) []Violation {
	var violations []Violation

	awakenerOwner := make(map[string]string) // identity key -> team name
	wheelOwner := make(map[string]string)
	posseOwner := make(map[string]string)

	for _, team := range teams {
		for _, slot := range team.Slots {
			if !slot.IsEmpty() {
				key := cat.IdentityKey(slot.AwakenerName)
				if owner, taken := awakenerOwner[key]; taken {
					violations = append(violations, Violation{
						Code:     CodeDuplicateAwakener,
						Message:  fmt.Sprintf("awakener %q is already assigned to team %q", slot.AwakenerName, owner),
						TeamID:   team.ID,
						TeamName: team.Name,
					})
				} else {
					awakenerOwner[key] = team.Name
				}
			}
			for _, wheel := range slot.Wheels {
				if wheel == "" {
					continue
				}
				if owner, taken := wheelOwner[wheel]; taken {
					violations = append(violations, Violation{
						Code:     CodeDuplicateWheel,
						Message:  fmt.Sprintf("wheel %q is already assigned to team %q", wheel, owner),
						TeamID:   team.ID,
						TeamName: team.Name,
					})
				} else {
					wheelOwner[wheel] = team.Name
				}
			}
		}
		if team.PosseID != "" {
			if owner, taken := posseOwner[team.PosseID]; taken {
				violations = append(violations, Violation{
					Code:     CodeDuplicatePosse,
					Message:  fmt.Sprintf("posse %q is already assigned to team %q", team.PosseID, owner),
					TeamID:   team.ID,
					TeamName: team.Name,
				})
			} else {
				posseOwner[team.PosseID] = team.Name
			}
		}
	}
	return violations
}
