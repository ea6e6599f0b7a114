package planner

import (
	"strings"
	"testing"

	"teamforge/internal/catalog"
	"teamforge/internal/roster"
	"teamforge/internal/rules"
)

func mustCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}
	return cat
}

func teamNamed(name string, awakeners ...string) roster.Team {
	team := roster.NewTeam(name)
	for i, a := range awakeners {
		team.Slots[i].AwakenerName = a
	}
	return team
}

func singleImport(team roster.Team) *roster.DecodedImport {
	return &roster.DecodedImport{Kind: roster.ImportSingle, Teams: []roster.Team{team}}
}

func TestPrepareNilImport(t *testing.T) {
	cat := mustCatalog(t)
	if result := Prepare(cat, nil, nil, Options{}); result.Status != StatusError {
		t.Fatalf("status = %s", result.Status)
	}
	empty := &roster.DecodedImport{Kind: roster.ImportSingle}
	if result := Prepare(cat, empty, nil, Options{}); result.Status != StatusError {
		t.Fatalf("status = %s", result.Status)
	}
}

func TestPrepareSingleReady(t *testing.T) {
	cat := mustCatalog(t)
	current := []roster.Team{teamNamed("Team 1", "doll")}
	incoming := teamNamed("Team 1", "ivy")

	result := Prepare(cat, singleImport(incoming), current, Options{})
	if result.Status != StatusReady {
		t.Fatalf("status = %s (%s)", result.Status, result.Message)
	}
	if len(result.Teams) != 2 {
		t.Fatalf("planned %d teams, want 2", len(result.Teams))
	}
	if result.Teams[1].Name != "Team 2" {
		t.Fatalf("imported name = %q, want the next free default", result.Teams[1].Name)
	}
	if result.ActiveTeamID != result.Teams[1].ID {
		t.Fatalf("active team should be the import")
	}
	// The current list must survive untouched.
	if current[0].Name != "Team 1" || current[0].Slots[0].AwakenerName != "doll" {
		t.Fatalf("Prepare mutated its input: %+v", current[0])
	}
}

func TestPrepareSingleCustomNameSuffix(t *testing.T) {
	cat := mustCatalog(t)
	current := []roster.Team{teamNamed("Raid", "doll")}
	incoming := teamNamed("Raid", "ivy")

	result := Prepare(cat, singleImport(incoming), current, Options{})
	if result.Status != StatusReady {
		t.Fatalf("status = %s (%s)", result.Status, result.Message)
	}
	if result.Teams[1].Name != "Raid (2)" {
		t.Fatalf("imported name = %q, want Raid (2)", result.Teams[1].Name)
	}
}

func TestPrepareSingleIdentityConflict(t *testing.T) {
	cat := mustCatalog(t)
	current := []roster.Team{teamNamed("Team 1", "ramona")}
	incoming := teamNamed("Team 2", "ramona: timeworn")

	result := Prepare(cat, singleImport(incoming), current, Options{})
	if result.Status != StatusRequiresStrategy {
		t.Fatalf("status = %s (%s)", result.Status, result.Message)
	}
	if len(result.Conflicts) != 1 {
		t.Fatalf("conflicts = %+v", result.Conflicts)
	}
	c := result.Conflicts[0]
	if c.Kind != ConflictAwakener || c.Value != "ramona" || c.FromTeamName != "Team 1" {
		t.Fatalf("conflict = %+v", c)
	}
	if result.Incoming == nil {
		t.Fatalf("requires_strategy result must carry the incoming team")
	}
}

func TestPrepareSingleWheelAndPosseConflicts(t *testing.T) {
	cat := mustCatalog(t)

	holder := teamNamed("Team 1", "doll")
	holder.Slots[0].Wheels[0] = "corona"
	holder.PosseID = "ashen-band"

	incoming := teamNamed("Team 2", "ivy")
	incoming.Slots[0].Wheels[1] = "corona"
	incoming.PosseID = "ashen-band"

	result := Prepare(cat, singleImport(incoming), []roster.Team{holder}, Options{})
	if result.Status != StatusRequiresStrategy {
		t.Fatalf("status = %s (%s)", result.Status, result.Message)
	}

	kinds := make(map[ConflictKind]int)
	for _, c := range result.Conflicts {
		kinds[c.Kind]++
	}
	if kinds[ConflictWheel] != 1 || kinds[ConflictPosse] != 1 {
		t.Fatalf("conflicts = %+v", result.Conflicts)
	}
}

func TestPrepareSingleRejectsInvalidStoredTeam(t *testing.T) {
	cat := mustCatalog(t)
	// The stored team already breaks the faction cap; a conflict-free
	// import must not produce a ready plan over a broken roster.
	current := []roster.Team{teamNamed("Team 1", "doll", "daffodil", "ramona", "ivy")}
	incoming := teamNamed("Team 2", "ursula")

	result := Prepare(cat, singleImport(incoming), current, Options{})
	if result.Status != StatusError {
		t.Fatalf("status = %s (%s), want error", result.Status, result.Message)
	}
	if !strings.Contains(result.Message, "factions") {
		t.Fatalf("message = %q", result.Message)
	}
}

func TestPrepareSingleInvalidIncoming(t *testing.T) {
	cat := mustCatalog(t)
	// doll=Chorus, daffodil=Verdant, ramona=Aurora, ivy=Umbra: four factions.
	incoming := teamNamed("Team 1", "doll", "daffodil", "ramona", "ivy")

	result := Prepare(cat, singleImport(incoming), nil, Options{})
	if result.Status != StatusError {
		t.Fatalf("status = %s", result.Status)
	}
}

func TestPrepareSingleDuplicateOverride(t *testing.T) {
	cat := mustCatalog(t)
	// Both forms of ramona inside the one incoming team.
	incoming := teamNamed("Team 1", "ramona", "ramona: timeworn")

	result := Prepare(cat, singleImport(incoming), nil, Options{})
	if result.Status != StatusRequiresDuplicateOverride {
		t.Fatalf("status = %s (%s)", result.Status, result.Message)
	}

	result = Prepare(cat, singleImport(incoming), nil, Options{AllowDuplicates: true})
	if result.Status != StatusReady {
		t.Fatalf("status with override = %s (%s)", result.Status, result.Message)
	}
}

func TestPrepareSingleTeamCeiling(t *testing.T) {
	cat := mustCatalog(t)
	current := make([]roster.Team, 0, rules.MaxTeams)
	for i := 0; i < rules.MaxTeams; i++ {
		current = append(current, roster.NewTeam(roster.DefaultName(i+1)))
	}

	result := Prepare(cat, singleImport(teamNamed("Extra", "doll")), current, Options{})
	if result.Status != StatusError {
		t.Fatalf("status = %s (%s)", result.Status, result.Message)
	}
}

func TestPrepareMultiRequiresReplace(t *testing.T) {
	cat := mustCatalog(t)
	decoded := &roster.DecodedImport{
		Kind:            roster.ImportMulti,
		Teams:           []roster.Team{teamNamed("Team 1", "doll"), teamNamed("Team 2", "ivy")},
		ActiveTeamIndex: 1,
	}
	current := []roster.Team{teamNamed("Old", "ramona")}

	result := Prepare(cat, decoded, current, Options{})
	if result.Status != StatusRequiresReplace {
		t.Fatalf("status = %s (%s)", result.Status, result.Message)
	}
	if len(result.Teams) != 2 {
		t.Fatalf("planned %d teams, want 2", len(result.Teams))
	}
	if result.ActiveTeamID != result.Teams[1].ID {
		t.Fatalf("active id should point at the second team")
	}
	// Multi imports replace wholesale: conflicts with the current plan are
	// irrelevant and never reported.
	if len(result.Conflicts) != 0 {
		t.Fatalf("conflicts = %+v", result.Conflicts)
	}
}

func TestApplyStrategyMove(t *testing.T) {
	cat := mustCatalog(t)

	holder := teamNamed("Team 1", "ramona")
	holder.Slots[0].Level = 60
	holder.Slots[0].Wheels = [2]string{"corona", "undertow"}
	holder.Slots[1].AwakenerName = "doll"
	holder.PosseID = "ashen-band"

	incoming := teamNamed("Team 2", "ramona: timeworn")
	incoming.Slots[0].Wheels[0] = "undertow"
	incoming.PosseID = "ashen-band"

	result := ApplyStrategy(cat, incoming, []roster.Team{holder}, StrategyMove)
	if result.Status != StatusReady {
		t.Fatalf("status = %s (%s)", result.Status, result.Message)
	}
	if len(result.Teams) != 2 {
		t.Fatalf("planned %d teams, want 2", len(result.Teams))
	}

	old := result.Teams[0]
	// The conflicting awakener slot is cleared wholesale, wheels included.
	if !old.Slots[0].IsEmpty() || old.Slots[0].Wheels != [2]string{"", ""} || old.Slots[0].Level != 0 {
		t.Fatalf("conflicting slot not stripped: %+v", old.Slots[0])
	}
	if old.Slots[1].AwakenerName != "doll" {
		t.Fatalf("unrelated slot was touched: %+v", old.Slots[1])
	}
	if old.PosseID != "" {
		t.Fatalf("posse did not move: %q", old.PosseID)
	}

	imported := result.Teams[1]
	if imported.Slots[0].AwakenerName != "ramona: timeworn" || imported.Slots[0].Wheels[0] != "undertow" {
		t.Fatalf("incoming team was modified by move: %+v", imported.Slots[0])
	}
	if imported.PosseID != "ashen-band" {
		t.Fatalf("imported posse = %q", imported.PosseID)
	}

	// Inputs stay untouched.
	if holder.Slots[0].AwakenerName != "ramona" || holder.PosseID != "ashen-band" {
		t.Fatalf("ApplyStrategy mutated its input: %+v", holder)
	}
}

func TestApplyStrategySkip(t *testing.T) {
	cat := mustCatalog(t)

	holder := teamNamed("Team 1", "ramona")
	holder.PosseID = "ashen-band"

	incoming := teamNamed("Team 2", "ramona: timeworn", "ivy")
	incoming.Slots[1].Wheels[0] = "corona"
	incoming.PosseID = "ashen-band"

	result := ApplyStrategy(cat, incoming, []roster.Team{holder}, StrategySkip)
	if result.Status != StatusReady {
		t.Fatalf("status = %s (%s)", result.Status, result.Message)
	}

	old := result.Teams[0]
	if old.Slots[0].AwakenerName != "ramona" || old.PosseID != "ashen-band" {
		t.Fatalf("skip touched the existing team: %+v", old)
	}

	imported := result.Teams[1]
	if !imported.Slots[0].IsEmpty() {
		t.Fatalf("conflicting incoming slot survived skip: %+v", imported.Slots[0])
	}
	if imported.Slots[1].AwakenerName != "ivy" || imported.Slots[1].Wheels[0] != "corona" {
		t.Fatalf("non-conflicting slot was stripped: %+v", imported.Slots[1])
	}
	if imported.PosseID != "" {
		t.Fatalf("conflicting posse survived skip: %q", imported.PosseID)
	}
}

func TestApplyStrategyCancel(t *testing.T) {
	cat := mustCatalog(t)
	result := ApplyStrategy(cat, teamNamed("Team 1", "doll"), nil, StrategyCancel)
	if result.Status != StatusError || result.Message != "Import cancelled." {
		t.Fatalf("result = %+v", result)
	}
}

func TestApplyStrategyAllocatesName(t *testing.T) {
	cat := mustCatalog(t)
	current := []roster.Team{teamNamed("Team 1", "doll")}

	result := ApplyStrategy(cat, teamNamed("Team 1", "ivy"), current, StrategyMove)
	if result.Status != StatusReady {
		t.Fatalf("status = %s (%s)", result.Status, result.Message)
	}
	if result.Teams[1].Name != "Team 2" {
		t.Fatalf("imported name = %q", result.Teams[1].Name)
	}
}
