package roster

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/google/uuid"
)

// SlotCount is fixed by the game: every team has exactly four awakener slots.
const SlotCount = 4

// WheelCount is the number of wheel sockets per slot.
const WheelCount = 2

// TeamSlot is one awakener slot. An empty AwakenerName means the slot is
// empty, and an empty slot carries no other metadata (see Normalize).
type TeamSlot struct {
	SlotID       string
	AwakenerName string
	Faction      string
	Level        int
	Wheels       [WheelCount]string
	CovenantID   string
}

// IsEmpty reports whether the slot has no awakener assigned.
func (s TeamSlot) IsEmpty() bool {
	return s.AwakenerName == ""
}

type Team struct {
	ID      string
	Name    string
	PosseID string
	Slots   [SlotCount]TeamSlot
}

// NewTeam returns an empty team with a fresh id and canonical slot ids.
func NewTeam(name string) Team {
	t := Team{ID: NewID(), Name: name}
	for i := range t.Slots {
		t.Slots[i].SlotID = SlotID(i)
	}
	return t
}

// NewID generates an opaque unique team id.
func NewID() string {
	return uuid.NewString()
}

// SlotID returns the canonical slot id for a zero-based slot index.
func SlotID(index int) string {
	return fmt.Sprintf("slot-%d", index+1)
}

// Clone returns a deep copy of the team under a fresh id. Imported teams
// are always cloned so they never alias caller-owned slot data.
func (t Team) Clone() Team {
	c := t
	c.ID = NewID()
	return c
}

// Normalize clears residual metadata from empty slots: a slot without an
// awakener must not keep a faction, level, wheels, or covenant.
func (t *Team) Normalize() {
	for i := range t.Slots {
		if t.Slots[i].IsEmpty() {
			slotID := t.Slots[i].SlotID
			t.Slots[i] = TeamSlot{SlotID: slotID}
		}
	}
}

// WheelIDs returns the non-empty wheel ids across all slots, in slot order.
func (t Team) WheelIDs() []string {
	var ids []string
	for _, slot := range t.Slots {
		for _, w := range slot.Wheels {
			if w != "" {
				ids = append(ids, w)
			}
		}
	}
	return ids
}

type ImportKind string

const (
	ImportSingle ImportKind = "single"
	ImportMulti  ImportKind = "multi"
)

// DecodedImport is the result of decoding a share code. It is produced
// fresh by a decode call and handed straight to the planner; it is never
// persisted.
type DecodedImport struct {
	Kind            ImportKind
	Teams           []Team
	ActiveTeamIndex int
}

// Team returns the single imported team. Only meaningful for ImportSingle.
func (d *DecodedImport) Team() Team {
	if len(d.Teams) == 0 {
		return Team{}
	}
	return d.Teams[0]
}

var defaultNamePattern = regexp.MustCompile(`^Team (\d+)$`)

// DefaultName returns the synthesized name for a team at a 1-based position.
func DefaultName(position int) string {
	return "Team " + strconv.Itoa(position)
}

// IsDefaultName reports whether name matches the synthesized "Team N" pattern.
func IsDefaultName(name string) bool {
	return defaultNamePattern.MatchString(name)
}

// AllocateName picks a name for an imported team that does not collide with
// any name in taken. Default-pattern names move to the next free N;
// anything else gets a " (2)", " (3)", ... suffix.
func AllocateName(name string, taken map[string]bool) string {
	if !taken[name] {
		return name
	}
	if IsDefaultName(name) {
		for n := 1; ; n++ {
			candidate := DefaultName(n)
			if !taken[candidate] {
				return candidate
			}
		}
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", name, n)
		if !taken[candidate] {
			return candidate
		}
	}
}

// TakenNames builds the name set for AllocateName from existing teams.
func TakenNames(teams []Team) map[string]bool {
	taken := make(map[string]bool, len(teams))
	for _, t := range teams {
		taken[t.Name] = true
	}
	return taken
}

// CloneTeams deep-copies a team list, keeping ids.
func CloneTeams(teams []Team) []Team {
	out := make([]Team, len(teams))
	copy(out, teams)
	return out
}
