// Package codec implements the native share-code format: a fixed-layout
// byte packing of a team, base64url-encoded behind a versioned prefix.
//
// Layout per team is 21 bytes: one posse byte followed by four 5-byte
// slots [awakenerID, level, wheel1, wheel2, covenant]. Zero means unset
// everywhere; wheel, covenant, and posse bytes are 1-based positions in
// the catalog arrays, so catalog order is part of the wire format.
package codec

import (
	"encoding/base64"
	"fmt"

	"teamforge/internal/catalog"
	"teamforge/internal/roster"
)

const (
	// SinglePrefix versions the single-team format.
	SinglePrefix = "t1."
	// MultiPrefix versions the multi-team format.
	MultiPrefix = "mt1."

	slotBytes = 5
	teamBytes = 1 + roster.SlotCount*slotBytes // posse byte + 4 slots
)

// EncodeSingleTeam packs one team into a "t1." share code.
func EncodeSingleTeam(cat *catalog.Catalog, team roster.Team) (string, error) {
	raw, err := encodeTeam(cat, team)
	if err != nil {
		return "", err
	}
	return SinglePrefix + base64.RawURLEncoding.EncodeToString(raw), nil
}

// EncodeMultiTeam packs a full team list into an "mt1." share code.
// activeTeamID selects the active-team header byte; an id not present in
// teams falls back to index 0.
func EncodeMultiTeam(cat *catalog.Catalog, teams []roster.Team, activeTeamID string) (string, error) {
	if len(teams) == 0 {
		return "", fmt.Errorf("cannot encode an empty team list")
	}
	// The count bound also caps the active index at 254.
	if len(teams) > 255 {
		return "", fmt.Errorf("team count %d exceeds single-byte limit", len(teams))
	}

	activeIndex := 0
	for i, team := range teams {
		if team.ID == activeTeamID {
			activeIndex = i
			break
		}
	}

	raw := make([]byte, 0, 2+len(teams)*teamBytes)
	raw = append(raw, byte(activeIndex), byte(len(teams)))
	for _, team := range teams {
		encoded, err := encodeTeam(cat, team)
		if err != nil {
			return "", fmt.Errorf("team %q: %w", team.Name, err)
		}
		raw = append(raw, encoded...)
	}
	return MultiPrefix + base64.RawURLEncoding.EncodeToString(raw), nil
}

func encodeTeam(cat *catalog.Catalog, team roster.Team) ([]byte, error) {
	raw := make([]byte, 0, teamBytes)

	posseIndex := 0
	if team.PosseID != "" {
		posseIndex = cat.PosseIndex(team.PosseID)
		if posseIndex == 0 {
			return nil, fmt.Errorf("unknown posse id %q", team.PosseID)
		}
		if posseIndex > 255 {
			return nil, fmt.Errorf("posse index %d exceeds single-byte limit", posseIndex)
		}
	}
	raw = append(raw, byte(posseIndex))

	for i, slot := range team.Slots {
		encoded, err := encodeSlot(cat, slot)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", i+1, err)
		}
		raw = append(raw, encoded...)
	}
	return raw, nil
}

func encodeSlot(cat *catalog.Catalog, slot roster.TeamSlot) ([]byte, error) {
	// An empty slot encodes as all zeroes no matter what residue the
	// caller left on it: wheels, level, and covenant are meaningless
	// without an awakener.
	if slot.IsEmpty() {
		return make([]byte, slotBytes), nil
	}

	awakener, ok := cat.AwakenerByName(slot.AwakenerName)
	if !ok {
		return nil, fmt.Errorf("unknown awakener %q", slot.AwakenerName)
	}
	if awakener.ID > 255 {
		return nil, fmt.Errorf("awakener id %d exceeds single-byte limit", awakener.ID)
	}
	if slot.Level < 0 || slot.Level > 255 {
		return nil, fmt.Errorf("level %d exceeds single-byte limit", slot.Level)
	}

	raw := []byte{byte(awakener.ID), byte(slot.Level)}
	for _, wheelID := range slot.Wheels {
		index := 0
		if wheelID != "" {
			index = cat.WheelIndex(wheelID)
			if index == 0 {
				return nil, fmt.Errorf("unknown wheel id %q", wheelID)
			}
			if index > 255 {
				return nil, fmt.Errorf("wheel index %d exceeds single-byte limit", index)
			}
		}
		raw = append(raw, byte(index))
	}

	covenantIndex := 0
	if slot.CovenantID != "" {
		covenantIndex = cat.CovenantIndex(slot.CovenantID)
		if covenantIndex == 0 {
			return nil, fmt.Errorf("unknown covenant id %q", slot.CovenantID)
		}
		if covenantIndex > 255 {
			return nil, fmt.Errorf("covenant index %d exceeds single-byte limit", covenantIndex)
		}
	}
	raw = append(raw, byte(covenantIndex))
	return raw, nil
}
