package codec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"teamforge/internal/catalog"
	"teamforge/internal/roster"
)

var (
	// ErrUnsupportedPrefix marks a code whose version tag is unknown.
	ErrUnsupportedPrefix = errors.New("unsupported import code prefix")
	// ErrInvalidActiveTeamIndex marks a multi-team header whose active
	// index points past the encoded team count.
	ErrInvalidActiveTeamIndex = errors.New("invalid active team index")
)

// DecodeImportCode decodes either a "t1." single-team code or an "mt1."
// multi-team code. Any structural or referential problem fails the whole
// decode: this codec never returns partial results.
func DecodeImportCode(cat *catalog.Catalog, code string) (*roster.DecodedImport, error) {
	switch {
	case strings.HasPrefix(code, SinglePrefix):
		return decodeSingle(cat, strings.TrimPrefix(code, SinglePrefix))
	case strings.HasPrefix(code, MultiPrefix):
		return decodeMulti(cat, strings.TrimPrefix(code, MultiPrefix))
	default:
		return nil, ErrUnsupportedPrefix
	}
}

func decodeSingle(cat *catalog.Catalog, payload string) (*roster.DecodedImport, error) {
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("corrupted team code: %w", err)
	}
	if len(raw) > teamBytes {
		return nil, errors.New("corrupted team code: trailing data")
	}
	if len(raw) < teamBytes {
		return nil, fmt.Errorf("corrupted team code: expected %d bytes, got %d", teamBytes, len(raw))
	}

	team, err := decodeTeam(cat, raw, 1)
	if err != nil {
		return nil, err
	}
	return &roster.DecodedImport{Kind: roster.ImportSingle, Teams: []roster.Team{team}}, nil
}

func decodeMulti(cat *catalog.Catalog, payload string) (*roster.DecodedImport, error) {
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("corrupted multi-team code: %w", err)
	}
	if len(raw) < 2 {
		return nil, errors.New("corrupted multi-team code: truncated header")
	}

	activeIndex := int(raw[0])
	count := int(raw[1])
	body := raw[2:]

	if len(body) > count*teamBytes {
		return nil, errors.New("corrupted multi-team code: trailing data")
	}
	if len(body) < count*teamBytes {
		return nil, fmt.Errorf("corrupted multi-team code: wrong length for %d teams", count)
	}
	if activeIndex >= count {
		return nil, ErrInvalidActiveTeamIndex
	}

	teams := make([]roster.Team, 0, count)
	for i := 0; i < count; i++ {
		team, err := decodeTeam(cat, body[i*teamBytes:(i+1)*teamBytes], i+1)
		if err != nil {
			return nil, fmt.Errorf("team %d: %w", i+1, err)
		}
		teams = append(teams, team)
	}

	return &roster.DecodedImport{
		Kind:            roster.ImportMulti,
		Teams:           teams,
		ActiveTeamIndex: activeIndex,
	}, nil
}

// decodeTeam unpacks one 21-byte team record. Decoded teams get fresh ids
// and a synthesized name: ids and names are not part of the wire format.
func decodeTeam(cat *catalog.Catalog, raw []byte, position int) (roster.Team, error) {
	team := roster.NewTeam(roster.DefaultName(position))

	if posseIndex := int(raw[0]); posseIndex != 0 {
		posse, ok := cat.PosseAt(posseIndex)
		if !ok {
			return roster.Team{}, fmt.Errorf("unknown posse index %d", posseIndex)
		}
		team.PosseID = posse.ID
	}

	for i := 0; i < roster.SlotCount; i++ {
		record := raw[1+i*slotBytes : 1+(i+1)*slotBytes]
		slot, err := decodeSlot(cat, record, i)
		if err != nil {
			return roster.Team{}, fmt.Errorf("slot %d: %w", i+1, err)
		}
		team.Slots[i] = slot
	}

	// A slot byte sequence with no awakener but stray wheel or covenant
	// bytes was still validated above; the residue itself is dropped.
	team.Normalize()
	return team, nil
}

func decodeSlot(cat *catalog.Catalog, record []byte, index int) (roster.TeamSlot, error) {
	slot := roster.TeamSlot{SlotID: roster.SlotID(index)}

	if awakenerID := int(record[0]); awakenerID != 0 {
		awakener, ok := cat.AwakenerByID(awakenerID)
		if !ok {
			return roster.TeamSlot{}, fmt.Errorf("unknown awakener id %d", awakenerID)
		}
		slot.AwakenerName = awakener.Name
		slot.Faction = awakener.Faction
	}

	slot.Level = int(record[1])

	for w := 0; w < roster.WheelCount; w++ {
		if wheelIndex := int(record[2+w]); wheelIndex != 0 {
			wheel, ok := cat.WheelAt(wheelIndex)
			if !ok {
				return roster.TeamSlot{}, fmt.Errorf("unknown wheel index %d", wheelIndex)
			}
			slot.Wheels[w] = wheel.ID
		}
	}

	if covenantIndex := int(record[4]); covenantIndex != 0 {
		covenant, ok := cat.CovenantAt(covenantIndex)
		if !ok {
			return roster.TeamSlot{}, fmt.Errorf("unknown covenant index %d", covenantIndex)
		}
		slot.CovenantID = covenant.ID
	}

	return slot, nil
}
