package ingame

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"teamforge/internal/catalog"
	"teamforge/internal/roster"
)

// Wire layout inside the "@@" wrapper: 4 awakener tokens, 8 wheel tokens
// (2 per slot), a covenant filler block (6 characters per slot, never
// parsed into values), and a final posse token. There are no delimiters;
// the reserved character 'a' means "unset" and is always 1 character.
const (
	wrapper         = "@@"
	unsetToken      = "a"
	covenantPerSlot = 6
)

var (
	ErrMalformedWrapper = errors.New("malformed in-game code wrapper")
	ErrEmptyPayload     = errors.New("empty in-game code payload")
	// ErrTruncated marks a payload too short to contain the mandatory
	// awakener, wheel, and posse sections. Unknown individual tokens are
	// never an error; they surface as warnings instead.
	ErrTruncated = errors.New("truncated in-game code")
)

const (
	SectionAwakener = "awakener"
	SectionWheel    = "wheel"
	SectionCovenant = "covenant"
	SectionPosse    = "posse"

	ReasonUnknownToken     = "unknown_token"
	ReasonUnsupportedBlock = "unsupported_wip_block"

	FieldWheelOne = "wheelOne"
	FieldWheelTwo = "wheelTwo"
)

// Warning is a non-fatal decode diagnostic: the decode still produced a
// usable team, but this span of the code was not understood.
type Warning struct {
	Section   string
	SlotIndex int
	Field     string
	Reason    string
}

// DecodeResult carries the best-effort team plus everything the decoder
// could not apply. Callers need the partial team even when tokens are
// unrecognized, so warnings ride along instead of failing the decode.
type DecodeResult struct {
	Team     roster.Team
	Warnings []Warning
}

// EncodeTeamCode renders a team in the game client's own format. Ids with
// no dictionary token fall back to the unset placeholder silently: encode
// side gaps are invisible by design, only decode-side gaps are surfaced.
func EncodeTeamCode(cat *catalog.Catalog, dicts *Dictionaries, team roster.Team) string {
	var b strings.Builder
	b.WriteString(wrapper)

	for _, slot := range team.Slots {
		b.WriteString(awakenerToken(cat, dicts, slot.AwakenerName))
	}
	for _, slot := range team.Slots {
		if slot.IsEmpty() {
			b.WriteString(unsetToken)
			b.WriteString(unsetToken)
			continue
		}
		for _, wheelID := range slot.Wheels {
			b.WriteString(lookupToken(dicts.Wheels, wheelID))
		}
	}
	// Covenant support does not exist in this format yet; the block is
	// always full-width filler.
	b.WriteString(strings.Repeat(unsetToken, roster.SlotCount*covenantPerSlot))
	b.WriteString(lookupToken(dicts.Posses, team.PosseID))

	b.WriteString(wrapper)
	return b.String()
}

func awakenerToken(cat *catalog.Catalog, dicts *Dictionaries, name string) string {
	if name == "" {
		return unsetToken
	}
	awakener, ok := cat.AwakenerByName(name)
	if !ok {
		return unsetToken
	}
	return lookupToken(dicts.Awakeners, strconv.Itoa(awakener.ID))
}

func lookupToken(d *Dictionary, id string) string {
	if id == "" {
		return unsetToken
	}
	if token, ok := d.TokenByID[id]; ok {
		return token
	}
	return unsetToken
}

// DecodeTeamCode parses a game-client team code. Unknown tokens become
// warnings and unset fields; only a structurally truncated stream fails.
func DecodeTeamCode(cat *catalog.Catalog, dicts *Dictionaries, code string) (*DecodeResult, error) {
	if len(code) < 2*len(wrapper) || !strings.HasPrefix(code, wrapper) || !strings.HasSuffix(code, wrapper) {
		return nil, ErrMalformedWrapper
	}
	payload := code[len(wrapper) : len(code)-len(wrapper)]
	if payload == "" {
		return nil, ErrEmptyPayload
	}

	result := &DecodeResult{Team: roster.NewTeam(roster.DefaultName(1))}
	cursor := 0

	for i := 0; i < roster.SlotCount; i++ {
		if cursor >= len(payload) {
			return nil, fmt.Errorf("%w: missing awakener tokens", ErrTruncated)
		}
		if payload[cursor:cursor+1] == unsetToken {
			cursor++
			continue
		}
		id, token, ok := dicts.Awakeners.MatchPrefix(payload[cursor:])
		if !ok {
			result.Warnings = append(result.Warnings, Warning{
				Section: SectionAwakener, SlotIndex: i, Reason: ReasonUnknownToken,
			})
			cursor++
			continue
		}
		cursor += len(token)
		numericID, err := strconv.Atoi(id)
		if err != nil {
			// Dictionary ids for awakeners are numeric by construction.
			result.Warnings = append(result.Warnings, Warning{
				Section: SectionAwakener, SlotIndex: i, Reason: ReasonUnknownToken,
			})
			continue
		}
		awakener, ok := cat.AwakenerByID(numericID)
		if !ok {
			result.Warnings = append(result.Warnings, Warning{
				Section: SectionAwakener, SlotIndex: i, Reason: ReasonUnknownToken,
			})
			continue
		}
		result.Team.Slots[i].AwakenerName = awakener.Name
		result.Team.Slots[i].Faction = awakener.Faction
	}

	for w := 0; w < roster.SlotCount*roster.WheelCount; w++ {
		slotIndex := w / roster.WheelCount
		field := FieldWheelOne
		if w%roster.WheelCount == 1 {
			field = FieldWheelTwo
		}
		if cursor >= len(payload) {
			return nil, fmt.Errorf("%w: missing wheel tokens", ErrTruncated)
		}
		if payload[cursor:cursor+1] == unsetToken {
			cursor++
			continue
		}
		id, token, ok := dicts.Wheels.MatchPrefix(payload[cursor:])
		if !ok {
			result.Warnings = append(result.Warnings, Warning{
				Section: SectionWheel, SlotIndex: slotIndex, Field: field, Reason: ReasonUnknownToken,
			})
			cursor++
			continue
		}
		cursor += len(token)
		result.Team.Slots[slotIndex].Wheels[w%roster.WheelCount] = id
	}

	remaining := payload[cursor:]
	if len(remaining) < 1 {
		return nil, fmt.Errorf("%w: missing posse token", ErrTruncated)
	}
	covenantBlock := remaining[:len(remaining)-1]
	posseToken := remaining[len(remaining)-1:]

	// The covenant block is a work-in-progress area of the client format.
	// Values are never applied; anything but filler gets one warning per
	// slot so callers know data was dropped.
	for i := 0; i < roster.SlotCount; i++ {
		start := i * covenantPerSlot
		if start >= len(covenantBlock) {
			break
		}
		end := min(start+covenantPerSlot, len(covenantBlock))
		if strings.Trim(covenantBlock[start:end], unsetToken) != "" {
			result.Warnings = append(result.Warnings, Warning{
				Section: SectionCovenant, SlotIndex: i, Reason: ReasonUnsupportedBlock,
			})
		}
	}

	if posseToken != unsetToken {
		if id, ok := dicts.Posses.IDByToken[posseToken]; ok {
			result.Team.PosseID = id
		} else {
			result.Warnings = append(result.Warnings, Warning{
				Section: SectionPosse, Reason: ReasonUnknownToken,
			})
		}
	}

	// A slot may have decoded wheels under an unknown awakener token;
	// the empty-slot invariant still wins.
	result.Team.Normalize()
	return result, nil
}
