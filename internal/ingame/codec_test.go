package ingame

import (
	"errors"
	"strings"
	"testing"

	"teamforge/internal/catalog"
	"teamforge/internal/roster"
)

func fixtures(t *testing.T) (*catalog.Catalog, *Dictionaries) {
	t.Helper()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}
	return cat, BuildDictionaries(cat)
}

func TestEncodeTeamCode(t *testing.T) {
	cat, dicts := fixtures(t)

	team := roster.NewTeam("Team 1")
	team.PosseID = "ashen-band"
	team.Slots[0].AwakenerName = "ursula"
	team.Slots[0].Wheels = [2]string{"corona", "undertow"}
	team.Slots[1].AwakenerName = "doll"
	team.Slots[2].AwakenerName = "ivy"
	team.Slots[2].Wheels = [2]string{"yewbrand", "gale"}
	team.Slots[3].AwakenerName = "xenia"
	team.Slots[3].Wheels = [2]string{"vesper", "dawnspire"}

	got := EncodeTeamCode(cat, dicts, team)
	want := "@@UliXxW5aaxY1xVxDaaaaaaaaaaaaaaaaaaaaaaaa3@@"
	if got != want {
		t.Fatalf("EncodeTeamCode =\n%q, want\n%q", got, want)
	}
}

func TestEncodeTokenlessIDsFallBackToUnset(t *testing.T) {
	cat, dicts := fixtures(t)

	team := roster.NewTeam("Team 1")
	team.PosseID = "glass-garden" // no posse token
	team.Slots[0].AwakenerName = "doll"
	team.Slots[0].Wheels = [2]string{"smoulder", ""} // no wheel token

	got := EncodeTeamCode(cat, dicts, team)
	want := "@@l" + strings.Repeat("a", 3+8+24+1) + "@@"
	if got != want {
		t.Fatalf("EncodeTeamCode =\n%q, want\n%q", got, want)
	}
}

func TestDecodeTeamCode(t *testing.T) {
	cat, dicts := fixtures(t)

	result, err := DecodeTeamCode(cat, dicts, "@@laaIaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaX@@")
	if err != nil {
		t.Fatalf("DecodeTeamCode: %v", err)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %+v", result.Warnings)
	}

	team := result.Team
	if team.Slots[0].AwakenerName != "doll" {
		t.Fatalf("slot 1 = %+v", team.Slots[0])
	}
	if !team.Slots[1].IsEmpty() || !team.Slots[2].IsEmpty() {
		t.Fatalf("middle slots should be empty: %+v %+v", team.Slots[1], team.Slots[2])
	}
	if team.Slots[3].AwakenerName != "daffodil" {
		t.Fatalf("slot 4 = %+v", team.Slots[3])
	}
	if team.PosseID != "crimson-veil" {
		t.Fatalf("posse = %q", team.PosseID)
	}
}

func TestRoundTrip(t *testing.T) {
	cat, dicts := fixtures(t)

	team := roster.NewTeam("Raid")
	team.PosseID = "pale-court"
	team.Slots[0].AwakenerName = "ramona: timeworn"
	team.Slots[0].Wheels = [2]string{"thornweave", "mirrorlake"}
	team.Slots[1].AwakenerName = "marigold"

	code := EncodeTeamCode(cat, dicts, team)
	result, err := DecodeTeamCode(cat, dicts, code)
	if err != nil {
		t.Fatalf("DecodeTeamCode: %v", err)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %+v", result.Warnings)
	}

	got := result.Team
	if got.Slots[0].AwakenerName != "ramona: timeworn" {
		t.Fatalf("slot 1 = %+v", got.Slots[0])
	}
	if got.Slots[0].Wheels != [2]string{"thornweave", "mirrorlake"} {
		t.Fatalf("slot 1 wheels = %v", got.Slots[0].Wheels)
	}
	if got.Slots[1].AwakenerName != "marigold" {
		t.Fatalf("slot 2 = %+v", got.Slots[1])
	}
	if got.PosseID != "pale-court" {
		t.Fatalf("posse = %q", got.PosseID)
	}
}

func TestDecodeUnknownAwakenerToken(t *testing.T) {
	cat, dicts := fixtures(t)

	// 'z' is not a token in any dictionary; the cursor advances one
	// character and the rest of the stream still lines up.
	code := "@@zlaI" + strings.Repeat("a", 8+24) + "X@@"
	result, err := DecodeTeamCode(cat, dicts, code)
	if err != nil {
		t.Fatalf("DecodeTeamCode: %v", err)
	}

	if len(result.Warnings) != 1 {
		t.Fatalf("warnings = %+v", result.Warnings)
	}
	w := result.Warnings[0]
	if w.Section != SectionAwakener || w.SlotIndex != 0 || w.Reason != ReasonUnknownToken {
		t.Fatalf("warning = %+v", w)
	}

	team := result.Team
	if team.Slots[0].AwakenerName != "" {
		t.Fatalf("slot 1 should stay unset: %+v", team.Slots[0])
	}
	if team.Slots[1].AwakenerName != "doll" || team.Slots[3].AwakenerName != "daffodil" {
		t.Fatalf("stream desynced after unknown token: %+v", team.Slots)
	}
	if team.PosseID != "crimson-veil" {
		t.Fatalf("posse = %q", team.PosseID)
	}
}

func TestDecodeUnknownWheelToken(t *testing.T) {
	cat, dicts := fixtures(t)

	code := "@@laaa" + "z" + strings.Repeat("a", 7+24) + "3@@"
	result, err := DecodeTeamCode(cat, dicts, code)
	if err != nil {
		t.Fatalf("DecodeTeamCode: %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("warnings = %+v", result.Warnings)
	}
	w := result.Warnings[0]
	if w.Section != SectionWheel || w.SlotIndex != 0 || w.Field != FieldWheelOne || w.Reason != ReasonUnknownToken {
		t.Fatalf("warning = %+v", w)
	}
	if result.Team.PosseID != "ashen-band" {
		t.Fatalf("posse = %q", result.Team.PosseID)
	}
}

func TestDecodeCovenantBlockNoise(t *testing.T) {
	cat, dicts := fixtures(t)

	// Non-filler characters in the covenant block are dropped with one
	// warning per affected slot, never applied.
	code := "@@laaa" + strings.Repeat("a", 8) + "bbbbbb" + strings.Repeat("a", 18) + "3@@"
	result, err := DecodeTeamCode(cat, dicts, code)
	if err != nil {
		t.Fatalf("DecodeTeamCode: %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("warnings = %+v", result.Warnings)
	}
	w := result.Warnings[0]
	if w.Section != SectionCovenant || w.SlotIndex != 0 || w.Reason != ReasonUnsupportedBlock {
		t.Fatalf("warning = %+v", w)
	}
	if result.Team.Slots[0].CovenantID != "" {
		t.Fatalf("covenant value leaked: %+v", result.Team.Slots[0])
	}
}

func TestReencodeNormalizesCovenantNoise(t *testing.T) {
	cat, dicts := fixtures(t)

	noisy := "@@laaa" + strings.Repeat("a", 8) + "bbbbbb" + strings.Repeat("a", 18) + "3@@"
	result, err := DecodeTeamCode(cat, dicts, noisy)
	if err != nil {
		t.Fatalf("DecodeTeamCode: %v", err)
	}

	// Covenant data never survives a round trip: the re-encoded code has
	// the block collapsed back to filler.
	clean := EncodeTeamCode(cat, dicts, result.Team)
	want := "@@laaa" + strings.Repeat("a", 8+24) + "3@@"
	if clean != want {
		t.Fatalf("re-encoded code =\n%q, want\n%q", clean, want)
	}
}

func TestDecodeUnknownPosseToken(t *testing.T) {
	cat, dicts := fixtures(t)

	code := "@@laaa" + strings.Repeat("a", 8+24) + "z@@"
	result, err := DecodeTeamCode(cat, dicts, code)
	if err != nil {
		t.Fatalf("DecodeTeamCode: %v", err)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Section != SectionPosse {
		t.Fatalf("warnings = %+v", result.Warnings)
	}
	if result.Team.PosseID != "" {
		t.Fatalf("posse = %q", result.Team.PosseID)
	}
}

func TestDecodeStructuralErrors(t *testing.T) {
	cat, dicts := fixtures(t)

	t.Run("malformed wrapper", func(t *testing.T) {
		for _, code := range []string{"", "@@", "laaI", "@@laaI", "laaI@@"} {
			if _, err := DecodeTeamCode(cat, dicts, code); !errors.Is(err, ErrMalformedWrapper) {
				t.Fatalf("DecodeTeamCode(%q) err = %v", code, err)
			}
		}
	})

	t.Run("empty payload", func(t *testing.T) {
		if _, err := DecodeTeamCode(cat, dicts, "@@@@"); !errors.Is(err, ErrEmptyPayload) {
			t.Fatalf("err should be ErrEmptyPayload")
		}
	})

	t.Run("missing awakener tokens", func(t *testing.T) {
		_, err := DecodeTeamCode(cat, dicts, "@@Ul@@")
		if !errors.Is(err, ErrTruncated) || !strings.Contains(err.Error(), "awakener") {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("missing wheel tokens", func(t *testing.T) {
		_, err := DecodeTeamCode(cat, dicts, "@@aaaa@@")
		if !errors.Is(err, ErrTruncated) || !strings.Contains(err.Error(), "wheel") {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("missing posse token", func(t *testing.T) {
		_, err := DecodeTeamCode(cat, dicts, "@@"+strings.Repeat("a", 12)+"@@")
		if !errors.Is(err, ErrTruncated) || !strings.Contains(err.Error(), "posse") {
			t.Fatalf("err = %v", err)
		}
	})
}

func TestDecodeLongestPrefixWins(t *testing.T) {
	cat, dicts := fixtures(t)

	// "Rt" must match as one token (ramona: timeworn), not "R" + stray t.
	code := "@@Rtaaa" + strings.Repeat("a", 8+24) + "a@@"
	result, err := DecodeTeamCode(cat, dicts, code)
	if err != nil {
		t.Fatalf("DecodeTeamCode: %v", err)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("warnings = %+v", result.Warnings)
	}
	if result.Team.Slots[0].AwakenerName != "ramona: timeworn" {
		t.Fatalf("slot 1 = %+v", result.Team.Slots[0])
	}
}
