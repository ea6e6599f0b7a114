// Package ingame implements the game client's own team-code format: a
// token stream wrapped in "@@...@@", parsed against a per-category token
// dictionary rather than fixed-width bytes.
package ingame

import (
	"sort"
	"strconv"

	"teamforge/internal/catalog"
)

type IssueKind string

const (
	// IssueDuplicateToken: two ids claim the same token. The token is
	// dropped from reverse lookup but both ids keep their forward entry.
	IssueDuplicateToken IssueKind = "duplicate_token"
	// IssueMissingToken: a catalog id has no token table entry; it
	// encodes as the unset placeholder.
	IssueMissingToken IssueKind = "missing_token_for_id"
	// IssueUnknownSourceID: the token table references an id the current
	// catalog does not know; the entry is ignored.
	IssueUnknownSourceID IssueKind = "unknown_source_id"
)

type Issue struct {
	Kind  IssueKind
	ID    string
	Token string
}

// Dictionary is a bidirectional id/token map for one category.
//
// The two directions are deliberately asymmetric: encoding must still
// produce some token for an id whose token turned out ambiguous (best
// effort, its own entry), but decoding an ambiguous token must not guess
// which id it meant.
type Dictionary struct {
	TokenByID map[string]string
	IDByToken map[string]string
	Issues    []Issue

	// matchTokens holds the unambiguous tokens sorted longest-first,
	// then lexicographically, so prefix matching is deterministic.
	matchTokens []string
}

// BuildDictionary builds a dictionary from the full set of valid catalog
// ids and the raw token table entries for the category.
func BuildDictionary(ids []string, entries []catalog.TokenEntry) *Dictionary {
	d := &Dictionary{
		TokenByID: make(map[string]string),
		IDByToken: make(map[string]string),
	}

	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}

	claims := make(map[string][]string)
	for _, entry := range entries {
		if !known[entry.ID] {
			d.Issues = append(d.Issues, Issue{Kind: IssueUnknownSourceID, ID: entry.ID, Token: entry.Token})
			continue
		}
		d.TokenByID[entry.ID] = entry.Token
		claims[entry.Token] = append(claims[entry.Token], entry.ID)
	}

	tokens := make([]string, 0, len(claims))
	for token := range claims {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	for _, token := range tokens {
		if len(claims[token]) > 1 {
			d.Issues = append(d.Issues, Issue{Kind: IssueDuplicateToken, Token: token})
			continue
		}
		d.IDByToken[token] = claims[token][0]
		d.matchTokens = append(d.matchTokens, token)
	}

	for _, id := range ids {
		if _, ok := d.TokenByID[id]; !ok {
			d.Issues = append(d.Issues, Issue{Kind: IssueMissingToken, ID: id})
		}
	}

	sort.Slice(d.matchTokens, func(i, j int) bool {
		a, b := d.matchTokens[i], d.matchTokens[j]
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})
	return d
}

// MatchPrefix finds the longest dictionary token that prefixes s.
func (d *Dictionary) MatchPrefix(s string) (id, token string, ok bool) {
	for _, candidate := range d.matchTokens {
		if len(candidate) <= len(s) && s[:len(candidate)] == candidate {
			return d.IDByToken[candidate], candidate, true
		}
	}
	return "", "", false
}

// Dictionaries bundles the four per-category dictionaries the codec needs.
type Dictionaries struct {
	Awakeners *Dictionary
	Wheels    *Dictionary
	Covenants *Dictionary
	Posses    *Dictionary
}

// BuildDictionaries derives all four dictionaries from the live catalog
// and its static token table. The covenant source table is currently
// empty: every covenant slot in the in-game format is an unsupported
// placeholder.
func BuildDictionaries(cat *catalog.Catalog) *Dictionaries {
	tokens := cat.Tokens()

	awakenerIDs := make([]string, 0, len(cat.Awakeners))
	for _, a := range cat.Awakeners {
		awakenerIDs = append(awakenerIDs, strconv.Itoa(a.ID))
	}
	wheelIDs := make([]string, 0, len(cat.Wheels))
	for _, w := range cat.Wheels {
		wheelIDs = append(wheelIDs, w.ID)
	}
	covenantIDs := make([]string, 0, len(cat.Covenants))
	for _, c := range cat.Covenants {
		covenantIDs = append(covenantIDs, c.ID)
	}
	posseIDs := make([]string, 0, len(cat.Posses))
	for _, p := range cat.Posses {
		posseIDs = append(posseIDs, p.ID)
	}

	return &Dictionaries{
		Awakeners: BuildDictionary(awakenerIDs, tokens.Awakeners),
		Wheels:    BuildDictionary(wheelIDs, tokens.Wheels),
		Covenants: BuildDictionary(covenantIDs, tokens.Covenants),
		Posses:    BuildDictionary(posseIDs, tokens.Posses),
	}
}
