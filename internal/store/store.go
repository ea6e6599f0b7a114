// Package store defines roster persistence. Backends are interchangeable:
// sqlite for local single-user use, postgres for shared setups.
package store

import (
	"context"

	"teamforge/internal/roster"
)

// Roster is the durable plan state: every team plus which one is active.
type Roster struct {
	Teams        []roster.Team
	ActiveTeamID string
}

type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	LoadRoster(ctx context.Context) (*Roster, error)
	// SaveRoster replaces the stored roster wholesale in one transaction.
	// The roster model is small enough that replace-all keeps team order,
	// renames, and strategy edits trivially consistent.
	SaveRoster(ctx context.Context, r *Roster) error
}

// TeamByName finds a stored team by exact name.
func (r *Roster) TeamByName(name string) (roster.Team, bool) {
	for _, t := range r.Teams {
		if t.Name == name {
			return t, true
		}
	}
	return roster.Team{}, false
}
