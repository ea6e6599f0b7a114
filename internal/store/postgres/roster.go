package postgres

import (
	"context"
	"fmt"

	"teamforge/internal/roster"
	"teamforge/internal/store"
)

func (c *Client) LoadRoster(ctx context.Context) (*store.Roster, error) {
	rows, err := c.pool.Query(ctx, `
	SELECT id, name, posse_id, active
	FROM teams
	ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}
	defer rows.Close()

	r := &store.Roster{}
	for rows.Next() {
		var team roster.Team
		var active bool
		if err := rows.Scan(&team.ID, &team.Name, &team.PosseID, &active); err != nil {
			return nil, fmt.Errorf("scanning team: %w", err)
		}
		for i := range team.Slots {
			team.Slots[i].SlotID = roster.SlotID(i)
		}
		if active {
			r.ActiveTeamID = team.ID
		}
		r.Teams = append(r.Teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating teams: %w", err)
	}

	byID := make(map[string]*roster.Team, len(r.Teams))
	for i := range r.Teams {
		byID[r.Teams[i].ID] = &r.Teams[i]
	}

	slotRows, err := c.pool.Query(ctx, `
	SELECT team_id, slot_index, awakener_name, faction, level, wheel_one, wheel_two, covenant_id
	FROM team_slots
	ORDER BY team_id, slot_index
	`)
	if err != nil {
		return nil, fmt.Errorf("querying team slots: %w", err)
	}
	defer slotRows.Close()

	for slotRows.Next() {
		var teamID string
		var index int
		var slot roster.TeamSlot
		if err := slotRows.Scan(&teamID, &index, &slot.AwakenerName, &slot.Faction, &slot.Level, &slot.Wheels[0], &slot.Wheels[1], &slot.CovenantID); err != nil {
			return nil, fmt.Errorf("scanning team slot: %w", err)
		}
		team, ok := byID[teamID]
		if !ok || index < 0 || index >= roster.SlotCount {
			continue
		}
		slot.SlotID = roster.SlotID(index)
		team.Slots[index] = slot
	}
	if err := slotRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team slots: %w", err)
	}

	return r, nil
}

func (c *Client) SaveRoster(ctx context.Context, r *store.Roster) error {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM team_slots`); err != nil {
		return fmt.Errorf("clearing team slots: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM teams`); err != nil {
		return fmt.Errorf("clearing teams: %w", err)
	}

	for position, team := range r.Teams {
		if _, err := tx.Exec(ctx, `
		INSERT INTO teams (id, name, posse_id, position, active)
		VALUES ($1, $2, $3, $4, $5)
		`, team.ID, team.Name, team.PosseID, position, team.ID == r.ActiveTeamID); err != nil {
			return fmt.Errorf("inserting team %q: %w", team.Name, err)
		}

		for index, slot := range team.Slots {
			if _, err := tx.Exec(ctx, `
			INSERT INTO team_slots (team_id, slot_index, awakener_name, faction, level, wheel_one, wheel_two, covenant_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			`, team.ID, index, slot.AwakenerName, slot.Faction, slot.Level, slot.Wheels[0], slot.Wheels[1], slot.CovenantID); err != nil {
				return fmt.Errorf("inserting slot %d of team %q: %w", index+1, team.Name, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing roster: %w", err)
	}
	return nil
}
