package sqlite

import (
	"context"
	"fmt"

	"teamforge/internal/roster"
	"teamforge/internal/store"
)

func (c *Client) LoadRoster(ctx context.Context) (*store.Roster, error) {
	rows, err := c.db.QueryContext(ctx, `
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
		var active int
		if err := rows.Scan(&team.ID, &team.Name, &team.PosseID, &active); err != nil {
			return nil, fmt.Errorf("scanning team: %w", err)
		}
		for i := range team.Slots {
			team.Slots[i].SlotID = roster.SlotID(i)
		}
		if active == 1 {
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

	slotRows, err := c.db.QueryContext(ctx, `
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
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM team_slots`); err != nil {
		return fmt.Errorf("clearing team slots: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM teams`); err != nil {
		return fmt.Errorf("clearing teams: %w", err)
	}

	for position, team := range r.Teams {
		active := 0
		if team.ID == r.ActiveTeamID {
			active = 1
		}
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO teams (id, name, posse_id, position, active)
		VALUES (?, ?, ?, ?, ?)
		`, team.ID, team.Name, team.PosseID, position, active); err != nil {
			return fmt.Errorf("inserting team %q: %w", team.Name, err)
		}

		for index, slot := range team.Slots {
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO team_slots (team_id, slot_index, awakener_name, faction, level, wheel_one, wheel_two, covenant_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, team.ID, index, slot.AwakenerName, slot.Faction, slot.Level, slot.Wheels[0], slot.Wheels[1], slot.CovenantID); err != nil {
				return fmt.Errorf("inserting slot %d of team %q: %w", index+1, team.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing roster: %w", err)
	}
	return nil
}
