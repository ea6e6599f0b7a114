package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"teamforge/internal/config"
	"teamforge/internal/roster"
)

func teamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "teams",
		Short: "List the stored teams",
		Args:  cobra.NoArgs,
		RunE:  runTeams,
	}
}

func runTeams(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		return err
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	r, err := db.LoadRoster(ctx)
	if err != nil {
		return err
	}

	if len(r.Teams) == 0 {
		fmt.Fprintln(os.Stdout, "No teams stored.")
		return nil
	}

	for _, team := range r.Teams {
		marker := " "
		if team.ID == r.ActiveTeamID {
			marker = "*"
		}
		fmt.Fprintf(os.Stdout, "%s %s%s\n", marker, team.Name, posseSuffix(team))
		for _, slot := range team.Slots {
			fmt.Fprintf(os.Stdout, "    %s: %s\n", slot.SlotID, describeSlot(slot))
		}
	}
	return nil
}

func posseSuffix(team roster.Team) string {
	if team.PosseID == "" {
		return ""
	}
	return fmt.Sprintf(" [posse: %s]", team.PosseID)
}

func describeSlot(slot roster.TeamSlot) string {
	if slot.IsEmpty() {
		return "-"
	}
	parts := []string{slot.AwakenerName}
	if slot.Level > 0 {
		parts = append(parts, fmt.Sprintf("lv%d", slot.Level))
	}
	for _, wheel := range slot.Wheels {
		if wheel != "" {
			parts = append(parts, wheel)
		}
	}
	if slot.CovenantID != "" {
		parts = append(parts, slot.CovenantID)
	}
	return strings.Join(parts, ", ")
}
