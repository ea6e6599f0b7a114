package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"teamforge/internal/catalog"
	"teamforge/internal/codec"
	"teamforge/internal/config"
	"teamforge/internal/ingame"
)

func exportCmd() *cobra.Command {
	var all bool
	var asIngame bool
	cmd := &cobra.Command{
		Use:   "export [team]",
		Short: "Encode stored teams into a shareable code",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			teamName := ""
			if len(args) == 1 {
				teamName = args[0]
			}
			return runExport(teamName, all, asIngame)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Export every team as one multi-team code")
	cmd.Flags().BoolVar(&asIngame, "ingame", false, "Emit the game client's own code format")
	return cmd
}

func runExport(teamName string, all, asIngame bool) error {
	ctx := context.Background()

	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		return err
	}

	cat, err := catalog.Load()
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

	if all {
		if asIngame {
			return fmt.Errorf("the in-game format holds a single team; --all and --ingame are incompatible")
		}
		code, err := codec.EncodeMultiTeam(cat, r.Teams, r.ActiveTeamID)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, code)
		return nil
	}

	if teamName == "" {
		return fmt.Errorf("a team name is required unless --all is set")
	}
	team, ok := r.TeamByName(teamName)
	if !ok {
		return fmt.Errorf("no stored team named %q", teamName)
	}

	if asIngame {
		dicts := ingame.BuildDictionaries(cat)
		fmt.Fprintln(os.Stdout, ingame.EncodeTeamCode(cat, dicts, team))
		return nil
	}

	code, err := codec.EncodeSingleTeam(cat, team)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, code)
	return nil
}
