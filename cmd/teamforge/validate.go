package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"teamforge/internal/catalog"
	"teamforge/internal/config"
	"teamforge/internal/rules"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the stored roster against the team rules",
		Args:  cobra.NoArgs,
		RunE:  runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
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

	violations := rules.Check(cat, r.Teams)
	if len(violations) == 0 {
		fmt.Fprintln(os.Stdout, "No issues found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "Violations (%d):\n", len(violations))
	for _, v := range violations {
		location := v.TeamName
		if location == "" {
			location = "plan"
		}
		fmt.Fprintf(os.Stdout, "  - %s: %s (%s)\n", location, v.Message, v.Code)
	}
	return fmt.Errorf("validation found violations")
}
