package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"teamforge/internal/catalog"
	"teamforge/internal/config"
	"teamforge/internal/planner"
	"teamforge/internal/store"
)

func importCmd() *cobra.Command {
	var strategy string
	var replace bool
	var allowDupes bool
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import <code>",
		Short: "Import a share code into the stored roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(args[0], strategy, replace, allowDupes, dryRun)
		},
	}
	cmd.Flags().StringVar(&strategy, "strategy", "", "Conflict resolution: move or skip")
	cmd.Flags().BoolVar(&replace, "replace", false, "Confirm replacing the whole plan on multi-team imports")
	cmd.Flags().BoolVar(&allowDupes, "allow-dupes", false, "Waive duplicate-assignment rules")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Plan the import but do not save")
	return cmd
}

// parseStrategy maps the --strategy flag to a planner strategy. The flag
// bypasses the config validation, so a typo must fail here instead of
// reaching the planner's defensive no-op branch.
func parseStrategy(value string) (planner.Strategy, error) {
	switch value {
	case string(planner.StrategyMove):
		return planner.StrategyMove, nil
	case string(planner.StrategySkip):
		return planner.StrategySkip, nil
	default:
		return "", fmt.Errorf("unknown import strategy %q (use move or skip)", value)
	}
}

func runImport(code, strategy string, replace, allowDupes, dryRun bool) error {
	ctx := context.Background()

	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		return err
	}
	if strategy == "" {
		strategy = cfg.Import.DefaultStrategy
	}
	allowDupes = allowDupes || cfg.Import.AllowDuplicates

	cat, err := catalog.Load()
	if err != nil {
		return err
	}

	decoded, warnings, err := decodeAnyCode(cat, code)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stdout, "warning: %s slot %d: %s\n", w.Section, w.SlotIndex+1, w.Reason)
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

	plan := planner.Prepare(cat, decoded, r.Teams, planner.Options{AllowDuplicates: allowDupes})

	switch plan.Status {
	case planner.StatusError:
		return fmt.Errorf("%s", plan.Message)

	case planner.StatusRequiresDuplicateOverride:
		return fmt.Errorf("%s (re-run with --allow-dupes to import anyway)", plan.Message)

	case planner.StatusRequiresReplace:
		if !replace {
			return fmt.Errorf("%s (re-run with --replace to confirm)", plan.Message)
		}

	case planner.StatusRequiresStrategy:
		if strategy == "" {
			fmt.Fprintf(os.Stdout, "Conflicts (%d):\n", len(plan.Conflicts))
			for _, c := range plan.Conflicts {
				fmt.Fprintf(os.Stdout, "  - %s %q held by team %q\n", c.Kind, c.Value, c.FromTeamName)
			}
			return fmt.Errorf("import conflicts with existing teams (re-run with --strategy move or --strategy skip)")
		}
		chosen, err := parseStrategy(strategy)
		if err != nil {
			return err
		}
		plan = planner.ApplyStrategy(cat, *plan.Incoming, r.Teams, chosen)
		if plan.Status != planner.StatusReady {
			return fmt.Errorf("%s", plan.Message)
		}

	case planner.StatusReady:
		// fall through to save
	}

	if dryRun {
		fmt.Fprintf(os.Stdout, "Dry run: plan would store %d team(s).\n", len(plan.Teams))
		return nil
	}

	next := &store.Roster{Teams: plan.Teams, ActiveTeamID: plan.ActiveTeamID}
	if next.ActiveTeamID == "" {
		next.ActiveTeamID = r.ActiveTeamID
	}
	if err := db.SaveRoster(ctx, next); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Imported %d team(s); plan now has %d.\n", len(decoded.Teams), len(plan.Teams))
	return nil
}
