package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"teamforge/internal/catalog"
)

func catalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "catalog <awakeners|wheels|posses|covenants>",
		Short:     "List catalog entries for one category",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"awakeners", "wheels", "posses", "covenants"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalog(args[0])
		},
	}
}

func runCatalog(category string) error {
	cat, err := catalog.Load()
	if err != nil {
		return err
	}

	switch category {
	case "awakeners":
		for _, a := range cat.Awakeners {
			fmt.Fprintf(os.Stdout, "%3d  %-20s %s\n", a.ID, a.Name, a.Faction)
		}
	case "wheels":
		for _, w := range cat.Wheels {
			fmt.Fprintf(os.Stdout, "%-16s %s\n", w.ID, w.Name)
		}
	case "posses":
		for _, p := range cat.Posses {
			fmt.Fprintf(os.Stdout, "%-16s %s\n", p.ID, p.Name)
		}
	case "covenants":
		for _, c := range cat.Covenants {
			fmt.Fprintf(os.Stdout, "%-16s %s\n", c.ID, c.Name)
		}
	default:
		return fmt.Errorf("unknown catalog category %q", category)
	}
	return nil
}
