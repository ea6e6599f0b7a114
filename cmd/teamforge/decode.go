package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"teamforge/internal/catalog"
	"teamforge/internal/codec"
	"teamforge/internal/ingame"
	"teamforge/internal/roster"
)

func decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <code>",
		Short: "Decode a share code without touching the stored roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(args[0])
		},
	}
}

func runDecode(code string) error {
	cat, err := catalog.Load()
	if err != nil {
		return err
	}

	decoded, warnings, err := decodeAnyCode(cat, code)
	if err != nil {
		return err
	}

	for i, team := range decoded.Teams {
		marker := " "
		if decoded.Kind == roster.ImportMulti && i == decoded.ActiveTeamIndex {
			marker = "*"
		}
		fmt.Fprintf(os.Stdout, "%s %s%s\n", marker, team.Name, posseSuffix(team))
		for _, slot := range team.Slots {
			fmt.Fprintf(os.Stdout, "    %s: %s\n", slot.SlotID, describeSlot(slot))
		}
	}

	if len(warnings) > 0 {
		fmt.Fprintf(os.Stdout, "\nWarnings (%d):\n", len(warnings))
		for _, w := range warnings {
			location := w.Section
			if w.Section != ingame.SectionPosse {
				location = fmt.Sprintf("%s slot %d", w.Section, w.SlotIndex+1)
			}
			if w.Field != "" {
				location = fmt.Sprintf("%s %s", location, w.Field)
			}
			fmt.Fprintf(os.Stdout, "  - %s: %s\n", location, w.Reason)
		}
	}
	return nil
}

// decodeAnyCode routes a raw code string to the right codec: "@@" marks
// the in-game format, everything else goes through the native decoder.
func decodeAnyCode(cat *catalog.Catalog, code string) (*roster.DecodedImport, []ingame.Warning, error) {
	if strings.HasPrefix(code, "@@") {
		dicts := ingame.BuildDictionaries(cat)
		result, err := ingame.DecodeTeamCode(cat, dicts, code)
		if err != nil {
			return nil, nil, err
		}
		decoded := &roster.DecodedImport{
			Kind:  roster.ImportSingle,
			Teams: []roster.Team{result.Team},
		}
		return decoded, result.Warnings, nil
	}

	decoded, err := codec.DecodeImportCode(cat, code)
	if err != nil {
		return nil, nil, err
	}
	return decoded, nil, nil
}
