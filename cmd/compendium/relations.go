package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/castletown/compendium/internal/application/handlers"
	"github.com/castletown/compendium/internal/domain/entities"
	"github.com/castletown/compendium/internal/domain/relgraph"
)

type relationsFlags struct {
	format string
}

func newRelationsCmd() *cobra.Command {
	var flags relationsFlags

	cmd := &cobra.Command{
		Use:   "relations <character>",
		Short: "Show a character's relationship web",
		Long: `Shows the merged relationship view for a character: one entry per
counterpart, with the character's outgoing record and the counterpart's
incoming record side by side.

Examples:
  compendium relations Malon
  compendium relations "Prince Sidon" --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelations(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "tree", "Output format: tree, list, json")

	return cmd
}

func runRelations(cmd *cobra.Command, args []string, flags relationsFlags) error {
	ctx := cmd.Context()
	name := args[0]

	validFormats := map[string]bool{"tree": true, "list": true, "json": true}
	if !validFormats[flags.format] {
		return fmt.Errorf("invalid format: %s (valid: tree, list, json)", flags.format)
	}

	return withStoreDeps(func(d *Deps) error {
		result, err := d.Relationships.HandlePairs(ctx, name)
		if err != nil {
			return fmt.Errorf("aggregating relationships: %w", err)
		}

		if len(result.Pairs) == 0 {
			fmt.Printf("No relationships found for character: %s\n", name)
			return nil
		}

		return printRelations(name, result, flags.format)
	})
}

func printRelations(name string, result *handlers.PairsResult, format string) error {
	switch format {
	case "json":
		return printRelationsJSON(result)
	case "list":
		return printRelationsList(name, result)
	default:
		return printRelationsTree(name, result)
	}
}

func printRelationsJSON(result *handlers.PairsResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func printRelationsList(name string, result *handlers.PairsResult) error {
	fmt.Printf("Relationships for %s:\n", name)
	fmt.Println(strings.Repeat("-", 60))

	for _, pair := range result.Pairs {
		counterpart := counterpartName(pair)

		if pair.Outgoing != nil {
			fmt.Printf("%s -[%s]-> %s\n", name, joinTypes(pair.Outgoing.Types), counterpart)
		}
		if pair.Incoming != nil {
			fmt.Printf("%s <-[%s]- %s\n", name, joinTypes(pair.Incoming.Types), counterpart)
		}
	}
	return nil
}

func printRelationsTree(name string, result *handlers.PairsResult) error {
	fmt.Printf("%s\n", name)

	for i, pair := range result.Pairs {
		isLast := i == len(result.Pairs)-1

		prefix := "+-"
		if isLast {
			prefix = "\\-"
		}

		counterpart := counterpartName(pair)
		fmt.Printf("%s %s\n", prefix, counterpart)

		indent := "|  "
		if isLast {
			indent = "   "
		}

		if pair.Outgoing != nil {
			line := fmt.Sprintf("-> %s", joinTypes(pair.Outgoing.Types))
			if pair.Outgoing.Note != "" {
				line += fmt.Sprintf(" (%s)", pair.Outgoing.Note)
			}
			fmt.Printf("%s%s\n", indent, line)
		}
		if pair.Incoming != nil {
			line := fmt.Sprintf("<- %s", joinTypes(pair.Incoming.Types))
			if pair.Incoming.Note != "" {
				line += fmt.Sprintf(" (%s)", pair.Incoming.Note)
			}
			fmt.Printf("%s%s\n", indent, line)
		}
	}

	return nil
}

func counterpartName(pair relgraph.PairView) string {
	if pair.Counterpart != nil {
		return pair.Counterpart.Name
	}
	return pair.CounterpartID
}

func joinTypes(types []entities.RelType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}
