package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	var counts bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show community dashboard aggregates",
		Long:  "Shows roster size, relationship totals, and breakdowns by race, village, and relationship type.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if counts {
				return runStatsCounts(cmd)
			}
			return runStatsOverview(cmd)
		},
	}

	cmd.Flags().BoolVar(&counts, "counts", false, "Show per-character reference counts instead")

	return cmd
}

func runStatsOverview(cmd *cobra.Command) error {
	ctx := cmd.Context()

	return withStoreDeps(func(d *Deps) error {
		stats, err := d.Stats.HandleOverview(ctx)
		if err != nil {
			return fmt.Errorf("computing stats: %w", err)
		}

		fmt.Printf("Characters:    %d\n", stats.Characters)
		fmt.Printf("Relationships: %d\n", stats.Relationships)
		fmt.Printf("Submissions:   %d\n", stats.Submissions)

		printBreakdown("By race", stats.CharactersByRace)
		printBreakdown("By village", stats.CharactersByVillage)
		printBreakdown("By relationship type", stats.RelationshipsByType)

		return nil
	})
}

func runStatsCounts(cmd *cobra.Command) error {
	ctx := cmd.Context()

	return withStoreDeps(func(d *Deps) error {
		counts, err := d.Relationships.HandleCounts(ctx)
		if err != nil {
			return fmt.Errorf("counting references: %w", err)
		}

		if len(counts) == 0 {
			fmt.Println("No relationships recorded.")
			return nil
		}

		names := make(map[string]string, len(counts))
		for id := range counts {
			if ch, err := d.Characters.HandleGet(ctx, id); err == nil {
				names[id] = ch.Name
			} else {
				names[id] = id
			}
		}

		ids := make([]string, 0, len(counts))
		for id := range counts {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool {
			if counts[ids[i]] != counts[ids[j]] {
				return counts[ids[i]] > counts[ids[j]]
			}
			return names[ids[i]] < names[ids[j]]
		})

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CHARACTER\tREFERENCES")
		for _, id := range ids {
			fmt.Fprintf(w, "%s\t%d\n", names[id], counts[id])
		}
		w.Flush()

		return nil
	})
}

func printBreakdown(title string, breakdown map[string]int) {
	if len(breakdown) == 0 {
		return
	}

	keys := make([]string, 0, len(breakdown))
	for k := range breakdown {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("\n%s:\n", title)
	for _, k := range keys {
		fmt.Printf("  %-20s %d\n", k, breakdown[k])
	}
}
