package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/castletown/compendium/internal/domain/services"
)

func newRelateCmd() *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "relate <source> <types> <target>",
		Short: "Record how one character feels about another",
		Long: `Records a directed relationship from one character toward another.
The record states only the source's side; the counterpart's own feelings
live in a separate record authored from their side.

Types is a comma-separated list ordered by display priority:
  lover, family, friend, ally, rival, enemy, respect, curiosity, distrust, neutral

Examples:
  compendium relate Malon family Talon --user user-1
  compendium relate Link "rival,respect" Revali --note "They push each other" --user user-2`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			return runRelate(cmd, args, note)
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Free-text note (max 1000 characters)")

	cmd.AddCommand(newRelateUpdateCmd())
	cmd.AddCommand(newRelateDeleteCmd())

	return cmd
}

func runRelate(cmd *cobra.Command, args []string, note string) error {
	ctx := cmd.Context()
	source, types, target := args[0], splitTypes(args[1]), args[2]

	return withStoreDeps(func(d *Deps) error {
		sourceChar, err := d.Characters.HandleResolve(ctx, source)
		if err != nil {
			return fmt.Errorf("finding source character: %w", err)
		}
		targetChar, err := d.Characters.HandleResolve(ctx, target)
		if err != nil {
			return fmt.Errorf("finding target character: %w", err)
		}

		rel, err := d.Relationships.HandleCreate(ctx, services.CreateRelationshipInput{
			OwnerUserID: globalUser,
			SourceID:    sourceChar.ID,
			TargetID:    targetChar.ID,
			Types:       types,
			Note:        note,
		})
		if err != nil {
			return fmt.Errorf("creating relationship: %w", err)
		}

		fmt.Printf("Recorded relationship: %s\n", rel.ID)
		fmt.Printf("  %s -[%s]-> %s\n", sourceChar.Name, joinTypes(rel.Types), targetChar.Name)
		if rel.Note != "" {
			fmt.Printf("  Note: %s\n", rel.Note)
		}

		return nil
	})
}

func newRelateUpdateCmd() *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "update <relationship-id> <types>",
		Short: "Replace a record's tags and note",
		Long:  "Replaces the type tags and note on an existing record. Only the author can update it.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			return runRelateUpdate(cmd, args[0], splitTypes(args[1]), note)
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Free-text note (max 1000 characters)")

	return cmd
}

func runRelateUpdate(cmd *cobra.Command, relID string, types []string, note string) error {
	ctx := cmd.Context()

	return withStoreDeps(func(d *Deps) error {
		rel, err := d.Relationships.HandleUpdate(ctx, relID, globalUser, types, note)
		if err != nil {
			return fmt.Errorf("updating relationship: %w", err)
		}

		fmt.Printf("Updated relationship: %s [%s]\n", rel.ID, joinTypes(rel.Types))
		return nil
	})
}

func newRelateDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <relationship-id>",
		Short: "Delete a relationship record",
		Long:  "Deletes an existing record by its ID. Only the author can delete it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			return runRelateDelete(cmd, args[0])
		},
	}
}

func runRelateDelete(cmd *cobra.Command, relID string) error {
	ctx := cmd.Context()

	return withStoreDeps(func(d *Deps) error {
		if err := d.Relationships.HandleDelete(ctx, relID, globalUser); err != nil {
			return fmt.Errorf("deleting relationship: %w", err)
		}

		fmt.Printf("Deleted relationship: %s\n", relID)
		return nil
	})
}

func splitTypes(arg string) []string {
	parts := strings.Split(arg, ",")
	types := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			types = append(types, trimmed)
		}
	}
	return types
}
