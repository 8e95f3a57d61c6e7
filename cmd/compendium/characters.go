package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/castletown/compendium/internal/domain/entities"
	"github.com/castletown/compendium/internal/domain/services"
)

func newCharactersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "characters",
		Short: "Manage the character roster",
		Long:  "List, add, inspect, and remove roster characters.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCharactersList(cmd, DefaultListLimit, 0)
		},
	}

	cmd.AddCommand(newCharactersListCmd())
	cmd.AddCommand(newCharactersAddCmd())
	cmd.AddCommand(newCharactersShowCmd())
	cmd.AddCommand(newCharactersSearchCmd())
	cmd.AddCommand(newCharactersDeleteCmd())

	return cmd
}

func newCharactersListCmd() *cobra.Command {
	var (
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List roster characters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCharactersList(cmd, limit, offset)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultListLimit, "Maximum number of characters to display")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of characters to skip")

	return cmd
}

func runCharactersList(cmd *cobra.Command, limit, offset int) error {
	ctx := cmd.Context()

	return withStoreDeps(func(d *Deps) error {
		result, err := d.Characters.HandleList(ctx, limit, offset)
		if err != nil {
			return fmt.Errorf("listing characters: %w", err)
		}

		if len(result.Characters) == 0 {
			fmt.Println("No characters found.")
			return nil
		}

		fmt.Printf("Showing %d of %d characters:\n\n", len(result.Characters), result.Total)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tRACE\tVILLAGE\tJOB\tOWNER")
		for _, ch := range result.Characters {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", ch.Name, ch.Race, ch.Village, ch.Job, ch.OwnerUserID)
		}
		w.Flush()

		return nil
	})
}

func newCharactersAddCmd() *cobra.Command {
	var (
		race    string
		job     string
		village string
		icon    string
		bio     string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a new character",
		Long: `Registers a character on the roster. Names are unique across the
roster, compared case-insensitively.

Examples:
  compendium characters add Malon --race Hylian --village "Lon Lon Ranch" --user user-1
  compendium characters add "Prince Sidon" --race Zora --job "Crown Prince" --user user-2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			return runCharactersAdd(cmd, services.CreateCharacterInput{
				OwnerUserID: globalUser,
				Name:        args[0],
				Race:        race,
				Job:         job,
				Village:     village,
				Icon:        icon,
				Bio:         bio,
			})
		},
	}

	cmd.Flags().StringVar(&race, "race", "", "Character race (e.g. Hylian, Zora, Goron)")
	cmd.Flags().StringVar(&job, "job", "", "Character occupation")
	cmd.Flags().StringVar(&village, "village", "", "Home village or region")
	cmd.Flags().StringVar(&icon, "icon", "", "Avatar URL")
	cmd.Flags().StringVar(&bio, "bio", "", "Short biography")

	return cmd
}

func runCharactersAdd(cmd *cobra.Command, in services.CreateCharacterInput) error {
	ctx := cmd.Context()

	return withStoreDeps(func(d *Deps) error {
		ch, err := d.Characters.HandleCreate(ctx, in)
		if err != nil {
			return fmt.Errorf("creating character: %w", err)
		}

		fmt.Printf("Registered character: %s (%s)\n", ch.Name, ch.ID)
		return nil
	})
}

func newCharactersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id-or-name>",
		Short: "Show a character's profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCharactersShow(cmd, args[0])
		},
	}
}

func runCharactersShow(cmd *cobra.Command, idOrName string) error {
	ctx := cmd.Context()

	return withStoreDeps(func(d *Deps) error {
		ch, err := d.Characters.HandleResolve(ctx, idOrName)
		if err != nil {
			return fmt.Errorf("finding character: %w", err)
		}

		displayCharacter(ch)
		return nil
	})
}

func displayCharacter(ch *entities.Character) {
	fmt.Printf("Name:    %s\n", ch.Name)
	fmt.Printf("ID:      %s\n", ch.ID)
	fmt.Printf("Owner:   %s\n", ch.OwnerUserID)
	if ch.Race != "" {
		fmt.Printf("Race:    %s\n", ch.Race)
	}
	if ch.Job != "" {
		fmt.Printf("Job:     %s\n", ch.Job)
	}
	if ch.Village != "" {
		fmt.Printf("Village: %s\n", ch.Village)
	}
	if ch.Bio != "" {
		fmt.Printf("Bio:     %s\n", ch.Bio)
	}
	fmt.Printf("Created: %s\n", ch.CreatedAt.Format("2006-01-02 15:04:05"))
}

func newCharactersSearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the roster by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCharactersSearch(cmd, args[0], limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of results")

	return cmd
}

func runCharactersSearch(cmd *cobra.Command, query string, limit int) error {
	ctx := cmd.Context()

	return withStoreDeps(func(d *Deps) error {
		chars, err := d.Characters.HandleSearch(ctx, query, limit)
		if err != nil {
			return fmt.Errorf("searching characters: %w", err)
		}

		if len(chars) == 0 {
			fmt.Printf("No characters matching %q.\n", query)
			return nil
		}

		for _, ch := range chars {
			fmt.Printf("%s (%s)\n", ch.Name, ch.ID)
		}
		return nil
	})
}

func newCharactersDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id-or-name>",
		Short: "Remove a character and its relationship records",
		Long:  "Removes a character from the roster. Only the owner can delete a character. Relationship records authored by others keep their snapshot of the deleted character.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			return runCharactersDelete(cmd, args[0], force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func runCharactersDelete(cmd *cobra.Command, idOrName string, force bool) error {
	ctx := cmd.Context()

	return withStoreDeps(func(d *Deps) error {
		ch, err := d.Characters.HandleResolve(ctx, idOrName)
		if err != nil {
			return fmt.Errorf("finding character: %w", err)
		}

		if !force && !confirmAction(fmt.Sprintf("Delete %s and their relationship records?", ch.Name)) {
			fmt.Println("Cancelled.")
			return nil
		}

		if err := d.Characters.HandleDelete(ctx, ch.ID, globalUser); err != nil {
			return fmt.Errorf("deleting character: %w", err)
		}

		fmt.Printf("Deleted character: %s\n", ch.Name)
		return nil
	})
}

func confirmAction(prompt string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("%s [y/N]: ", prompt)
	response, _ := reader.ReadString('\n') // Error ignored: EOF/error treated as "no"
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
