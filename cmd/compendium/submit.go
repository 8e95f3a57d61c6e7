package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/castletown/compendium/internal/domain/services"
)

func newSubmitCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "submit <title> <body>",
		Short: "Submit a quest idea or suggestion",
		Long: `Submits a quest idea or community suggestion. The text is embedded
and indexed so moderators and the dashboard can surface near-duplicates.

Examples:
  compendium submit "The lost cucco flock" "Round up the cuccos before nightfall." --user user-1
  compendium submit "More market stalls" "The plaza feels empty on festival days." --kind suggestion --user user-2`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			return runSubmit(cmd, kind, args[0], args[1])
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "quest", "Submission kind (quest, suggestion)")

	return cmd
}

func runSubmit(cmd *cobra.Command, kind, title, body string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		result, err := d.Submissions.HandleSubmit(ctx, services.SubmitInput{
			Kind:         kind,
			AuthorUserID: globalUser,
			Title:        title,
			Body:         body,
		})
		if err != nil {
			return fmt.Errorf("submitting: %w", err)
		}

		fmt.Printf("Submitted %s: %s (%s)\n", result.Submission.Kind, result.Submission.Title, result.Submission.ID)

		if len(result.Similar) > 0 {
			fmt.Println("\nSimilar submissions already on file:")
			for _, s := range result.Similar {
				fmt.Printf("  %.2f  %s (%s)\n", s.Score, s.Submission.Title, s.Submission.ID)
			}
		}

		return nil
	})
}
