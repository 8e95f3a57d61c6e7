package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/castletown/compendium/internal/domain/entities"
)

func newSubmissionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submissions",
		Short: "Browse and moderate submissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmissionsList(cmd, "", "", DefaultListLimit, 0)
		},
	}

	cmd.AddCommand(newSubmissionsListCmd())
	cmd.AddCommand(newSubmissionsShowCmd())
	cmd.AddCommand(newSubmissionsSimilarCmd())
	cmd.AddCommand(newSubmissionsModerateCmd())

	return cmd
}

func newSubmissionsListCmd() *cobra.Command {
	var (
		kind   string
		status string
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List submissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmissionsList(cmd, kind, status, limit, offset)
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Filter by kind (quest, suggestion)")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Filter by status (pending, approved, rejected)")
	cmd.Flags().IntVarP(&limit, "limit", "l", DefaultListLimit, "Maximum number of submissions to display")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of submissions to skip")

	return cmd
}

func runSubmissionsList(cmd *cobra.Command, kind, status string, limit, offset int) error {
	ctx := cmd.Context()

	return withStoreDeps(func(d *Deps) error {
		subs, err := d.Submissions.HandleList(ctx, kind, status, limit, offset)
		if err != nil {
			return fmt.Errorf("listing submissions: %w", err)
		}

		if len(subs) == 0 {
			fmt.Println("No submissions found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tKIND\tSTATUS\tTITLE\tAUTHOR")
		for _, sub := range subs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", sub.ID, sub.Kind, sub.Status, truncate(sub.Title, 40), sub.AuthorUserID)
		}
		w.Flush()

		return nil
	})
}

func newSubmissionsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmissionsShow(cmd, args[0])
		},
	}
}

func runSubmissionsShow(cmd *cobra.Command, id string) error {
	ctx := cmd.Context()

	return withStoreDeps(func(d *Deps) error {
		sub, err := d.Submissions.HandleGet(ctx, id)
		if err != nil {
			return fmt.Errorf("finding submission: %w", err)
		}

		displaySubmission(sub)
		return nil
	})
}

func displaySubmission(sub *entities.Submission) {
	fmt.Printf("Title:   %s\n", sub.Title)
	fmt.Printf("ID:      %s\n", sub.ID)
	fmt.Printf("Kind:    %s\n", sub.Kind)
	fmt.Printf("Status:  %s\n", sub.Status)
	fmt.Printf("Author:  %s\n", sub.AuthorUserID)
	fmt.Printf("Created: %s\n", sub.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("\n%s\n", sub.Body)
}

func newSubmissionsSimilarCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "similar <id>",
		Short: "Find submissions similar to the given one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmissionsSimilar(cmd, args[0], limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 5, "Maximum number of results")

	return cmd
}

func runSubmissionsSimilar(cmd *cobra.Command, id string, limit int) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		similar, err := d.Submissions.HandleSimilar(ctx, id, limit)
		if err != nil {
			return fmt.Errorf("searching similar submissions: %w", err)
		}

		if len(similar) == 0 {
			fmt.Println("No similar submissions found.")
			return nil
		}

		for _, s := range similar {
			fmt.Printf("%.2f  %s [%s] (%s)\n", s.Score, s.Submission.Title, s.Submission.Status, s.Submission.ID)
		}

		return nil
	})
}

func newSubmissionsModerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "moderate <id> <status>",
		Short: "Approve or reject a submission",
		Long:  "Moves a submission to approved or rejected. The decision is recorded in the audit log.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			return runSubmissionsModerate(cmd, args[0], args[1])
		},
	}
}

func runSubmissionsModerate(cmd *cobra.Command, id, status string) error {
	ctx := cmd.Context()

	return withStoreDeps(func(d *Deps) error {
		sub, err := d.Submissions.HandleModerate(ctx, id, status, globalUser)
		if err != nil {
			return fmt.Errorf("moderating submission: %w", err)
		}

		fmt.Printf("Submission %s is now %s\n", sub.ID, sub.Status)
		return nil
	})
}

// truncate shortens a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
