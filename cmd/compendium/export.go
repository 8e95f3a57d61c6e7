package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/castletown/compendium/internal/domain/entities"
)

type exportFlags struct {
	format string
	output string
	limit  int
}

type exporter struct {
	format string
	output string
}

func newExportCmd() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the character roster to file",
		Long:  "Exports roster characters to JSON, CSV, or markdown format.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.format, "format", "f", "json", "Output format (json, csv, markdown)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().IntVarP(&flags.limit, "limit", "l", DefaultExportLimit, "Maximum number of characters to export")

	return cmd
}

func runExport(cmd *cobra.Command, flags exportFlags) error {
	if !contains(validFormats, flags.format) {
		return fmt.Errorf("invalid format %q, valid formats: %v", flags.format, validFormats)
	}

	ctx := cmd.Context()

	return withStoreDeps(func(d *Deps) error {
		e := &exporter{
			format: flags.format,
			output: flags.output,
		}

		result, err := d.Characters.HandleList(ctx, flags.limit, 0)
		if err != nil {
			return fmt.Errorf("listing characters: %w", err)
		}
		if len(result.Characters) == 0 {
			return fmt.Errorf("no characters found to export")
		}

		return e.export(result.Characters)
	})
}

func (e *exporter) export(chars []*entities.Character) (err error) {
	var w io.Writer
	var f *os.File

	if e.output != "" {
		f, err = os.OpenFile(e.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("creating file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing file: %w", cerr)
			}
		}()
		w = f
	} else {
		w = os.Stdout
	}

	if err := e.formatCharacters(w, chars); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if e.output != "" {
		fmt.Printf("Exported %d characters to %s\n", len(chars), e.output)
	}

	return nil
}

func (e *exporter) formatCharacters(w io.Writer, chars []*entities.Character) error {
	switch e.format {
	case "json":
		return formatJSON(w, chars)
	case "csv":
		return formatCSV(w, chars)
	case "markdown":
		return formatMarkdown(w, chars)
	default:
		return fmt.Errorf("unknown format: %s", e.format)
	}
}

func formatJSON(w io.Writer, chars []*entities.Character) error {
	type exportCharacter struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		OwnerUserID string `json:"owner_user_id"`
		Race        string `json:"race,omitempty"`
		Job         string `json:"job,omitempty"`
		Village     string `json:"village,omitempty"`
		Bio         string `json:"bio,omitempty"`
	}

	exportChars := make([]exportCharacter, 0, len(chars))
	for _, ch := range chars {
		exportChars = append(exportChars, exportCharacter{
			ID:          ch.ID,
			Name:        ch.Name,
			OwnerUserID: ch.OwnerUserID,
			Race:        ch.Race,
			Job:         ch.Job,
			Village:     ch.Village,
			Bio:         ch.Bio,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(exportChars)
}

func formatCSV(w io.Writer, chars []*entities.Character) error {
	writer := csv.NewWriter(w)

	header := []string{"id", "name", "owner_user_id", "race", "job", "village", "bio"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, ch := range chars {
		row := []string{
			ch.ID,
			ch.Name,
			ch.OwnerUserID,
			ch.Race,
			ch.Job,
			ch.Village,
			ch.Bio,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatMarkdown(w io.Writer, chars []*entities.Character) error {
	if _, err := fmt.Fprintf(w, "# Character Roster\n\nTotal: %d characters\n\n", len(chars)); err != nil {
		return err
	}

	if _, err := fmt.Fprint(w, "| Name | Race | Village | Job | Owner |\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, "|------|------|---------|-----|-------|\n"); err != nil {
		return err
	}

	for _, ch := range chars {
		if _, err := fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n",
			escapeMarkdown(ch.Name),
			escapeMarkdown(ch.Race),
			escapeMarkdown(ch.Village),
			escapeMarkdown(ch.Job),
			escapeMarkdown(ch.OwnerUserID),
		); err != nil {
			return err
		}
	}

	return nil
}

func escapeMarkdown(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
