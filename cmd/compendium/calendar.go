package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/castletown/compendium/internal/application/handlers"
	"github.com/castletown/compendium/internal/domain/entities"
	"github.com/castletown/compendium/internal/domain/services"
)

func newCalendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Look up the in-world calendar",
		Long:  "Shows today's Hyrulean date, converts real-world dates, and lists the in-world months.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalendarToday()
		},
	}

	cmd.AddCommand(newCalendarTodayCmd())
	cmd.AddCommand(newCalendarConvertCmd())
	cmd.AddCommand(newCalendarMonthsCmd())

	return cmd
}

// calendarHandler needs no configuration or storage.
func calendarHandler() *handlers.CalendarHandler {
	return handlers.NewCalendarHandler(services.NewCalendarService())
}

func newCalendarTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's Hyrulean date",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalendarToday()
		},
	}
}

func runCalendarToday() error {
	displayDate(calendarHandler().HandleToday())
	return nil
}

func newCalendarConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <date>",
		Short: "Convert a real-world date (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalendarConvert(args[0])
		},
	}
}

func runCalendarConvert(date string) error {
	converted, err := calendarHandler().HandleConvert(date)
	if err != nil {
		return err
	}
	displayDate(converted)
	return nil
}

func newCalendarMonthsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "months",
		Short: "List the in-world months",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalendarMonths()
		},
	}
}

func runCalendarMonths() error {
	for i, month := range calendarHandler().HandleMonths() {
		fmt.Printf("%2d. %s\n", i+1, month)
	}
	return nil
}

func displayDate(d entities.HyruleanDate) {
	fmt.Printf("%s %d, Year %d %s\n", d.Month, d.Day, d.Year, d.Era)
	fmt.Printf("Moon: %s %s\n", d.Moon.Icon, d.Moon.Name)
	if d.BloodMoon {
		fmt.Println("The Blood Moon rises tonight!")
	}
}
