package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vonshlovens/fretlog/internal/model"
	"github.com/vonshlovens/fretlog/internal/store"
)

// confirm asks the user for a yes/no answer, honoring the --yes flag
func confirm(prompt string) bool {
	if yes {
		return true
	}

	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// parseMaintenanceDate accepts YYYY-MM-DD, defaulting to today. The
// date is user-supplied and may be backdated or future-dated.
func parseMaintenanceDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

func logCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Manage maintenance logs",
	}

	cmd.AddCommand(
		logAddCmd(),
		logUpdateCmd(),
		logRmCmd(),
	)

	return cmd
}

func logAddCmd() *cobra.Command {
	var date, typeOfWork, notes string

	cmd := &cobra.Command{
		Use:   "add <guitar-id>",
		Short: "Record maintenance work on a guitar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			maintDate, err := parseMaintenanceDate(date)
			if err != nil {
				return err
			}

			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			g, ok := findGuitar(app.store.State(), args[0])
			if !ok {
				return fmt.Errorf("no guitar with id %q", args[0])
			}

			l := model.NewMaintenanceLog(g.ID, maintDate, typeOfWork, notes)
			if err := l.Validate(); err != nil {
				return fmt.Errorf("type of work is required: %w", err)
			}

			app.store.Dispatch(store.AddLog{Log: l})
			fmt.Printf("Logged %q for %s %s on %s\n",
				l.TypeOfWork, g.Maker, g.Model, l.MaintenanceDate.Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "maintenance date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&typeOfWork, "type", "", "type of work performed (required)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.MarkFlagRequired("type")

	return cmd
}

func logUpdateCmd() *cobra.Command {
	var date, typeOfWork, notes string

	cmd := &cobra.Command{
		Use:   "update <log-id>",
		Short: "Update a maintenance log entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			l, ok := findLog(app.store.State(), args[0])
			if !ok {
				return fmt.Errorf("no maintenance log with id %q", args[0])
			}

			// id and guitarId stay fixed; everything else is re-writable
			if cmd.Flags().Changed("date") {
				maintDate, err := parseMaintenanceDate(date)
				if err != nil {
					return err
				}
				l.MaintenanceDate = maintDate
			}
			if cmd.Flags().Changed("type") {
				l.TypeOfWork = typeOfWork
			}
			if cmd.Flags().Changed("notes") {
				l.Notes = notes
			}
			if err := l.Validate(); err != nil {
				return fmt.Errorf("type of work must not be empty: %w", err)
			}

			app.store.Dispatch(store.UpdateLog{Log: l})
			fmt.Printf("Updated log %s\n", shortID(l.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "maintenance date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&typeOfWork, "type", "", "type of work performed")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")

	return cmd
}

func logRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <log-id>",
		Short: "Delete a maintenance log entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			l, ok := findLog(app.store.State(), args[0])
			if !ok {
				return fmt.Errorf("no maintenance log with id %q", args[0])
			}

			if !confirm(fmt.Sprintf("Delete the %q log from %s?",
				l.TypeOfWork, l.MaintenanceDate.Format("2006-01-02"))) {
				fmt.Println("Aborted.")
				return nil
			}

			app.store.Dispatch(store.DeleteLog{ID: l.ID})
			fmt.Printf("Deleted log %s\n", shortID(l.ID))
			return nil
		},
	}
}
