package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vonshlovens/fretlog/internal/config"
	"github.com/vonshlovens/fretlog/internal/mirror"
	"github.com/vonshlovens/fretlog/internal/model"
	"github.com/vonshlovens/fretlog/internal/status"
	"github.com/vonshlovens/fretlog/internal/storage"
	"github.com/vonshlovens/fretlog/internal/store"
)

var (
	cfgFile string
	verbose bool
	yes     bool
	version = "dev"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "fretlog",
		Short:   "Guitar collection and maintenance tracker",
		Long:    `Tracks a personal guitar collection and its maintenance history, with local JSON storage and an optional PostgreSQL mirror.`,
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompts")

	rootCmd.AddCommand(
		listCmd(),
		showCmd(),
		addCmd(),
		updateCmd(),
		rmCmd(),
		logCmd(),
		exportCmd(),
		importCmd(),
		backupsCmd(),
		seedCmd(),
		clearCmd(),
		watchCmd(),
		statusCmd(),
		migrateCmd(),
		pushCmd(),
		pullCmd(),
		initCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles the wired-up store and its collaborators for one command run
type app struct {
	cfg    *config.Config
	local  *storage.FileStore
	mirror *mirror.Mirror
	store  *store.Store
}

// openApp loads config, connects the mirror when configured, and runs
// the initial load chain. A mirror connection failure downgrades to
// local-only operation with a warning.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	dataDir, err := cfg.EnsureDataDir()
	if err != nil {
		return nil, err
	}

	local := storage.NewFileStore(dataDir)

	var m *mirror.Mirror
	var remote store.Remote
	if cfg.MirrorEnabled() {
		m, err = mirror.New(ctx, &cfg.Database)
		if err != nil {
			slog.Warn("mirror unavailable, continuing local-only", "error", err)
			m = nil
		} else {
			remote = m
		}
	}

	st := store.New(local, remote)
	st.Load(ctx)

	return &app{cfg: cfg, local: local, mirror: m, store: st}, nil
}

// close drains in-flight mirror updates and releases the pool
func (a *app) close() {
	a.store.Close(5 * time.Second)
	if a.mirror != nil {
		a.mirror.Close()
	}
}

// findGuitar resolves a guitar by exact id, falling back to a unique prefix
func findGuitar(state model.AppState, id string) (model.Guitar, bool) {
	for _, g := range state.Guitars {
		if g.ID == id {
			return g, true
		}
	}

	var match model.Guitar
	count := 0
	for _, g := range state.Guitars {
		if strings.HasPrefix(g.ID, id) {
			match = g
			count++
		}
	}
	if count == 1 {
		return match, true
	}
	return model.Guitar{}, false
}

// findLog resolves a maintenance log by exact id or unique prefix
func findLog(state model.AppState, id string) (model.MaintenanceLog, bool) {
	for _, l := range state.MaintenanceLogs {
		if l.ID == id {
			return l, true
		}
	}

	var match model.MaintenanceLog
	count := 0
	for _, l := range state.MaintenanceLogs {
		if strings.HasPrefix(l.ID, id) {
			match = l
			count++
		}
	}
	if count == 1 {
		return match, true
	}
	return model.MaintenanceLog{}, false
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Format("2006-01-02")
}

// renderList prints the dashboard table with colored status badges
func renderList(state model.AppState) {
	if len(state.Guitars) == 0 {
		fmt.Println("No guitars in the collection. Add one with: fretlog add")
		return
	}

	fmt.Printf("%-10s %-12s %-20s %-12s %6s  %s\n",
		"ID", "MAKER", "MODEL", "LAST MAINT", "DAYS", "STATUS")

	for _, g := range state.Guitars {
		s := status.Calculate(g, state.MaintenanceLogs)
		fmt.Printf("%-10s %-12s %-20s %-12s %6d  %s\n",
			shortID(g.ID), g.Maker, g.Model,
			formatDate(s.LastMaintenanceDate),
			s.DaysSinceMaintenance,
			status.Render(s.Status))
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the collection with maintenance status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			renderList(app.store.State())
			return nil
		},
	}
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <guitar-id>",
		Short: "Show one guitar and its maintenance history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			state := app.store.State()
			g, ok := findGuitar(state, args[0])
			if !ok {
				return fmt.Errorf("no guitar with id %q", args[0])
			}

			s := status.Calculate(g, state.MaintenanceLogs)
			fmt.Printf("%s %s\n", g.Maker, g.Model)
			fmt.Printf("  ID:      %s\n", g.ID)
			fmt.Printf("  Strings: %s\n", g.StringSpecs)
			fmt.Printf("  Status:  %s (%d days since maintenance)\n",
				status.Render(s.Status), s.DaysSinceMaintenance)
			fmt.Printf("  Added:   %s\n", g.CreatedAt.Format("2006-01-02"))
			fmt.Println()

			fmt.Println("Maintenance history:")
			found := false
			for _, l := range state.MaintenanceLogs {
				if l.GuitarID != g.ID {
					continue
				}
				found = true
				fmt.Printf("  %s  %-10s %-24s %s\n",
					l.MaintenanceDate.Format("2006-01-02"),
					shortID(l.ID), l.TypeOfWork, l.Notes)
			}
			if !found {
				fmt.Println("  (none)")
			}

			return nil
		},
	}
}

func addCmd() *cobra.Command {
	var maker, guitarModel, stringSpecs string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a guitar to the collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			g := model.NewGuitar(maker, guitarModel, stringSpecs)
			if err := g.Validate(); err != nil {
				return fmt.Errorf("maker and model are required: %w", err)
			}

			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			app.store.Dispatch(store.AddGuitar{Guitar: g})
			fmt.Printf("Added %s %s (id %s)\n", g.Maker, g.Model, shortID(g.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&maker, "maker", "", "guitar maker (required)")
	cmd.Flags().StringVar(&guitarModel, "model", "", "guitar model (required)")
	cmd.Flags().StringVar(&stringSpecs, "strings", "", "string specs")
	cmd.MarkFlagRequired("maker")
	cmd.MarkFlagRequired("model")

	return cmd
}

func updateCmd() *cobra.Command {
	var maker, guitarModel, stringSpecs string

	cmd := &cobra.Command{
		Use:   "update <guitar-id>",
		Short: "Update a guitar's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			g, ok := findGuitar(app.store.State(), args[0])
			if !ok {
				return fmt.Errorf("no guitar with id %q", args[0])
			}

			if cmd.Flags().Changed("maker") {
				g.Maker = maker
			}
			if cmd.Flags().Changed("model") {
				g.Model = guitarModel
			}
			if cmd.Flags().Changed("strings") {
				g.StringSpecs = stringSpecs
			}
			if err := g.Validate(); err != nil {
				return fmt.Errorf("maker and model must not be empty: %w", err)
			}

			// updatedAt never moves backwards, even across clock skew
			if now := time.Now(); now.After(g.UpdatedAt) {
				g.UpdatedAt = now
			}

			app.store.Dispatch(store.UpdateGuitar{Guitar: g})
			fmt.Printf("Updated %s %s\n", g.Maker, g.Model)
			return nil
		},
	}

	cmd.Flags().StringVar(&maker, "maker", "", "guitar maker")
	cmd.Flags().StringVar(&guitarModel, "model", "", "guitar model")
	cmd.Flags().StringVar(&stringSpecs, "strings", "", "string specs")

	return cmd
}

func rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <guitar-id>",
		Short: "Delete a guitar and all its maintenance logs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			g, ok := findGuitar(app.store.State(), args[0])
			if !ok {
				return fmt.Errorf("no guitar with id %q", args[0])
			}

			if !confirm(fmt.Sprintf("Delete %s %s and all its maintenance logs?", g.Maker, g.Model)) {
				fmt.Println("Aborted.")
				return nil
			}

			app.store.Dispatch(store.DeleteGuitar{ID: g.ID})
			fmt.Printf("Deleted %s %s\n", g.Maker, g.Model)
			return nil
		},
	}
}
