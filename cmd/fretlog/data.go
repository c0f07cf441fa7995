package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vonshlovens/fretlog/internal/model"
	"github.com/vonshlovens/fretlog/internal/storage"
	"github.com/vonshlovens/fretlog/internal/store"
	"github.com/vonshlovens/fretlog/internal/watcher"
)

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Export all data to a JSON backup file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				if err := os.MkdirAll(app.cfg.BackupDir, 0755); err != nil {
					return fmt.Errorf("failed to create backup directory: %w", err)
				}
				path = filepath.Join(app.cfg.BackupDir, storage.ExportFileName(time.Now()))
			}

			if err := storage.Export(app.store.State(), path); err != nil {
				return err
			}

			fmt.Printf("Exported to %s\n", path)
			return nil
		},
	}
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [path]",
		Short: "Replace all data from a backup file",
		Long:  `Replaces the entire collection with the contents of a previously exported backup file. Without a path, the most recent backup in the backup directory is used.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				backups, err := storage.ListBackups(app.cfg.BackupDir)
				if err != nil {
					return err
				}
				if len(backups) == 0 {
					return fmt.Errorf("no backup files found in %s", app.cfg.BackupDir)
				}
				path = filepath.Join(app.cfg.BackupDir, backups[len(backups)-1])
			}

			imported, err := storage.Import(path)
			if err != nil {
				return err
			}

			if !confirm(fmt.Sprintf("Replace all existing data with %d guitars and %d logs from %s?",
				len(imported.Guitars), len(imported.MaintenanceLogs), filepath.Base(path))) {
				fmt.Println("Aborted.")
				return nil
			}

			app.store.Dispatch(store.LoadState{State: imported})
			fmt.Println("Data imported successfully.")
			return nil
		},
	}
}

func backupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backups",
		Short: "List backup files in the backup directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigOnly()
			if err != nil {
				return err
			}

			backups, err := storage.ListBackups(cfg.BackupDir)
			if err != nil {
				return err
			}

			if len(backups) == 0 {
				fmt.Printf("No backups in %s\n", cfg.BackupDir)
				return nil
			}

			for _, name := range backups {
				fmt.Println(name)
			}
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace all data with the built-in sample collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			if !confirm("Replace all existing data with the sample collection?") {
				fmt.Println("Aborted.")
				return nil
			}

			app.store.Dispatch(store.LoadState{State: store.SeedState()})
			fmt.Println("Sample data loaded.")
			return nil
		},
	}
}

func clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all local data",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			if !confirm("Clear all guitars and maintenance logs? This cannot be undone.") {
				fmt.Println("Aborted.")
				return nil
			}

			app.store.Dispatch(store.LoadState{State: model.AppState{
				Guitars:         []model.Guitar{},
				MaintenanceLogs: []model.MaintenanceLog{},
			}})
			fmt.Println("All data cleared.")
			return nil
		},
	}
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Live dashboard that re-renders when the state file changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			app, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			renderList(app.store.State())

			w, err := watcher.New(app.local.Path(), app.cfg.Watch.DebounceMs)
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}
			if err := w.Start(ctx); err != nil {
				return fmt.Errorf("failed to start watcher: %w", err)
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			fmt.Println("\nWatching for changes. Press Ctrl+C to stop.")

			for {
				select {
				case <-sigCh:
					w.Stop()
					return nil

				case <-w.Events():
					fmt.Println()
					renderList(app.local.Load())
				}
			}
		},
	}
}
