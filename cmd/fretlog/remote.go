package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vonshlovens/fretlog/internal/config"
	"github.com/vonshlovens/fretlog/internal/mirror"
	"github.com/vonshlovens/fretlog/internal/storage"
)

func loadConfigOnly() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show local data and mirror connection status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cfg, err := loadConfigOnly()
			if err != nil {
				return err
			}

			local := storage.NewFileStore(cfg.DataDir)
			state := local.Load()

			fmt.Println("=== Fretlog Status ===")
			fmt.Printf("State File: %s\n", local.Path())
			fmt.Printf("  Guitars: %d\n", len(state.Guitars))
			fmt.Printf("  Maintenance Logs: %d\n", len(state.MaintenanceLogs))
			fmt.Println()

			if !cfg.MirrorEnabled() {
				fmt.Println("Mirror: not configured")
				return nil
			}

			m, err := mirror.New(ctx, &cfg.Database)
			if err != nil {
				fmt.Printf("Mirror: Disconnected\n")
				fmt.Printf("Error: %v\n", err)
				return nil
			}
			defer m.Close()

			mirrorStatus, err := m.GetStatus(ctx)
			if err != nil {
				return fmt.Errorf("failed to get mirror status: %w", err)
			}

			fmt.Printf("Mirror: Connected\n")
			fmt.Printf("  Host: %s\n", cfg.Database.Host)
			fmt.Printf("  Database: %s\n", cfg.Database.Database)
			fmt.Printf("  Guitars: %d\n", mirrorStatus.TotalGuitars)
			fmt.Printf("  Maintenance Logs: %d\n", mirrorStatus.TotalLogs)
			if mirrorStatus.LastCreated != nil {
				fmt.Printf("  Last Record: %s\n", mirrorStatus.LastCreated.Format(time.RFC3339))
			}

			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run mirror database migrations",
	}

	migrationsDir := ""
	cmd.Flags().StringVar(&migrationsDir, "dir", "migrations", "migrations directory")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := loadConfigOnly()
		if err != nil {
			return err
		}
		if !cfg.MirrorEnabled() {
			return fmt.Errorf("no mirror configured; set database.host in the config")
		}

		m, err := mirror.New(ctx, &cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to mirror: %w", err)
		}
		defer m.Close()

		// Resolve migrations directory
		if !filepath.IsAbs(migrationsDir) {
			exe, _ := os.Executable()
			exeDir := filepath.Dir(exe)
			if _, err := os.Stat(filepath.Join(exeDir, migrationsDir)); err == nil {
				migrationsDir = filepath.Join(exeDir, migrationsDir)
			} else {
				cwd, _ := os.Getwd()
				migrationsDir = filepath.Join(cwd, migrationsDir)
			}
		}

		if err := m.RunMigrations(ctx, migrationsDir); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		fmt.Println("Migrations completed successfully.")
		return nil
	}

	return cmd
}

func pushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Upload all local data to the mirror",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cfg, err := loadConfigOnly()
			if err != nil {
				return err
			}
			if !cfg.MirrorEnabled() {
				return fmt.Errorf("no mirror configured; set database.host in the config")
			}

			m, err := mirror.New(ctx, &cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to mirror: %w", err)
			}
			defer m.Close()

			local := storage.NewFileStore(cfg.DataDir)
			state := local.Load()

			if err := m.PushState(ctx, state); err != nil {
				return fmt.Errorf("push failed: %w", err)
			}

			fmt.Printf("Pushed %d guitars and %d logs.\n",
				len(state.Guitars), len(state.MaintenanceLogs))
			return nil
		},
	}
}

func pullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Replace local data with the mirror's contents",
		Long:  `Downloads all guitars and maintenance logs from the mirror and replaces the local state file. Use this to set up a new device with existing data.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cfg, err := loadConfigOnly()
			if err != nil {
				return err
			}
			if !cfg.MirrorEnabled() {
				return fmt.Errorf("no mirror configured; set database.host in the config")
			}

			m, err := mirror.New(ctx, &cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to mirror: %w", err)
			}
			defer m.Close()

			state, err := m.FetchState(ctx)
			if err != nil {
				return fmt.Errorf("pull failed: %w", err)
			}

			if !confirm(fmt.Sprintf("Replace local data with %d guitars and %d logs from the mirror?",
				len(state.Guitars), len(state.MaintenanceLogs))) {
				fmt.Println("Aborted.")
				return nil
			}

			if _, err := cfg.EnsureDataDir(); err != nil {
				return err
			}
			local := storage.NewFileStore(cfg.DataDir)
			if err := local.Save(state); err != nil {
				return err
			}

			fmt.Println("Pull completed successfully.")
			return nil
		},
	}
}

// configFileContent mirrors the YAML layout of Config for the init command
type configFileContent struct {
	DataDir  string `yaml:"data_dir,omitempty"`
	Database struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Database string `yaml:"database"`
		Schema   string `yaml:"schema,omitempty"`
		SSLMode  string `yaml:"sslmode"`
	} `yaml:"database,omitempty"`
	Watch struct {
		DebounceMs int `yaml:"debounce_ms"`
	} `yaml:"watch"`
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Interactive setup to create a config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(os.Stdin)

			fmt.Println("=== Fretlog Setup ===")
			fmt.Println()

			content := configFileContent{}
			content.Watch.DebounceMs = 500

			fmt.Printf("Data directory [%s]: ", config.GetConfigDir())
			dataDir, _ := reader.ReadString('\n')
			content.DataDir = strings.TrimSpace(dataDir)

			fmt.Print("\nMirror to a PostgreSQL database? [y/N]: ")
			useMirror, _ := reader.ReadString('\n')
			password := ""

			if answer := strings.ToLower(strings.TrimSpace(useMirror)); answer == "y" || answer == "yes" {
				fmt.Println("\nDatabase Configuration:")
				fmt.Print("  Host: ")
				host, _ := reader.ReadString('\n')
				content.Database.Host = strings.TrimSpace(host)

				fmt.Print("  Port [5432]: ")
				portStr, _ := reader.ReadString('\n')
				portStr = strings.TrimSpace(portStr)
				if portStr == "" {
					portStr = "5432"
				}
				port, err := strconv.Atoi(portStr)
				if err != nil {
					return fmt.Errorf("invalid port: %w", err)
				}
				content.Database.Port = port

				fmt.Print("  User: ")
				user, _ := reader.ReadString('\n')
				content.Database.User = strings.TrimSpace(user)

				fmt.Print("  Password: ")
				pw, _ := reader.ReadString('\n')
				password = strings.TrimSpace(pw)
				content.Database.Password = "${FRETLOG_DB_PASSWORD}"

				fmt.Print("  Database name: ")
				dbName, _ := reader.ReadString('\n')
				content.Database.Database = strings.TrimSpace(dbName)
				if content.Database.Database == "" {
					return fmt.Errorf("database name is required")
				}

				fmt.Print("  Schema (optional): ")
				schema, _ := reader.ReadString('\n')
				content.Database.Schema = strings.TrimSpace(schema)

				fmt.Print("  SSL mode [require]: ")
				sslMode, _ := reader.ReadString('\n')
				content.Database.SSLMode = strings.TrimSpace(sslMode)
				if content.Database.SSLMode == "" {
					content.Database.SSLMode = "require"
				}
			}

			data, err := yaml.Marshal(&content)
			if err != nil {
				return fmt.Errorf("failed to render config: %w", err)
			}

			configDir := config.GetConfigDir()
			if err := os.MkdirAll(configDir, 0755); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}
			configPath := filepath.Join(configDir, "config.yaml")

			if err := os.WriteFile(configPath, data, 0600); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			fmt.Printf("\nConfig file written to: %s\n", configPath)
			if content.Database.Host != "" {
				fmt.Printf("\nIMPORTANT: Set the FRETLOG_DB_PASSWORD environment variable:\n")
				fmt.Printf("  export FRETLOG_DB_PASSWORD='%s'\n", password)
				fmt.Println("\nTo test the connection, run: fretlog status")
				fmt.Println("To create the tables, run: fretlog migrate")
			}
			fmt.Println("To see your collection, run: fretlog list")

			return nil
		},
	}
}
